package domain

import (
	"encoding/json"
	"time"
)

// IDField is the document key under which a product identifier is exposed.
const IDField = "_id"

// Document is an open-ended product record. Values are whatever encoding/json
// decodes into: string, float64, bool, nil, []any or map[string]any.
type Document map[string]any

// undefined marks a patch value that must not be applied.
type undefined struct{}

// Undefined can be placed in a patch to leave the existing value untouched.
var Undefined any = undefined{}

// Product is a catalog item with a system generated identifier.
type Product struct {
	ID        string
	Fields    Document
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Merge applies every patch entry onto the product fields except those set
// to Undefined. Falsy values such as "" or 0 are applied. The identifier key
// is never overwritten.
func (p *Product) Merge(patch Document) {
	if p.Fields == nil {
		p.Fields = Document{}
	}
	for key, value := range patch {
		if key == IDField {
			continue
		}
		if _, skip := value.(undefined); skip {
			continue
		}
		p.Fields[key] = value
	}
}

// MarshalJSON renders the product as its fields plus the identifier.
func (p Product) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Fields)+1)
	for key, value := range p.Fields {
		out[key] = value
	}
	out[IDField] = p.ID
	return json.Marshal(out)
}
