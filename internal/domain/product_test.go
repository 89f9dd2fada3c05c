package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	p := Product{ID: "id-1", Fields: Document{"name": "Widget", "price": 9.5, "tags": []any{"a"}}}
	p.Merge(Document{
		"price":   0,
		"name":    Undefined,
		"color":   "",
		"enabled": false,
		IDField:   "other",
	})

	assert.Equal(t, "Widget", p.Fields["name"])
	assert.Equal(t, 0, p.Fields["price"])
	assert.Equal(t, "", p.Fields["color"])
	assert.Equal(t, false, p.Fields["enabled"])
	assert.Equal(t, []any{"a"}, p.Fields["tags"])
	assert.NotContains(t, p.Fields, IDField)
	assert.Equal(t, "id-1", p.ID)
}

func TestMerge_NilFields(t *testing.T) {
	t.Parallel()

	var p Product
	p.Merge(Document{"name": nil})
	require.Contains(t, p.Fields, "name")
	assert.Nil(t, p.Fields["name"])
}

func TestProductMarshalJSON(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(Product{ID: "abc", Fields: Document{"name": "A", "qty": 3}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"abc","name":"A","qty":3}`, string(raw))
}
