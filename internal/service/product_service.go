package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"inventory-service/internal/domain"
	"inventory-service/internal/repository"
	"inventory-service/internal/storage"
)

// ProductService coordinates catalog operations backed by a repository.
type ProductService interface {
	CreateMany(ctx context.Context, items []domain.Document) ([]domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	UpdatePartial(ctx context.Context, id string, patch domain.Document) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	Snapshot(ctx context.Context) (string, error)
	ListSnapshots(ctx context.Context) ([]storage.ObjectInfo, error)
}

type productService struct {
	products  repository.ProductRepository
	snapshots storage.Service
	upload    storage.UploadOptions
	now       func() time.Time
}

// NewProductService wires the catalog. snapshots may be nil, in which case
// snapshot calls return ErrSnapshotsDisabled.
func NewProductService(products repository.ProductRepository, snapshots storage.Service, upload storage.UploadOptions) ProductService {
	return &productService{
		products:  products,
		snapshots: snapshots,
		upload:    upload,
		now:       time.Now,
	}
}

// DecodeBatch parses a bulk create payload. The payload must be a JSON array
// whose elements are all objects.
func DecodeBatch(raw []byte) ([]domain.Document, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil || elems == nil {
		return nil, fmt.Errorf("%w: expected an array of products", ErrValidation)
	}

	items := make([]domain.Document, len(elems))
	for i, elem := range elems {
		var doc domain.Document
		if err := json.Unmarshal(elem, &doc); err != nil || doc == nil {
			return nil, fmt.Errorf("%w: product %d is not an object", ErrValidation, i)
		}
		items[i] = doc
	}
	return items, nil
}

func (s *productService) CreateMany(ctx context.Context, items []domain.Document) ([]domain.Product, error) {
	if items == nil {
		return nil, fmt.Errorf("%w: expected an array of products", ErrValidation)
	}

	batch := make([]*domain.Product, len(items))
	for i, item := range items {
		if item == nil {
			return nil, fmt.Errorf("%w: product %d is not an object", ErrValidation, i)
		}
		product := &domain.Product{Fields: domain.Document{}}
		product.Merge(item)
		batch[i] = product
	}

	if err := s.products.CreateMany(ctx, batch); err != nil {
		return nil, err
	}

	created := make([]domain.Product, len(batch))
	for i := range batch {
		created[i] = *batch[i]
	}
	return created, nil
}

func (s *productService) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *productService) Get(ctx context.Context, id string) (*domain.Product, error) {
	id, err := canonicalID(id)
	if err != nil {
		return nil, err
	}
	product, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return product, nil
}

func (s *productService) UpdatePartial(ctx context.Context, id string, patch domain.Document) (*domain.Product, error) {
	id, err := canonicalID(id)
	if err != nil {
		return nil, err
	}
	product, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, translateNotFound(err)
	}

	product.Merge(patch)
	if err := s.products.Update(ctx, product); err != nil {
		return nil, translateNotFound(err)
	}
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	id, err := canonicalID(id)
	if err != nil {
		return err
	}
	return translateNotFound(s.products.Delete(ctx, id))
}

// Snapshot uploads the whole catalog as a JSON array and returns its location.
func (s *productService) Snapshot(ctx context.Context) (string, error) {
	if s.snapshots == nil {
		return "", ErrSnapshotsDisabled
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(products)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	name := fmt.Sprintf("catalog-%s.json", s.now().UTC().Format("20060102T150405Z"))
	location, err := s.snapshots.UploadObject(ctx, name, bytes.NewReader(body), s.upload)
	if err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}
	return location, nil
}

func (s *productService) ListSnapshots(ctx context.Context) ([]storage.ObjectInfo, error) {
	if s.snapshots == nil {
		return nil, ErrSnapshotsDisabled
	}
	return s.snapshots.ListObjects(ctx, s.upload.Bucket, s.upload.KeyPrefix)
}

// canonicalID validates id and returns it in the form the repositories store.
func canonicalID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", ErrInvalidID
	}
	return parsed.String(), nil
}

func translateNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
