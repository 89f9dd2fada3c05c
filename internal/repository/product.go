package repository

import (
	"context"

	"inventory-service/internal/domain"
)

// ProductRepository exposes persistence operations for catalog documents.
type ProductRepository interface {
	Init(ctx context.Context) error
	// CreateMany stores every product in one batch and fills in their IDs.
	CreateMany(ctx context.Context, products []*domain.Product) error
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
}
