package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-service/internal/domain"
	"inventory-service/internal/repository"
)

var _ repository.ProductRepository = (*ProductRepository)(nil)

// ProductRepository stores catalog documents in a JSONB column.
type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) Init(ctx context.Context) error {
	const stmt = `CREATE TABLE IF NOT EXISTS products (
		seq BIGSERIAL,
		id UUID PRIMARY KEY,
		document JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);`
	if _, err := r.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("create products table: %w", err)
	}
	return nil
}

func (r *ProductRepository) CreateMany(ctx context.Context, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	const query = `
		INSERT INTO products (id, document, created_at, updated_at)
		VALUES ($1, $2, $3, $3)`
	now := time.Now().UTC()
	ids := make([]string, len(products))

	batch := &pgx.Batch{}
	for i, product := range products {
		doc, err := encodeDocument(product.Fields)
		if err != nil {
			return fmt.Errorf("product %d: %w", i, err)
		}
		ids[i] = uuid.NewString()
		batch.Queue(query, ids[i], doc, now)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert products: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit product insert: %w", err)
	}

	for i, product := range products {
		product.ID = ids[i]
		product.CreatedAt = now
		product.UpdatedAt = now
	}
	return nil
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	const query = `
		SELECT id::text, document, created_at, updated_at
		FROM products
		WHERE id = $1`
	return scanProduct(r.pool.QueryRow(ctx, query, id))
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	const query = `
		SELECT id::text, document, created_at, updated_at
		FROM products
		ORDER BY seq`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	doc, err := encodeDocument(product.Fields)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	tag, err := r.pool.Exec(ctx, `UPDATE products SET document = $1, updated_at = $2 WHERE id = $3`, doc, now, product.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", product.ID, repository.ErrNotFound)
	}
	product.UpdatedAt = now
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func encodeDocument(fields domain.Document) ([]byte, error) {
	if fields == nil {
		fields = domain.Document{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode product document: %w", err)
	}
	return raw, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		product domain.Product
		doc     []byte
	)
	if err := row.Scan(&product.ID, &doc, &product.CreatedAt, &product.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	if err := json.Unmarshal(doc, &product.Fields); err != nil {
		return nil, fmt.Errorf("decode product document: %w", err)
	}
	if product.Fields == nil {
		product.Fields = domain.Document{}
	}
	return &product, nil
}
