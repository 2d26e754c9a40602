package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tuanvumaihuynh/sales-analytics/internal/model"
	"github.com/tuanvumaihuynh/sales-analytics/internal/storage/db"
)

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	CreateProduct(ctx context.Context, product model.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	ListAllProducts(ctx context.Context) ([]model.Product, error)
	// DeleteProduct removes the product and, through the foreign key cascade,
	// every sale referencing it. Returns ErrNotFound for unknown ids.
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) CreateProduct(ctx context.Context, product model.Product) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO products (id, name, price, created_at)
		VALUES (@id, @name, @price, @created_at)
	`, pgx.NamedArgs{
		"id":         product.ID,
		"name":       product.Name,
		"price":      decimalToNumeric(product.Price),
		"created_at": product.CreatedAt,
	}); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

func (r productRepository) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, price, created_at
		FROM products
		WHERE id = @id
	`, pgx.NamedArgs{"id": id})
	if err != nil {
		return model.Product{}, fmt.Errorf("query product: %w", err)
	}

	product, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, ErrNotFound
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("collect product: %w", err)
	}

	return product, nil
}

func (r productRepository) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, price, created_at
		FROM products
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}

	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("collect products: %w", err)
	}

	return products, nil
}

func (r productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanProduct(row pgx.CollectableRow) (model.Product, error) {
	var (
		product   model.Product
		price     pgtype.Numeric
		createdAt time.Time
	)
	if err := row.Scan(&product.ID, &product.Name, &price, &createdAt); err != nil {
		return model.Product{}, err
	}

	p, err := numericToDecimal(price)
	if err != nil {
		return model.Product{}, fmt.Errorf("convert price: %w", err)
	}
	product.Price = p
	product.CreatedAt = createdAt

	return product, nil
}
