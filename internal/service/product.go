package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/sales-analytics/internal/apperr"
	"github.com/tuanvumaihuynh/sales-analytics/internal/event"
	"github.com/tuanvumaihuynh/sales-analytics/internal/model"
	"github.com/tuanvumaihuynh/sales-analytics/internal/repository"
	"github.com/tuanvumaihuynh/sales-analytics/internal/storage/db"
	"github.com/tuanvumaihuynh/sales-analytics/pkg/validator"
)

type ProductService interface {
	CreateProduct(ctx context.Context, form ProductForm) (model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	ListAllProducts(ctx context.Context) ([]model.Product, error)
	// DeleteProduct removes the product together with its sales.
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	logger        *slog.Logger
	db            db.DB
	validator     validator.Validator
	productRepo   repository.ProductRepository
	outboxMsgRepo repository.OutboxMsgRepository
	listingCache  ListingCache
}

func NewProductService(
	logger *slog.Logger,
	db db.DB,
	validator validator.Validator,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
	listingCache ListingCache,
) ProductService {
	return &productService{
		logger:        logger.With(slog.String("service", "product")),
		db:            db,
		validator:     validator,
		productRepo:   productRepo,
		outboxMsgRepo: outboxMsgRepo,
		listingCache:  listingCache,
	}
}

func (s *productService) CreateProduct(ctx context.Context, form ProductForm) (model.Product, error) {
	params, err := form.Parse(s.validator)
	if err != nil {
		return model.Product{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	product := model.Product{
		ID:        id,
		Name:      params.Name,
		Price:     params.Price,
		CreatedAt: time.Now(),
	}

	msg, err := newOutboxMsg(ctx, event.TopicProductCreated, product.ID.String(), event.ProductCreatedEvent{
		ProductID: product.ID.String(),
		Name:      product.Name,
		Price:     product.Price,
	})
	if err != nil {
		return model.Product{}, err
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.productRepo.
			WithDB(db).
			CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("product repository create product: %w", err)
		}

		if err := s.outboxMsgRepo.
			WithDB(db).
			CreateOutboxMsg(ctx, msg); err != nil {
			return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
		}

		return nil
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Product{}, apperr.ProductNotFoundErr
		}
		return model.Product{}, fmt.Errorf("product repository get product: %w", err)
	}

	return product, nil
}

func (s *productService) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.ListAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("product repository list all products: %w", err)
	}

	return products, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	msg, err := newOutboxMsg(ctx, event.TopicProductDeleted, id.String(), event.ProductDeletedEvent{
		ProductID: id.String(),
	})
	if err != nil {
		return err
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.productRepo.
			WithDB(db).
			DeleteProduct(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.ProductNotFoundErr
			}
			return fmt.Errorf("product repository delete product: %w", err)
		}

		if err := s.outboxMsgRepo.
			WithDB(db).
			CreateOutboxMsg(ctx, msg); err != nil {
			return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
		}

		return nil
	}); err != nil {
		if errors.Is(err, apperr.ProductNotFoundErr) {
			return apperr.ProductNotFoundErr
		}
		return fmt.Errorf("db with tx: %w", err)
	}

	// The cascade removed sales, so the listing is stale.
	if err := invalidateListing(ctx, s.listingCache); err != nil {
		return fmt.Errorf("product %s deleted: %w", id, err)
	}

	return nil
}

// invalidateListing drops the cached listing after a committed write. A
// failure is returned so the caller never reports success while the listing
// is stale.
func invalidateListing(ctx context.Context, cache ListingCache) error {
	if err := cache.Invalidate(ctx); err != nil {
		return fmt.Errorf("committed, but invalidating the sale listing failed: %w", err)
	}
	return nil
}
