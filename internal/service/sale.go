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
	"github.com/tuanvumaihuynh/sales-analytics/pkg/zerror"
)

type SaleService interface {
	// RecordSale validates form, prices the sale from the product's current
	// unit price and persists it. The listing cache is invalidated before it
	// returns.
	RecordSale(ctx context.Context, form SaleForm) (model.Sale, error)
	// ListSales returns every sale, served from the listing cache when fresh.
	ListSales(ctx context.Context) ([]model.Sale, error)
	// FilterSales always reads the store; filtered results are never cached.
	FilterSales(ctx context.Context, filter model.SaleFilter) (model.FilteredSales, error)
}

type saleService struct {
	logger        *slog.Logger
	db            db.DB
	validator     validator.Validator
	productRepo   repository.ProductRepository
	saleRepo      repository.SaleRepository
	outboxMsgRepo repository.OutboxMsgRepository
	listingCache  ListingCache
	now           func() time.Time
}

func NewSaleService(
	logger *slog.Logger,
	db db.DB,
	validator validator.Validator,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
	listingCache ListingCache,
) SaleService {
	return &saleService{
		logger:        logger.With(slog.String("service", "sale")),
		db:            db,
		validator:     validator,
		productRepo:   productRepo,
		saleRepo:      saleRepo,
		outboxMsgRepo: outboxMsgRepo,
		listingCache:  listingCache,
		now:           time.Now,
	}
}

func (s *saleService) RecordSale(ctx context.Context, form SaleForm) (model.Sale, error) {
	now := s.now()

	params, err := form.Parse(s.validator, now)
	if err != nil {
		return model.Sale{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Sale{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	var sale model.Sale
	if err := s.db.WithTx(ctx, func(tx db.DB) error {
		product, err := s.productRepo.
			WithDB(tx).
			GetProduct(ctx, params.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.ProductNotFoundErr
			}
			return fmt.Errorf("product repository get product: %w", err)
		}

		total := model.SaleTotal(product.Price, params.Quantity)
		if !validator.DecimalFits(total, validator.MaxDecimalDigits, validator.DecimalPlaces) {
			return apperr.ValidationErr.WrapParent(validator.FieldError{
				Field:   "quantity",
				Message: fmt.Sprintf("sale total %s exceeds %d digits", total.StringFixed(validator.DecimalPlaces), validator.MaxDecimalDigits),
			})
		}

		sale = model.Sale{
			ID:          id,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    params.Quantity,
			Date:        params.Date,
			Total:       total,
			Status:      params.Status,
			CreatedAt:   now,
		}

		if err := s.saleRepo.
			WithDB(tx).
			CreateSale(ctx, sale); err != nil {
			// The product was deleted after the lookup above.
			if db.IsForeignKeyViolation(err) {
				return apperr.ProductNotFoundErr
			}
			return fmt.Errorf("sale repository create sale: %w", err)
		}

		msg, err := newOutboxMsg(ctx, event.TopicSaleRecorded, sale.ProductID.String(), event.SaleRecordedEvent{
			SaleID:    sale.ID.String(),
			ProductID: sale.ProductID.String(),
			Quantity:  sale.Quantity,
			Date:      sale.Date.Format(validator.DateLayout),
			Total:     sale.Total,
			Status:    sale.Status.String(),
		})
		if err != nil {
			return err
		}

		if err := s.outboxMsgRepo.
			WithDB(tx).
			CreateOutboxMsg(ctx, msg); err != nil {
			return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
		}

		return nil
	}); err != nil {
		var zErr zerror.ZError
		if errors.As(err, &zErr) {
			return model.Sale{}, zErr
		}
		return model.Sale{}, fmt.Errorf("db with tx: %w", err)
	}

	if err := invalidateListing(ctx, s.listingCache); err != nil {
		return model.Sale{}, fmt.Errorf("sale %s recorded: %w", sale.ID, err)
	}

	return sale, nil
}

func (s *saleService) ListSales(ctx context.Context) ([]model.Sale, error) {
	sales, err := s.listingCache.Get(ctx, s.saleRepo.ListAllSales)
	if err != nil {
		return nil, fmt.Errorf("sale repository list all sales: %w", err)
	}

	return sales, nil
}

func (s *saleService) FilterSales(ctx context.Context, filter model.SaleFilter) (model.FilteredSales, error) {
	sales, total, err := s.saleRepo.FilterSales(ctx, filter)
	if err != nil {
		return model.FilteredSales{}, fmt.Errorf("sale repository filter sales: %w", err)
	}

	return model.FilteredSales{Sales: sales, Total: total}, nil
}
