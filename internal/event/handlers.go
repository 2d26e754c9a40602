package event

import (
	"context"
	"fmt"
	"log/slog"
)

// Sale and product writes already invalidate the listing cache of the
// instance that served them. These handlers repeat the invalidation on every
// instance, which matters when each one keeps its own in-memory cache.

func (s *Service) handleSaleRecordedEvent(ctx context.Context, ev SaleRecordedEvent) error {
	s.logger.InfoContext(ctx, "handling sale recorded event",
		slog.String("sale_id", ev.SaleID),
		slog.String("product_id", ev.ProductID),
	)

	if err := s.listingCache.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate sale listing: %w", err)
	}
	return nil
}

func (s *Service) handleProductDeletedEvent(ctx context.Context, ev ProductDeletedEvent) error {
	s.logger.InfoContext(ctx, "handling product deleted event", slog.String("product_id", ev.ProductID))

	if err := s.listingCache.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate sale listing: %w", err)
	}
	return nil
}

func (s *Service) handleProductCreatedEvent(ctx context.Context, ev ProductCreatedEvent) error {
	s.logger.InfoContext(ctx, "handling product created event",
		slog.String("product_id", ev.ProductID),
		slog.String("name", ev.Name),
	)
	return nil
}
