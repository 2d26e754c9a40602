package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/sales-analytics/internal/storage/mq"
)

// ListingInvalidator drops the cached sale listing.
type ListingInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Service is the event service.
type Service struct {
	logger       *slog.Logger
	mqConsumer   mq.Consumer
	listingCache ListingInvalidator
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
	listingCache ListingInvalidator,
) *Service {
	return &Service{
		logger:       logger.With(slog.String("service", "event")),
		mqConsumer:   mqConsumer,
		listingCache: listingCache,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := s.registerHandlers(); err != nil {
		return nil, err
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}

func (s *Service) registerHandlers() error {
	if err := s.mqConsumer.RegisterHandler(TopicSaleRecorded, decodeWith(s.handleSaleRecordedEvent)); err != nil {
		return fmt.Errorf("register sale recorded event handler: %w", err)
	}
	if err := s.mqConsumer.RegisterHandler(TopicProductCreated, decodeWith(s.handleProductCreatedEvent)); err != nil {
		return fmt.Errorf("register product created event handler: %w", err)
	}
	if err := s.mqConsumer.RegisterHandler(TopicProductDeleted, decodeWith(s.handleProductDeletedEvent)); err != nil {
		return fmt.Errorf("register product deleted event handler: %w", err)
	}
	return nil
}

// decodeWith adapts a typed event handler to a raw message handler.
func decodeWith[E any](handle func(ctx context.Context, ev E) error) mq.HandlerFunc {
	return func(ctx context.Context, topic string, payload []byte) error {
		var ev E
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("unmarshal %s event: %w", topic, err)
		}

		if err := handle(ctx, ev); err != nil {
			return fmt.Errorf("handle %s event: %w", topic, err)
		}

		return nil
	}
}
