// Package relay publishes outbox messages written by sale and product writes
// to the message broker.
package relay

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tuanvumaihuynh/sales-analytics/internal/config"
	"github.com/tuanvumaihuynh/sales-analytics/internal/repository"
	"github.com/tuanvumaihuynh/sales-analytics/internal/storage/db"
	"github.com/tuanvumaihuynh/sales-analytics/internal/storage/mq"
	"github.com/tuanvumaihuynh/sales-analytics/pkg/ptr"
)

type metrics struct {
	relayed *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		relayed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "sales_analytics",
			Subsystem: "relay",
			Name:      "messages_total",
			Help:      "Outbox messages handed to the broker, by topic and result.",
		}, []string{"topic", "result"}),
	}
}

type Service struct {
	cfg           config.Relay
	logger        *slog.Logger
	db            db.DB
	outboxMsgRepo repository.OutboxMsgRepository
	mqProducer    mq.Producer
	metrics       *metrics

	stopChan chan struct{}
}

func NewService(
	cfg config.Relay,
	logger *slog.Logger,
	db db.DB,
	outboxMsgRepo repository.OutboxMsgRepository,
	mqProducer mq.Producer,
	reg prometheus.Registerer,
) *Service {
	return &Service{
		cfg:           cfg,
		logger:        logger.With(slog.String("service", "relay")),
		db:            db,
		outboxMsgRepo: outboxMsgRepo,
		mqProducer:    mqProducer,
		metrics:       newMetrics(reg),
		stopChan:      make(chan struct{}),
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) CleanupFunc {
	ctx, cancel := context.WithCancel(ctx)

	stoppedChan := make(chan struct{})
	go func() {
		defer close(stoppedChan)
		s.run(ctx)
	}()

	return func() {
		close(s.stopChan)
		select {
		case <-stoppedChan:
		case <-time.After(5 * time.Second):
			cancel()
		}
	}
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			// A full batch means more may be waiting; keep draining.
			for {
				n, err := s.relayBatch(ctx)
				if err != nil {
					s.logger.ErrorContext(ctx, "error relaying outbox msgs", slog.Any("error", err))
					break
				}
				if n < int(s.cfg.BatchSize) {
					break
				}
			}
		}
	}
}

// relayBatch publishes one batch of unprocessed messages and records the
// outcome of each. It returns the number of messages picked up.
func (s *Service) relayBatch(ctx context.Context) (int, error) {
	var count int
	err := s.db.WithTx(ctx, func(db db.DB) error {
		outboxMsgs, err := s.outboxMsgRepo.
			WithDB(db).
			ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{
				//nolint:gosec
				BatchSize: int32(s.cfg.BatchSize),
			})
		if err != nil {
			return fmt.Errorf("list unprocessed outbox msgs: %w", err)
		}

		count = len(outboxMsgs)
		if count == 0 {
			return nil
		}

		s.logger.InfoContext(ctx, "relaying outbox msgs", slog.Int("count", count))

		items := s.produceAll(ctx, outboxMsgs)

		if err := s.outboxMsgRepo.
			WithDB(db).
			BulkUpdateOutboxMsgs(ctx, repository.BulkUpdateOutboxMsgsParams{
				Items: items,
			}); err != nil {
			return fmt.Errorf("bulk update outbox msgs: %w", err)
		}

		return nil
	})

	return count, err
}

func (s *Service) produceAll(ctx context.Context, outboxMsgs []repository.ListUnprocessedOutboxMsgsResult) []repository.BulkUpdateOutboxMsgsItem {
	items := make([]repository.BulkUpdateOutboxMsgsItem, 0, len(outboxMsgs))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, msg := range outboxMsgs {
		wg.Go(func() {
			item := repository.BulkUpdateOutboxMsgsItem{ID: msg.ID}

			if err := s.mqProducer.Produce(ctx, mq.ProduceMsg{
				Topic:        msg.Topic,
				Headers:      msg.Headers,
				Payload:      msg.Payload,
				PartitionKey: msg.PartitionKey,
			}); err != nil {
				s.logger.ErrorContext(ctx,
					"error producing message",
					slog.String("outbox_msg_id", msg.ID.String()),
					slog.String("topic", msg.Topic),
					slog.Any("error", err),
				)
				item.Error = ptr.New(fmt.Sprintf("produce message: %v", err))
				s.metrics.relayed.WithLabelValues(msg.Topic, "error").Inc()
			} else {
				s.metrics.relayed.WithLabelValues(msg.Topic, "ok").Inc()
			}

			mu.Lock()
			items = append(items, item)
			mu.Unlock()
		})
	}

	wg.Wait()

	return items
}
