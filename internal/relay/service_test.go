package relay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/sales-analytics/internal/config"
	"github.com/tuanvumaihuynh/sales-analytics/internal/log"
	"github.com/tuanvumaihuynh/sales-analytics/internal/repository"
	"github.com/tuanvumaihuynh/sales-analytics/internal/storage/db"
	"github.com/tuanvumaihuynh/sales-analytics/internal/storage/mq"
)

type fakeDB struct{ db.DB }

func (f fakeDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	return txFunc(f)
}

type fakeOutboxRepo struct {
	mu      sync.Mutex
	pending []repository.ListUnprocessedOutboxMsgsResult
	updated []repository.BulkUpdateOutboxMsgsItem
}

func (r *fakeOutboxRepo) WithDB(db.DB) repository.OutboxMsgRepository { return r }

func (r *fakeOutboxRepo) CreateOutboxMsg(context.Context, repository.CreateOutboxMsgParams) error {
	return nil
}

func (r *fakeOutboxRepo) ListUnprocessedOutboxMsgs(_ context.Context, params repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := min(int(params.BatchSize), len(r.pending))
	batch := r.pending[:n]
	r.pending = r.pending[n:]
	return batch, nil
}

func (r *fakeOutboxRepo) BulkUpdateOutboxMsgs(_ context.Context, params repository.BulkUpdateOutboxMsgsParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updated = append(r.updated, params.Items...)
	return nil
}

type fakeProducer struct {
	mu       sync.Mutex
	produced []mq.ProduceMsg
	failOn   string
}

func (p *fakeProducer) Produce(_ context.Context, msg mq.ProduceMsg) error {
	if msg.Topic == p.failOn {
		return errors.New("broker unavailable")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.produced = append(p.produced, msg)
	return nil
}

func pendingMsgs(topics ...string) []repository.ListUnprocessedOutboxMsgsResult {
	msgs := make([]repository.ListUnprocessedOutboxMsgsResult, 0, len(topics))
	for _, topic := range topics {
		msgs = append(msgs, repository.ListUnprocessedOutboxMsgsResult{
			ID:      uuid.New(),
			Topic:   topic,
			Payload: []byte(`{}`),
		})
	}
	return msgs
}

func TestRelayBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Should mark every message with its outcome", func(t *testing.T) {
		repo := &fakeOutboxRepo{pending: pendingMsgs("sale.recorded", "product.deleted", "sale.recorded")}
		producer := &fakeProducer{failOn: "product.deleted"}
		svc := NewService(config.Relay{BatchSize: 10, Interval: time.Second}, log.NewNopLogger(), fakeDB{}, repo, producer, prometheus.NewRegistry())

		n, err := svc.relayBatch(ctx)
		require.NoError(t, err)

		assert.Equal(t, 3, n)
		assert.Len(t, producer.produced, 2)
		require.Len(t, repo.updated, 3)

		failed := 0
		for _, item := range repo.updated {
			if item.Error != nil {
				failed++
				assert.Contains(t, *item.Error, "broker unavailable")
			}
		}
		assert.Equal(t, 1, failed)
		assert.Equal(t, 2.0, testutil.ToFloat64(svc.metrics.relayed.WithLabelValues("sale.recorded", "ok")))
		assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.relayed.WithLabelValues("product.deleted", "error")))
	})

	t.Run("Should do nothing when the outbox is empty", func(t *testing.T) {
		repo := &fakeOutboxRepo{}
		svc := NewService(config.Relay{BatchSize: 10, Interval: time.Second}, log.NewNopLogger(), fakeDB{}, repo, &fakeProducer{}, prometheus.NewRegistry())

		n, err := svc.relayBatch(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Empty(t, repo.updated)
	})
}

func TestRun(t *testing.T) {
	repo := &fakeOutboxRepo{pending: pendingMsgs("a", "b", "c", "d", "e")}
	producer := &fakeProducer{}
	svc := NewService(config.Relay{BatchSize: 2, Interval: 10 * time.Millisecond}, log.NewNopLogger(), fakeDB{}, repo, producer, prometheus.NewRegistry())

	cleanup := svc.Run(context.Background())
	defer cleanup()

	assert.Eventually(t, func() bool {
		producer.mu.Lock()
		defer producer.mu.Unlock()
		return len(producer.produced) == 5
	}, time.Second, 5*time.Millisecond)
}
