package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/sales-analytics/internal/log"
	"github.com/tuanvumaihuynh/sales-analytics/internal/storage/mq"
)

type fakeConsumer struct {
	handlers map[string]mq.HandlerFunc
	running  bool
}

func (c *fakeConsumer) RegisterHandler(topic string, handler mq.HandlerFunc) error {
	if _, ok := c.handlers[topic]; ok {
		return errors.New("already registered")
	}
	c.handlers[topic] = handler
	return nil
}

func (c *fakeConsumer) Run(context.Context) (mq.CleanupFunc, error) {
	c.running = true
	return func() { c.running = false }, nil
}

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) Invalidate(context.Context) error {
	f.calls++
	return nil
}

func TestService(t *testing.T) {
	ctx := context.Background()
	consumer := &fakeConsumer{handlers: map[string]mq.HandlerFunc{}}
	invalidator := &fakeInvalidator{}

	svc := New(log.NewNopLogger(), consumer, invalidator)
	cleanup, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.True(t, consumer.running)

	t.Run("Should register every topic", func(t *testing.T) {
		assert.Contains(t, consumer.handlers, TopicSaleRecorded)
		assert.Contains(t, consumer.handlers, TopicProductCreated)
		assert.Contains(t, consumer.handlers, TopicProductDeleted)
	})

	t.Run("Should invalidate listing on sale recorded", func(t *testing.T) {
		err := consumer.handlers[TopicSaleRecorded](ctx, TopicSaleRecorded, []byte(`{"sale_id":"s1","product_id":"p1","total":"59.97"}`))
		require.NoError(t, err)
		assert.Equal(t, 1, invalidator.calls)
	})

	t.Run("Should invalidate listing on product deleted", func(t *testing.T) {
		err := consumer.handlers[TopicProductDeleted](ctx, TopicProductDeleted, []byte(`{"product_id":"p1"}`))
		require.NoError(t, err)
		assert.Equal(t, 2, invalidator.calls)
	})

	t.Run("Should not invalidate on product created", func(t *testing.T) {
		err := consumer.handlers[TopicProductCreated](ctx, TopicProductCreated, []byte(`{"product_id":"p1","name":"Widget","price":"19.99"}`))
		require.NoError(t, err)
		assert.Equal(t, 2, invalidator.calls)
	})

	t.Run("Should reject malformed payloads", func(t *testing.T) {
		err := consumer.handlers[TopicSaleRecorded](ctx, TopicSaleRecorded, []byte(`not json`))
		assert.Error(t, err)
	})

	cleanup()
	assert.False(t, consumer.running)
}
