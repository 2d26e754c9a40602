package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/sales-analytics/internal/apperr"
	"github.com/tuanvumaihuynh/sales-analytics/internal/event"
)

func TestProductService(t *testing.T) {
	ctx := context.Background()

	t.Run("Should create a product with a created event", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.widget(t)

		assert.Equal(t, uuid.Version(7), p.ID.Version())
		got, err := env.products.GetProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.Name, got.Name)

		require.Len(t, env.store.outbox, 1)
		assert.Equal(t, event.TopicProductCreated, env.store.outbox[0].Topic)
	})

	t.Run("Should list products", func(t *testing.T) {
		env := newTestEnv(t)
		env.widget(t)
		env.widget(t)

		products, err := env.products.ListAllProducts(ctx)
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})

	t.Run("Should report unknown products as not found", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.products.GetProduct(ctx, uuid.New())
		assert.ErrorIs(t, err, apperr.ProductNotFoundErr)

		err = env.products.DeleteProduct(ctx, uuid.New())
		assert.ErrorIs(t, err, apperr.ProductNotFoundErr)
	})

	t.Run("Should write a deleted event", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.widget(t)

		require.NoError(t, env.products.DeleteProduct(ctx, p.ID))

		require.Len(t, env.store.outbox, 2)
		assert.Equal(t, event.TopicProductDeleted, env.store.outbox[1].Topic)
		assert.Equal(t, p.ID.String(), *env.store.outbox[1].PartitionKey)
	})
}
