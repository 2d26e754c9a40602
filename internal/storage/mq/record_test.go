package mq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/sales-analytics/internal/config"
	"github.com/tuanvumaihuynh/sales-analytics/pkg/ptr"
)

func TestBuildProduceRecord(t *testing.T) {
	rec := buildProduceRecord(ProduceMsg{
		Topic:        "sale.recorded",
		Headers:      map[string]string{"X-Correlation-ID": "abc"},
		Payload:      []byte(`{"sale_id":"1"}`),
		PartitionKey: ptr.New("product-1"),
	})

	assert.Equal(t, "sale.recorded", rec.Topic)
	assert.Equal(t, []byte("product-1"), rec.Key)
	require.Len(t, rec.Headers, 1)
	assert.Equal(t, map[string]string{"X-Correlation-ID": "abc"}, recordHeaders(rec))
}

func TestBuildProduceRecordWithoutKey(t *testing.T) {
	rec := buildProduceRecord(ProduceMsg{Topic: "product.deleted"})

	assert.Nil(t, rec.Key)
	assert.Empty(t, recordHeaders(rec))
}

func TestConsumerGroup(t *testing.T) {
	cfg := config.Kafka{Group: "sales"}
	assert.Equal(t, "sales", ConsumerGroup(cfg))

	cfg.GroupPerInstance = true
	group := ConsumerGroup(cfg)
	assert.NotEqual(t, "sales", group)
	assert.Contains(t, group, "sales.")
}
