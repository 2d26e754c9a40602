package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tuanvumaihuynh/sales-analytics/internal/listing"
	"github.com/tuanvumaihuynh/sales-analytics/internal/model"
	"github.com/tuanvumaihuynh/sales-analytics/internal/repository"
	"github.com/tuanvumaihuynh/sales-analytics/pkg/outbox"
)

// ListingCache is the read-through cache of the unfiltered sale listing.
type ListingCache interface {
	Get(ctx context.Context, load listing.LoadFunc) ([]model.Sale, error)
	Invalidate(ctx context.Context) error
}

// newOutboxMsg builds the outbox row for ev, carrying the trace context and
// correlation id of ctx.
func newOutboxMsg(ctx context.Context, topic, key string, ev any) (repository.CreateOutboxMsgParams, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return repository.CreateOutboxMsgParams{}, fmt.Errorf("marshal event: %w", err)
	}

	return repository.CreateOutboxMsgParams{
		Topic:        topic,
		Headers:      outbox.BuildHeaders(ctx),
		Payload:      payload,
		PartitionKey: &key,
	}, nil
}
