package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/sales-analytics/internal/model"
)

type stubTopRepo struct {
	fakeSaleRepo
	limit int
	err   error
}

func (r *stubTopRepo) TopProducts(_ context.Context, limit int) ([]model.ProductQuantity, error) {
	r.limit = limit
	return nil, r.err
}

func TestStatsService(t *testing.T) {
	ctx := context.Background()
	day := func(s string) time.Time {
		d, _ := time.Parse(time.DateOnly, s)
		return d
	}

	st := &store{sales: []model.Sale{
		{Date: day("2024-01-05"), Total: decimal.NewFromInt(100)},
		{Date: day("2024-01-28"), Total: decimal.NewFromInt(50)},
		{Date: day("2024-04-10"), Total: decimal.NewFromInt(7)},
	}}

	t.Run("Should group sales of one month into a single period", func(t *testing.T) {
		svc := NewStatsService(fakeSaleRepo{s: st})

		totals, err := svc.AggregateByPeriod(ctx, model.GranularityMonth)
		require.NoError(t, err)

		require.Len(t, totals, 2)
		assert.Equal(t, day("2024-01-01"), totals[0].PeriodStart)
		assert.True(t, decimal.NewFromInt(150).Equal(totals[0].Sum))
	})

	t.Run("Should return both granularities", func(t *testing.T) {
		svc := NewStatsService(fakeSaleRepo{s: st})

		stats, err := svc.Stats(ctx)
		require.NoError(t, err)

		assert.Len(t, stats.Monthly, 2)
		require.Len(t, stats.Quarterly, 2)
		assert.Equal(t, day("2024-04-01"), stats.Quarterly[1].PeriodStart)
	})

	t.Run("Should reject an unknown granularity", func(t *testing.T) {
		svc := NewStatsService(fakeSaleRepo{s: st})

		_, err := svc.AggregateByPeriod(ctx, model.Granularity("week"))
		assert.Error(t, err)
	})

	t.Run("Should rank every product", func(t *testing.T) {
		repo := &stubTopRepo{fakeSaleRepo: fakeSaleRepo{s: st}}
		svc := NewStatsService(repo)

		_, err := svc.TopProducts(ctx)
		require.NoError(t, err)
		assert.Zero(t, repo.limit)

		repo.err = errors.New("boom")
		_, err = svc.TopProducts(ctx)
		assert.ErrorContains(t, err, "boom")
	})
}
