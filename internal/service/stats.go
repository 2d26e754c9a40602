package service

import (
	"context"
	"fmt"

	"github.com/tuanvumaihuynh/sales-analytics/internal/model"
	"github.com/tuanvumaihuynh/sales-analytics/internal/repository"
)

type StatsService interface {
	// AggregateByPeriod sums sale totals per month or quarter, oldest first.
	AggregateByPeriod(ctx context.Context, granularity model.Granularity) ([]model.PeriodTotal, error)
	// Stats returns both the monthly and the quarterly aggregation.
	Stats(ctx context.Context) (model.PeriodStats, error)
	TopProducts(ctx context.Context) ([]model.ProductQuantity, error)
	// SalesTimeline sums sale totals per calendar date, oldest first.
	SalesTimeline(ctx context.Context) ([]model.DailyTotal, error)
}

type statsService struct {
	saleRepo repository.SaleRepository
}

func NewStatsService(saleRepo repository.SaleRepository) StatsService {
	return &statsService{saleRepo: saleRepo}
}

func (s *statsService) AggregateByPeriod(ctx context.Context, granularity model.Granularity) ([]model.PeriodTotal, error) {
	if err := granularity.Validate(); err != nil {
		return nil, err
	}

	totals, err := s.saleRepo.SumByPeriod(ctx, granularity)
	if err != nil {
		return nil, fmt.Errorf("sale repository sum by %s: %w", granularity, err)
	}

	return totals, nil
}

func (s *statsService) Stats(ctx context.Context) (model.PeriodStats, error) {
	monthly, err := s.AggregateByPeriod(ctx, model.GranularityMonth)
	if err != nil {
		return model.PeriodStats{}, err
	}

	quarterly, err := s.AggregateByPeriod(ctx, model.GranularityQuarter)
	if err != nil {
		return model.PeriodStats{}, err
	}

	return model.PeriodStats{Monthly: monthly, Quarterly: quarterly}, nil
}

func (s *statsService) TopProducts(ctx context.Context) ([]model.ProductQuantity, error) {
	products, err := s.saleRepo.TopProducts(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("sale repository top products: %w", err)
	}

	return products, nil
}

func (s *statsService) SalesTimeline(ctx context.Context) ([]model.DailyTotal, error) {
	totals, err := s.saleRepo.SumByDate(ctx)
	if err != nil {
		return nil, fmt.Errorf("sale repository sum by date: %w", err)
	}

	return totals, nil
}
