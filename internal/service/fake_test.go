package service

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/sales-analytics/internal/model"
	"github.com/tuanvumaihuynh/sales-analytics/internal/repository"
	"github.com/tuanvumaihuynh/sales-analytics/internal/storage/db"
)

// fakeDB runs transactions inline. Only WithTx is exercised by the services.
type fakeDB struct {
	db.DB
	txs   int
	txErr error
}

func (f *fakeDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	f.txs++
	if f.txErr != nil {
		return f.txErr
	}
	return txFunc(f)
}

// store backs the fake repositories with plain slices.
type store struct {
	mu       sync.Mutex
	products []model.Product
	sales    []model.Sale
	outbox   []repository.CreateOutboxMsgParams

	createSaleErr error
}

type fakeProductRepo struct{ s *store }

func (r fakeProductRepo) WithDB(db.DB) repository.ProductRepository { return r }

func (r fakeProductRepo) CreateProduct(_ context.Context, p model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products = append(r.s.products, p)
	return nil
}

func (r fakeProductRepo) GetProduct(_ context.Context, id uuid.UUID) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Product{}, repository.ErrNotFound
}

func (r fakeProductRepo) ListAllProducts(context.Context) ([]model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return slices.Clone(r.s.products), nil
}

func (r fakeProductRepo) DeleteProduct(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := len(r.s.products)
	r.s.products = slices.DeleteFunc(r.s.products, func(p model.Product) bool { return p.ID == id })
	if len(r.s.products) == n {
		return repository.ErrNotFound
	}
	r.s.sales = slices.DeleteFunc(r.s.sales, func(s model.Sale) bool { return s.ProductID == id })
	return nil
}

type fakeSaleRepo struct {
	s         *store
	listCalls *int
}

func (r fakeSaleRepo) WithDB(db.DB) repository.SaleRepository { return r }

func (r fakeSaleRepo) CreateSale(_ context.Context, sale model.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.createSaleErr != nil {
		return r.s.createSaleErr
	}
	r.s.sales = append(r.s.sales, sale)
	return nil
}

func (r fakeSaleRepo) ListAllSales(context.Context) ([]model.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.listCalls != nil {
		*r.listCalls++
	}
	return slices.Clone(r.s.sales), nil
}

func (r fakeSaleRepo) FilterSales(_ context.Context, filter model.SaleFilter) ([]model.Sale, decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var (
		out   []model.Sale
		total = decimal.Zero
	)
	for _, sale := range r.s.sales {
		if filter.Matches(sale) {
			out = append(out, sale)
			total = total.Add(sale.Total)
		}
	}
	return out, total, nil
}

func (r fakeSaleRepo) SumByPeriod(_ context.Context, g model.Granularity) ([]model.PeriodTotal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var totals []model.PeriodTotal
	for _, sale := range r.s.sales {
		start := model.TruncateDate(sale.Date, g)
		i := slices.IndexFunc(totals, func(t model.PeriodTotal) bool { return t.PeriodStart.Equal(start) })
		if i < 0 {
			totals = append(totals, model.PeriodTotal{PeriodStart: start, Sum: sale.Total})
			continue
		}
		totals[i].Sum = totals[i].Sum.Add(sale.Total)
	}
	slices.SortFunc(totals, func(a, b model.PeriodTotal) int { return a.PeriodStart.Compare(b.PeriodStart) })
	return totals, nil
}

func (r fakeSaleRepo) TopProducts(context.Context, int) ([]model.ProductQuantity, error) {
	return nil, errors.New("not implemented")
}

func (r fakeSaleRepo) SumByDate(context.Context) ([]model.DailyTotal, error) {
	return nil, errors.New("not implemented")
}

type fakeOutboxRepo struct{ s *store }

func (r fakeOutboxRepo) WithDB(db.DB) repository.OutboxMsgRepository { return r }

func (r fakeOutboxRepo) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.outbox = append(r.s.outbox, params)
	return nil
}

func (r fakeOutboxRepo) ListUnprocessedOutboxMsgs(context.Context, repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	return nil, nil
}

func (r fakeOutboxRepo) BulkUpdateOutboxMsgs(context.Context, repository.BulkUpdateOutboxMsgsParams) error {
	return nil
}
