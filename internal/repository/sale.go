package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/sales-analytics/internal/model"
	"github.com/tuanvumaihuynh/sales-analytics/internal/storage/db"
)

type SaleRepository interface {
	WithDB(db db.DB) SaleRepository
	CreateSale(ctx context.Context, sale model.Sale) error
	// ListAllSales returns every sale in insertion order with its product name.
	ListAllSales(ctx context.Context) ([]model.Sale, error)
	// FilterSales returns the sales matching filter and the sum of their totals,
	// zero when nothing matches.
	FilterSales(ctx context.Context, filter model.SaleFilter) ([]model.Sale, decimal.Decimal, error)
	// SumByPeriod groups totals by the start of each sale's month or quarter, ascending.
	SumByPeriod(ctx context.Context, granularity model.Granularity) ([]model.PeriodTotal, error)
	// TopProducts orders products by quantity sold, ties by product id ascending.
	TopProducts(ctx context.Context, limit int) ([]model.ProductQuantity, error)
	// SumByDate groups totals by calendar date, ascending.
	SumByDate(ctx context.Context) ([]model.DailyTotal, error)
}

type saleRepository struct {
	db db.DB
}

func NewSaleRepository(db db.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r saleRepository) WithDB(db db.DB) SaleRepository {
	return &saleRepository{db: db}
}

const selectSales = `
	SELECT s.id, s.product_id, p.name, s.quantity, s.sale_date, s.total, s.status, s.created_at
	FROM sales AS s
	JOIN products AS p ON p.id = s.product_id
`

func (r saleRepository) CreateSale(ctx context.Context, sale model.Sale) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO sales (id, product_id, quantity, sale_date, total, status, created_at)
		VALUES (@id, @product_id, @quantity, @sale_date, @total, @status, @created_at)
	`, pgx.NamedArgs{
		"id":         sale.ID,
		"product_id": sale.ProductID,
		"quantity":   sale.Quantity,
		"sale_date":  pgtype.Date{Time: sale.Date, Valid: true},
		"total":      decimalToNumeric(sale.Total),
		"status":     string(sale.Status),
		"created_at": sale.CreatedAt,
	}); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	return nil
}

func (r saleRepository) ListAllSales(ctx context.Context) ([]model.Sale, error) {
	rows, err := r.db.Query(ctx, selectSales+` ORDER BY s.id`)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}

	sales, err := pgx.CollectRows(rows, scanSale)
	if err != nil {
		return nil, fmt.Errorf("collect sales: %w", err)
	}

	return sales, nil
}

func (r saleRepository) FilterSales(ctx context.Context, filter model.SaleFilter) ([]model.Sale, decimal.Decimal, error) {
	where, args := buildSaleFilter(filter)

	rows, err := r.db.Query(ctx, selectSales+where+` ORDER BY s.id`, args)
	if err != nil {
		return nil, decimal.Decimal{}, fmt.Errorf("query filtered sales: %w", err)
	}

	sales, err := pgx.CollectRows(rows, scanSale)
	if err != nil {
		return nil, decimal.Decimal{}, fmt.Errorf("collect filtered sales: %w", err)
	}

	var sum pgtype.Numeric
	if err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(s.total), 0)
		FROM sales AS s
	`+where, args).Scan(&sum); err != nil {
		return nil, decimal.Decimal{}, fmt.Errorf("sum filtered sales: %w", err)
	}

	total, err := numericToDecimal(sum)
	if err != nil {
		return nil, decimal.Decimal{}, fmt.Errorf("convert sum: %w", err)
	}

	return sales, total, nil
}

func (r saleRepository) SumByPeriod(ctx context.Context, granularity model.Granularity) ([]model.PeriodTotal, error) {
	if err := granularity.Validate(); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT date_trunc(@unit::text, s.sale_date)::date AS period_start, SUM(s.total)
		FROM sales AS s
		GROUP BY period_start
		ORDER BY period_start
	`, pgx.NamedArgs{"unit": string(granularity)})
	if err != nil {
		return nil, fmt.Errorf("query sums by %s: %w", granularity, err)
	}

	totals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.PeriodTotal, error) {
		var (
			period pgtype.Date
			sum    pgtype.Numeric
		)
		if err := row.Scan(&period, &sum); err != nil {
			return model.PeriodTotal{}, err
		}

		d, err := numericToDecimal(sum)
		if err != nil {
			return model.PeriodTotal{}, fmt.Errorf("convert sum: %w", err)
		}
		return model.PeriodTotal{PeriodStart: period.Time, Sum: d}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect sums by %s: %w", granularity, err)
	}

	return totals, nil
}

func (r saleRepository) TopProducts(ctx context.Context, limit int) ([]model.ProductQuantity, error) {
	query := `
		SELECT p.id, p.name, SUM(s.quantity)::bigint AS quantity
		FROM sales AS s
		JOIN products AS p ON p.id = s.product_id
		GROUP BY p.id, p.name
		ORDER BY quantity DESC, p.id ASC
	`
	args := pgx.NamedArgs{}
	if limit > 0 {
		query += ` LIMIT @limit`
		args["limit"] = limit
	}

	rows, err := r.db.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("query top products: %w", err)
	}

	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.ProductQuantity, error) {
		var pq model.ProductQuantity
		err := row.Scan(&pq.ProductID, &pq.ProductName, &pq.Quantity)
		return pq, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect top products: %w", err)
	}

	return products, nil
}

func (r saleRepository) SumByDate(ctx context.Context) ([]model.DailyTotal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.sale_date, SUM(s.total)
		FROM sales AS s
		GROUP BY s.sale_date
		ORDER BY s.sale_date
	`)
	if err != nil {
		return nil, fmt.Errorf("query sums by date: %w", err)
	}

	totals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.DailyTotal, error) {
		var (
			day pgtype.Date
			sum pgtype.Numeric
		)
		if err := row.Scan(&day, &sum); err != nil {
			return model.DailyTotal{}, err
		}

		d, err := numericToDecimal(sum)
		if err != nil {
			return model.DailyTotal{}, fmt.Errorf("convert sum: %w", err)
		}
		return model.DailyTotal{Date: day.Time, Sum: d}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect sums by date: %w", err)
	}

	return totals, nil
}

// buildSaleFilter renders the present filter fields as an AND-ed WHERE clause.
func buildSaleFilter(filter model.SaleFilter) (string, pgx.NamedArgs) {
	var conds []string
	args := pgx.NamedArgs{}

	if filter.ProductID != nil {
		conds = append(conds, "s.product_id = @product_id")
		args["product_id"] = *filter.ProductID
	}
	if filter.DateFrom != nil {
		conds = append(conds, "s.sale_date >= @date_from")
		args["date_from"] = pgtype.Date{Time: model.DateOnly(*filter.DateFrom), Valid: true}
	}
	if filter.DateTo != nil {
		conds = append(conds, "s.sale_date <= @date_to")
		args["date_to"] = pgtype.Date{Time: model.DateOnly(*filter.DateTo), Valid: true}
	}
	if filter.MinTotal != nil {
		conds = append(conds, "s.total >= @min_total")
		args["min_total"] = decimalToNumeric(*filter.MinTotal)
	}
	if filter.MaxTotal != nil {
		conds = append(conds, "s.total <= @max_total")
		args["max_total"] = decimalToNumeric(*filter.MaxTotal)
	}
	if filter.Status != nil {
		conds = append(conds, "s.status = @status")
		args["status"] = string(*filter.Status)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanSale(row pgx.CollectableRow) (model.Sale, error) {
	var (
		sale   model.Sale
		day    pgtype.Date
		total  pgtype.Numeric
		status string
	)
	if err := row.Scan(
		&sale.ID,
		&sale.ProductID,
		&sale.ProductName,
		&sale.Quantity,
		&day,
		&total,
		&status,
		&sale.CreatedAt,
	); err != nil {
		return model.Sale{}, err
	}

	t, err := numericToDecimal(total)
	if err != nil {
		return model.Sale{}, fmt.Errorf("convert total: %w", err)
	}

	sale.Date = day.Time
	sale.Total = t
	sale.Status = model.SaleStatus(status)

	return sale, nil
}
