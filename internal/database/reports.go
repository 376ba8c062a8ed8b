package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type DailySalesSummaryParams struct {
	TenantID uuid.UUID
	Day      time.Time
}

type DailySalesSummaryRow struct {
	OrderCount     int64
	GrossSales     pgtype.Numeric
	TotalTax       pgtype.Numeric
	TotalDiscounts pgtype.Numeric
	TotalDelivery  pgtype.Numeric
}

// DailySalesSummary aggregates one day's non-cancelled orders.
func (q *Queries) DailySalesSummary(ctx context.Context, arg DailySalesSummaryParams) (DailySalesSummaryRow, error) {
	var r DailySalesSummaryRow
	err := q.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(total_amount), 0),
		       COALESCE(SUM(tax_amount), 0),
		       COALESCE(SUM(discount_amount), 0),
		       COALESCE(SUM(delivery_fee), 0)
		FROM orders
		WHERE tenant_id = $1
		  AND created_at::date = $2::date
		  AND status <> 'CANCELLED'`,
		arg.TenantID, arg.Day).
		Scan(&r.OrderCount, &r.GrossSales, &r.TotalTax, &r.TotalDiscounts, &r.TotalDelivery)
	return r, err
}

type OrderTypeBreakdownRow struct {
	OrderType  string
	OrderCount int64
	GrossSales pgtype.Numeric
}

// OrderTypeBreakdown splits a day's sales by order type for the dashboard.
func (q *Queries) OrderTypeBreakdown(ctx context.Context, arg DailySalesSummaryParams) ([]OrderTypeBreakdownRow, error) {
	rows, err := q.db.Query(ctx, `
		SELECT order_type, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE tenant_id = $1
		  AND created_at::date = $2::date
		  AND status <> 'CANCELLED'
		GROUP BY order_type
		ORDER BY order_type`,
		arg.TenantID, arg.Day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderTypeBreakdownRow
	for rows.Next() {
		var r OrderTypeBreakdownRow
		if err := rows.Scan(&r.OrderType, &r.OrderCount, &r.GrossSales); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
