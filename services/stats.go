package services

import (
	"context"

	"foodhub/db"
	"foodhub/models"
)

// GetDailyStats aggregates one calendar day of orders (admin dashboard).
func GetDailyStats(ctx context.Context, date string) (*models.DailyStats, error) {
	var s models.DailyStats
	err := db.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*)::int,
			COUNT(*) FILTER (WHERE status = $2)::int,
			COALESCE(SUM(sub_total), 0)::bigint,
			COALESCE(SUM(delivery_fee), 0)::bigint,
			COALESCE(SUM(discount_amount), 0)::bigint,
			COALESCE(SUM(amount_paid), 0)::bigint
		FROM orders
		WHERE created_at::date = $1::date`,
		date, OrderStatusDelivered,
	).Scan(&s.OrdersCount, &s.DeliveredCount, &s.ItemsRevenue, &s.DeliveryRevenue, &s.DiscountTotal, &s.Collected)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
