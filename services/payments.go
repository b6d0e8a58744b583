package services

import (
	"context"
	"errors"

	"foodhub/db"
	"foodhub/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func validPaymentMethod(m string) bool {
	switch m {
	case "cash", "card", "online":
		return true
	}
	return false
}

func validPaymentChannel(c string) bool {
	switch c {
	case "pos", "online":
		return true
	}
	return false
}

// RecordPayment appends a payment and moves amount_paid/amount_due on the
// order in one transaction. amount_paid never exceeds total_price; an
// overpayment is rejected before any write.
func RecordPayment(ctx context.Context, actor Actor, orderID int64, amount int64, method, channel string) (*models.Payment, error) {
	if !actor.CanManageOrders() {
		return nil, unauthorizedErr("only staff may record payments")
	}
	if amount <= 0 {
		return nil, validationErr("payment amount must be positive")
	}
	if !validPaymentMethod(method) {
		return nil, validationErr("unknown payment method %q", method)
	}
	if !validPaymentChannel(channel) {
		return nil, validationErr("unknown payment channel %q", channel)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var totalPrice, amountPaid int64
	err = tx.QueryRow(ctx,
		`SELECT total_price, amount_paid FROM orders WHERE id = $1 FOR UPDATE`, orderID,
	).Scan(&totalPrice, &amountPaid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFoundErr("order not found")
		}
		return nil, err
	}
	if amountPaid+amount > totalPrice {
		return nil, preconditionErr("payment exceeds amount due")
	}

	p := &models.Payment{ID: uuid.NewString(), OrderID: orderID, Amount: amount, Method: method, Channel: channel}
	err = tx.QueryRow(ctx, `
		INSERT INTO order_payments (id, order_id, amount, method, channel)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		p.ID, orderID, amount, method, channel,
	).Scan(&p.CreatedAt)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE orders
		SET amount_paid = amount_paid + $1,
		    amount_due = total_price - (amount_paid + $1),
		    payment_received_at = CASE WHEN amount_paid + $1 >= total_price THEN now() ELSE payment_received_at END,
		    updated_at = now()
		WHERE id = $2`,
		amount, orderID,
	)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPayments returns an order's payments in the order they were taken.
func ListPayments(ctx context.Context, orderID int64) ([]models.Payment, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, order_id, amount, method, channel, created_at
		FROM order_payments WHERE order_id = $1 ORDER BY created_at`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.Channel, &p.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}
