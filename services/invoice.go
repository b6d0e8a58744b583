package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"foodhub/db"

	"github.com/jackc/pgx/v5"
)

const (
	receiptAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	receiptRandomLen = 6
)

// GenerateReceiptNumber builds INV-{2-digit-year}{6 random uppercase
// alphanumerics} with crypto/rand.
func GenerateReceiptNumber(now time.Time) (string, error) {
	suffix := make([]byte, receiptRandomLen)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(receiptAlphabet))))
		if err != nil {
			return "", fmt.Errorf("receipt random: %w", err)
		}
		suffix[i] = receiptAlphabet[n.Int64()]
	}
	return fmt.Sprintf("INV-%02d%s", now.Year()%100, suffix), nil
}

// IssueInvoice assigns a receipt number to the order, or returns the one
// already issued. Safe to call repeatedly; under a race exactly one
// generated number wins and every caller sees it.
func IssueInvoice(ctx context.Context, actor Actor, orderID int64) (string, error) {
	if !actor.CanManageOrders() {
		return "", unauthorizedErr("only staff may issue invoices")
	}
	var existing *string
	err := db.Pool.QueryRow(ctx, `SELECT receipt_number FROM orders WHERE id = $1`, orderID).Scan(&existing)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", notFoundErr("order not found")
		}
		return "", err
	}
	if existing != nil && *existing != "" {
		return *existing, nil
	}

	number, err := GenerateReceiptNumber(time.Now())
	if err != nil {
		return "", err
	}
	var issued string
	err = db.Pool.QueryRow(ctx, `
		UPDATE orders
		SET receipt_number = $1, updated_at = now()
		WHERE id = $2 AND receipt_number IS NULL
		RETURNING receipt_number`,
		number, orderID,
	).Scan(&issued)
	if err == nil {
		return issued, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}
	// Lost the race: another caller issued first, reuse theirs.
	err = db.Pool.QueryRow(ctx, `SELECT receipt_number FROM orders WHERE id = $1`, orderID).Scan(&issued)
	if err != nil {
		return "", err
	}
	return issued, nil
}
