package services

import (
	"context"
	"errors"
	"strings"

	"foodhub/db"
	"foodhub/models"

	"github.com/jackc/pgx/v5"
)

const maxCommentLen = 500

type RatingInput struct {
	Phone    string
	Stars    int
	Delivery *int
	Quality  *int
	Comment  string
}

// clampSubRating folds optional sub-ratings into [1,5].
func clampSubRating(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	if n < 1 {
		n = 1
	}
	if n > 5 {
		n = 5
	}
	return &n
}

// truncateRunes caps s at n runes without splitting a character.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// SubmitRating records the customer's one-shot rating of a delivered order.
// The phone must match the one the order was placed with; a second rating
// is rejected rather than overwritten.
func SubmitRating(ctx context.Context, orderID int64, in RatingInput) (*models.Order, error) {
	if in.Stars < 1 || in.Stars > 5 {
		return nil, validationErr("stars must be between 1 and 5")
	}
	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		return nil, validationErr("phone must be provided")
	}

	o, err := GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, notFoundErr("order not found")
	}
	if phone != strings.TrimSpace(o.Phone) {
		return nil, unauthorizedErr("phone does not match this order")
	}
	if o.Status != OrderStatusDelivered {
		return nil, preconditionErr("only delivered orders can be rated")
	}
	if o.RatedAt != nil {
		return nil, preconditionErr("order has already been rated")
	}

	delivery := clampSubRating(in.Delivery)
	quality := clampSubRating(in.Quality)
	comment := truncateRunes(strings.TrimSpace(in.Comment), maxCommentLen)

	// Guarded update: under a race only one submission lands.
	updated, err := scanOrder(db.Pool.QueryRow(ctx, `
		UPDATE orders
		SET rating_stars = $1, rating_delivery = $2, rating_quality = $3,
		    rating_comment = NULLIF($4, ''), rated_at = now(), updated_at = now()
		WHERE id = $5 AND status = $6 AND rated_at IS NULL
		RETURNING`+orderColumns,
		in.Stars, delivery, quality, comment, orderID, OrderStatusDelivered,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, preconditionErr("order has already been rated")
		}
		return nil, err
	}
	return updated, nil
}
