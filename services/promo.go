package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"foodhub/db"
	"foodhub/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	firstOrderPercentMin = 10
	firstOrderPercentMax = 15
)

// GetPromoByCode looks a promo up case-insensitively. Returns (nil, nil)
// when the code does not exist.
func GetPromoByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	var p models.PromoCode
	err := db.Pool.QueryRow(ctx, `
		SELECT id, code, type, value, min_order, usage_limit, used_count,
		       valid_from, valid_to, is_active, created_at, updated_at
		FROM promo_codes
		WHERE lower(code) = lower($1)`,
		strings.TrimSpace(code),
	).Scan(&p.ID, &p.Code, &p.Type, &p.Value, &p.MinOrder, &p.UsageLimit, &p.UsedCount,
		&p.ValidFrom, &p.ValidTo, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// CheckPromo applies the validity rules for a loaded promo against a
// subtotal. Fails closed: every rejection is a precondition error with a
// specific reason and no state is touched.
func CheckPromo(p *models.PromoCode, subtotal int64, now time.Time) error {
	if p == nil {
		return preconditionErr("promo code is not valid")
	}
	if !p.IsActive {
		return preconditionErr("promo code is not active")
	}
	if p.ValidFrom != nil && now.Before(*p.ValidFrom) {
		return preconditionErr("promo code is not valid yet")
	}
	if p.ValidTo != nil && now.After(*p.ValidTo) {
		return preconditionErr("promo code has expired")
	}
	if subtotal < p.MinOrder {
		return preconditionErr("order total is below the promo minimum")
	}
	if p.UsageLimit != nil && p.UsedCount >= *p.UsageLimit {
		return preconditionErr("promo code usage limit reached")
	}
	return nil
}

// PromoDiscount computes the discount for a valid promo. Percent values
// round half away from zero; the discount never exceeds the subtotal.
func PromoDiscount(p *models.PromoCode, subtotal int64) int64 {
	var d int64
	switch p.Type {
	case models.PromoTypePercent:
		d = roundPercent(subtotal, float64(p.Value))
	case models.PromoTypeFixed:
		d = p.Value
	}
	if d > subtotal {
		d = subtotal
	}
	if d < 0 {
		d = 0
	}
	return d
}

// ValidatePromo loads and checks a code. The returned discount is zero when
// err is non-nil.
func ValidatePromo(ctx context.Context, code string, subtotal int64, now time.Time) (int64, *models.PromoCode, error) {
	p, err := GetPromoByCode(ctx, code)
	if err != nil {
		return 0, nil, err
	}
	if err := CheckPromo(p, subtotal, now); err != nil {
		return 0, nil, err
	}
	return PromoDiscount(p, subtotal), p, nil
}

// execer is satisfied by both the pool and a transaction, so redemption can
// run standalone or inside a checkout tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// RedeemPromo increments used_count by one, atomically refusing once the
// usage limit is hit. The conditional WHERE means two concurrent
// redemptions of a limit-1 code cannot both succeed.
func RedeemPromo(ctx context.Context, q execer, code string) error {
	tag, err := q.Exec(ctx, `
		UPDATE promo_codes
		SET used_count = used_count + 1, updated_at = now()
		WHERE lower(code) = lower($1)
		  AND is_active
		  AND (usage_limit IS NULL OR used_count < usage_limit)`,
		strings.TrimSpace(code),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return preconditionErr("promo code usage limit reached")
	}
	return nil
}

// ClampFirstOrderPercent keeps the configured first-order percent inside
// the allowed [10,15] band.
func ClampFirstOrderPercent(pct int) int {
	if pct < firstOrderPercentMin {
		return firstOrderPercentMin
	}
	if pct > firstOrderPercentMax {
		return firstOrderPercentMax
	}
	return pct
}

// FirstOrderDiscount returns the welcome discount when the phone has never
// placed an order; zero otherwise.
func FirstOrderDiscount(ctx context.Context, phone string, subtotal int64, configuredPct int) (int64, error) {
	var count int
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE phone = $1`,
		strings.TrimSpace(phone),
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	if count != 0 {
		return 0, nil
	}
	d := roundPercent(subtotal, float64(ClampFirstOrderPercent(configuredPct)))
	if d > subtotal {
		d = subtotal
	}
	return d, nil
}

// InHappyHour reports whether now falls inside the configured daily window.
// A window with end before start wraps past midnight; an empty window is
// never active.
func InHappyHour(now time.Time, s *models.BusinessSettings) bool {
	if s == nil || s.HappyHourPercent <= 0 {
		return false
	}
	start, ok1 := parseClock(s.HappyHourStart)
	end, ok2 := parseClock(s.HappyHourEnd)
	if !ok1 || !ok2 || start == end {
		return false
	}
	cur := now.Hour()*60 + now.Minute()
	if start < end {
		return cur >= start && cur < end
	}
	return cur >= start || cur < end
}

// HappyHourDiscount computes the standing happy-hour discount, zero outside
// the window.
func HappyHourDiscount(now time.Time, s *models.BusinessSettings, subtotal int64) int64 {
	if !InHappyHour(now, s) {
		return 0
	}
	d := roundPercent(subtotal, float64(s.HappyHourPercent))
	if d > subtotal {
		d = subtotal
	}
	return d
}

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(s string) (int, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// UpsertPromo creates or updates a promo code (admin). The code keeps its
// used_count across edits.
func UpsertPromo(ctx context.Context, in models.UpsertPromoInput) (*models.PromoCode, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, validationErr("promo code must not be empty")
	}
	if in.Type != models.PromoTypePercent && in.Type != models.PromoTypeFixed {
		return nil, validationErr("promo type must be percent or fixed")
	}
	if in.Value <= 0 {
		return nil, validationErr("promo value must be positive")
	}
	if in.Type == models.PromoTypePercent && in.Value > 100 {
		return nil, validationErr("percent promo value must not exceed 100")
	}
	if in.MinOrder < 0 {
		return nil, validationErr("promo min order must not be negative")
	}
	if in.UsageLimit != nil && *in.UsageLimit < 1 {
		return nil, validationErr("promo usage limit must be at least 1")
	}
	var p models.PromoCode
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO promo_codes (code, type, value, min_order, usage_limit, valid_from, valid_to, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (lower(code)) DO UPDATE SET
			type = EXCLUDED.type,
			value = EXCLUDED.value,
			min_order = EXCLUDED.min_order,
			usage_limit = EXCLUDED.usage_limit,
			valid_from = EXCLUDED.valid_from,
			valid_to = EXCLUDED.valid_to,
			is_active = EXCLUDED.is_active,
			updated_at = now()
		RETURNING id, code, type, value, min_order, usage_limit, used_count,
		          valid_from, valid_to, is_active, created_at, updated_at`,
		code, in.Type, in.Value, in.MinOrder, in.UsageLimit, in.ValidFrom, in.ValidTo, in.IsActive,
	).Scan(&p.ID, &p.Code, &p.Type, &p.Value, &p.MinOrder, &p.UsageLimit, &p.UsedCount,
		&p.ValidFrom, &p.ValidTo, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPromos returns all promo codes, newest first (admin).
func ListPromos(ctx context.Context) ([]models.PromoCode, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, code, type, value, min_order, usage_limit, used_count,
		       valid_from, valid_to, is_active, created_at, updated_at
		FROM promo_codes
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.PromoCode
	for rows.Next() {
		var p models.PromoCode
		if err := rows.Scan(&p.ID, &p.Code, &p.Type, &p.Value, &p.MinOrder, &p.UsageLimit, &p.UsedCount,
			&p.ValidFrom, &p.ValidTo, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

// DeactivatePromo flips is_active off without deleting redemption history.
func DeactivatePromo(ctx context.Context, code string) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE promo_codes SET is_active = false, updated_at = now() WHERE lower(code) = lower($1)`,
		strings.TrimSpace(code),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFoundErr("promo code not found")
	}
	return nil
}
