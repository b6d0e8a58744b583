package services

import (
	"context"
	"errors"

	"foodhub/db"
	"foodhub/models"

	"github.com/jackc/pgx/v5"
)

// GetBusinessSettings loads the single settings row. Returns defaults when
// none has been saved yet.
func GetBusinessSettings(ctx context.Context) (*models.BusinessSettings, error) {
	var s models.BusinessSettings
	err := db.Pool.QueryRow(ctx, `
		SELECT first_order_discount_percent, happy_hour_start, happy_hour_end,
		       happy_hour_percent, open_time, close_time
		FROM business_settings WHERE id = 1`,
	).Scan(&s.FirstOrderDiscountPercent, &s.HappyHourStart, &s.HappyHourEnd,
		&s.HappyHourPercent, &s.OpenTime, &s.CloseTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &models.BusinessSettings{FirstOrderDiscountPercent: firstOrderPercentMin}, nil
		}
		return nil, err
	}
	return &s, nil
}

// SaveBusinessSettings upserts the settings row (admin).
func SaveBusinessSettings(ctx context.Context, s *models.BusinessSettings) error {
	if s.HappyHourPercent < 0 || s.HappyHourPercent > 100 {
		return validationErr("happy hour percent must be between 0 and 100")
	}
	if s.HappyHourPercent > 0 {
		if _, ok := parseClock(s.HappyHourStart); !ok {
			return validationErr("happy hour start must be HH:MM")
		}
		if _, ok := parseClock(s.HappyHourEnd); !ok {
			return validationErr("happy hour end must be HH:MM")
		}
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO business_settings (id, first_order_discount_percent, happy_hour_start,
			happy_hour_end, happy_hour_percent, open_time, close_time, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (id) DO UPDATE SET
			first_order_discount_percent = EXCLUDED.first_order_discount_percent,
			happy_hour_start = EXCLUDED.happy_hour_start,
			happy_hour_end = EXCLUDED.happy_hour_end,
			happy_hour_percent = EXCLUDED.happy_hour_percent,
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			updated_at = now()`,
		s.FirstOrderDiscountPercent, s.HappyHourStart, s.HappyHourEnd,
		s.HappyHourPercent, s.OpenTime, s.CloseTime,
	)
	return err
}
