package models

import "time"

const (
	PromoTypePercent = "percent"
	PromoTypeFixed   = "fixed"
)

// PromoCode is a discount rule. Codes are unique case-insensitively.
// UsageLimit nil means unlimited; ValidFrom/ValidTo nil mean open-ended.
type PromoCode struct {
	ID         int64
	Code       string
	Type       string
	Value      int64
	MinOrder   int64
	UsageLimit *int64
	UsedCount  int64
	ValidFrom  *time.Time
	ValidTo    *time.Time
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type UpsertPromoInput struct {
	Code       string
	Type       string
	Value      int64
	MinOrder   int64
	UsageLimit *int64
	ValidFrom  *time.Time
	ValidTo    *time.Time
	IsActive   bool
}

// BusinessSettings is a single-row table with storefront-wide knobs.
// Happy hour times are "HH:MM" in store-local time; the window may wrap
// past midnight.
type BusinessSettings struct {
	FirstOrderDiscountPercent int
	HappyHourStart            string
	HappyHourEnd              string
	HappyHourPercent          int
	OpenTime                  string
	CloseTime                 string
}
