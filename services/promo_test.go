package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"foodhub/db"
	"foodhub/models"
)

func promoFixture(mutate func(*models.PromoCode)) *models.PromoCode {
	p := &models.PromoCode{
		ID:       1,
		Code:     "SAVE10",
		Type:     models.PromoTypePercent,
		Value:    10,
		MinOrder: 0,
		IsActive: true,
	}
	if mutate != nil {
		mutate(p)
	}
	return p
}

func TestCheckPromoFailsClosed(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)
	limit := int64(3)

	tests := []struct {
		name     string
		promo    *models.PromoCode
		subtotal int64
		wantErr  bool
	}{
		{"valid", promoFixture(nil), 500, false},
		{"missing code", nil, 500, true},
		{"inactive", promoFixture(func(p *models.PromoCode) { p.IsActive = false }), 500, true},
		{"not started", promoFixture(func(p *models.PromoCode) { p.ValidFrom = &future }), 500, true},
		{"expired", promoFixture(func(p *models.PromoCode) { p.ValidTo = &past }), 500, true},
		{"below min order", promoFixture(func(p *models.PromoCode) { p.MinOrder = 1000 }), 500, true},
		{"limit reached", promoFixture(func(p *models.PromoCode) { p.UsageLimit = &limit; p.UsedCount = 3 }), 500, true},
		{"limit not reached", promoFixture(func(p *models.PromoCode) { p.UsageLimit = &limit; p.UsedCount = 2 }), 500, false},
		{"window open", promoFixture(func(p *models.PromoCode) { p.ValidFrom = &past; p.ValidTo = &future }), 500, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPromo(tt.promo, tt.subtotal, now)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckPromo() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && KindOf(err) != KindPrecondition {
				t.Errorf("CheckPromo() error kind = %q, want precondition", KindOf(err))
			}
		})
	}
}

func TestPromoDiscount(t *testing.T) {
	tests := []struct {
		name     string
		promo    *models.PromoCode
		subtotal int64
		want     int64
	}{
		{"percent", promoFixture(nil), 1000, 100},
		{"percent rounds half away", promoFixture(nil), 995, 100}, // 99.5 -> 100
		{"percent rounds down", promoFixture(nil), 994, 99},       // 99.4 -> 99
		{"fixed", promoFixture(func(p *models.PromoCode) { p.Type = models.PromoTypeFixed; p.Value = 200 }), 1000, 200},
		{"fixed capped at subtotal", promoFixture(func(p *models.PromoCode) { p.Type = models.PromoTypeFixed; p.Value = 500 }), 300, 300},
		{"full percent capped", promoFixture(func(p *models.PromoCode) { p.Value = 100 }), 777, 777},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PromoDiscount(tt.promo, tt.subtotal)
			if got != tt.want {
				t.Errorf("PromoDiscount() = %d, want %d", got, tt.want)
			}
			if got > tt.subtotal {
				t.Errorf("discount %d exceeds subtotal %d", got, tt.subtotal)
			}
		})
	}
}

func TestClampFirstOrderPercent(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 10},
		{9, 10},
		{10, 10},
		{12, 12},
		{15, 15},
		{16, 15},
		{100, 15},
	}
	for _, tt := range tests {
		if got := ClampFirstOrderPercent(tt.in); got != tt.want {
			t.Errorf("ClampFirstOrderPercent(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func happyHourSettings(start, end string, pct int) *models.BusinessSettings {
	return &models.BusinessSettings{HappyHourStart: start, HappyHourEnd: end, HappyHourPercent: pct}
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 6, 1, hour, minute, 0, 0, time.UTC)
}

func TestInHappyHour(t *testing.T) {
	tests := []struct {
		name     string
		settings *models.BusinessSettings
		now      time.Time
		want     bool
	}{
		{"inside window", happyHourSettings("14:00", "17:00", 20), at(15, 0), true},
		{"at start", happyHourSettings("14:00", "17:00", 20), at(14, 0), true},
		{"at end", happyHourSettings("14:00", "17:00", 20), at(17, 0), false},
		{"before window", happyHourSettings("14:00", "17:00", 20), at(13, 59), false},
		{"wraps midnight late", happyHourSettings("22:00", "02:00", 20), at(23, 30), true},
		{"wraps midnight early", happyHourSettings("22:00", "02:00", 20), at(1, 0), true},
		{"wraps midnight outside", happyHourSettings("22:00", "02:00", 20), at(12, 0), false},
		{"zero percent", happyHourSettings("14:00", "17:00", 0), at(15, 0), false},
		{"bad clock", happyHourSettings("noon", "17:00", 20), at(15, 0), false},
		{"nil settings", nil, at(15, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InHappyHour(tt.now, tt.settings); got != tt.want {
				t.Errorf("InHappyHour() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHappyHourDiscount(t *testing.T) {
	s := happyHourSettings("14:00", "17:00", 20)
	if got := HappyHourDiscount(at(15, 0), s, 1000); got != 200 {
		t.Errorf("inside window discount = %d, want 200", got)
	}
	if got := HappyHourDiscount(at(9, 0), s, 1000); got != 0 {
		t.Errorf("outside window discount = %d, want 0", got)
	}
}

// RedeemPromo guards the increment with used_count < usage_limit in the
// WHERE clause: once the limit is hit, further redemptions see zero rows and
// report "limit reached". Checkout shares this func inside its tx.
func TestRedeemPromoLimitIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if db.Pool == nil {
		t.Skip("no database configured")
	}
	ctx := context.Background()
	limit := int64(1)
	code := fmt.Sprintf("LIMIT1-%d", time.Now().UnixNano())
	p, err := UpsertPromo(ctx, models.UpsertPromoInput{
		Code: code, Type: models.PromoTypeFixed, Value: 50, UsageLimit: &limit, IsActive: true,
	})
	if err != nil {
		t.Fatalf("UpsertPromo: %v", err)
	}

	if err := RedeemPromo(ctx, db.Pool, p.Code); err != nil {
		t.Fatalf("first redemption: %v", err)
	}
	if err := RedeemPromo(ctx, db.Pool, p.Code); KindOf(err) != KindPrecondition {
		t.Errorf("second redemption: error kind %q, want precondition (%v)", KindOf(err), err)
	}

	after, err := GetPromoByCode(ctx, p.Code)
	if err != nil {
		t.Fatalf("GetPromoByCode: %v", err)
	}
	if after.UsedCount != 1 {
		t.Errorf("used_count = %d, want 1", after.UsedCount)
	}
}
