package services

import (
	"context"
	"errors"
	"strings"

	"foodhub/db"
	"foodhub/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateRider registers a rider (admin).
func CreateRider(ctx context.Context, actor Actor, fullName, phone string) (*models.Rider, error) {
	if !actor.CanManageOrders() {
		return nil, unauthorizedErr("only staff may register riders")
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, validationErr("rider name must not be empty")
	}
	r := &models.Rider{ID: uuid.NewString(), FullName: fullName, Phone: strings.TrimSpace(phone), IsActive: true}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO riders (id, full_name, phone, is_active)
		VALUES ($1, $2, NULLIF($3, ''), true)
		RETURNING created_at`,
		r.ID, r.FullName, r.Phone,
	).Scan(&r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetRider loads a rider by id. Returns (nil, nil) when missing.
func GetRider(ctx context.Context, riderID string) (*models.Rider, error) {
	var r models.Rider
	err := db.Pool.QueryRow(ctx, `
		SELECT id, full_name, COALESCE(phone, ''), is_active, created_at
		FROM riders WHERE id = $1`,
		riderID,
	).Scan(&r.ID, &r.FullName, &r.Phone, &r.IsActive, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

// ListRiders returns all riders (admin).
func ListRiders(ctx context.Context) ([]models.Rider, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, full_name, COALESCE(phone, ''), is_active, created_at
		FROM riders ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.Rider
	for rows.Next() {
		var r models.Rider
		if err := rows.Scan(&r.ID, &r.FullName, &r.Phone, &r.IsActive, &r.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

// SetRiderActive enables or disables a rider (admin).
func SetRiderActive(ctx context.Context, actor Actor, riderID string, active bool) error {
	if !actor.CanManageOrders() {
		return unauthorizedErr("only staff may manage riders")
	}
	tag, err := db.Pool.Exec(ctx,
		`UPDATE riders SET is_active = $1 WHERE id = $2`, active, riderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFoundErr("rider not found")
	}
	return nil
}

// ReportLocation upserts the rider's latest position, overwriting any prior
// value. No history is kept.
func ReportLocation(ctx context.Context, actor Actor, lat, lng float64) error {
	if actor.Type != ActorRider {
		return unauthorizedErr("only riders may report location")
	}
	if !FiniteCoords(lat, lng) {
		return validationErr("invalid coordinates")
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO rider_locations (rider_id, lat, lng, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (rider_id) DO UPDATE SET lat = EXCLUDED.lat, lng = EXCLUDED.lng, updated_at = now()`,
		actor.RiderID, lat, lng,
	)
	return err
}

// GetRiderLocation returns the rider's latest position, (nil, nil) if the
// rider has never reported.
func GetRiderLocation(ctx context.Context, riderID string) (*models.RiderLocation, error) {
	var loc models.RiderLocation
	err := db.Pool.QueryRow(ctx, `
		SELECT rider_id, lat, lng, updated_at
		FROM rider_locations WHERE rider_id = $1`,
		riderID,
	).Scan(&loc.RiderID, &loc.Lat, &loc.Lng, &loc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &loc, nil
}

// OrderRiderLocation exposes the rider's position to whoever is viewing the
// order, but only while the order is on_the_way. Before dispatch and after
// delivery the feed reads as unavailable, so a customer cannot keep
// tracking the rider.
func OrderRiderLocation(ctx context.Context, orderID int64) (*models.RiderLocation, error) {
	o, err := GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, notFoundErr("order not found")
	}
	if o.Status != OrderStatusOnTheWay || o.RiderID == nil {
		return nil, preconditionErr("rider location is not available for this order")
	}
	loc, err := GetRiderLocation(ctx, *o.RiderID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, preconditionErr("rider has not reported a location yet")
	}
	return loc, nil
}
