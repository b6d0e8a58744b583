package services

import (
	"math"

	"foodhub/config"
)

const (
	defaultFreeRadiusKm = 5.0
	defaultFeePerKm     = 30
)

// HaversineDistanceKm returns the great-circle distance between two points
// on a spherical Earth (R = 6371 km). Symmetric; zero for identical points.
func HaversineDistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}

// CalcDeliveryFee is free within freeRadiusKm, then feePerKm for every km
// beyond it with partial distance rounded up to the next whole unit.
func CalcDeliveryFee(distanceKm, freeRadiusKm float64, feePerKm int64) int64 {
	if freeRadiusKm <= 0 {
		freeRadiusKm = defaultFreeRadiusKm
	}
	if feePerKm <= 0 {
		feePerKm = defaultFeePerKm
	}
	if distanceKm <= freeRadiusKm {
		return 0
	}
	return int64(math.Ceil((distanceKm - freeRadiusKm) * float64(feePerKm)))
}

// FiniteCoords reports whether both coordinates are finite and inside valid
// degree ranges. Callers must reject input before pricing it.
func FiniteCoords(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// DeliveryFeeFor prices the trip from the store to the customer. Missing
// coordinates fall back to the configured flat fee.
func DeliveryFeeFor(cfg config.PricingConfig, lat, lng *float64) (fee int64, distanceKm float64, err error) {
	if lat == nil || lng == nil {
		return cfg.DefaultDeliveryFee, 0, nil
	}
	if !FiniteCoords(*lat, *lng) {
		return 0, 0, validationErr("invalid coordinates")
	}
	km := HaversineDistanceKm(cfg.StoreLat, cfg.StoreLng, *lat, *lng)
	return CalcDeliveryFee(km, cfg.FreeRadiusKm, cfg.FeePerKm), km, nil
}

// roundPercent computes round-half-away-from-zero of amount*percent/100.
func roundPercent(amount int64, percent float64) int64 {
	return int64(math.Round(float64(amount) * percent / 100))
}
