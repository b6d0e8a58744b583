package models

import "time"

type Rider struct {
	ID        string
	FullName  string
	Phone     string
	IsActive  bool
	CreatedAt time.Time
}

// RiderLocation holds the latest reported position only; reports overwrite.
type RiderLocation struct {
	RiderID   string
	Lat       float64
	Lng       float64
	UpdatedAt time.Time
}
