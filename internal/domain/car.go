package domain

import "time"

type CarStatus string

const (
	CarStatusAvailable   CarStatus = "AVAILABLE"
	CarStatusReserved    CarStatus = "RESERVED"
	CarStatusRented      CarStatus = "RENTED" // admin-only, no reservation flow reaches it
	CarStatusMaintenance CarStatus = "MAINTENANCE"
)

func (s CarStatus) Valid() bool {
	switch s {
	case CarStatusAvailable, CarStatusReserved, CarStatusRented, CarStatusMaintenance:
		return true
	}
	return false
}

// MaxPricePerDayCents caps a car's daily price (1,000,000.00).
const MaxPricePerDayCents int64 = 100_000_000

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

type Car struct {
	ID               int32     `json:"id"`
	Brand            string    `json:"brand"`
	Model            string    `json:"model"`
	Year             int32     `json:"year"`
	PricePerDayCents int64     `json:"price_per_day_cents"`
	Status           CarStatus `json:"status"`
	Location         *Location `json:"location,omitempty"`
	Version          int64     `json:"version"`
	CreatedOn        time.Time `json:"created_on"`
	UpdatedOn        time.Time `json:"updated_on"`
}

// CarWithDistance is a read-side projection; DistanceKm is never persisted.
type CarWithDistance struct {
	Car
	DistanceKm float64 `json:"distance_km"`
}

type CarFilter struct {
	Status CarStatus
	Brand  string
}
