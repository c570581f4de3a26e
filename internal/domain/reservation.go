package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
)

// OpenStatuses hold the car; at most one reservation per car may be in one of them.
var OpenStatuses = []ReservationStatus{ReservationStatusPending, ReservationStatusConfirmed}

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCancelled, ReservationStatusCompleted:
		return true
	}
	return false
}

func (s ReservationStatus) IsOpen() bool {
	return s == ReservationStatusPending || s == ReservationStatusConfirmed
}

// CarStatusFor returns the car status that accompanies a reservation moving to s.
func (s ReservationStatus) CarStatusFor() CarStatus {
	switch s {
	case ReservationStatusConfirmed:
		return CarStatusReserved
	case ReservationStatusCancelled, ReservationStatusCompleted:
		return CarStatusAvailable
	default:
		return CarStatusReserved
	}
}

type PeriodStatus string

const (
	PeriodStatusEnded PeriodStatus = "ENDED"
)

type Reservation struct {
	ID              int32             `json:"id"`
	UserID          int32             `json:"user_id"`
	CarID           int32             `json:"car_id"`
	StartDate       time.Time         `json:"start_date"`
	EndDate         time.Time         `json:"end_date"`
	TotalPriceCents int64             `json:"total_price_cents"`
	Status          ReservationStatus `json:"status"`
	PeriodStatus    *PeriodStatus     `json:"period_status,omitempty"`
	CreatedOn       time.Time         `json:"created_on"`
	UpdatedOn       time.Time         `json:"updated_on"`
}

type ReservationFilter struct {
	UserID int32
	CarID  int32
	Status ReservationStatus
}
