package utils

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const day = 24 * time.Hour

// ErrCostOverflow is returned when a rental's total does not fit in int64 cents.
var ErrCostOverflow = errors.New("rental cost overflows")

// RentalDays returns the number of billable days between start and end,
// rounding any partial day up.
func RentalDays(start, end time.Time) (int64, error) {
	if !end.After(start) {
		return 0, fmt.Errorf("end date %s must be after start date %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return int64(math.Ceil(float64(end.Sub(start)) / float64(day))), nil
}

// CalculateRentalCost prices a rental at pricePerDayCents for every started day.
// The result is never negative.
func CalculateRentalCost(start, end time.Time, pricePerDayCents int64) (int64, error) {
	if pricePerDayCents <= 0 {
		return 0, fmt.Errorf("price per day must be positive, got %d", pricePerDayCents)
	}
	days, err := RentalDays(start, end)
	if err != nil {
		return 0, err
	}
	if days > math.MaxInt64/pricePerDayCents {
		return 0, fmt.Errorf("%w: %d days at %d cents", ErrCostOverflow, days, pricePerDayCents)
	}
	return pricePerDayCents * days, nil
}
