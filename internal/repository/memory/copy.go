package memory

import (
	"cmp"
	"slices"

	"carrental-backend/internal/domain"
)

func copyLocation(l *domain.Location) *domain.Location {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}

func copyPeriod(p *domain.PeriodStatus) *domain.PeriodStatus {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func copyCar(c domain.Car) domain.Car {
	c.Location = copyLocation(c.Location)
	return c
}

func copyReservation(rs domain.Reservation) domain.Reservation {
	rs.PeriodStatus = copyPeriod(rs.PeriodStatus)
	return rs
}

func sortedKeys[V any](m map[int32]V) []int32 {
	keys := make([]int32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func sortByEndDate(rs []domain.Reservation) {
	slices.SortStableFunc(rs, func(a, b domain.Reservation) int {
		return cmp.Compare(a.EndDate.UnixNano(), b.EndDate.UnixNano())
	})
}
