package app

import (
	"context"

	"roomdesk/internal/domain"
)

// Conflicts returns every accepted booking that shares at least one room
// with the candidate and overlaps its date range (boundary-exclusive, so
// same-day turnover is allowed). Pending and rejected bookings are never
// conflict sources, and the candidate never conflicts with itself.
//
// The result is a set; callers must not rely on its order. No booking is
// mutated: detecting a conflict and deciding what to do about it are
// separate concerns (the admin decides through the lifecycle service).
func Conflicts(candidate domain.Booking, all []domain.Booking) []domain.Booking {
	var out []domain.Booking
	for _, b := range all {
		if b.ID == candidate.ID || b.Status != domain.StatusAccepted {
			continue
		}
		if candidate.SharesRoom(b) && candidate.Overlaps(b) {
			out = append(out, b)
		}
	}
	return out
}

// AvailabilityService loads bookings from the store and applies Conflicts.
type AvailabilityService struct {
	bookings domain.BookingRepository
}

func NewAvailabilityService(b domain.BookingRepository) *AvailabilityService {
	return &AvailabilityService{bookings: b}
}

// ConflictsFor reports conflicts for a stored booking by id.
func (s *AvailabilityService) ConflictsFor(ctx context.Context, id string) ([]domain.Booking, error) {
	candidate, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	all, err := s.bookings.ListBookings(ctx)
	if err != nil {
		return nil, err
	}
	return Conflicts(candidate, all), nil
}
