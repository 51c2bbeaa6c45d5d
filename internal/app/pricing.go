package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roomdesk/internal/domain"
)

const day = 24 * time.Hour

// Nights returns the whole-day count between check-in and check-out, the
// basis for pricing. Zero when checkOut is not strictly after checkIn.
func Nights(checkIn, checkOut time.Time) int {
	n := int(checkOut.Truncate(day).Sub(checkIn.Truncate(day)) / day)
	if n < 0 {
		return 0
	}
	return n
}

// Total prices a stay: sum of per-night room prices times Nights. A room id
// the catalog no longer resolves is a hard failure (ErrUnknownRoom), never a
// silent zero contribution.
func Total(ctx context.Context, rooms domain.RoomRepository, roomIDs []string, checkIn, checkOut time.Time) (int64, error) {
	nights := Nights(checkIn, checkOut)
	if nights <= 0 {
		return 0, fmt.Errorf("stay of %d nights: %w", nights, errInvalidDuration)
	}
	var total int64
	for _, id := range roomIDs {
		r, err := rooms.GetRoom(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return 0, fmt.Errorf("room %q: %w", id, domain.ErrUnknownRoom)
			}
			return 0, err
		}
		total += r.Price * int64(nights)
	}
	return total, nil
}
