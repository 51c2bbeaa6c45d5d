package domain

import "time"

type BookingStatus string

const (
	StatusPending  BookingStatus = "pending"
	StatusAccepted BookingStatus = "accepted"
	StatusRejected BookingStatus = "rejected"
)

// Terminal reports whether no further transition is defined for the status.
func (s BookingStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Booking is a guest stay request. CheckIn/CheckOut are whole days at UTC
// midnight. TotalPrice is a snapshot of price x nights at the last
// (re)computation; it does not track later room price edits.
//
// Version guards status writes: BookingRepository.UpdateBooking is a
// compare-and-swap on it and fails with ErrVersionConflict on mismatch.
type Booking struct {
	ID         string
	RoomIDs    []string
	GuestName  string
	GuestPhone string
	GuestEmail string
	CheckIn    time.Time
	CheckOut   time.Time
	Status     BookingStatus
	TotalPrice int64
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// SharesRoom reports whether b and other reference at least one common room.
func (b Booking) SharesRoom(other Booking) bool {
	for _, id := range b.RoomIDs {
		for _, oid := range other.RoomIDs {
			if id == oid {
				return true
			}
		}
	}
	return false
}

// Overlaps applies the boundary-exclusive range rule: checking in on the
// day another stay checks out is a same-day turnover, not an overlap.
func (b Booking) Overlaps(other Booking) bool {
	return b.CheckIn.Before(other.CheckOut) && b.CheckOut.After(other.CheckIn)
}
