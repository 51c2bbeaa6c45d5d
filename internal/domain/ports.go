package domain

import "context"

type RoomRepository interface {
	ListRooms(ctx context.Context) ([]Room, error)
	GetRoom(ctx context.Context, id string) (Room, error) // ErrNotFound when missing
	UpsertRoom(ctx context.Context, r Room) error
	DeleteRoom(ctx context.Context, id string) error
}

type BookingRepository interface {
	ListBookings(ctx context.Context) ([]Booking, error)
	GetBooking(ctx context.Context, id string) (Booking, error) // ErrNotFound when missing
	CreateBooking(ctx context.Context, b Booking) error
	// UpdateBooking is conditional on b.Version matching the stored row and
	// bumps it by one; ErrVersionConflict when another write got there first.
	UpdateBooking(ctx context.Context, b Booking) error
	DeleteBooking(ctx context.Context, id string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Notifier delivers the status email for a decided booking. Implementations
// never panic; a missing mail configuration is a returned error like any
// other delivery failure.
type Notifier interface {
	SendStatusEmail(ctx context.Context, b Booking, subject, body string) error
}

// CredentialVerifier gates the admin surface. The lifecycle core assumes the
// check already passed by the time its operations are invoked.
type CredentialVerifier interface {
	Verify(token string) bool
}
