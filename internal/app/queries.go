package app

import (
	"context"
	"fmt"
	"time"

	"roomdesk/internal/domain"
)

const roomsKey = "rooms:all"

// QueryService is the read side. Room reads go through the cache with a
// TTL; booking reads always hit the store so the admin sees fresh state.
type QueryService struct {
	rooms    domain.RoomRepository
	bookings domain.BookingRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.RoomRepository, b domain.BookingRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{rooms: r, bookings: b, cache: c, cacheTTL: ttl}
}

func (s *QueryService) ListRooms(ctx context.Context) ([]domain.Room, error) {
	var out []domain.Room
	if ok, _ := s.cache.Get(ctx, roomsKey, &out); ok {
		return out, nil
	}
	rs, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	// copy to avoid aliasing the repo's backing array
	out = make([]domain.Room, len(rs))
	copy(out, rs)
	_ = s.cache.Set(ctx, roomsKey, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func (s *QueryService) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	key := roomKey(id)
	var r domain.Room
	if ok, _ := s.cache.Get(ctx, key, &r); ok {
		return r, nil
	}
	r, err := s.rooms.GetRoom(ctx, id)
	if err != nil {
		return domain.Room{}, err
	}
	_ = s.cache.Set(ctx, key, r, int(s.cacheTTL.Seconds()))
	return r, nil
}

func (s *QueryService) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.ListBookings(ctx)
}

func (s *QueryService) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	return s.bookings.GetBooking(ctx, id)
}

func roomKey(id string) string { return fmt.Sprintf("room:%s", id) }
