package app_test

import (
	"context"
	"errors"
	"time"

	"roomdesk/internal/domain"
)

// ---- fakes over the domain ports ----

type fakeRooms struct {
	rooms map[string]domain.Room
}

func (f *fakeRooms) ListRooms(ctx context.Context) ([]domain.Room, error) {
	out := make([]domain.Room, 0, len(f.rooms))
	for _, r := range f.rooms {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRooms) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	r, ok := f.rooms[id]
	if !ok {
		return domain.Room{}, domain.ErrNotFound
	}
	return r, nil
}

func (f *fakeRooms) UpsertRoom(ctx context.Context, r domain.Room) error {
	if f.rooms == nil {
		f.rooms = map[string]domain.Room{}
	}
	f.rooms[r.ID] = r
	return nil
}

func (f *fakeRooms) DeleteRoom(ctx context.Context, id string) error {
	delete(f.rooms, id)
	return nil
}

type fakeBookings struct {
	store     map[string]domain.Booking
	creates   int
	updates   int
	updateErr error
}

func (f *fakeBookings) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	out := make([]domain.Booking, 0, len(f.store))
	for _, b := range f.store {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookings) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	b, ok := f.store[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}

func (f *fakeBookings) CreateBooking(ctx context.Context, b domain.Booking) error {
	f.creates++
	if f.store == nil {
		f.store = map[string]domain.Booking{}
	}
	f.store[b.ID] = b
	return nil
}

func (f *fakeBookings) UpdateBooking(ctx context.Context, b domain.Booking) error {
	f.updates++
	if f.updateErr != nil {
		return f.updateErr
	}
	cur, ok := f.store[b.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != b.Version {
		return domain.ErrVersionConflict
	}
	b.Version++
	f.store[b.ID] = b
	return nil
}

func (f *fakeBookings) DeleteBooking(ctx context.Context, id string) error {
	delete(f.store, id)
	return nil
}

type sentMail struct {
	booking domain.Booking
	subject string
	body    string
}

type recordNotifier struct {
	sent []sentMail
	fail bool
}

func (n *recordNotifier) SendStatusEmail(ctx context.Context, b domain.Booking, subject, body string) error {
	n.sent = append(n.sent, sentMail{booking: b, subject: subject, body: body})
	if n.fail {
		return errors.New("smtp: connection refused")
	}
	return nil
}

// ---- helpers ----

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
