package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"roomdesk/internal/app"
	"roomdesk/internal/domain"
)

func newLifecycle(rooms *fakeRooms, bookings *fakeBookings, n *recordNotifier) *app.LifecycleService {
	return app.NewLifecycleService(rooms, bookings, n)
}

func validInput() app.CreateBookingInput {
	return app.CreateBookingInput{
		RoomIDs:    []string{"r1"},
		GuestName:  "Ana Petrova",
		GuestEmail: "ana@example.com",
		CheckIn:    date(2024, time.June, 1),
		CheckOut:   date(2024, time.June, 3),
	}
}

func TestCreate_PendingWithComputedTotal(t *testing.T) {
	rooms := &fakeRooms{rooms: map[string]domain.Room{"r1": {ID: "r1", Price: 20000}}}
	bookings := &fakeBookings{}
	svc := newLifecycle(rooms, bookings, &recordNotifier{})

	b, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if b.Status != domain.StatusPending {
		t.Fatalf("status = %s, want pending", b.Status)
	}
	if b.TotalPrice != 40000 {
		t.Fatalf("total = %d, want 40000", b.TotalPrice)
	}
	if b.ID == "" || b.CreatedAt.IsZero() {
		t.Fatalf("missing id or created_at: %+v", b)
	}
	if bookings.creates != 1 {
		t.Fatalf("expected one persisted booking, got %d", bookings.creates)
	}
}

func TestCreate_ValidationBlocksBeforePersistence(t *testing.T) {
	rooms := &fakeRooms{rooms: map[string]domain.Room{"r1": {ID: "r1", Price: 20000}}}

	cases := []struct {
		name   string
		mutate func(*app.CreateBookingInput)
	}{
		{"no rooms", func(in *app.CreateBookingInput) { in.RoomIDs = nil }},
		{"bad email", func(in *app.CreateBookingInput) { in.GuestEmail = "not-an-email" }},
		{"missing dates", func(in *app.CreateBookingInput) { in.CheckIn, in.CheckOut = time.Time{}, time.Time{} }},
		{"inverted dates", func(in *app.CreateBookingInput) {
			in.CheckIn, in.CheckOut = date(2024, time.June, 3), date(2024, time.June, 1)
		}},
		{"zero nights", func(in *app.CreateBookingInput) { in.CheckOut = in.CheckIn }},
		{"unknown room", func(in *app.CreateBookingInput) { in.RoomIDs = []string{"ghost"} }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			bookings := &fakeBookings{}
			svc := newLifecycle(rooms, bookings, &recordNotifier{})

			in := validInput()
			c.mutate(&in)
			_, err := svc.Create(context.Background(), in)
			if !app.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if bookings.creates != 0 {
				t.Fatalf("validation failure must not persist, got %d writes", bookings.creates)
			}
		})
	}
}

func seedPending(bookings *fakeBookings) domain.Booking {
	b := domain.Booking{
		ID:         "bk-1",
		RoomIDs:    []string{"r1"},
		GuestName:  "Ana Petrova",
		GuestEmail: "ana@example.com",
		CheckIn:    date(2024, time.June, 1),
		CheckOut:   date(2024, time.June, 3),
		Status:     domain.StatusPending,
		TotalPrice: 40000,
		Version:    1,
		CreatedAt:  time.Now().UTC(),
	}
	if bookings.store == nil {
		bookings.store = map[string]domain.Booking{}
	}
	bookings.store[b.ID] = b
	return b
}

func TestAccept_KeepsCheckInAndNotifiesOnce(t *testing.T) {
	rooms := &fakeRooms{rooms: map[string]domain.Room{"r1": {ID: "r1", Price: 20000}}}
	bookings := &fakeBookings{}
	notifier := &recordNotifier{}
	svc := newLifecycle(rooms, bookings, notifier)
	seedPending(bookings)

	d, err := svc.Accept(context.Background(), "bk-1", nil)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if d.Booking.Status != domain.StatusAccepted {
		t.Fatalf("status = %s, want accepted", d.Booking.Status)
	}
	if !d.Booking.CheckIn.Equal(date(2024, time.June, 1)) {
		t.Fatalf("check-in changed without a proposed date: %v", d.Booking.CheckIn)
	}
	if d.NotifyErr != nil {
		t.Fatalf("unexpected notify error: %v", d.NotifyErr)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected exactly one notification attempt, got %d", len(notifier.sent))
	}
	if stored := bookings.store["bk-1"]; stored.Status != domain.StatusAccepted {
		t.Fatalf("stored status = %s, want accepted", stored.Status)
	}
}

func TestAccept_ProposedCheckInShiftsStayAndReprices(t *testing.T) {
	rooms := &fakeRooms{rooms: map[string]domain.Room{"r1": {ID: "r1", Price: 20000}}}
	bookings := &fakeBookings{}
	svc := newLifecycle(rooms, bookings, &recordNotifier{})
	seedPending(bookings)

	proposed := date(2024, time.June, 2)
	d, err := svc.Accept(context.Background(), "bk-1", &proposed)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !d.Booking.CheckIn.Equal(proposed) {
		t.Fatalf("check-in = %v, want %v", d.Booking.CheckIn, proposed)
	}
	// one night left after the shift
	if d.Booking.TotalPrice != 20000 {
		t.Fatalf("total = %d, want 20000", d.Booking.TotalPrice)
	}
}

func TestAccept_ProposedCheckInPastCheckOut(t *testing.T) {
	rooms := &fakeRooms{rooms: map[string]domain.Room{"r1": {ID: "r1", Price: 20000}}}
	bookings := &fakeBookings{}
	svc := newLifecycle(rooms, bookings, &recordNotifier{})
	seedPending(bookings)

	proposed := date(2024, time.June, 9)
	if _, err := svc.Accept(context.Background(), "bk-1", &proposed); !app.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReject_EmbedsReasonInBody(t *testing.T) {
	rooms := &fakeRooms{rooms: map[string]domain.Room{"r1": {ID: "r1", Price: 20000}}}
	bookings := &fakeBookings{}
	notifier := &recordNotifier{}
	svc := newLifecycle(rooms, bookings, notifier)
	seedPending(bookings)

	d, err := svc.Reject(context.Background(), "bk-1", "fully booked")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if d.Booking.Status != domain.StatusRejected {
		t.Fatalf("status = %s, want rejected", d.Booking.Status)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifier.sent))
	}
	if !strings.Contains(notifier.sent[0].body, "fully booked") {
		t.Fatalf("reason missing from body: %q", notifier.sent[0].body)
	}
}

func TestDecide_TerminalStateIsFinal(t *testing.T) {
	rooms := &fakeRooms{rooms: map[string]domain.Room{"r1": {ID: "r1", Price: 20000}}}
	bookings := &fakeBookings{}
	svc := newLifecycle(rooms, bookings, &recordNotifier{})
	b := seedPending(bookings)
	b.Status = domain.StatusAccepted
	bookings.store[b.ID] = b

	if _, err := svc.Reject(context.Background(), "bk-1", "late"); !errors.Is(err, domain.ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided, got %v", err)
	}
	if _, err := svc.Accept(context.Background(), "bk-1", nil); !errors.Is(err, domain.ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided, got %v", err)
	}
}

func TestAccept_NotificationFailureDoesNotRevert(t *testing.T) {
	rooms := &fakeRooms{rooms: map[string]domain.Room{"r1": {ID: "r1", Price: 20000}}}
	bookings := &fakeBookings{}
	notifier := &recordNotifier{fail: true}
	svc := newLifecycle(rooms, bookings, notifier)
	seedPending(bookings)

	d, err := svc.Accept(context.Background(), "bk-1", nil)
	if err != nil {
		t.Fatalf("notification failure must not be a hard error, got %v", err)
	}
	if d.NotifyErr == nil {
		t.Fatal("expected NotifyErr to report the delivery failure")
	}
	if stored := bookings.store["bk-1"]; stored.Status != domain.StatusAccepted {
		t.Fatalf("persisted status reverted to %s", stored.Status)
	}
}

func TestAccept_StorageFailureAbortsBeforeNotification(t *testing.T) {
	rooms := &fakeRooms{rooms: map[string]domain.Room{"r1": {ID: "r1", Price: 20000}}}
	bookings := &fakeBookings{updateErr: errors.New("write rejected")}
	notifier := &recordNotifier{}
	svc := newLifecycle(rooms, bookings, notifier)
	seedPending(bookings)

	if _, err := svc.Accept(context.Background(), "bk-1", nil); err == nil {
		t.Fatal("expected storage error")
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("no notification may be attempted after a failed write, got %d", len(notifier.sent))
	}
}

func TestAccept_VersionConflictSurfaces(t *testing.T) {
	rooms := &fakeRooms{rooms: map[string]domain.Room{"r1": {ID: "r1", Price: 20000}}}
	bookings := &fakeBookings{updateErr: domain.ErrVersionConflict}
	svc := newLifecycle(rooms, bookings, &recordNotifier{})
	seedPending(bookings)

	if _, err := svc.Accept(context.Background(), "bk-1", nil); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}
