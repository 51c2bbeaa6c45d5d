package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"roomdesk/internal/domain"
)

// LifecycleService drives a booking through pending -> accepted/rejected.
// It never consults Conflicts: the admin is expected to have checked
// availability first and decided what to do about what it reported.
type LifecycleService struct {
	rooms     domain.RoomRepository
	bookings  domain.BookingRepository
	notifier  domain.Notifier
	validator *BookingValidator
}

func NewLifecycleService(rooms domain.RoomRepository, bookings domain.BookingRepository, n domain.Notifier) *LifecycleService {
	return &LifecycleService{
		rooms:     rooms,
		bookings:  bookings,
		notifier:  n,
		validator: NewBookingValidator(),
	}
}

// Decision reports the outcome of an accept/reject. The status change and
// the notification are sequential, not transactional: NotifyErr being
// non-nil never means the persisted transition was reverted.
type Decision struct {
	Booking   domain.Booking
	NotifyErr error
}

// Create validates the request, prices the stay from current room prices,
// and persists it as pending. Validation failures return before any
// persistence attempt.
func (s *LifecycleService) Create(ctx context.Context, in CreateBookingInput) (domain.Booking, error) {
	if err := s.validator.Validate(in); err != nil {
		return domain.Booking{}, err
	}

	checkIn := in.CheckIn.UTC().Truncate(day)
	checkOut := in.CheckOut.UTC().Truncate(day)

	total, err := Total(ctx, s.rooms, in.RoomIDs, checkIn, checkOut)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownRoom) {
			return domain.Booking{}, ValidationErrors{{Field: "RoomIDs", Message: err.Error()}}
		}
		return domain.Booking{}, err
	}

	b := domain.Booking{
		ID:         uuid.NewString(),
		RoomIDs:    in.RoomIDs,
		GuestName:  in.GuestName,
		GuestPhone: in.GuestPhone,
		GuestEmail: in.GuestEmail,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Status:     domain.StatusPending,
		TotalPrice: total,
		Version:    1,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.bookings.CreateBooking(ctx, b); err != nil {
		return domain.Booking{}, err
	}

	log.Info().Str("id", b.ID).Int64("total", b.TotalPrice).Msg("booking created")
	return b, nil
}

// Accept moves a pending booking to accepted. A non-nil proposedCheckIn
// overwrites the requested check-in date (the admin shifting the stay to
// clear a reported conflict instead of rejecting outright); the total is
// recomputed either way. The status write lands before the email attempt.
func (s *LifecycleService) Accept(ctx context.Context, id string, proposedCheckIn *time.Time) (Decision, error) {
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return Decision{}, err
	}
	if b.Status.Terminal() {
		return Decision{}, fmt.Errorf("booking %s is %s: %w", b.ID, b.Status, domain.ErrAlreadyDecided)
	}

	if proposedCheckIn != nil {
		b.CheckIn = proposedCheckIn.UTC().Truncate(day)
	}
	if Nights(b.CheckIn, b.CheckOut) <= 0 {
		return Decision{}, ValidationErrors{{Field: "CheckIn", Message: errInvalidDuration.Error()}}
	}

	total, err := Total(ctx, s.rooms, b.RoomIDs, b.CheckIn, b.CheckOut)
	if err != nil {
		return Decision{}, err
	}
	b.TotalPrice = total

	b.Status = domain.StatusAccepted
	if err := s.persist(ctx, &b); err != nil {
		return Decision{}, err
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nYour booking %s has been accepted.\nCheck-in: %s\nCheck-out: %s\nTotal: %d\n",
		b.GuestName, b.ID, b.CheckIn.Format("2006-01-02"), b.CheckOut.Format("2006-01-02"), b.TotalPrice,
	)
	return s.notify(ctx, b, "Your booking has been accepted", body), nil
}

// Reject moves a pending booking to rejected, embedding the admin's
// free-text reason in the email body.
func (s *LifecycleService) Reject(ctx context.Context, id, reason string) (Decision, error) {
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return Decision{}, err
	}
	if b.Status.Terminal() {
		return Decision{}, fmt.Errorf("booking %s is %s: %w", b.ID, b.Status, domain.ErrAlreadyDecided)
	}

	b.Status = domain.StatusRejected
	if err := s.persist(ctx, &b); err != nil {
		return Decision{}, err
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nYour booking %s has been rejected.\nReason: %s\n",
		b.GuestName, b.ID, reason,
	)
	return s.notify(ctx, b, "Your booking has been rejected", body), nil
}

func (s *LifecycleService) persist(ctx context.Context, b *domain.Booking) error {
	now := time.Now().UTC()
	b.UpdatedAt = &now
	if err := s.bookings.UpdateBooking(ctx, *b); err != nil {
		return err
	}
	b.Version++ // mirror the store's bump
	return nil
}

func (s *LifecycleService) notify(ctx context.Context, b domain.Booking, subject, body string) Decision {
	d := Decision{Booking: b}
	if err := s.notifier.SendStatusEmail(ctx, b, subject, body); err != nil {
		// The status change is already committed; surface as a warning.
		log.Warn().Str("id", b.ID).Err(err).Msg("status email failed")
		d.NotifyErr = err
	} else {
		log.Info().Str("id", b.ID).Str("status", string(b.Status)).Msg("status email sent")
	}
	return d
}
