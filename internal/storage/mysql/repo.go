package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"roomdesk/internal/domain"
)

// Repo implements domain.RoomRepository and domain.BookingRepository on
// MySQL. Room image lists and booking room-id sets live in JSON columns.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// ---- rooms ----

func (r *Repo) ListRooms(ctx context.Context) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, listRoomsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		room, err := scanRoom(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

func (r *Repo) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	row := r.db.QueryRowContext(ctx, getRoomSQL, id)
	room, err := scanRoom(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Room{}, domain.ErrNotFound
	}
	return room, err
}

func (r *Repo) UpsertRoom(ctx context.Context, room domain.Room) error {
	imgs, _ := json.Marshal(room.Images)
	_, err := r.db.ExecContext(ctx, upsertRoomSQL,
		room.ID, room.Name, room.Price, room.Description, string(imgs))
	return err
}

func (r *Repo) DeleteRoom(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, deleteRoomSQL, id)
	return err
}

func scanRoom(scan func(...any) error) (domain.Room, error) {
	var room domain.Room
	var desc sql.NullString
	var imagesJSON []byte
	if err := scan(&room.ID, &room.Name, &room.Price, &desc, &imagesJSON); err != nil {
		return domain.Room{}, err
	}
	room.Description = desc.String
	_ = json.Unmarshal(imagesJSON, &room.Images)
	return room, nil
}

// ---- bookings ----

func (r *Repo) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, listBookingsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	row := r.db.QueryRowContext(ctx, getBookingSQL, id)
	b, err := scanBooking(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, err
}

func (r *Repo) CreateBooking(ctx context.Context, b domain.Booking) error {
	roomIDs, _ := json.Marshal(b.RoomIDs)
	_, err := r.db.ExecContext(ctx, insertBookingSQL,
		b.ID,
		string(roomIDs),
		b.GuestName,
		nullStr(b.GuestPhone),
		b.GuestEmail,
		b.CheckIn,
		b.CheckOut,
		string(b.Status),
		b.TotalPrice,
		b.Version,
		b.CreatedAt,
	)
	return err
}

func (r *Repo) UpdateBooking(ctx context.Context, b domain.Booking) error {
	var updated any
	if b.UpdatedAt != nil {
		updated = *b.UpdatedAt
	}
	res, err := r.db.ExecContext(ctx, updateBookingSQL,
		b.CheckIn,
		b.CheckOut,
		string(b.Status),
		b.TotalPrice,
		updated,
		b.ID,
		b.Version,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrVersionConflict
	}
	return nil
}

func (r *Repo) DeleteBooking(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, deleteBookingSQL, id)
	return err
}

func scanBooking(scan func(...any) error) (domain.Booking, error) {
	var b domain.Booking
	var roomIDsJSON []byte
	var phone sql.NullString
	var status string
	var updatedAt sql.NullTime
	if err := scan(
		&b.ID,
		&roomIDsJSON,
		&b.GuestName,
		&phone,
		&b.GuestEmail,
		&b.CheckIn,
		&b.CheckOut,
		&status,
		&b.TotalPrice,
		&b.Version,
		&b.CreatedAt,
		&updatedAt,
	); err != nil {
		return domain.Booking{}, err
	}
	_ = json.Unmarshal(roomIDsJSON, &b.RoomIDs)
	b.GuestPhone = phone.String
	b.Status = domain.BookingStatus(status)
	if updatedAt.Valid {
		t := updatedAt.Time.UTC()
		b.UpdatedAt = &t
	}
	// DATE columns come back at midnight in the DSN's loc; pin to UTC.
	b.CheckIn = asUTCDate(b.CheckIn)
	b.CheckOut = asUTCDate(b.CheckOut)
	return b, nil
}

func asUTCDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
