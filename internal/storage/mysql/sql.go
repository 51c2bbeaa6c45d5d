package mysql

// -----------------------------------------------------------------------------
// WRITE QUERIES
// -----------------------------------------------------------------------------

const upsertRoomSQL = `
INSERT INTO rooms
  (id, name, price, description, images)
VALUES
  (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name        = VALUES(name),
  price       = VALUES(price),
  description = VALUES(description),
  images      = VALUES(images)
`

const deleteRoomSQL = `DELETE FROM rooms WHERE id = ?`

const insertBookingSQL = `
INSERT INTO bookings
  (id, room_ids, guest_name, guest_phone, guest_email, check_in, check_out, status, total_price, version, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Conditional on version: zero affected rows means another writer got there
// first (or the row is gone) and the caller must re-read before retrying.
const updateBookingSQL = `
UPDATE bookings
SET check_in    = ?,
    check_out   = ?,
    status      = ?,
    total_price = ?,
    version     = version + 1,
    updated_at  = ?
WHERE id = ? AND version = ?
`

const deleteBookingSQL = `DELETE FROM bookings WHERE id = ?`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const listRoomsSQL = `
SELECT id, name, price, description, images
FROM rooms
ORDER BY id
`

const getRoomSQL = `
SELECT id, name, price, description, images
FROM rooms
WHERE id = ?
`

const listBookingsSQL = `
SELECT id, room_ids, guest_name, guest_phone, guest_email, check_in, check_out,
       status, total_price, version, created_at, updated_at
FROM bookings
ORDER BY created_at DESC, id DESC
`

const getBookingSQL = `
SELECT id, room_ids, guest_name, guest_phone, guest_email, check_in, check_out,
       status, total_price, version, created_at, updated_at
FROM bookings
WHERE id = ?
`
