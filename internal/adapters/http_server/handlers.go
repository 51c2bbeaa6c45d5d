package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"roomdesk/internal/app"
	"roomdesk/internal/domain"
)

const dateLayout = "2006-01-02"

type Handlers struct {
	Q            *app.QueryService
	Lifecycle    *app.LifecycleService
	Availability *app.AvailabilityService
	Catalog      *app.CatalogService
	Bookings     domain.BookingRepository // plain deletes bypass the lifecycle
	Verifier     domain.CredentialVerifier
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/v1/rooms", h.listRooms)
	s.mux.Get("/v1/rooms/{id}", h.getRoom)
	s.mux.Post("/v1/bookings", h.createBooking)

	s.mux.Route("/v1/admin", func(r chi.Router) {
		r.Use(AdminAuth(h.Verifier))
		r.Get("/bookings", h.listBookings)
		r.Get("/bookings/{id}", h.getBooking)
		r.Get("/bookings/{id}/conflicts", h.listConflicts)
		r.Post("/bookings/{id}/accept", h.acceptBooking)
		r.Post("/bookings/{id}/reject", h.rejectBooking)
		r.Delete("/bookings/{id}", h.deleteBooking)
		r.Put("/rooms/{id}", h.upsertRoom)
		r.Delete("/rooms/{id}", h.deleteRoom)
	})
}

// ---- wire types ----

type roomJSON struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`
}

func toRoomJSON(r domain.Room) roomJSON {
	return roomJSON{ID: r.ID, Name: r.Name, Price: r.Price, Description: r.Description, Images: r.Images}
}

type bookingJSON struct {
	ID         string   `json:"id"`
	RoomIDs    []string `json:"room_ids"`
	GuestName  string   `json:"guest_name"`
	GuestPhone string   `json:"guest_phone,omitempty"`
	GuestEmail string   `json:"guest_email"`
	CheckIn    string   `json:"check_in"`
	CheckOut   string   `json:"check_out"`
	Status     string   `json:"status"`
	TotalPrice int64    `json:"total_price"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at,omitempty"`
}

func toBookingJSON(b domain.Booking) bookingJSON {
	out := bookingJSON{
		ID:         b.ID,
		RoomIDs:    b.RoomIDs,
		GuestName:  b.GuestName,
		GuestPhone: b.GuestPhone,
		GuestEmail: b.GuestEmail,
		CheckIn:    b.CheckIn.Format(dateLayout),
		CheckOut:   b.CheckOut.Format(dateLayout),
		Status:     string(b.Status),
		TotalPrice: b.TotalPrice,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
	if b.UpdatedAt != nil {
		out.UpdatedAt = b.UpdatedAt.Format(time.RFC3339)
	}
	return out
}

// decisionJSON reports the committed transition and, separately, whether
// the guest was told about it. notified=false is a warning, not a failure.
type decisionJSON struct {
	Booking     bookingJSON `json:"booking"`
	Notified    bool        `json:"notified"`
	NotifyError string      `json:"notify_error,omitempty"`
}

func toDecisionJSON(d app.Decision) decisionJSON {
	out := decisionJSON{Booking: toBookingJSON(d.Booking), Notified: d.NotifyErr == nil}
	if d.NotifyErr != nil {
		out.NotifyError = d.NotifyErr.Error()
	}
	return out
}

// ---- helpers ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case app.IsValidation(err):
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrAlreadyDecided), errors.Is(err, domain.ErrVersionConflict):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "something went wrong")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// parseDate turns "" into a zero time so downstream validation can report
// the missing field; a malformed value is rejected here.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ---- guest handlers ----

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Q.ListRooms(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]roomJSON, 0, len(rooms))
	for _, rm := range rooms {
		out = append(out, toRoomJSON(rm))
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) getRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.Q.GetRoom(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCacheable(w, r, toRoomJSON(room))
}

type createBookingRequest struct {
	RoomIDs    []string `json:"room_ids"`
	GuestName  string   `json:"guest_name"`
	GuestPhone string   `json:"guest_phone"`
	GuestEmail string   `json:"guest_email"`
	CheckIn    string   `json:"check_in"`
	CheckOut   string   `json:"check_out"`
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	checkIn, ok := parseDate(req.CheckIn)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid Date", "check_in must be YYYY-MM-DD")
		return
	}
	checkOut, ok := parseDate(req.CheckOut)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid Date", "check_out must be YYYY-MM-DD")
		return
	}

	b, err := h.Lifecycle.Create(r.Context(), app.CreateBookingInput{
		RoomIDs:    req.RoomIDs,
		GuestName:  req.GuestName,
		GuestPhone: req.GuestPhone,
		GuestEmail: req.GuestEmail,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBookingJSON(b))
}

// ---- admin handlers ----

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Q.ListBookings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]bookingJSON, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBookingJSON(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.Q.GetBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingJSON(b))
}

func (h *Handlers) listConflicts(w http.ResponseWriter, r *http.Request) {
	conflicts, err := h.Availability.ConflictsFor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]bookingJSON, 0, len(conflicts))
	for _, b := range conflicts {
		out = append(out, toBookingJSON(b))
	}
	writeJSON(w, http.StatusOK, out)
}

type acceptRequest struct {
	CheckIn string `json:"check_in,omitempty"`
}

func (h *Handlers) acceptBooking(w http.ResponseWriter, r *http.Request) {
	var req acceptRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
			return
		}
	}
	var proposed *time.Time
	if req.CheckIn != "" {
		t, ok := parseDate(req.CheckIn)
		if !ok {
			writeProblem(w, http.StatusBadRequest, "Invalid Date", "check_in must be YYYY-MM-DD")
			return
		}
		proposed = &t
	}

	d, err := h.Lifecycle.Accept(r.Context(), chi.URLParam(r, "id"), proposed)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDecisionJSON(d))
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handlers) rejectBooking(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
			return
		}
	}

	d, err := h.Lifecycle.Reject(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDecisionJSON(d))
}

func (h *Handlers) deleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.Bookings.DeleteBooking(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type upsertRoomRequest struct {
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

func (h *Handlers) upsertRoom(w http.ResponseWriter, r *http.Request) {
	var req upsertRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if req.Name == "" || req.Price < 0 {
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Failed", "name is required and price must be non-negative")
		return
	}
	room := domain.Room{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Images:      req.Images,
	}
	if err := h.Catalog.UpsertRoom(r.Context(), room); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomJSON(room))
}

func (h *Handlers) deleteRoom(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.DeleteRoom(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
