package booking

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wellvitas/booking-platform/internal/observability/metrics"
	"github.com/wellvitas/booking-platform/pkg/logging"
)

// Handler handles HTTP requests for bookings
type Handler struct {
	repo     Repository
	archiver *Archiver
	notify   func(*Booking)
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

// NewHandler creates a new bookings handler. The notify callback fires
// after each accepted booking; pass nil to disable notifications.
func NewHandler(repo Repository, archiver *Archiver, notify func(*Booking), m *metrics.BookingMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:     repo,
		archiver: archiver,
		notify:   notify,
		metrics:  m,
		logger:   logger,
	}
}

type createResponse struct {
	OK     bool     `json:"ok"`
	ID     string   `json:"id,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// CreateBooking handles POST /api/booking requests
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		h.metrics.ObserveSubmitLatency(time.Since(start).Seconds())
	}()

	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode booking request", "error", err)
		h.metrics.ObserveSubmission("malformed")
		writeJSON(w, http.StatusBadRequest, createResponse{OK: false, Errors: []string{"Invalid request body"}})
		return
	}

	// Bots fill the hidden website field. They get a success response and
	// nothing is stored, so they cannot tell they were caught.
	if req.Website != "" {
		h.logger.Info("honeypot tripped, dropping submission", "client", req.Meta.ClientDescriptor)
		h.metrics.ObserveHoneypot()
		writeJSON(w, http.StatusOK, createResponse{OK: true})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		h.metrics.ObserveSubmission("rejected")
		writeJSON(w, http.StatusBadRequest, createResponse{OK: false, Errors: errs})
		return
	}

	booking, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create booking", "error", err)
		h.metrics.ObserveSubmission("error")
		writeJSON(w, http.StatusInternalServerError, createResponse{OK: false, Errors: []string{"Submission failed. Please try again."}})
		return
	}

	if err := h.archiver.Archive(r.Context(), booking); err != nil {
		// The booking is stored; a missed archive copy is recoverable.
		h.logger.Warn("failed to archive booking", "error", err, "booking_id", booking.ID)
	}
	if h.notify != nil {
		h.notify(booking)
	}

	h.logger.Info("booking created", "id", booking.ID, "taster_date", booking.TasterDate, "taster_time", booking.TasterTime)
	h.metrics.ObserveSubmission("accepted")
	writeJSON(w, http.StatusOK, createResponse{OK: true, ID: booking.ID})
}

// GetBooking handles GET /admin/bookings/{bookingID} requests
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "bookingID")
	if id == "" {
		http.Error(w, "missing booking id", http.StatusBadRequest)
		return
	}

	booking, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if err == ErrBookingNotFound {
			http.Error(w, "booking not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to fetch booking", "error", err, "id", id)
		http.Error(w, "failed to fetch booking", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// ListBookingsResponse is the response for listing bookings
type ListBookingsResponse struct {
	Bookings []*Booking `json:"bookings"`
	Count    int        `json:"count"`
	Offset   int        `json:"offset"`
	Limit    int        `json:"limit"`
}

// ListBookings handles GET /admin/bookings requests
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Limit:  50,
		Offset: 0,
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}
	if date := r.URL.Query().Get("taster_date"); date != "" {
		filter.TasterDate = date
	}

	bookings, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list bookings", "error", err)
		http.Error(w, "failed to list bookings", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ListBookingsResponse{
		Bookings: bookings,
		Count:    len(bookings),
		Offset:   filter.Offset,
		Limit:    filter.Limit,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
