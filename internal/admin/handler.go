package admin

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/wellvitas/booking-platform/pkg/logging"
)

// Handler serves the bookings dashboard endpoints.
type Handler struct {
	stats  *StatsRepository
	clock  func() time.Time
	logger *logging.Logger
}

// NewHandler creates a dashboard handler.
func NewHandler(stats *StatsRepository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		stats:  stats,
		clock:  time.Now,
		logger: logger,
	}
}

// DashboardResponse bundles all the dashboard panels into one call.
type DashboardResponse struct {
	Summary      *Summary       `json:"summary"`
	TopTherapies []TherapyCount `json:"top_therapies"`
	ByDay        []DayCount     `json:"by_day"`
}

// Dashboard handles GET /admin/stats requests
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.stats.Summary(ctx, h.clock())
	if err != nil {
		h.logger.Error("failed to load dashboard summary", "error", err)
		http.Error(w, "failed to load stats", http.StatusInternalServerError)
		return
	}
	therapies, err := h.stats.TopTherapies(ctx, 10)
	if err != nil {
		h.logger.Error("failed to load therapy breakdown", "error", err)
		http.Error(w, "failed to load stats", http.StatusInternalServerError)
		return
	}
	byDay, err := h.stats.BookingsByDay(ctx)
	if err != nil {
		h.logger.Error("failed to load daily breakdown", "error", err)
		http.Error(w, "failed to load stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DashboardResponse{
		Summary:      summary,
		TopTherapies: therapies,
		ByDay:        byDay,
	})
}
