package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wellvitas/booking-platform/internal/admin"
	"github.com/wellvitas/booking-platform/internal/booking"
	"github.com/wellvitas/booking-platform/internal/http/handlers"
	httpmiddleware "github.com/wellvitas/booking-platform/internal/http/middleware"
	"github.com/wellvitas/booking-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	BookingHandler *booking.Handler
	WizardHandler  *handlers.WizardHandler

	// Admin surface (optional)
	AdminAuthSecret string
	AdminHandler    *admin.Handler

	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Per-IP budget for the booking and wizard routes. Zero values fall
	// back to the middleware defaults.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints. Health and metrics are probed by infrastructure
	// and stay outside the rate limit; the booking surface does not.
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		limiter := httpmiddleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
		public.Group(func(limited chi.Router) {
			limited.Use(limiter.Middleware)
			if cfg.BookingHandler != nil {
				limited.Post("/api/booking", cfg.BookingHandler.CreateBooking)
			}
			if cfg.WizardHandler != nil {
				limited.Mount("/api/wizard", cfg.WizardHandler.Routes())
			}
		})
	})

	// Admin routes, protected by the shared-secret JWT
	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(adminRoutes chi.Router) {
			adminRoutes.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			if cfg.BookingHandler != nil {
				adminRoutes.Get("/bookings", cfg.BookingHandler.ListBookings)
				adminRoutes.Get("/bookings/{bookingID}", cfg.BookingHandler.GetBooking)
			}
			if cfg.AdminHandler != nil {
				adminRoutes.Get("/stats", cfg.AdminHandler.Dashboard)
			}
		})
	}

	return r
}
