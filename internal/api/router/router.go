package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/mediscribe-api/internal/appointments"
	"github.com/wolfman30/mediscribe-api/internal/conversations"
	"github.com/wolfman30/mediscribe-api/internal/doctors"
	"github.com/wolfman30/mediscribe-api/internal/http/respond"
	httpmiddleware "github.com/wolfman30/mediscribe-api/internal/http/middleware"
	"github.com/wolfman30/mediscribe-api/internal/llm"
	"github.com/wolfman30/mediscribe-api/internal/observability/metrics"
	"github.com/wolfman30/mediscribe-api/internal/patients"
	"github.com/wolfman30/mediscribe-api/internal/transcribe"
	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

// WelcomeMessage is returned from GET /.
const WelcomeMessage = "Welcome to Medical API"

// Config holds router configuration
type Config struct {
	Logger *logging.Logger

	AppointmentsHandler  *appointments.Handler
	PatientsHandler      *patients.Handler
	ConversationsHandler *conversations.Handler
	DoctorsHandler       *doctors.Handler
	LLMHandler           *llm.Handler
	TranscribeHandler    *transcribe.Handler

	MetricsHandler     http.Handler
	HTTPMetrics        *metrics.HTTPMetrics
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	origins := cfg.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = httpmiddleware.DefaultAllowedOrigins
	}

	// Middleware
	r.Use(middleware.StripSlashes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(httpmiddleware.CORS(origins))
	r.Use(cfg.HTTPMetrics.Middleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respond.Error(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respond.Error(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"message": WelcomeMessage})
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.AppointmentsHandler != nil {
			api.Mount("/appointments", cfg.AppointmentsHandler.Routes())
		}
		if cfg.PatientsHandler != nil {
			api.Mount("/patients", cfg.PatientsHandler.Routes())
		}
		if cfg.ConversationsHandler != nil {
			api.Mount("/conversations", cfg.ConversationsHandler.Routes())
		}
		if cfg.DoctorsHandler != nil {
			api.Mount("/doctors", cfg.DoctorsHandler.Routes())
		}
		if cfg.LLMHandler != nil {
			api.Mount("/llm", cfg.LLMHandler.Routes())
		}
		if cfg.TranscribeHandler != nil {
			api.Mount("/transcribe", cfg.TranscribeHandler.Routes())
		}
	})

	return r
}
