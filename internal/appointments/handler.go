package appointments

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/mediscribe-api/internal/http/respond"
	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

// Handler handles HTTP requests for appointments
type Handler struct {
	repo         Repository
	availability *Availability
	logger       *logging.Logger
}

// NewHandler creates a new appointments handler
func NewHandler(repo Repository, availability *Availability, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, availability: availability, logger: logger}
}

// Routes mounts the appointment endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/doctor/{doctorID}/date/{date}", h.ListByDoctorAndDate)
	r.Get("/doctor/{doctorID}/times/{date}", h.AvailableTimes)
	r.Get("/{appointmentID}", h.Get)
	r.Put("/{appointmentID}", h.Update)
	r.Delete("/{appointmentID}", h.Delete)
	return r
}

// Create handles POST /api/appointments
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := respond.DecodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, respond.ErrInvalidBody.Error())
		return
	}
	appt, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create appointment", "error", err)
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Info("appointment created", "appointment_id", appt.ID, "doctor_id", appt.DoctorID, "date", appt.Date, "time", appt.Time)
	respond.JSON(w, http.StatusOK, appt)
}

// Get handles GET /api/appointments/{appointmentID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")
	appt, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to read appointment", "appointment_id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if appt == nil {
		respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	respond.JSON(w, http.StatusOK, appt)
}

// Update handles PUT /api/appointments/{appointmentID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")
	var req UpdateRequest
	if err := respond.DecodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, respond.ErrInvalidBody.Error())
		return
	}
	appt, err := h.repo.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update appointment", "appointment_id", id, "error", err)
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, appt)
}

// Delete handles DELETE /api/appointments/{appointmentID}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")
	deleted, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete appointment", "appointment_id", id, "error", err)
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, deleted)
}

// ListByDoctorAndDate handles GET /api/appointments/doctor/{doctorID}/date/{date}
func (h *Handler) ListByDoctorAndDate(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "doctorID")
	date := chi.URLParam(r, "date")
	appts, err := h.repo.ListByDoctorAndDate(r.Context(), doctorID, date)
	if err != nil {
		h.logger.Error("failed to list appointments", "doctor_id", doctorID, "date", date, "error", err)
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, appts)
}

// AvailableTimes handles GET /api/appointments/doctor/{doctorID}/times/{date}
func (h *Handler) AvailableTimes(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "doctorID")
	date := chi.URLParam(r, "date")
	free, err := h.availability.FreeSlots(r.Context(), doctorID, date)
	if err != nil {
		h.logger.Error("failed to compute availability", "doctor_id", doctorID, "date", date, "error", err)
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, free)
}
