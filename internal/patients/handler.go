package patients

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/mediscribe-api/internal/http/respond"
	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

// Handler handles HTTP requests for patients
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new patients handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/{patientID}", h.Get)
	r.Put("/{patientID}", h.Update)
	r.Delete("/{patientID}", h.Delete)
	return r
}

// Create handles POST /api/patients
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := respond.DecodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, respond.ErrInvalidBody.Error())
		return
	}
	p, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create patient", "error", err)
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Info("patient created", "patient_id", p.ID)
	respond.JSON(w, http.StatusOK, p)
}

// Get handles GET /api/patients/{patientID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patientID")
	p, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to read patient", "patient_id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if p == nil {
		respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

// Update handles PUT /api/patients/{patientID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patientID")
	var req UpdateRequest
	if err := respond.DecodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, respond.ErrInvalidBody.Error())
		return
	}
	p, err := h.repo.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update patient", "patient_id", id, "error", err)
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

// Delete handles DELETE /api/patients/{patientID}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patientID")
	deleted, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete patient", "patient_id", id, "error", err)
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, deleted)
}
