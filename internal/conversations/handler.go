package conversations

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/mediscribe-api/internal/http/respond"
	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

// Handler serves /api/conversations
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/{conversationID}", h.Get)
	r.Put("/{conversationID}", h.Update)
	r.Delete("/{conversationID}", h.Delete)
	return r
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := respond.DecodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, respond.ErrInvalidBody.Error())
		return
	}
	c, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create conversation", "error", err)
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Info("conversation created", "conversation_id", c.ID, "appointment_id", c.AppointmentID)
	respond.JSON(w, http.StatusOK, c)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationID")
	c, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to read conversation", "conversation_id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if c == nil {
		respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	respond.JSON(w, http.StatusOK, c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationID")
	var req UpdateRequest
	if err := respond.DecodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, respond.ErrInvalidBody.Error())
		return
	}
	c, err := h.repo.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update conversation", "conversation_id", id, "error", err)
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, c)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationID")
	deleted, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete conversation", "conversation_id", id, "error", err)
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, deleted)
}
