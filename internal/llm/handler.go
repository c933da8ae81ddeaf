package llm

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/mediscribe-api/internal/http/respond"
	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

// Handler serves /api/llm
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/soap-note", h.SOAPNote)
	r.Post("/prerequisites", h.Prerequisites)
	r.Post("/referral-letter", h.ReferralLetter)
	r.Post("/transcription-summary", h.TranscriptionSummary)
	return r
}

type prerequisitesRequest struct {
	Condition string `json:"condition"`
}

type summaryRequest struct {
	Text string `json:"text"`
}

// SOAPNote handles POST /api/llm/soap-note
func (h *Handler) SOAPNote(w http.ResponseWriter, r *http.Request) {
	var in ClinicalInput
	if err := respond.DecodeJSON(w, r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, respond.ErrInvalidBody.Error())
		return
	}
	note, err := h.service.SOAPNote(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"soap_note": note})
}

// ReferralLetter handles POST /api/llm/referral-letter
func (h *Handler) ReferralLetter(w http.ResponseWriter, r *http.Request) {
	var in ClinicalInput
	if err := respond.DecodeJSON(w, r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, respond.ErrInvalidBody.Error())
		return
	}
	letter, err := h.service.ReferralLetter(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"referral_letter": letter})
}

// TranscriptionSummary handles POST /api/llm/transcription-summary
func (h *Handler) TranscriptionSummary(w http.ResponseWriter, r *http.Request) {
	var in summaryRequest
	if err := respond.DecodeJSON(w, r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, respond.ErrInvalidBody.Error())
		return
	}
	summary, err := h.service.Summary(r.Context(), in.Text)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"summary": summary})
}

// Prerequisites handles POST /api/llm/prerequisites. It always answers 200
// once the body is valid.
func (h *Handler) Prerequisites(w http.ResponseWriter, r *http.Request) {
	var in prerequisitesRequest
	if err := respond.DecodeJSON(w, r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, respond.ErrInvalidBody.Error())
		return
	}
	if strings.TrimSpace(in.Condition) == "" {
		respond.Error(w, http.StatusBadRequest, "condition is required")
		return
	}
	answer := h.service.Prerequisites(r.Context(), in.Condition)
	respond.JSON(w, http.StatusOK, map[string]string{"response": answer.Text})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInvalidInput) {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	respond.Error(w, http.StatusInternalServerError, err.Error())
}
