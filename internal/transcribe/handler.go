package transcribe

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/mediscribe-api/internal/http/respond"
	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

const fileField = "file"

type transcriber interface {
	Transcribe(ctx context.Context, upload Upload) (string, error)
}

// Handler serves /api/transcribe
type Handler struct {
	service transcriber
	logger  *logging.Logger
}

func NewHandler(service transcriber, logger *logging.Logger) *Handler {
	if service == nil {
		panic("transcribe: service cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/audio", h.Audio)
	return r
}

// Audio handles POST /api/transcribe/audio. The file part is streamed
// straight into the service without buffering the whole form.
func (h *Handler) Audio(w http.ResponseWriter, r *http.Request) {
	reader, err := r.MultipartReader()
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "multipart form with a file field is required")
		return
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			respond.Error(w, http.StatusBadRequest, "file field is required")
			return
		}
		if err != nil {
			respond.Error(w, http.StatusBadRequest, respond.ErrInvalidBody.Error())
			return
		}
		if part.FormName() != fileField {
			_ = part.Close()
			continue
		}

		contentType := part.Header.Get("Content-Type")
		if _, err := MediaType(contentType); err != nil {
			_ = part.Close()
			respond.Error(w, http.StatusBadRequest, "Unsupported file type: "+contentType)
			return
		}

		text, err := h.service.Transcribe(r.Context(), Upload{
			Body:        part,
			Filename:    part.FileName(),
			ContentType: contentType,
		})
		_ = part.Close()
		if err != nil {
			h.writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]string{"transcription": text})
		return
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnsupportedMediaType), errors.Is(err, ErrEmptyUpload):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrTooLarge):
		respond.Error(w, http.StatusRequestEntityTooLarge, err.Error())
	default:
		h.logger.Error("transcription request failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, err.Error())
	}
}
