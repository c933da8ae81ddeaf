// Package doctors exposes the read-only doctor directory. Doctors are
// provisioned outside this service, so records pass through with whatever
// columns the store holds.
package doctors

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/mediscribe-api/internal/http/respond"
	"github.com/wolfman30/mediscribe-api/internal/store"
	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

const (
	Collection = "doctor"
	IDField    = "doctor_id"
)

// Doctor is a stored doctor record.
type Doctor map[string]any

// ID returns the doctor's identity column.
func (d Doctor) ID() string { return store.Record(d).String(IDField) }

// Repository lists doctors.
type Repository struct {
	store store.Store
}

func NewRepository(st store.Store) *Repository {
	if st == nil {
		panic("doctors: store cannot be nil")
	}
	return &Repository{store: st}
}

// List returns every doctor in store order.
func (r *Repository) List(ctx context.Context) ([]Doctor, error) {
	recs, err := r.store.Query(ctx, Collection, nil)
	if err != nil {
		return nil, fmt.Errorf("doctors: list: %w", err)
	}
	out := make([]Doctor, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Doctor(rec))
	}
	return out, nil
}

type lister interface {
	List(ctx context.Context) ([]Doctor, error)
}

// Handler serves GET /api/doctors
type Handler struct {
	repo   lister
	logger *logging.Logger
}

func NewHandler(repo lister, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	return r
}

// List returns 500 on store failure since there is no caller input to blame.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list doctors", "error", err)
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, docs)
}
