package patients

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wolfman30/mediscribe-api/internal/store"
)

// Repository defines patient storage operations
type Repository interface {
	Create(ctx context.Context, req *CreateRequest) (*Patient, error)
	Get(ctx context.Context, id string) (*Patient, error)
	Update(ctx context.Context, id string, req *UpdateRequest) (*Patient, error)
	Delete(ctx context.Context, id string) ([]*Patient, error)
}

// StoreRepository implements Repository on a record store
type StoreRepository struct {
	store store.Store
}

var _ Repository = (*StoreRepository)(nil)

func NewRepository(st store.Store) *StoreRepository {
	if st == nil {
		panic("patients: store cannot be nil")
	}
	return &StoreRepository{store: st}
}

func (r *StoreRepository) Create(ctx context.Context, req *CreateRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	rec, err := r.store.Insert(ctx, Collection, newRecord(uuid.NewString(), req))
	if err != nil {
		return nil, fmt.Errorf("patients: create: %w", err)
	}
	return fromRecord(rec), nil
}

// Get returns nil, nil when the patient does not exist.
func (r *StoreRepository) Get(ctx context.Context, id string) (*Patient, error) {
	recs, err := r.store.Query(ctx, Collection, store.Filter{IDField: id})
	if err != nil {
		return nil, fmt.Errorf("patients: get: %w", err)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return fromRecord(recs[0]), nil
}

func (r *StoreRepository) Update(ctx context.Context, id string, req *UpdateRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	recs, err := r.store.Update(ctx, Collection, store.Filter{IDField: id}, req.Fields())
	if err != nil {
		return nil, fmt.Errorf("patients: update: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("patients: update %s: %w", id, store.NoMatch("update", Collection))
	}
	return fromRecord(recs[0]), nil
}

func (r *StoreRepository) Delete(ctx context.Context, id string) ([]*Patient, error) {
	recs, err := r.store.Delete(ctx, Collection, store.Filter{IDField: id})
	if err != nil {
		return nil, fmt.Errorf("patients: delete: %w", err)
	}
	out := make([]*Patient, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromRecord(rec))
	}
	return out, nil
}
