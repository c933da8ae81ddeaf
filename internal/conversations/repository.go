package conversations

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wolfman30/mediscribe-api/internal/store"
)

// Repository defines conversation storage operations
type Repository interface {
	Create(ctx context.Context, req *CreateRequest) (*Conversation, error)
	Get(ctx context.Context, id string) (*Conversation, error)
	Update(ctx context.Context, id string, req *UpdateRequest) (*Conversation, error)
	Delete(ctx context.Context, id string) ([]*Conversation, error)
}

type StoreRepository struct {
	store store.Store
}

var _ Repository = (*StoreRepository)(nil)

// NewRepository creates a conversation repository backed by st
func NewRepository(st store.Store) *StoreRepository {
	if st == nil {
		panic("conversations: store cannot be nil")
	}
	return &StoreRepository{store: st}
}

func (r *StoreRepository) Create(ctx context.Context, req *CreateRequest) (*Conversation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	c := &Conversation{
		ID:            uuid.NewString(),
		DoctorID:      req.DoctorID,
		PatientID:     req.PatientID,
		AppointmentID: req.AppointmentID,
		Text:          req.Text,
		Summary:       req.Summary,
	}
	rec, err := r.store.Insert(ctx, Collection, c.record())
	if err != nil {
		return nil, fmt.Errorf("conversations: create: %w", err)
	}
	return fromRecord(rec), nil
}

func (r *StoreRepository) Get(ctx context.Context, id string) (*Conversation, error) {
	recs, err := r.store.Query(ctx, Collection, store.Filter{IDField: id})
	if err != nil {
		return nil, fmt.Errorf("conversations: get: %w", err)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return fromRecord(recs[0]), nil
}

func (r *StoreRepository) Update(ctx context.Context, id string, req *UpdateRequest) (*Conversation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	recs, err := r.store.Update(ctx, Collection, store.Filter{IDField: id}, req.Fields())
	if err != nil {
		return nil, fmt.Errorf("conversations: update: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("conversations: update %s: %w", id, store.NoMatch("update", Collection))
	}
	return fromRecord(recs[0]), nil
}

// Delete does not touch records that reference the conversation's appointment.
func (r *StoreRepository) Delete(ctx context.Context, id string) ([]*Conversation, error) {
	recs, err := r.store.Delete(ctx, Collection, store.Filter{IDField: id})
	if err != nil {
		return nil, fmt.Errorf("conversations: delete: %w", err)
	}
	out := make([]*Conversation, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromRecord(rec))
	}
	return out, nil
}
