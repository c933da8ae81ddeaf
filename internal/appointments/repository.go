package appointments

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wolfman30/mediscribe-api/internal/store"
	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

// Repository defines the appointment operations exposed over HTTP
type Repository interface {
	Create(ctx context.Context, req *CreateRequest) (*Appointment, error)
	Get(ctx context.Context, id string) (*Appointment, error)
	Update(ctx context.Context, id string, req *UpdateRequest) (*Appointment, error)
	Delete(ctx context.Context, id string) ([]*Appointment, error)
	ListByDoctorAndDate(ctx context.Context, doctorID, date string) ([]*Appointment, error)
	BookedTimes(ctx context.Context, doctorID, date string) ([]string, error)
}

// StoreRepository implements Repository on a record store. Every call is a
// single store operation; nothing is cached.
type StoreRepository struct {
	store  store.Store
	logger *logging.Logger
	newID  func() string
}

var _ Repository = (*StoreRepository)(nil)

// NewRepository creates an appointment repository backed by st
func NewRepository(st store.Store, logger *logging.Logger) *StoreRepository {
	if st == nil {
		panic("appointments: store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &StoreRepository{store: st, logger: logger, newID: uuid.NewString}
}

// Create stores a new appointment with a generated ID. It does not check
// whether the slot is already taken.
func (r *StoreRepository) Create(ctx context.Context, req *CreateRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	appt := &Appointment{
		ID:        r.newID(),
		Date:      req.Date,
		Time:      req.Time,
		PatientID: req.PatientID,
		Type:      req.Type,
		DoctorID:  req.DoctorID,
	}
	rec, err := r.store.Insert(ctx, Collection, appt.record())
	if err != nil {
		return nil, fmt.Errorf("appointments: create: %w", err)
	}
	return fromRecord(rec), nil
}

// Get returns the appointment or nil when none matches.
func (r *StoreRepository) Get(ctx context.Context, id string) (*Appointment, error) {
	recs, err := r.store.Query(ctx, Collection, store.Filter{IDField: id})
	if err != nil {
		return nil, fmt.Errorf("appointments: get: %w", err)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return fromRecord(recs[0]), nil
}

// Update applies only the supplied fields. An update with no fields
// returns the stored appointment unchanged.
func (r *StoreRepository) Update(ctx context.Context, id string, req *UpdateRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	recs, err := r.store.Update(ctx, Collection, store.Filter{IDField: id}, req.Fields())
	if err != nil {
		return nil, fmt.Errorf("appointments: update: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("appointments: update %s: %w", id, store.NoMatch("update", Collection))
	}
	if len(recs) > 1 {
		r.logger.Warn("appointment update matched several records", "appointment_id", id, "count", len(recs))
	}
	return fromRecord(recs[0]), nil
}

// Delete removes the appointment and returns what the store deleted.
// Deleting a missing ID returns an empty slice.
func (r *StoreRepository) Delete(ctx context.Context, id string) ([]*Appointment, error) {
	recs, err := r.store.Delete(ctx, Collection, store.Filter{IDField: id})
	if err != nil {
		return nil, fmt.Errorf("appointments: delete: %w", err)
	}
	return fromRecords(recs), nil
}

// ListByDoctorAndDate returns the doctor's appointments on date in store order.
func (r *StoreRepository) ListByDoctorAndDate(ctx context.Context, doctorID, date string) ([]*Appointment, error) {
	recs, err := r.store.Query(ctx, Collection, store.Filter{"doctor_id": doctorID, "date": date})
	if err != nil {
		return nil, fmt.Errorf("appointments: list by doctor and date: %w", err)
	}
	return fromRecords(recs), nil
}

// BookedTimes returns the time labels of the doctor's appointments on date,
// fetching only the time column.
func (r *StoreRepository) BookedTimes(ctx context.Context, doctorID, date string) ([]string, error) {
	recs, err := r.store.Query(ctx, Collection, store.Filter{"doctor_id": doctorID, "date": date}, "time")
	if err != nil {
		return nil, fmt.Errorf("appointments: booked times: %w", err)
	}
	times := make([]string, 0, len(recs))
	for _, rec := range recs {
		times = append(times, rec.String("time"))
	}
	return times, nil
}
