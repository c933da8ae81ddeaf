package appointments

import (
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/mediscribe-api/internal/store"
	"github.com/wolfman30/mediscribe-api/pkg/optional"
)

const (
	// Collection is the store collection holding appointments.
	Collection = "appointment"
	// IDField is the identity column of the appointment collection.
	IDField = "appointment_id"
)

// Appointment represents a booked visit
type Appointment struct {
	ID        string `json:"appointment_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	PatientID string `json:"patient_id"`
	Type      string `json:"type"`
	DoctorID  string `json:"doctor_id"`
}

// CreateRequest is the payload for booking an appointment. Every field is required.
type CreateRequest struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	PatientID string `json:"patient_id"`
	Type      string `json:"type"`
	DoctorID  string `json:"doctor_id"`
}

// Validate checks that all fields are present and the date is ISO formatted
func (r *CreateRequest) Validate() error {
	required := []struct{ name, value string }{
		{"date", r.Date},
		{"time", r.Time},
		{"patient_id", r.PatientID},
		{"type", r.Type},
		{"doctor_id", r.DoctorID},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidRequest, f.name)
		}
	}
	return validateDate(r.Date)
}

// UpdateRequest carries a partial update; only present fields are applied.
type UpdateRequest struct {
	Date      optional.Field[string] `json:"date"`
	Time      optional.Field[string] `json:"time"`
	PatientID optional.Field[string] `json:"patient_id"`
	Type      optional.Field[string] `json:"type"`
	DoctorID  optional.Field[string] `json:"doctor_id"`
}

type namedField struct {
	name  string
	value optional.Field[string]
}

func (r *UpdateRequest) fields() []namedField {
	return []namedField{
		{"date", r.Date},
		{"time", r.Time},
		{"patient_id", r.PatientID},
		{"type", r.Type},
		{"doctor_id", r.DoctorID},
	}
}

// Validate rejects explicit nulls and malformed dates.
func (r *UpdateRequest) Validate() error {
	for _, f := range r.fields() {
		if err := f.value.NotNull(f.name); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	if date, ok := r.Date.Get(); ok {
		return validateDate(date)
	}
	return nil
}

// Fields returns the supplied fields as a store record.
func (r *UpdateRequest) Fields() store.Record {
	out := store.Record{}
	for _, f := range r.fields() {
		if v, ok := f.value.Get(); ok {
			out[f.name] = v
		}
	}
	return out
}

func validateDate(date string) error {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRequest)
	}
	return nil
}

func (a *Appointment) record() store.Record {
	return store.Record{
		IDField:      a.ID,
		"date":       a.Date,
		"time":       a.Time,
		"patient_id": a.PatientID,
		"type":       a.Type,
		"doctor_id":  a.DoctorID,
	}
}

func fromRecord(rec store.Record) *Appointment {
	return &Appointment{
		ID:        rec.String(IDField),
		Date:      rec.String("date"),
		Time:      rec.String("time"),
		PatientID: rec.String("patient_id"),
		Type:      rec.String("type"),
		DoctorID:  rec.String("doctor_id"),
	}
}

func fromRecords(recs []store.Record) []*Appointment {
	out := make([]*Appointment, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromRecord(rec))
	}
	return out
}
