package patients

import (
	"fmt"
	"strings"

	"github.com/wolfman30/mediscribe-api/internal/store"
	"github.com/wolfman30/mediscribe-api/pkg/optional"
)

const (
	Collection = "patient"
	IDField    = "id"
)

// Patient is a patient chart summary
type Patient struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Contact            string `json:"contact"`
	MedicalHistory     string `json:"medical_history"`
	PreviousProcedures string `json:"previous_procedures"`
}

// CreateRequest is the payload for registering a patient
type CreateRequest struct {
	Name               string `json:"name"`
	Contact            string `json:"contact"`
	MedicalHistory     string `json:"medical_history"`
	PreviousProcedures string `json:"previous_procedures"`
}

// Validate requires a name and contact. History fields may be empty strings.
func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Contact) == "" {
		return fmt.Errorf("%w: contact is required", ErrInvalidRequest)
	}
	return nil
}

// UpdateRequest carries a partial update
type UpdateRequest struct {
	Name               optional.Field[string] `json:"name"`
	Contact            optional.Field[string] `json:"contact"`
	MedicalHistory     optional.Field[string] `json:"medical_history"`
	PreviousProcedures optional.Field[string] `json:"previous_procedures"`
}

func (r *UpdateRequest) each(fn func(name string, f optional.Field[string]) error) error {
	for _, kv := range []struct {
		name string
		f    optional.Field[string]
	}{
		{"name", r.Name},
		{"contact", r.Contact},
		{"medical_history", r.MedicalHistory},
		{"previous_procedures", r.PreviousProcedures},
	} {
		if err := fn(kv.name, kv.f); err != nil {
			return err
		}
	}
	return nil
}

func (r *UpdateRequest) Validate() error {
	return r.each(func(name string, f optional.Field[string]) error {
		if err := f.NotNull(name); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return nil
	})
}

func (r *UpdateRequest) Fields() store.Record {
	out := store.Record{}
	_ = r.each(func(name string, f optional.Field[string]) error {
		if v, ok := f.Get(); ok {
			out[name] = v
		}
		return nil
	})
	return out
}

func newRecord(id string, req *CreateRequest) store.Record {
	return store.Record{
		IDField:               id,
		"name":                req.Name,
		"contact":             req.Contact,
		"medical_history":     req.MedicalHistory,
		"previous_procedures": req.PreviousProcedures,
	}
}

func fromRecord(rec store.Record) *Patient {
	return &Patient{
		ID:                 rec.String(IDField),
		Name:               rec.String("name"),
		Contact:            rec.String("contact"),
		MedicalHistory:     rec.String("medical_history"),
		PreviousProcedures: rec.String("previous_procedures"),
	}
}
