package conversations

import (
	"fmt"
	"strings"

	"github.com/wolfman30/mediscribe-api/internal/store"
	"github.com/wolfman30/mediscribe-api/pkg/optional"
)

const (
	Collection = "conversation"
	IDField    = "conversation_id"
)

// Conversation is a recorded doctor/patient exchange and its summary.
// References are not checked against the referenced records.
type Conversation struct {
	ID            string `json:"conversation_id"`
	DoctorID      string `json:"doctor_id"`
	PatientID     string `json:"patient_id"`
	AppointmentID string `json:"appointment_id"`
	Text          string `json:"text"`
	Summary       string `json:"summary"`
}

type CreateRequest struct {
	DoctorID      string `json:"doctor_id"`
	PatientID     string `json:"patient_id"`
	AppointmentID string `json:"appointment_id"`
	Text          string `json:"text"`
	Summary       string `json:"summary"`
}

// Validate requires the three references.
func (r *CreateRequest) Validate() error {
	refs := [][2]string{
		{"doctor_id", r.DoctorID},
		{"patient_id", r.PatientID},
		{"appointment_id", r.AppointmentID},
	}
	for _, ref := range refs {
		if strings.TrimSpace(ref[1]) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidRequest, ref[0])
		}
	}
	return nil
}

type UpdateRequest struct {
	DoctorID      optional.Field[string] `json:"doctor_id"`
	PatientID     optional.Field[string] `json:"patient_id"`
	AppointmentID optional.Field[string] `json:"appointment_id"`
	Text          optional.Field[string] `json:"text"`
	Summary       optional.Field[string] `json:"summary"`
}

func (r *UpdateRequest) byColumn() map[string]optional.Field[string] {
	return map[string]optional.Field[string]{
		"doctor_id":      r.DoctorID,
		"patient_id":     r.PatientID,
		"appointment_id": r.AppointmentID,
		"text":           r.Text,
		"summary":        r.Summary,
	}
}

func (r *UpdateRequest) Validate() error {
	for name, f := range r.byColumn() {
		if err := f.NotNull(name); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	return nil
}

// Fields returns only the supplied columns.
func (r *UpdateRequest) Fields() store.Record {
	out := store.Record{}
	for name, f := range r.byColumn() {
		if v, ok := f.Get(); ok {
			out[name] = v
		}
	}
	return out
}

func (c *Conversation) record() store.Record {
	return store.Record{
		IDField:          c.ID,
		"doctor_id":      c.DoctorID,
		"patient_id":     c.PatientID,
		"appointment_id": c.AppointmentID,
		"text":           c.Text,
		"summary":        c.Summary,
	}
}

func fromRecord(rec store.Record) *Conversation {
	return &Conversation{
		ID:            rec.String(IDField),
		DoctorID:      rec.String("doctor_id"),
		PatientID:     rec.String("patient_id"),
		AppointmentID: rec.String("appointment_id"),
		Text:          rec.String("text"),
		Summary:       rec.String("summary"),
	}
}
