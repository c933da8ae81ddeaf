package appointments

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

const (
	firstSlotMinutes = 9 * 60
	lastSlotMinutes  = 18*60 + 30
	slotStepMinutes  = 30
)

// slotGrid holds every bookable start time: 9:00 through 18:30 in half hours.
var slotGrid = buildGrid(firstSlotMinutes, lastSlotMinutes, slotStepMinutes)

func buildGrid(first, last, step int) []string {
	grid := make([]string, 0, (last-first)/step+1)
	for m := first; m <= last; m += step {
		grid = append(grid, fmt.Sprintf("%d:%02d", m/60, m%60))
	}
	return grid
}

// Grid returns a copy of the slot grid in chronological order.
func Grid() []string {
	out := make([]string, len(slotGrid))
	copy(out, slotGrid)
	return out
}

// FreeSlots returns the grid minus occupied, in grid order. Occupied labels
// that are not on the grid are ignored, as are duplicates.
func FreeSlots(occupied []string) []string {
	taken := make(map[string]struct{}, len(occupied))
	for _, t := range occupied {
		taken[t] = struct{}{}
	}
	free := make([]string, 0, len(slotGrid))
	for _, slot := range slotGrid {
		if _, ok := taken[slot]; !ok {
			free = append(free, slot)
		}
	}
	return free
}

type bookedTimesLister interface {
	BookedTimes(ctx context.Context, doctorID, date string) ([]string, error)
}

// Availability computes free slots for a doctor on a date.
type Availability struct {
	appointments bookedTimesLister
	tracer       trace.Tracer
	logger       *logging.Logger
}

// NewAvailability builds the availability engine on top of an appointment lister.
func NewAvailability(appointments bookedTimesLister, logger *logging.Logger) *Availability {
	if appointments == nil {
		panic("appointments: availability requires a lister")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Availability{
		appointments: appointments,
		tracer:       otel.Tracer("mediscribe.internal.appointments"),
		logger:       logger,
	}
}

// FreeSlots fetches the booked times once and returns the remaining grid slots.
func (a *Availability) FreeSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	ctx, span := a.tracer.Start(ctx, "appointments.free_slots")
	defer span.End()
	span.SetAttributes(
		attribute.String("mediscribe.doctor_id", doctorID),
		attribute.String("mediscribe.date", date),
	)

	booked, err := a.appointments.BookedTimes(ctx, doctorID, date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "booked times lookup failed")
		return nil, err
	}
	free := FreeSlots(booked)
	a.logger.Debug("computed free slots", "doctor_id", doctorID, "date", date, "booked", len(booked), "free", len(free))
	span.SetAttributes(attribute.Int("mediscribe.free_slots", len(free)))
	return free, nil
}
