package store

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

// Observer receives one observation per store call.
type Observer interface {
	ObserveStoreOp(op, collection, status string, seconds float64)
}

// InstrumentedStore decorates a Store with spans, metrics and failure logs.
type InstrumentedStore struct {
	next     Store
	observer Observer
	tracer   trace.Tracer
	logger   *logging.Logger
}

var _ Store = (*InstrumentedStore)(nil)

// NewInstrumentedStore wraps next. observer may be nil.
func NewInstrumentedStore(next Store, observer Observer, logger *logging.Logger) *InstrumentedStore {
	if next == nil {
		panic("store: wrapped store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &InstrumentedStore{
		next:     next,
		observer: observer,
		tracer:   otel.Tracer("mediscribe.internal.store"),
		logger:   logger,
	}
}

func (s *InstrumentedStore) Insert(ctx context.Context, collection string, rec Record) (Record, error) {
	ctx, done := s.start(ctx, "insert", collection)
	out, err := s.next.Insert(ctx, collection, rec)
	done(err)
	return out, err
}

func (s *InstrumentedStore) Query(ctx context.Context, collection string, filter Filter, columns ...string) ([]Record, error) {
	ctx, done := s.start(ctx, "query", collection)
	out, err := s.next.Query(ctx, collection, filter, columns...)
	done(err)
	return out, err
}

func (s *InstrumentedStore) Update(ctx context.Context, collection string, filter Filter, fields Record) ([]Record, error) {
	ctx, done := s.start(ctx, "update", collection)
	out, err := s.next.Update(ctx, collection, filter, fields)
	done(err)
	return out, err
}

func (s *InstrumentedStore) Delete(ctx context.Context, collection string, filter Filter) ([]Record, error) {
	ctx, done := s.start(ctx, "delete", collection)
	out, err := s.next.Delete(ctx, collection, filter)
	done(err)
	return out, err
}

func (s *InstrumentedStore) start(ctx context.Context, op, collection string) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, "store."+op)
	span.SetAttributes(attribute.String("mediscribe.collection", collection))
	began := time.Now()

	return ctx, func(err error) {
		defer span.End()
		status := "ok"
		if err != nil {
			status = "error"
			span.RecordError(err)
			s.logger.Error("store operation failed", "op", op, "collection", collection, "error", err)
		}
		if s.observer != nil {
			s.observer.ObserveStoreOp(op, collection, status, time.Since(began).Seconds())
		}
	}
}
