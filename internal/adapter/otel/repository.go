package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/spacebuilder/internal/domain"
)

const tracerName = "github.com/neomorfeo/spacebuilder/internal/adapter/otel"

// TracingRepository wraps a domain.SessionRepository with OpenTelemetry tracing.
// Each method creates a span with session attributes and records errors.
type TracingRepository struct {
	next   domain.SessionRepository
	tracer trace.Tracer
}

// Compile-time check: TracingRepository implements domain.SessionRepository.
var _ domain.SessionRepository = (*TracingRepository)(nil)

// NewTracingRepository creates a tracing decorator around the given repository.
func NewTracingRepository(next domain.SessionRepository) *TracingRepository {
	return &TracingRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingRepository) Create(ctx context.Context, session domain.Session) error {
	ctx, span := r.tracer.Start(ctx, "SessionRepository.Create",
		trace.WithAttributes(sessionAttributes(session)...),
	)
	defer span.End()

	err := r.next.Create(ctx, session)
	if err != nil {
		recordError(span, err)
	}
	return err
}

func (r *TracingRepository) GetByID(ctx context.Context, id string) (domain.Session, error) {
	ctx, span := r.tracer.Start(ctx, "SessionRepository.GetByID",
		trace.WithAttributes(attribute.String("session.id", id)),
	)
	defer span.End()

	session, err := r.next.GetByID(ctx, id)
	if err != nil {
		recordError(span, err)
		return session, err
	}
	span.SetAttributes(
		attribute.String("session.stage", string(session.Selection.Stage)),
		attribute.Int("session.history", session.History.Len()),
	)
	return session, nil
}

func (r *TracingRepository) Update(ctx context.Context, session domain.Session) error {
	ctx, span := r.tracer.Start(ctx, "SessionRepository.Update",
		trace.WithAttributes(sessionAttributes(session)...),
	)
	defer span.End()

	err := r.next.Update(ctx, session)
	if err != nil {
		recordError(span, err)
	}
	return err
}

func sessionAttributes(session domain.Session) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("session.id", session.ID),
		attribute.String("session.stage", string(session.Selection.Stage)),
		attribute.Int("session.history", session.History.Len()),
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
