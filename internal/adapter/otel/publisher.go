package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/spacebuilder/internal/domain"
)

// TracingPublisher wraps a domain.EventPublisher with OpenTelemetry tracing
// and counts published configurator events by type.
type TracingPublisher struct {
	next   domain.EventPublisher
	tracer trace.Tracer
	events metric.Int64Counter
}

// Compile-time check: TracingPublisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*TracingPublisher)(nil)

// NewTracingPublisher creates a tracing decorator around the given publisher.
func NewTracingPublisher(next domain.EventPublisher) (*TracingPublisher, error) {
	events, err := otel.Meter(tracerName).Int64Counter("configurator.events",
		metric.WithDescription("Configurator events published, by event type."),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	return &TracingPublisher{
		next:   next,
		tracer: otel.Tracer(tracerName),
		events: events,
	}, nil
}

func (p *TracingPublisher) Publish(ctx context.Context, event domain.Event, session domain.Session) error {
	ctx, span := p.tracer.Start(ctx, "EventPublisher.Publish",
		trace.WithAttributes(
			attribute.String("event.type", string(event)),
			attribute.String("session.id", session.ID),
			attribute.String("session.stage", string(session.Selection.Stage)),
		),
	)
	defer span.End()

	err := p.next.Publish(ctx, event, session)
	if err != nil {
		recordError(span, err)
		return err
	}

	p.events.Add(ctx, 1, metric.WithAttributes(attribute.String("event.type", string(event))))
	return nil
}
