package river

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/spacebuilder/internal/domain"
)

// Compile-time check: Publisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*Publisher)(nil)

// EventJobArgs carries a configurator event to the event log worker.
// River serializes this as JSON into its job queue table. It includes a
// snapshot of the selection at the time the event was published, so the
// worker never needs to query the database.
type EventJobArgs struct {
	Event     string           `json:"event"`
	SessionID string           `json:"session_id"`
	Stage     string           `json:"stage"`
	Selection domain.Selection `json:"selection"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (EventJobArgs) Kind() string { return "configurator.event" }

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.EventPublisher by enqueuing River jobs.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish enqueues a configurator event as an async job in River.
func (p *Publisher) Publish(ctx context.Context, event domain.Event, session domain.Session) error {
	_, err := p.client.Insert(ctx, EventJobArgs{
		Event:     string(event),
		SessionID: session.ID,
		Stage:     string(session.Selection.Stage),
		Selection: session.Selection,
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing event job: %w", err)
	}
	return nil
}
