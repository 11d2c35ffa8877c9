package river

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/spacebuilder/internal/domain"
)

// EventWorker writes configurator events to the structured log. Checkout
// events also carry the save code, so support can rebuild the bundle.
type EventWorker struct {
	river.WorkerDefaults[EventJobArgs]
}

// Work processes a single event job.
func (w *EventWorker) Work(ctx context.Context, job *river.Job[EventJobArgs]) error {
	attrs := []any{
		"event", job.Args.Event,
		"session_id", job.Args.SessionID,
		"stage", job.Args.Stage,
		"job_id", job.ID,
		"attempt", job.Attempt,
	}

	if job.Args.Event == string(domain.EventCheckout) {
		if code, err := domain.EncodeSaveCode(job.Args.Selection); err == nil {
			attrs = append(attrs, "save_code", code)
		}
	}

	slog.InfoContext(ctx, "configurator event", attrs...)
	return nil
}

// SaveCodeWorker delivers save code e-mails through the storefront.
type SaveCodeWorker struct {
	river.WorkerDefaults[SaveCodeJobArgs]
	sender domain.SaveCodeSender
}

// NewSaveCodeWorker creates a worker that hands codes to sender.
func NewSaveCodeWorker(sender domain.SaveCodeSender) *SaveCodeWorker {
	return &SaveCodeWorker{sender: sender}
}

// Work sends one save code. Failures are logged and returned so River
// retries until the job runs out of attempts.
func (w *SaveCodeWorker) Work(ctx context.Context, job *river.Job[SaveCodeJobArgs]) error {
	if err := w.sender.SendSaveCode(ctx, job.Args.Email, job.Args.Code); err != nil {
		slog.WarnContext(ctx, "save code e-mail failed",
			"code", job.Args.Code,
			"job_id", job.ID,
			"attempt", job.Attempt,
			"error", err,
		)
		return fmt.Errorf("sending save code: %w", err)
	}

	slog.InfoContext(ctx, "save code e-mailed",
		"code", job.Args.Code,
		"job_id", job.ID,
	)
	return nil
}
