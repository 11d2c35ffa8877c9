package river

import (
	"context"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/spacebuilder/internal/domain"
)

// Compile-time check: Mailer implements domain.SaveCodeSender.
var _ domain.SaveCodeSender = (*Mailer)(nil)

// saveCodeMaxAttempts bounds retries against the storefront contact form.
const saveCodeMaxAttempts = 3

// SaveCodeJobArgs asks the save code worker to e-mail a code to a shopper.
type SaveCodeJobArgs struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (SaveCodeJobArgs) Kind() string { return "savecode.email" }

// InsertOpts limits delivery attempts for save code e-mails.
func (SaveCodeJobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{MaxAttempts: saveCodeMaxAttempts}
}

// Mailer implements domain.SaveCodeSender by enqueuing a delivery job, so
// the shopper's request never waits on the storefront.
type Mailer struct {
	client *Client
}

// NewMailer creates a mailer backed by the given River client.
func NewMailer(client *Client) *Mailer {
	return &Mailer{client: client}
}

// SendSaveCode enqueues a save code e-mail.
func (m *Mailer) SendSaveCode(ctx context.Context, email, code string) error {
	if _, err := m.client.Insert(ctx, SaveCodeJobArgs{Email: email, Code: code}, nil); err != nil {
		return fmt.Errorf("enqueuing save code job: %w", err)
	}
	return nil
}
