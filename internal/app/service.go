package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/neomorfeo/spacebuilder/internal/domain"
)

// CheckoutResult tells the storefront where to send the shopper after a
// checkout attempt and which line items reached the cart.
type CheckoutResult struct {
	RedirectURL string
	Added       []domain.LineItem
	Failed      bool
}

// SessionService orchestrates configurator sessions: it loads a session,
// applies shopper actions through a Configurator, persists the result and
// talks to the storefront for checkout and save codes.
type SessionService struct {
	catalog   domain.Catalog
	repo      domain.SessionRepository
	publisher domain.EventPublisher
	validator domain.StageValidator
	cart      domain.CartClient
	sender    domain.SaveCodeSender

	// mu serializes load-modify-store cycles so concurrent requests for a
	// session never interleave. inflight marks sessions with a checkout
	// running outside the lock.
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewSessionService creates a service with the given catalog and adapters.
func NewSessionService(
	catalog domain.Catalog,
	repo domain.SessionRepository,
	publisher domain.EventPublisher,
	validator domain.StageValidator,
	cart domain.CartClient,
	sender domain.SaveCodeSender,
) *SessionService {
	return &SessionService{
		catalog:   catalog,
		repo:      repo,
		publisher: publisher,
		validator: validator,
		cart:      cart,
		sender:    sender,
		inflight:  make(map[string]struct{}),
	}
}

// Catalog returns the catalog sessions are configured against.
func (s *SessionService) Catalog() domain.Catalog { return s.catalog }

// View derives the render instructions for a session.
func (s *SessionService) View(session domain.Session) domain.View {
	return domain.Present(s.catalog, session.Selection)
}

// Create starts a new session at the product grid.
func (s *SessionService) Create(ctx context.Context) (domain.Session, error) {
	id, err := generateID()
	if err != nil {
		return domain.Session{}, fmt.Errorf("generating session id: %w", err)
	}

	session := domain.NewSession(id)
	if err := s.repo.Create(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("creating session: %w", err)
	}
	return session, nil
}

// GetByID returns a session by its identifier.
func (s *SessionService) GetByID(ctx context.Context, id string) (domain.Session, error) {
	return s.repo.GetByID(ctx, id)
}

// Apply runs one shopper action against a session. Rejected input returns
// an error and stores nothing.
func (s *SessionService) Apply(ctx context.Context, id string, action domain.Action) (domain.Session, error) {
	return s.mutate(ctx, id, action.Event, func(cfg *Configurator) error {
		return cfg.Apply(ctx, action)
	})
}

// GoBack undoes the last forward transition. With an empty history the
// session is returned unchanged.
func (s *SessionService) GoBack(ctx context.Context, id string) (domain.Session, error) {
	return s.mutate(ctx, id, "", func(cfg *Configurator) error {
		cfg.GoBack()
		return nil
	})
}

// Restore replaces a session's selection with the one encoded in code.
func (s *SessionService) Restore(ctx context.Context, id, code string) (domain.Session, error) {
	return s.mutate(ctx, id, "", func(cfg *Configurator) error {
		return cfg.Restore(domain.NormalizeSaveCode(code))
	})
}

// SaveCode returns the save code for a session's current selection.
func (s *SessionService) SaveCode(ctx context.Context, id string) (string, error) {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.configurator(session).SaveCode()
}

// Save encodes the session and asks the sender to e-mail the code. Delivery
// failures are logged and swallowed: the shopper always gets the code back.
func (s *SessionService) Save(ctx context.Context, id, email string) (string, error) {
	code, err := s.SaveCode(ctx, id)
	if err != nil {
		return "", err
	}

	if err := s.sender.SendSaveCode(ctx, email, code); err != nil {
		slog.WarnContext(ctx, "save code delivery failed",
			"session_id", id,
			"error", err,
		)
	}
	return code, nil
}

// Checkout submits the session's bundle to the cart, one line item at a
// time. Whatever happens on the network the result carries a redirect:
// the checkout page when every item was added, the cart otherwise.
func (s *SessionService) Checkout(ctx context.Context, id string) (CheckoutResult, error) {
	session, items, err := s.beginCheckout(ctx, id)
	if err != nil {
		return CheckoutResult{}, err
	}
	defer s.endCheckout(id)

	result := CheckoutResult{RedirectURL: s.cart.CheckoutURL()}
	for _, item := range items {
		if err := s.cart.Add(ctx, item); err != nil {
			slog.WarnContext(ctx, "cart add failed",
				"session_id", id,
				"variant_id", item.VariantID,
				"error", err,
			)
			result.Failed = true
			result.RedirectURL = s.cart.CartURL()
			break
		}
		result.Added = append(result.Added, item)
	}

	if err := s.publisher.Publish(ctx, domain.EventCheckout, session); err != nil {
		slog.WarnContext(ctx, "publishing checkout event failed",
			"session_id", id,
			"error", err,
		)
	}

	return result, nil
}

func (s *SessionService) beginCheckout(ctx context.Context, id string) (domain.Session, []domain.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inflight[id]; busy {
		return domain.Session{}, nil, domain.ErrCheckoutInFlight
	}

	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Session{}, nil, err
	}

	items, err := s.configurator(session).CheckoutItems(ctx)
	if err != nil {
		return domain.Session{}, nil, err
	}

	s.inflight[id] = struct{}{}
	return session, items, nil
}

func (s *SessionService) endCheckout(id string) {
	s.mu.Lock()
	delete(s.inflight, id)
	s.mu.Unlock()
}

// mutate loads a session, runs fn on its configurator and stores the result.
// A session with a checkout in flight is not changed. When event is set it
// is published after a successful store; a publish failure is logged and
// does not undo or fail the stored change.
func (s *SessionService) mutate(ctx context.Context, id string, event domain.Event, fn func(*Configurator) error) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inflight[id]; busy {
		return domain.Session{}, domain.ErrCheckoutInFlight
	}

	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}

	cfg := s.configurator(session)
	if err := fn(cfg); err != nil {
		return domain.Session{}, err
	}

	session.Selection = cfg.Selection()
	session.History = cfg.History()
	session.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("updating session: %w", err)
	}

	if event != "" {
		if err := s.publisher.Publish(ctx, event, session); err != nil {
			slog.WarnContext(ctx, "publishing configurator event failed",
				"session_id", id,
				"event", event,
				"error", err,
			)
		}
	}

	return session, nil
}

func (s *SessionService) configurator(session domain.Session) *Configurator {
	return ResumeConfigurator(s.catalog, s.validator, session)
}
