package domain

import "context"

// SessionRepository defines the persistence contract for configurator sessions.
type SessionRepository interface {
	Create(ctx context.Context, session Session) error
	GetByID(ctx context.Context, id string) (Session, error)
	Update(ctx context.Context, session Session) error
}

// EventPublisher defines the contract for emitting configurator events.
type EventPublisher interface {
	Publish(ctx context.Context, event Event, session Session) error
}

// StageValidator resolves the destination stage for an event, or returns a
// *TransitionError when the event is not allowed from current.
type StageValidator interface {
	Apply(ctx context.Context, current Stage, event Event) (Stage, error)
}

// CartClient adds one line item to the shopper's storefront cart.
type CartClient interface {
	Add(ctx context.Context, item LineItem) error
	CheckoutURL() string
	CartURL() string
}

// SaveCodeSender delivers a save code to the shopper's e-mail address.
type SaveCodeSender interface {
	SendSaveCode(ctx context.Context, email, code string) error
}
