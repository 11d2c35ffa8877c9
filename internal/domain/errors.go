package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple conditions without extra context.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrNotReady         = errors.New("configuration is not ready for checkout")
	ErrEmptySelection   = errors.New("nothing selected")
	ErrCheckoutInFlight = errors.New("checkout already in progress")
	ErrIncenseBundled   = errors.New("included incense is bundled with the aroma and cannot be removed")
)

// TransitionError is returned when an action is not allowed from the current stage.
type TransitionError struct {
	Event   Event
	Current Stage
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("event %q is not valid from stage %q", e.Event, e.Current)
}

// IndexError is returned when an index does not point into the catalog.
type IndexError struct {
	Field  string
	Index  int
	Length int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d)", e.Field, e.Index, e.Length)
}

// UnavailableError is returned when the catalog does not offer a stage at all.
type UnavailableError struct {
	What string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s is not offered by the catalog", e.What)
}

// SaveCodeError is returned when a save code cannot be encoded or restored.
// Reason is suitable as a user-facing validity message.
type SaveCodeError struct {
	Code   string
	Reason string
}

func (e *SaveCodeError) Error() string {
	return fmt.Sprintf("save code %q: %s", e.Code, e.Reason)
}

// IsInvalidInput reports whether err is a rejected shopper input that left
// the session unchanged.
func IsInvalidInput(err error) bool {
	var (
		trErr   *TransitionError
		idxErr  *IndexError
		unavErr *UnavailableError
		codeErr *SaveCodeError
	)
	return errors.As(err, &trErr) ||
		errors.As(err, &idxErr) ||
		errors.As(err, &unavErr) ||
		errors.As(err, &codeErr) ||
		errors.Is(err, ErrNotReady) ||
		errors.Is(err, ErrEmptySelection) ||
		errors.Is(err, ErrIncenseBundled)
}
