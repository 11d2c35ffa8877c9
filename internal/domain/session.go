package domain

import "time"

// Session is one shopper's configurator run: the current selection and the
// history stack used by go back.
type Session struct {
	ID        string
	Selection Selection
	History   History
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession creates a session at the product grid with an empty history.
func NewSession(id string) Session {
	now := time.Now().UTC()
	return Session{
		ID:        id,
		Selection: NewSelection(),
		History:   History{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
