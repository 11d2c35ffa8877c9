package fsm

import (
	"context"
	"errors"

	loopfsm "github.com/looplab/fsm"

	"github.com/neomorfeo/spacebuilder/internal/domain"
)

// Compile-time check: Validator implements domain.StageValidator.
var _ domain.StageValidator = (*Validator)(nil)

// events converts domain.Transitions into looplab/fsm EventDesc format.
// It consolidates transitions with the same event+destination into a single
// EventDesc with multiple source stages (e.g., EventSkipAroma from the hub
// and from both aroma grids all land on the configurator).
var events = buildEvents()

func buildEvents() []loopfsm.EventDesc {
	type key struct {
		event string
		dst   string
	}
	grouped := make(map[key][]string)
	order := make([]key, 0)

	for _, t := range domain.Transitions {
		k := key{event: string(t.Event), dst: string(t.Dst)}
		if _, exists := grouped[k]; !exists {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], string(t.Src))
	}

	out := make([]loopfsm.EventDesc, 0, len(order))
	for _, k := range order {
		out = append(out, loopfsm.EventDesc{
			Name: k.event,
			Src:  grouped[k],
			Dst:  k.dst,
		})
	}
	return out
}

// Validator implements domain.StageValidator using looplab/fsm.
// It creates a short-lived FSM instance per Apply call, initialized with
// the session's current stage, because looplab/fsm tracks its current
// state internally.
type Validator struct{}

// New creates a new FSM-backed stage validator.
func New() *Validator {
	return &Validator{}
}

// Apply checks if the given event is valid from the current stage and
// returns the destination stage. Self-transitions (skips, removals and
// checkout on the hub) come back as the current stage. Returns a
// domain.TransitionError if the event is not allowed.
func (v *Validator) Apply(ctx context.Context, current domain.Stage, event domain.Event) (domain.Stage, error) {
	machine := loopfsm.NewFSM(string(current), events, nil)

	if err := machine.Event(ctx, string(event)); err != nil {
		var noTransition loopfsm.NoTransitionError
		if errors.As(err, &noTransition) {
			return current, nil
		}

		var invalidEvent loopfsm.InvalidEventError
		var unknownEvent loopfsm.UnknownEventError
		if errors.As(err, &invalidEvent) || errors.As(err, &unknownEvent) {
			return "", &domain.TransitionError{
				Event:   event,
				Current: current,
			}
		}
		return "", err
	}

	return domain.Stage(machine.Current()), nil
}
