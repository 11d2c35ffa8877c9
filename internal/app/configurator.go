package app

import (
	"context"

	"github.com/neomorfeo/spacebuilder/internal/domain"
)

// Configurator is the stateful controller for one configurator session. It
// owns the selection and its history stack; the catalog is shared and
// read-only. A Configurator is not safe for concurrent use.
type Configurator struct {
	catalog   domain.Catalog
	validator domain.StageValidator
	selection domain.Selection
	history   domain.History
}

// NewConfigurator creates a controller at the product grid.
func NewConfigurator(catalog domain.Catalog, validator domain.StageValidator) *Configurator {
	return &Configurator{
		catalog:   catalog,
		validator: validator,
		selection: domain.NewSelection(),
		history:   domain.History{},
	}
}

// ResumeConfigurator rebuilds a controller from a stored session.
func ResumeConfigurator(catalog domain.Catalog, validator domain.StageValidator, session domain.Session) *Configurator {
	history := make(domain.History, len(session.History))
	copy(history, session.History)
	return &Configurator{
		catalog:   catalog,
		validator: validator,
		selection: session.Selection,
		history:   history,
	}
}

// Selection returns the current selection.
func (c *Configurator) Selection() domain.Selection { return c.selection }

// History returns a copy of the history stack, oldest first.
func (c *Configurator) History() domain.History {
	out := make(domain.History, len(c.history))
	copy(out, c.history)
	return out
}

// Apply runs one shopper action. A rejected action returns an error and
// leaves both the selection and the history untouched.
func (c *Configurator) Apply(ctx context.Context, action domain.Action) error {
	step, err := domain.Reduce(c.catalog, c.selection, action)
	if err != nil {
		return err
	}

	dst, err := c.validator.Apply(ctx, c.selection.Stage, step.Event)
	if err != nil {
		return err
	}

	if step.Navigate {
		c.history.Push(c.selection)
	}
	step.Next.Stage = dst
	c.selection = step.Next
	return nil
}

// SelectSeating opens the variant grid for seating product.
func (c *Configurator) SelectSeating(ctx context.Context, product int) error {
	return c.Apply(ctx, domain.Action{Event: domain.EventSelectSeating, Product: product})
}

// SelectVariant chooses a seating variant and moves on to the platform.
func (c *Configurator) SelectVariant(ctx context.Context, product, variant int) error {
	return c.Apply(ctx, domain.Action{Event: domain.EventSelectVariant, Product: product, Variant: variant})
}

// AddPlatform adds the platform, from its grid or again from the hub.
func (c *Configurator) AddPlatform(ctx context.Context) error {
	return c.Apply(ctx, domain.Action{Event: domain.EventAddPlatform})
}

// SkipPlatform leaves the platform out and lands on the hub.
func (c *Configurator) SkipPlatform(ctx context.Context) error {
	return c.Apply(ctx, domain.Action{Event: domain.EventSkipPlatform})
}

// ContinueToAroma opens the aroma grid.
func (c *Configurator) ContinueToAroma(ctx context.Context) error {
	return c.Apply(ctx, domain.Action{Event: domain.EventContinueToAroma})
}

// SkipAroma declines aroma and any incense with it.
func (c *Configurator) SkipAroma(ctx context.Context) error {
	return c.Apply(ctx, domain.Action{Event: domain.EventSkipAroma})
}

// SelectAroma opens the variant grid for aroma product.
func (c *Configurator) SelectAroma(ctx context.Context, product int) error {
	return c.Apply(ctx, domain.Action{Event: domain.EventSelectAroma, Product: product})
}

// SelectAromaVariant chooses an aroma variant. The incense holder continues to the incense grid.
func (c *Configurator) SelectAromaVariant(ctx context.Context, product, variant int) error {
	return c.Apply(ctx, domain.Action{Event: domain.EventSelectAromaVariant, Product: product, Variant: variant})
}

// SelectIncense chooses a purchasable incense variant.
func (c *Configurator) SelectIncense(ctx context.Context, variant int) error {
	return c.Apply(ctx, domain.Action{Event: domain.EventSelectIncense, Variant: variant})
}

// SkipIncense declines purchasable incense for the holder.
func (c *Configurator) SkipIncense(ctx context.Context) error {
	return c.Apply(ctx, domain.Action{Event: domain.EventSkipIncense})
}

// ContinueToHome opens the home accessory grid.
func (c *Configurator) ContinueToHome(ctx context.Context) error {
	return c.Apply(ctx, domain.Action{Event: domain.EventContinueToHome})
}

// SkipHome declines a home accessory.
func (c *Configurator) SkipHome(ctx context.Context) error {
	return c.Apply(ctx, domain.Action{Event: domain.EventSkipHome})
}

// SelectHome opens the variant grid for home accessory product.
func (c *Configurator) SelectHome(ctx context.Context, product int) error {
	return c.Apply(ctx, domain.Action{Event: domain.EventSelectHome, Product: product})
}

// SelectHomeVariant chooses a home accessory variant.
func (c *Configurator) SelectHomeVariant(ctx context.Context, product, variant int) error {
	return c.Apply(ctx, domain.Action{Event: domain.EventSelectHomeVariant, Product: product, Variant: variant})
}

// RemovePlatform drops the platform from the bundle.
func (c *Configurator) RemovePlatform(ctx context.Context) error {
	return c.Apply(ctx, domain.Action{Event: domain.EventRemovePlatform})
}

// RemoveAroma drops the aroma and any incense that came with it.
func (c *Configurator) RemoveAroma(ctx context.Context) error {
	return c.Apply(ctx, domain.Action{Event: domain.EventRemoveAroma})
}

// RemoveIncense drops purchasable incense. Bundled incense cannot be removed on its own.
func (c *Configurator) RemoveIncense(ctx context.Context) error {
	return c.Apply(ctx, domain.Action{Event: domain.EventRemoveIncense})
}

// RemoveHome drops the home accessory and reopens its slot.
func (c *Configurator) RemoveHome(ctx context.Context) error {
	return c.Apply(ctx, domain.Action{Event: domain.EventRemoveHome})
}

// GoBack restores the most recent snapshot verbatim, stage included. It
// reports false and does nothing when there is no history.
func (c *Configurator) GoBack() bool {
	snap, ok := c.history.Pop()
	if !ok {
		return false
	}
	c.selection = snap.Selection()
	return true
}

// Restore replaces the selection with the one a save code describes. The
// history is cleared and the configurator lands on the hub. An invalid
// code changes nothing.
func (c *Configurator) Restore(code string) error {
	sel, err := domain.DecodeSaveCode(c.catalog, code)
	if err != nil {
		return err
	}
	c.selection = sel
	c.history.Clear()
	return nil
}

// SaveCode encodes the current selection.
func (c *Configurator) SaveCode() (string, error) {
	return domain.EncodeSaveCode(c.selection)
}

// IsReady reports whether the bundle can be checked out.
func (c *Configurator) IsReady() bool { return c.selection.IsReady() }

// Total is the current bundle price.
func (c *Configurator) Total() domain.Money { return domain.Total(c.catalog, c.selection) }

// View derives the render instructions for the current selection.
func (c *Configurator) View() domain.View { return domain.Present(c.catalog, c.selection) }

// CheckoutItems returns the line items to submit. Checkout is only
// possible from the hub with a ready configuration.
func (c *Configurator) CheckoutItems(ctx context.Context) ([]domain.LineItem, error) {
	if _, err := c.validator.Apply(ctx, c.selection.Stage, domain.EventCheckout); err != nil {
		return nil, err
	}
	if !c.selection.IsReady() {
		return nil, domain.ErrNotReady
	}
	items := domain.LineItems(c.catalog, c.selection)
	if len(items) == 0 {
		return nil, domain.ErrEmptySelection
	}
	return items, nil
}
