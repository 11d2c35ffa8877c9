package domain

// Action is a shopper input. Product and Variant are only read by the
// actions that take them.
type Action struct {
	Event   Event
	Product int
	Variant int
}

// Step is the outcome of reducing an action against a selection. Next still
// carries the old stage; the stage machine resolves the destination for
// Event. Navigate marks forward moves that are recorded for go back;
// corrections such as skips and removals are not.
type Step struct {
	Next     Selection
	Event    Event
	Navigate bool
}

// Reduce validates a against the catalog and returns the resulting step.
// It never mutates s; on error the caller must leave its state untouched.
func Reduce(c Catalog, s Selection, a Action) (Step, error) {
	switch a.Event {
	case EventSelectSeating:
		return selectSeating(c, s, a.Product)
	case EventSelectVariant:
		return selectVariant(c, s, a.Product, a.Variant)
	case EventAddPlatform:
		return addPlatform(c, s)
	case EventSkipPlatform:
		s.PlatformAdded = false
		return navigate(s, EventSkipPlatform), nil
	case EventContinueToAroma:
		if len(c.Aroma) == 0 {
			return Step{}, &UnavailableError{What: "aroma"}
		}
		return navigate(s, EventContinueToAroma), nil
	case EventSkipAroma:
		s = clearAroma(s)
		s.AromaSkipped = true
		return correct(s, EventSkipAroma), nil
	case EventSelectAroma:
		return selectAroma(c, s, a.Product)
	case EventSelectAromaVariant, EventSelectIncenseHolder:
		return selectAromaVariant(c, s, a.Product, a.Variant)
	case EventSelectIncense:
		return selectIncense(c, s, a.Variant)
	case EventSkipIncense:
		s.IncenseVariant = Unselected
		s.IncenseIncluded = false
		s.IncenseSkipped = true
		return navigate(s, EventSkipIncense), nil
	case EventContinueToHome:
		if len(c.Home) == 0 {
			return Step{}, &UnavailableError{What: "home"}
		}
		return navigate(s, EventContinueToHome), nil
	case EventSkipHome:
		s.HomeProduct, s.HomeVariant = Unselected, Unselected
		s.HomeSkipped = true
		return correct(s, EventSkipHome), nil
	case EventSelectHome:
		return selectHome(c, s, a.Product)
	case EventSelectHomeVariant:
		return selectHomeVariant(c, s, a.Product, a.Variant)
	case EventRemovePlatform:
		s.PlatformAdded = false
		return correct(s, EventRemovePlatform), nil
	case EventRemoveAroma:
		return correct(clearAroma(s), EventRemoveAroma), nil
	case EventRemoveIncense:
		return removeIncense(s)
	case EventRemoveHome:
		s.HomeProduct, s.HomeVariant = Unselected, Unselected
		s.HomeSkipped = false
		return correct(s, EventRemoveHome), nil
	default:
		return Step{}, &TransitionError{Event: a.Event, Current: s.Stage}
	}
}

func navigate(s Selection, e Event) Step { return Step{Next: s, Event: e, Navigate: true} }

func correct(s Selection, e Event) Step { return Step{Next: s, Event: e} }

func selectSeating(c Catalog, s Selection, p int) (Step, error) {
	if _, ok := c.SeatingProduct(p); !ok {
		return Step{}, &IndexError{Field: "seating product", Index: p, Length: len(c.Seating)}
	}
	if p != s.SeatProduct {
		s.SeatVariant = Unselected
	}
	s.SeatProduct = p
	return navigate(s, EventSelectSeating), nil
}

func selectVariant(c Catalog, s Selection, p, v int) (Step, error) {
	product, ok := c.SeatingProduct(p)
	if !ok {
		return Step{}, &IndexError{Field: "seating product", Index: p, Length: len(c.Seating)}
	}
	if _, ok := product.Variant(v); !ok {
		return Step{}, &IndexError{Field: "seating variant", Index: v, Length: len(product.Variants)}
	}
	s.SeatProduct, s.SeatVariant = p, v
	return navigate(s, EventSelectVariant), nil
}

func addPlatform(c Catalog, s Selection) (Step, error) {
	if !c.HasPlatform() {
		return Step{}, &UnavailableError{What: "platform"}
	}
	fromGrid := s.Stage == StagePlatformGrid
	s.PlatformAdded = true
	if fromGrid {
		return navigate(s, EventAddPlatform), nil
	}
	return correct(s, EventAddPlatform), nil
}

func selectAroma(c Catalog, s Selection, p int) (Step, error) {
	if _, ok := c.AromaProduct(p); !ok {
		return Step{}, &IndexError{Field: "aroma product", Index: p, Length: len(c.Aroma)}
	}
	if p != s.AromaProduct {
		s.AromaVariant = Unselected
	}
	s.AromaProduct = p
	s.AromaSkipped = false
	return navigate(s, EventSelectAroma), nil
}

// selectAromaVariant routes the incense holder to the incense grid when
// incense can be bought; any other aroma returns to the hub with the
// bundled incense applied when the catalog has one.
func selectAromaVariant(c Catalog, s Selection, p, v int) (Step, error) {
	product, ok := c.AromaProduct(p)
	if !ok {
		return Step{}, &IndexError{Field: "aroma product", Index: p, Length: len(c.Aroma)}
	}
	if _, ok := product.Variant(v); !ok {
		return Step{}, &IndexError{Field: "aroma variant", Index: v, Length: len(product.Variants)}
	}

	s.AromaProduct, s.AromaVariant = p, v
	s.AromaSkipped = false
	s.IncenseVariant = Unselected
	s.IncenseSkipped = false

	if p == IncenseHolderIndex && c.HasPurchasableIncense() {
		s.IncenseIncluded = false
		return navigate(s, EventSelectIncenseHolder), nil
	}

	s.IncenseIncluded = IncenseIncluded(c, p, false)
	return navigate(s, EventSelectAromaVariant), nil
}

func selectIncense(c Catalog, s Selection, v int) (Step, error) {
	if _, ok := c.IncenseVariant(v); !ok {
		length := 0
		if c.Incense != nil {
			length = len(c.Incense.Variants)
		}
		return Step{}, &IndexError{Field: "incense variant", Index: v, Length: length}
	}
	s.IncenseVariant = v
	s.IncenseIncluded = false
	s.IncenseSkipped = false
	return navigate(s, EventSelectIncense), nil
}

// removeIncense declines a purchasable incense. The bundled incense follows
// the aroma choice and can only go away with it.
func removeIncense(s Selection) (Step, error) {
	if s.IncenseIncluded {
		return Step{}, ErrIncenseBundled
	}
	if s.HasIncense() {
		s.IncenseVariant = Unselected
		s.IncenseSkipped = true
	}
	return correct(s, EventRemoveIncense), nil
}

func selectHome(c Catalog, s Selection, p int) (Step, error) {
	if _, ok := c.HomeProduct(p); !ok {
		return Step{}, &IndexError{Field: "home product", Index: p, Length: len(c.Home)}
	}
	if p != s.HomeProduct {
		s.HomeVariant = Unselected
	}
	s.HomeProduct = p
	s.HomeSkipped = false
	return navigate(s, EventSelectHome), nil
}

func selectHomeVariant(c Catalog, s Selection, p, v int) (Step, error) {
	product, ok := c.HomeProduct(p)
	if !ok {
		return Step{}, &IndexError{Field: "home product", Index: p, Length: len(c.Home)}
	}
	if _, ok := product.Variant(v); !ok {
		return Step{}, &IndexError{Field: "home variant", Index: v, Length: len(product.Variants)}
	}
	s.HomeProduct, s.HomeVariant = p, v
	s.HomeSkipped = false
	return navigate(s, EventSelectHomeVariant), nil
}

// clearAroma drops the aroma choice and everything incense-related, since
// incense eligibility depends on the aroma.
func clearAroma(s Selection) Selection {
	s.AromaProduct, s.AromaVariant = Unselected, Unselected
	s.AromaSkipped = false
	s.IncenseVariant = Unselected
	s.IncenseIncluded = false
	s.IncenseSkipped = false
	return s
}
