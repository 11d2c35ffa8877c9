package domain

// Unselected marks an index field that holds no choice.
const Unselected = -1

// Selection is the full set of indices and flags describing what a shopper
// has chosen so far. It is a plain value: transitions return a new
// Selection instead of mutating one in place.
type Selection struct {
	SeatProduct int `json:"seat_product"`
	SeatVariant int `json:"seat_variant"`

	PlatformAdded bool `json:"platform_added"`

	AromaProduct int  `json:"aroma_product"`
	AromaVariant int  `json:"aroma_variant"`
	AromaSkipped bool `json:"aroma_skipped"`

	IncenseVariant  int  `json:"incense_variant"`
	IncenseIncluded bool `json:"incense_included"`
	IncenseSkipped  bool `json:"incense_skipped"`

	HomeProduct int  `json:"home_product"`
	HomeVariant int  `json:"home_variant"`
	HomeSkipped bool `json:"home_skipped"`

	Stage Stage `json:"stage"`
}

// NewSelection returns the initial selection at the product grid.
func NewSelection() Selection {
	return Selection{
		SeatProduct:    Unselected,
		SeatVariant:    Unselected,
		AromaProduct:   Unselected,
		AromaVariant:   Unselected,
		IncenseVariant: Unselected,
		HomeProduct:    Unselected,
		HomeVariant:    Unselected,
		Stage:          StageProductGrid,
	}
}

// HasSeating reports whether a seating variant is chosen.
func (s Selection) HasSeating() bool {
	return s.SeatProduct >= 0 && s.SeatVariant >= 0
}

// HasAroma reports whether an aroma variant is chosen.
func (s Selection) HasAroma() bool {
	return s.AromaProduct >= 0 && s.AromaVariant >= 0
}

// HasIncense reports whether a purchasable incense variant is chosen.
func (s Selection) HasIncense() bool {
	return s.IncenseVariant >= 0
}

// HasHome reports whether a home accessory variant is chosen.
func (s Selection) HasHome() bool {
	return s.HomeProduct >= 0 && s.HomeVariant >= 0
}

// IsReady reports whether the bundle can be checked out: seating is chosen
// and both aroma and home are either chosen or skipped. Platform and
// incense never block readiness.
func (s Selection) IsReady() bool {
	return s.HasSeating() &&
		(s.HasAroma() || s.AromaSkipped) &&
		(s.HasHome() || s.HomeSkipped)
}

// Resolve drops every index that no longer points into the catalog, so a
// stale selection reads as unselected.
func (s Selection) Resolve(c Catalog) Selection {
	seat, ok := c.SeatingProduct(s.SeatProduct)
	if !ok {
		s.SeatProduct, s.SeatVariant = Unselected, Unselected
	} else if _, ok := seat.Variant(s.SeatVariant); !ok {
		s.SeatVariant = Unselected
	}

	if !c.HasPlatform() {
		s.PlatformAdded = false
	}

	aroma, ok := c.AromaProduct(s.AromaProduct)
	if !ok {
		s.AromaProduct, s.AromaVariant = Unselected, Unselected
	} else if _, ok := aroma.Variant(s.AromaVariant); !ok {
		s.AromaVariant = Unselected
	}

	if _, ok := c.IncenseVariant(s.IncenseVariant); !ok {
		s.IncenseVariant = Unselected
	}

	home, ok := c.HomeProduct(s.HomeProduct)
	if !ok {
		s.HomeProduct, s.HomeVariant = Unselected, Unselected
	} else if _, ok := home.Variant(s.HomeVariant); !ok {
		s.HomeVariant = Unselected
	}

	return s
}

// IncenseIncluded derives whether the free bundled incense applies: the
// aroma stage is not skipped, the chosen aroma is not the incense holder,
// and the catalog offers an included incense. This is the only place the
// rule lives; transitions and save-code decoding both call it.
func IncenseIncluded(c Catalog, aromaProduct int, aromaSkipped bool) bool {
	if aromaSkipped || !c.HasIncludedIncense() {
		return false
	}
	if _, ok := c.AromaProduct(aromaProduct); !ok {
		return false
	}
	return aromaProduct != IncenseHolderIndex
}

// Snapshot is a captured copy of a Selection held on the history stack.
type Snapshot Selection

// Selection returns the captured selection.
func (s Snapshot) Selection() Selection { return Selection(s) }

// History is the undo stack for go back.
type History []Snapshot

// Push captures s on top of the stack.
func (h *History) Push(s Selection) {
	*h = append(*h, Snapshot(s))
}

// Pop removes and returns the most recent snapshot. It reports false when
// the stack is empty.
func (h *History) Pop() (Snapshot, bool) {
	n := len(*h)
	if n == 0 {
		return Snapshot{}, false
	}
	top := (*h)[n-1]
	*h = (*h)[:n-1]
	return top, true
}

// Len returns the number of snapshots on the stack.
func (h History) Len() int { return len(h) }

// Clear empties the stack.
func (h *History) Clear() { *h = History{} }
