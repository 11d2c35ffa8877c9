package domain

// Section names a render target. Every stage is a section; the total has
// its own.
type Section string

// SectionTotal is the bundle total shown once the configuration is ready.
const SectionTotal Section = "total"

// SlotState describes what a summary slot currently holds.
type SlotState string

const (
	SlotEmpty    SlotState = "empty"
	SlotSelected SlotState = "selected"
	SlotSkipped  SlotState = "skipped"
	SlotIncluded SlotState = "included"
)

// Option is one choice in a grid or a compact chip row.
type Option struct {
	Index     int    `json:"index"`
	Title     string `json:"title"`
	ImageURL  string `json:"image_url,omitempty"`
	PriceText string `json:"price_text,omitempty"`
	Selected  bool   `json:"selected"`
}

// Grid is the choice list for the active grid stage.
type Grid struct {
	Stage    Stage    `json:"stage"`
	Heading  string   `json:"heading,omitempty"`
	Product  int      `json:"product"`
	Options  []Option `json:"options"`
	ShowSkip bool     `json:"show_skip"`
}

// SlotView is the summary chip of one bundle position on the configurator hub.
type SlotView struct {
	Slot         Slot      `json:"slot"`
	State        SlotState `json:"state"`
	Title        string    `json:"title,omitempty"`
	Subtitle     string    `json:"subtitle,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	PriceText    string    `json:"price_text,omitempty"`
	ShowContinue bool      `json:"show_continue"`
	ShowSkip     bool      `json:"show_skip"`
	Removable    bool      `json:"removable"`
}

// TotalView is the running bundle total.
type TotalView struct {
	Visible bool   `json:"visible"`
	Amount  Money  `json:"amount"`
	Text    string `json:"text,omitempty"`
}

// CheckoutView is the state of the checkout control.
type CheckoutView struct {
	Enabled bool `json:"enabled"`
	Ready   bool `json:"ready"`
}

// View is the complete render instruction set for one selection.
type View struct {
	Stage    Stage        `json:"stage"`
	Sections []Section    `json:"sections"`
	Grid     *Grid        `json:"grid,omitempty"`
	Compact  []Option     `json:"compact,omitempty"`
	Slots    []SlotView   `json:"slots,omitempty"`
	Total    TotalView    `json:"total"`
	Checkout CheckoutView `json:"checkout"`
	ScrollTo Section      `json:"scroll_to"`
}

// Present derives everything the storefront shows from a selection. It
// reads s and c only; it never changes either.
func Present(c Catalog, s Selection) View {
	s = s.Resolve(c)
	ready := s.IsReady()

	v := View{
		Stage:    s.Stage,
		Grid:     presentGrid(c, s),
		Checkout: CheckoutView{Enabled: ready && s.Stage == StageConfigurator, Ready: ready},
	}

	switch s.Stage {
	case StageProductGrid, StageVariantGrid, StagePlatformGrid:
		v.Sections = []Section{Section(s.Stage)}
		v.ScrollTo = Section(s.Stage)
	case StageConfigurator:
		v.Sections = []Section{Section(StageConfigurator)}
		v.ScrollTo = Section(StageConfigurator)
	default:
		v.Sections = []Section{Section(StageConfigurator), Section(s.Stage)}
		v.ScrollTo = Section(s.Stage)
	}

	if s.Stage != StageProductGrid {
		v.Compact = seatingOptions(c, s)
	}
	if hubReached(s.Stage) {
		v.Slots = presentSlots(c, s)
	}

	if ready {
		total := Total(c, s)
		v.Total = TotalView{Visible: true, Amount: total, Text: total.Format(c.CurrencySymbol)}
		v.Sections = append(v.Sections, SectionTotal)
		if s.Stage == StageConfigurator {
			v.ScrollTo = SectionTotal
		}
	}

	return v
}

func hubReached(stage Stage) bool {
	switch stage {
	case StageProductGrid, StageVariantGrid, StagePlatformGrid:
		return false
	}
	return true
}

func presentGrid(c Catalog, s Selection) *Grid {
	switch s.Stage {
	case StageProductGrid:
		return &Grid{Stage: s.Stage, Product: Unselected, Options: productOptions(c, c.Seating, s.SeatProduct)}
	case StageVariantGrid:
		p, _ := c.SeatingProduct(s.SeatProduct)
		return &Grid{Stage: s.Stage, Heading: p.Title, Product: s.SeatProduct, Options: variantOptions(c, p, s.SeatVariant)}
	case StagePlatformGrid:
		g := &Grid{Stage: s.Stage, Product: Unselected, ShowSkip: true}
		if c.Platform != nil {
			g.Heading = c.Platform.Title
			g.Options = []Option{{
				Index:     0,
				Title:     c.Platform.Title,
				ImageURL:  c.Platform.ImageURL,
				PriceText: productPriceText(c, *c.Platform),
				Selected:  s.PlatformAdded,
			}}
		}
		return g
	case StageAromaGrid:
		return &Grid{Stage: s.Stage, Product: Unselected, Options: productOptions(c, c.Aroma, s.AromaProduct), ShowSkip: true}
	case StageAromaVariantGrid:
		p, _ := c.AromaProduct(s.AromaProduct)
		return &Grid{Stage: s.Stage, Heading: p.Title, Product: s.AromaProduct, Options: variantOptions(c, p, s.AromaVariant), ShowSkip: true}
	case StageIncenseVariantGrid:
		g := &Grid{Stage: s.Stage, Product: Unselected, ShowSkip: true}
		if c.Incense != nil {
			g.Heading = c.Incense.Title
			g.Options = variantOptions(c, *c.Incense, s.IncenseVariant)
		}
		return g
	case StageHomeGrid:
		return &Grid{Stage: s.Stage, Product: Unselected, Options: productOptions(c, c.Home, s.HomeProduct), ShowSkip: true}
	case StageHomeVariantGrid:
		p, _ := c.HomeProduct(s.HomeProduct)
		return &Grid{Stage: s.Stage, Heading: p.Title, Product: s.HomeProduct, Options: variantOptions(c, p, s.HomeVariant), ShowSkip: true}
	}
	return nil
}

func seatingOptions(c Catalog, s Selection) []Option {
	return productOptions(c, c.Seating, s.SeatProduct)
}

func productOptions(c Catalog, products []Product, selected int) []Option {
	out := make([]Option, len(products))
	for i, p := range products {
		out[i] = Option{
			Index:     i,
			Title:     p.Title,
			ImageURL:  p.ImageURL,
			PriceText: productPriceText(c, p),
			Selected:  i == selected,
		}
	}
	return out
}

func variantOptions(c Catalog, p Product, selected int) []Option {
	out := make([]Option, len(p.Variants))
	for i, v := range p.Variants {
		img := v.ImageURL
		if img == "" {
			img = p.ImageURL
		}
		out[i] = Option{
			Index:     i,
			Title:     v.Name,
			ImageURL:  img,
			PriceText: variantPriceText(c, v),
			Selected:  i == selected,
		}
	}
	return out
}

func presentSlots(c Catalog, s Selection) []SlotView {
	slots := []SlotView{seatingSlot(c, s)}

	if c.Platform != nil {
		slot := SlotView{Slot: SlotPlatform, State: SlotEmpty, Title: c.Platform.Title, ImageURL: c.Platform.ImageURL}
		if s.PlatformAdded {
			slot.State = SlotSelected
			slot.PriceText = productPriceText(c, *c.Platform)
			slot.Removable = true
		} else {
			slot.ShowContinue = true
		}
		slots = append(slots, slot)
	}

	if len(c.Aroma) > 0 {
		slots = append(slots, pickSlot(c, SlotAroma, c.Aroma, s.AromaProduct, s.AromaVariant, s.AromaSkipped))
		if slot, ok := incenseSlot(c, s); ok {
			slots = append(slots, slot)
		}
	}

	if len(c.Home) > 0 {
		slots = append(slots, pickSlot(c, SlotHome, c.Home, s.HomeProduct, s.HomeVariant, s.HomeSkipped))
	}

	return slots
}

func seatingSlot(c Catalog, s Selection) SlotView {
	slot := SlotView{Slot: SlotSeating, State: SlotEmpty}
	p, ok := c.SeatingProduct(s.SeatProduct)
	if !ok {
		return slot
	}
	slot.Title = p.Title
	slot.ImageURL = p.ImageURL
	if v, ok := p.Variant(s.SeatVariant); ok {
		slot.State = SlotSelected
		slot.Subtitle = v.Name
		slot.PriceText = variantPriceText(c, v)
		if v.ImageURL != "" {
			slot.ImageURL = v.ImageURL
		}
	}
	return slot
}

// pickSlot builds the summary for an optional product+variant stage.
func pickSlot(c Catalog, slot Slot, products []Product, product, variant int, skipped bool) SlotView {
	out := SlotView{Slot: slot, State: SlotEmpty}
	switch {
	case skipped:
		out.State = SlotSkipped
		out.Removable = true
	case product >= 0 && variant >= 0:
		p := products[product]
		v := p.Variants[variant]
		out.State = SlotSelected
		out.Title = p.Title
		out.Subtitle = v.Name
		out.ImageURL = p.ImageURL
		if v.ImageURL != "" {
			out.ImageURL = v.ImageURL
		}
		out.PriceText = variantPriceText(c, v)
		out.Removable = true
	default:
		out.ShowContinue = true
		out.ShowSkip = true
	}
	return out
}

// incenseSlot is shown only when the chosen aroma either bundles incense or
// takes purchasable incense.
func incenseSlot(c Catalog, s Selection) (SlotView, bool) {
	if !s.HasAroma() {
		return SlotView{}, false
	}

	if s.IncenseIncluded && c.IncludedIncense != nil {
		return SlotView{
			Slot:      SlotIncense,
			State:     SlotIncluded,
			Title:     c.IncludedIncense.Title,
			ImageURL:  c.IncludedIncense.ImageURL,
			PriceText: IncludedLabel,
		}, true
	}

	if s.AromaProduct != IncenseHolderIndex || !c.HasPurchasableIncense() {
		return SlotView{}, false
	}

	slot := SlotView{Slot: SlotIncense, State: SlotEmpty, Title: c.Incense.Title, ImageURL: c.Incense.ImageURL}
	switch {
	case s.HasIncense():
		v := c.Incense.Variants[s.IncenseVariant]
		slot.State = SlotSelected
		slot.Subtitle = v.Name
		slot.PriceText = variantPriceText(c, v)
		if v.ImageURL != "" {
			slot.ImageURL = v.ImageURL
		}
		slot.Removable = true
	case s.IncenseSkipped:
		slot.State = SlotSkipped
	}
	return slot, true
}

func productPriceText(c Catalog, p Product) string {
	if p.PriceFormatted != "" {
		return p.PriceFormatted
	}
	return Money(p.Price).Format(c.CurrencySymbol)
}

func variantPriceText(c Catalog, v Variant) string {
	if v.PriceFormatted != "" {
		return v.PriceFormatted
	}
	return Money(v.Price).Format(c.CurrencySymbol)
}
