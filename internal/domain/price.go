package domain

import (
	"strconv"
	"strings"
)

// IncludedLabel is shown in place of a price for bundled incense.
const IncludedLabel = "Included"

// Money is an amount in minor currency units.
type Money int64

// Format renders the amount with two decimals behind the given symbol,
// e.g. 10000 with "$" is "$100.00".
func (m Money) Format(symbol string) string {
	amount := int64(m)
	neg := amount < 0
	if neg {
		amount = -amount
	}

	major := strconv.FormatInt(amount/100, 10)
	minor := strconv.FormatInt(amount%100, 10)
	if len(minor) < 2 {
		minor = "0" + minor
	}

	var b strings.Builder
	b.Grow(len(symbol) + len(major) + 4)
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(symbol)
	b.WriteString(major)
	b.WriteByte('.')
	b.WriteString(minor)
	return b.String()
}

// Slot names a priced position in the bundle.
type Slot string

const (
	SlotSeating  Slot = "seating"
	SlotPlatform Slot = "platform"
	SlotAroma    Slot = "aroma"
	SlotIncense  Slot = "incense"
	SlotHome     Slot = "home"
)

// LineItem is one product in the bundle as it goes to the cart.
type LineItem struct {
	Slot      Slot
	VariantID string
	Title     string
	Quantity  int
	Price     Money
	Included  bool
}

// LineItems lists the selected, in-range bundle components in slot order.
// Included incense is carried at no charge so it reaches the cart with
// the aroma it belongs to.
func LineItems(c Catalog, s Selection) []LineItem {
	var items []LineItem

	if p, ok := c.SeatingProduct(s.SeatProduct); ok {
		if v, ok := p.Variant(s.SeatVariant); ok {
			items = append(items, variantItem(SlotSeating, p, v))
		}
	}

	if s.PlatformAdded && c.Platform != nil {
		items = append(items, platformItem(*c.Platform))
	}

	if p, ok := c.AromaProduct(s.AromaProduct); ok {
		if v, ok := p.Variant(s.AromaVariant); ok {
			items = append(items, variantItem(SlotAroma, p, v))
		}
	}

	switch {
	case s.IncenseIncluded && c.IncludedIncense != nil:
		inc := *c.IncludedIncense
		item := LineItem{
			Slot:      SlotIncense,
			VariantID: inc.ID,
			Title:     inc.Title,
			Quantity:  1,
			Included:  true,
		}
		if v, ok := inc.Variant(0); ok {
			item.VariantID = v.ID
		}
		if item.VariantID != "" {
			items = append(items, item)
		}
	case s.HasIncense():
		if v, ok := c.IncenseVariant(s.IncenseVariant); ok {
			items = append(items, variantItem(SlotIncense, *c.Incense, v))
		}
	}

	if p, ok := c.HomeProduct(s.HomeProduct); ok {
		if v, ok := p.Variant(s.HomeVariant); ok {
			items = append(items, variantItem(SlotHome, p, v))
		}
	}

	return items
}

// Total sums the priced components of the bundle. Included incense
// contributes nothing.
func Total(c Catalog, s Selection) Money {
	var total Money
	for _, item := range LineItems(c, s) {
		if item.Included {
			continue
		}
		total += item.Price * Money(item.Quantity)
	}
	return total
}

func variantItem(slot Slot, p Product, v Variant) LineItem {
	title := p.Title
	if v.Name != "" {
		title += " - " + v.Name
	}
	return LineItem{
		Slot:      slot,
		VariantID: v.ID,
		Title:     title,
		Quantity:  1,
		Price:     Money(v.Price),
	}
}

func platformItem(p Product) LineItem {
	item := LineItem{
		Slot:      SlotPlatform,
		VariantID: p.ID,
		Title:     p.Title,
		Quantity:  1,
		Price:     Money(p.Price),
	}
	if v, ok := p.Variant(0); ok {
		item.VariantID = v.ID
		if v.Price != 0 {
			item.Price = Money(v.Price)
		}
	}
	return item
}
