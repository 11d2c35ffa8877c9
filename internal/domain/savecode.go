package domain

import "strings"

// SaveCodeLength is the fixed length of a save code.
const SaveCodeLength = 8

// Save code field positions.
const (
	codeSeatProduct = iota
	codeSeatVariant
	codePlatform
	codeAromaProduct
	codeAromaVariant
	codeIncenseVariant
	codeHomeProduct
	codeHomeVariant
)

const (
	codeDigits = "0123456789ABCDEFGHIJKLMNOPQRSTUV"
	codeNone   = 'X'

	// maxCodeIndex is the first index a single code character cannot hold.
	maxCodeIndex = len(codeDigits)
)

// EncodeSaveCode serializes the selection as eight characters:
// seat product, seat variant, platform (0/1), aroma product, aroma variant,
// incense variant, home product, home variant. Unselected, skipped and
// included fields become 'X'. A product whose variant is not chosen is
// written as 'X' too, so every code pairs products with variants.
func EncodeSaveCode(s Selection) (string, error) {
	if !s.HasSeating() {
		return "", &SaveCodeError{Reason: "choose a seat before saving"}
	}

	var b [SaveCodeLength]byte
	for i := range b {
		b[i] = codeNone
	}

	put := func(pos, index int) bool {
		if index < 0 {
			return true
		}
		if index >= maxCodeIndex {
			return false
		}
		b[pos] = codeDigits[index]
		return true
	}

	ok := put(codeSeatProduct, s.SeatProduct) && put(codeSeatVariant, s.SeatVariant)

	b[codePlatform] = '0'
	if s.PlatformAdded {
		b[codePlatform] = '1'
	}

	if s.HasAroma() {
		ok = ok && put(codeAromaProduct, s.AromaProduct) && put(codeAromaVariant, s.AromaVariant)
	}
	if s.HasIncense() && !s.IncenseIncluded {
		ok = ok && put(codeIncenseVariant, s.IncenseVariant)
	}
	if s.HasHome() {
		ok = ok && put(codeHomeProduct, s.HomeProduct) && put(codeHomeVariant, s.HomeVariant)
	}

	if !ok {
		return "", &SaveCodeError{Reason: "selection cannot be expressed as a save code"}
	}
	return string(b[:]), nil
}

// DecodeSaveCode validates code against the current catalog and returns the
// selection it describes, positioned at the configurator. Nothing is
// clamped: any malformed code or out-of-range index is rejected. Whether
// incense is included is derived from the aroma choice, not read from the
// code.
func DecodeSaveCode(c Catalog, code string) (Selection, error) {
	reject := func(reason string) (Selection, error) {
		return Selection{}, &SaveCodeError{Code: code, Reason: reason}
	}

	if len(code) != SaveCodeLength {
		return reject("code must be 8 characters")
	}

	var idx [SaveCodeLength]int
	for i := 0; i < SaveCodeLength; i++ {
		v, ok := codeValue(code[i])
		if !ok {
			return reject("code contains invalid characters")
		}
		idx[i] = v
	}

	s := NewSelection()
	s.Stage = StageConfigurator

	// Seating.
	seat, ok := c.SeatingProduct(idx[codeSeatProduct])
	if !ok {
		return reject("seat is not available")
	}
	if _, ok := seat.Variant(idx[codeSeatVariant]); !ok {
		return reject("seat option is not available")
	}
	s.SeatProduct, s.SeatVariant = idx[codeSeatProduct], idx[codeSeatVariant]

	// Platform.
	switch code[codePlatform] {
	case '0':
	case '1':
		if !c.HasPlatform() {
			return reject("platform is not available")
		}
		s.PlatformAdded = true
	default:
		return reject("platform flag must be 0 or 1")
	}

	// Aroma.
	ap, av := idx[codeAromaProduct], idx[codeAromaVariant]
	switch {
	case ap == Unselected && av == Unselected:
		s.AromaSkipped = true
	case ap == Unselected || av == Unselected:
		return reject("aroma is incomplete")
	default:
		aroma, ok := c.AromaProduct(ap)
		if !ok {
			return reject("aroma is not available")
		}
		if _, ok := aroma.Variant(av); !ok {
			return reject("aroma option is not available")
		}
		s.AromaProduct, s.AromaVariant = ap, av
	}

	// Incense.
	s.IncenseIncluded = IncenseIncluded(c, s.AromaProduct, s.AromaSkipped)
	holder := s.HasAroma() && s.AromaProduct == IncenseHolderIndex && c.HasPurchasableIncense()
	iv := idx[codeIncenseVariant]
	switch {
	case iv == Unselected:
		s.IncenseSkipped = holder
	case !holder:
		return reject("incense does not fit the chosen aroma")
	default:
		if _, ok := c.IncenseVariant(iv); !ok {
			return reject("incense is not available")
		}
		s.IncenseVariant = iv
	}

	// Home.
	hp, hv := idx[codeHomeProduct], idx[codeHomeVariant]
	switch {
	case hp == Unselected && hv == Unselected:
		s.HomeSkipped = true
	case hp == Unselected || hv == Unselected:
		return reject("home accessory is incomplete")
	default:
		home, ok := c.HomeProduct(hp)
		if !ok {
			return reject("home accessory is not available")
		}
		if _, ok := home.Variant(hv); !ok {
			return reject("home accessory option is not available")
		}
		s.HomeProduct, s.HomeVariant = hp, hv
	}

	return s, nil
}

// NormalizeSaveCode trims surrounding space and upper-cases a code typed
// by a shopper.
func NormalizeSaveCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func codeValue(ch byte) (int, bool) {
	if ch == codeNone {
		return Unselected, true
	}
	i := strings.IndexByte(codeDigits, ch)
	if i < 0 {
		return 0, false
	}
	return i, true
}
