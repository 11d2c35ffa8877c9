package domain_test

import "github.com/neomorfeo/spacebuilder/internal/domain"

// testCatalog has two seats, a platform, the incense holder plus a
// diffuser, purchasable and bundled incense, and one home accessory.
func testCatalog() domain.Catalog {
	return domain.Catalog{
		CurrencySymbol: "$",
		Seating: []domain.Product{
			{Title: "Lounge Chair", ImageURL: "chair.jpg", Variants: []domain.Variant{
				{ID: "v1", Name: "Oat", Price: 10000},
			}},
			{Title: "Sofa", ImageURL: "sofa.jpg", Variants: []domain.Variant{
				{ID: "v2", Name: "Grey", Price: 25000, ImageURL: "sofa-grey.jpg"},
				{ID: "v3", Name: "Navy", Price: 26000},
			}},
		},
		Platform: &domain.Product{ID: "p1", Title: "Platform", Price: 5000},
		Aroma: []domain.Product{
			{Title: "Incense Holder", Variants: []domain.Variant{
				{ID: "a1", Name: "Brass", Price: 3000},
				{ID: "a3", Name: "Stone", Price: 3500},
			}},
			{Title: "Diffuser", Variants: []domain.Variant{
				{ID: "a2", Name: "Clay", Price: 4000},
			}},
		},
		Incense: &domain.Product{Title: "Incense", Variants: []domain.Variant{
			{ID: "i1", Name: "Cedar", Price: 1200},
			{ID: "i2", Name: "Sage", Price: 1300},
		}},
		IncludedIncense: &domain.Product{Title: "Sample Incense", Variants: []domain.Variant{
			{ID: "i0", Name: "Sampler"},
		}},
		Home: []domain.Product{
			{Title: "Throw", Variants: []domain.Variant{
				{ID: "h1", Name: "Wool", Price: 6000},
				{ID: "h2", Name: "Linen", Price: 6500},
			}},
		},
	}
}

// seatOnlyCatalog is two seats and nothing else.
func seatOnlyCatalog() domain.Catalog {
	c := domain.EmptyCatalog()
	c.Seating = []domain.Product{
		{Title: "Lounge Chair", Variants: []domain.Variant{{ID: "v1", Name: "Oat", Price: 10000}}},
		{Title: "Sofa", Variants: []domain.Variant{{ID: "v2", Name: "Grey", Price: 25000}}},
	}
	return c
}

// hubSelection is a ready selection on the configurator hub with seat
// (1, 0) and everything optional skipped.
func hubSelection() domain.Selection {
	s := domain.NewSelection()
	s.SeatProduct, s.SeatVariant = 1, 0
	s.AromaSkipped = true
	s.HomeSkipped = true
	s.Stage = domain.StageConfigurator
	return s
}
