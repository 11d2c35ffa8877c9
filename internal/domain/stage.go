package domain

// Stage is a named step in the configurator flow.
type Stage string

const (
	StageProductGrid        Stage = "product-grid"
	StageVariantGrid        Stage = "variant-grid"
	StagePlatformGrid       Stage = "platform-grid"
	StageConfigurator       Stage = "configurator"
	StageAromaGrid          Stage = "aroma-grid"
	StageAromaVariantGrid   Stage = "aroma-variant-grid"
	StageIncenseVariantGrid Stage = "incense-variant-grid"
	StageHomeGrid           Stage = "home-grid"
	StageHomeVariantGrid    Stage = "home-variant-grid"
)

// Stages lists every stage in flow order.
var Stages = []Stage{
	StageProductGrid,
	StageVariantGrid,
	StagePlatformGrid,
	StageConfigurator,
	StageAromaGrid,
	StageAromaVariantGrid,
	StageIncenseVariantGrid,
	StageHomeGrid,
	StageHomeVariantGrid,
}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	for _, known := range Stages {
		if s == known {
			return true
		}
	}
	return false
}

// Event represents a shopper action as seen by the stage machine.
type Event string

const (
	EventSelectSeating       Event = "select_seating"
	EventSelectVariant       Event = "select_variant"
	EventAddPlatform         Event = "add_platform"
	EventSkipPlatform        Event = "skip_platform"
	EventContinueToAroma     Event = "continue_to_aroma"
	EventSkipAroma           Event = "skip_aroma"
	EventSelectAroma         Event = "select_aroma"
	EventSelectAromaVariant  Event = "select_aroma_variant"
	EventSelectIncenseHolder Event = "select_incense_holder"
	EventSelectIncense       Event = "select_incense"
	EventSkipIncense         Event = "skip_incense"
	EventContinueToHome      Event = "continue_to_home"
	EventSkipHome            Event = "skip_home"
	EventSelectHome          Event = "select_home"
	EventSelectHomeVariant   Event = "select_home_variant"
	EventRemovePlatform      Event = "remove_platform"
	EventRemoveAroma         Event = "remove_aroma"
	EventRemoveIncense       Event = "remove_incense"
	EventRemoveHome          Event = "remove_home"
	EventCheckout            Event = "checkout"
)

// ReadsProduct reports whether the action for e takes a product index.
func (e Event) ReadsProduct() bool {
	switch e {
	case EventSelectSeating, EventSelectVariant,
		EventSelectAroma, EventSelectAromaVariant, EventSelectIncenseHolder,
		EventSelectHome, EventSelectHomeVariant:
		return true
	}
	return false
}

// ReadsVariant reports whether the action for e takes a variant index.
func (e Event) ReadsVariant() bool {
	switch e {
	case EventSelectVariant, EventSelectAromaVariant, EventSelectIncenseHolder,
		EventSelectIncense, EventSelectHomeVariant:
		return true
	}
	return false
}

// Transition defines a valid stage change: an event moves a session from Src to Dst.
type Transition struct {
	Event Event
	Src   Stage
	Dst   Stage
}

// Transitions defines all valid stage changes in the configurator flow.
// Self-transitions on the configurator hub are corrections (skip, remove)
// and checkout; they never change the stage.
var Transitions = []Transition{
	{Event: EventSelectSeating, Src: StageProductGrid, Dst: StageVariantGrid},
	{Event: EventSelectSeating, Src: StageVariantGrid, Dst: StageVariantGrid},
	{Event: EventSelectVariant, Src: StageVariantGrid, Dst: StagePlatformGrid},

	{Event: EventAddPlatform, Src: StagePlatformGrid, Dst: StageConfigurator},
	{Event: EventAddPlatform, Src: StageConfigurator, Dst: StageConfigurator},
	{Event: EventSkipPlatform, Src: StagePlatformGrid, Dst: StageConfigurator},

	{Event: EventContinueToAroma, Src: StageConfigurator, Dst: StageAromaGrid},
	{Event: EventSkipAroma, Src: StageConfigurator, Dst: StageConfigurator},
	{Event: EventSkipAroma, Src: StageAromaGrid, Dst: StageConfigurator},
	{Event: EventSkipAroma, Src: StageAromaVariantGrid, Dst: StageConfigurator},
	{Event: EventSelectAroma, Src: StageAromaGrid, Dst: StageAromaVariantGrid},
	{Event: EventSelectAroma, Src: StageAromaVariantGrid, Dst: StageAromaVariantGrid},
	{Event: EventSelectAromaVariant, Src: StageAromaVariantGrid, Dst: StageConfigurator},
	{Event: EventSelectIncenseHolder, Src: StageAromaVariantGrid, Dst: StageIncenseVariantGrid},
	{Event: EventSelectIncense, Src: StageIncenseVariantGrid, Dst: StageConfigurator},
	{Event: EventSkipIncense, Src: StageIncenseVariantGrid, Dst: StageConfigurator},

	{Event: EventContinueToHome, Src: StageConfigurator, Dst: StageHomeGrid},
	{Event: EventSkipHome, Src: StageConfigurator, Dst: StageConfigurator},
	{Event: EventSkipHome, Src: StageHomeGrid, Dst: StageConfigurator},
	{Event: EventSkipHome, Src: StageHomeVariantGrid, Dst: StageConfigurator},
	{Event: EventSelectHome, Src: StageHomeGrid, Dst: StageHomeVariantGrid},
	{Event: EventSelectHome, Src: StageHomeVariantGrid, Dst: StageHomeVariantGrid},
	{Event: EventSelectHomeVariant, Src: StageHomeVariantGrid, Dst: StageConfigurator},

	{Event: EventRemovePlatform, Src: StageConfigurator, Dst: StageConfigurator},
	{Event: EventRemoveAroma, Src: StageConfigurator, Dst: StageConfigurator},
	{Event: EventRemoveIncense, Src: StageConfigurator, Dst: StageConfigurator},
	{Event: EventRemoveHome, Src: StageConfigurator, Dst: StageConfigurator},

	{Event: EventCheckout, Src: StageConfigurator, Dst: StageConfigurator},
}
