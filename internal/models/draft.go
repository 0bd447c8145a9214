package models

// WizardStage identifies one of the five plan-creation wizard stages.
type WizardStage int

const (
	StagePlanDetails  WizardStage = 1
	StageDefaultRates WizardStage = 2
	StageTimeClasses  WizardStage = 3
	StageZones        WizardStage = 4
	StageAnalysis     WizardStage = 5
)

// ZoneMode controls which zones a new plan starts with.
type ZoneMode string

const (
	ZoneModeNone    ZoneMode = "none"
	ZoneModeAll     ZoneMode = "all"
	ZoneModeSpecify ZoneMode = "specify"
)

// PlanDraft accumulates every field collected across the wizard stages.
// Numeric interval/margin fields are kept as the raw strings the console
// sends; they are coerced with fallback defaults only at submission.
type PlanDraft struct {
	Name            string   `json:"name"`
	Currency        string   `json:"currency"`
	Side            PlanSide `json:"side"`
	PlanTimezone    string   `json:"planTimezone"`
	DisplayTimezone string   `json:"displayTimezone"`

	DefaultRatePolicy    string `json:"defaultRatePolicy"`
	EnforceMargin        bool   `json:"enforceMargin"`
	MinMarginRaw         string `json:"minMargin"`
	EffectiveDate        string `json:"effectiveDate"`
	EffectiveTime        string `json:"effectiveTime"`
	InitialIntervalRaw   string `json:"initialInterval"`
	RecurringIntervalRaw string `json:"recurringInterval"`
	PeriodTemplateID     *int   `json:"periodTemplateId,omitempty"`

	TimeClassIDs []int `json:"timeClassIds"`

	ZoneMode        ZoneMode `json:"zoneMode"`
	SelectedZoneIDs []int    `json:"selectedZoneIds"`

	OriginMode OriginMode `json:"originMode"`
}

// NewPlanDraft returns a draft populated with the wizard's stage defaults.
func NewPlanDraft() PlanDraft {
	return PlanDraft{
		Side:                 PlanSideCustomer,
		PlanTimezone:         "UTC",
		DisplayTimezone:      "UTC",
		DefaultRatePolicy:    "reject",
		MinMarginRaw:         "0",
		InitialIntervalRaw:   "1",
		RecurringIntervalRaw: "1",
		TimeClassIDs:         []int{},
		ZoneMode:             ZoneModeNone,
		SelectedZoneIDs:      []int{},
		OriginMode:           OriginModeNone,
	}
}

// WizardSession is the server-held state of one opened wizard surface.
// The draft is replaced wholesale on each update; Complete gates submission
// so a second next cannot re-create the plan.
type WizardSession struct {
	ID            string      `json:"id"`
	Stage         WizardStage `json:"stage"`
	Draft         PlanDraft   `json:"draft"`
	Complete      bool        `json:"complete"`
	CreatedPlanID int         `json:"createdPlanId,omitempty"`
}
