package models

import "time"

// PlanSide distinguishes sell-side (customer) from cost-side (supplier) plans.
type PlanSide string

const (
	PlanSideCustomer PlanSide = "customer"
	PlanSideSupplier PlanSide = "supplier"
)

// OriginMode controls how call-origin variations are assigned to a plan.
type OriginMode string

const (
	OriginModeNone   OriginMode = "none"
	OriginModeManual OriginMode = "manual"
	OriginModeAuto   OriginMode = "auto"
)

// RatingPlan is a named set of per-destination call rates with
// effective-dating. Name and currency are immutable after creation.
type RatingPlan struct {
	ID                int        `db:"id" json:"id"`
	Name              string     `db:"name" json:"name"`
	Currency          string     `db:"currency" json:"currency"`
	Side              PlanSide   `db:"side" json:"side"`
	PlanTimezone      string     `db:"plan_timezone" json:"planTimezone"`
	DisplayTimezone   string     `db:"display_timezone" json:"displayTimezone"`
	DefaultRatePolicy string     `db:"default_rate_policy" json:"defaultRatePolicy"`
	EnforceMargin     bool       `db:"enforce_margin" json:"enforceMargin"`
	MinMarginPercent  int        `db:"min_margin_percent" json:"minMarginPercent"`
	EffectiveAt       time.Time  `db:"effective_at" json:"effectiveAt"`
	InitialInterval   int        `db:"initial_interval" json:"initialInterval"`
	RecurringInterval int        `db:"recurring_interval" json:"recurringInterval"`
	PeriodTemplateID  *int       `db:"period_template_id" json:"periodTemplateId,omitempty"`
	OriginMode        OriginMode `db:"origin_mode" json:"originMode"`
	CreatedAt         time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updatedAt"`
}
