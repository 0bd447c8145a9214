package models

import (
	"time"

	"github.com/lib/pq"
)

// EffectiveStatus is the lifecycle state of a rate relative to current time.
type EffectiveStatus string

const (
	StatusPending EffectiveStatus = "pending"
	StatusActive  EffectiveStatus = "active"
	StatusExpired EffectiveStatus = "expired"
)

// RateRecord is one priced destination inside a rating plan: a zone with its
// dialing codes, charges and effective-dating. A persisted record always has
// at least one code.
type RateRecord struct {
	ID                int            `db:"id" json:"id"`
	PlanID            int            `db:"plan_id" json:"planId"`
	Zone              string         `db:"zone" json:"zone"`
	Codes             pq.StringArray `db:"codes" json:"codes"`
	OriginSetID       *int           `db:"origin_set_id" json:"originSetId,omitempty"`
	TimeClass         string         `db:"time_class" json:"timeClass"`
	EffectiveAt       time.Time      `db:"effective_at" json:"effectiveAt"`
	EndAt             *time.Time     `db:"end_at" json:"endAt,omitempty"`
	ConnectionCharge  float64        `db:"connection_charge" json:"connectionCharge"`
	InitialCharge     float64        `db:"initial_charge" json:"initialCharge"`
	RecurringCharge   float64        `db:"recurring_charge" json:"recurringCharge"`
	RecurringInterval int            `db:"recurring_interval" json:"recurringInterval"`
	Blocked           bool           `db:"blocked" json:"blocked"`
	CreatedAt         time.Time      `db:"created_at" json:"createdAt"`
}

// StatusAt computes the record's effective status against the given clock.
// It is a pure function of `now` and the two date fields and must be
// recomputed per request, never stored.
func (r *RateRecord) StatusAt(now time.Time) EffectiveStatus {
	if now.Before(r.EffectiveAt) {
		return StatusPending
	}
	if r.EndAt != nil && now.After(*r.EndAt) {
		return StatusExpired
	}
	return StatusActive
}
