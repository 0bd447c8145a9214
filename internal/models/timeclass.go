package models

import "time"

// TimeClass is a named weekly time window (e.g. "Weekend") that a rate can
// be scoped to for time-of-day pricing variation.
type TimeClass struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Days      string    `db:"days" json:"days"` // comma-separated day abbreviations, e.g. "sat,sun"
	StartTime string    `db:"start_time" json:"startTime"`
	EndTime   string    `db:"end_time" json:"endTime"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
