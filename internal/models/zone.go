package models

// Zone is a named grouping of dialing-code prefixes used as the rating
// granularity above individual codes (e.g. "UK Mobile").
type Zone struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// ZoneCode is one dialing-code prefix inside a zone, with the billing
// intervals the A-Z reference table prescribes for it.
type ZoneCode struct {
	ID                int    `db:"id" json:"id"`
	ZoneID            int    `db:"zone_id" json:"zoneId"`
	Code              string `db:"code" json:"code"`
	InitialInterval   int    `db:"initial_interval" json:"initialInterval"`
	RecurringInterval int    `db:"recurring_interval" json:"recurringInterval"`
}
