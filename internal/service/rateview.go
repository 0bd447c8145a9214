package service

import (
	"strings"
	"time"

	"github.com/NimbusVoIP/nimbus_api/internal/models"
)

// DisplayMode selects how surviving rate records are projected into rows.
type DisplayMode string

const (
	// ModeZone renders one row per rate record.
	ModeZone DisplayMode = "zone"
	// ModeCode fans each record out into one row per dialing code.
	ModeCode DisplayMode = "code"
)

// StatusFilter is the effective-status filter category.
type StatusFilter string

const (
	StatusAny              StatusFilter = "any"
	StatusFilterActive     StatusFilter = "active"
	StatusFilterPending    StatusFilter = "pending"
	StatusActiveAndPending StatusFilter = "active_and_pending"
	StatusFilterExpired    StatusFilter = "expired"
	// Reserved date-anchored categories. Accepted on the wire but not yet
	// backed by a predicate; they behave as "any".
	StatusEffectiveFrom StatusFilter = "effective_from"
	StatusEffectiveAt   StatusFilter = "effective_at"
)

// FilterCriteria are the independently settable rate-table filters. A record
// passes when every active criterion matches. The code filter is a
// case-sensitive substring match; the zone filter is case-insensitive.
type FilterCriteria struct {
	Code        string       `json:"code"`
	Zone        string       `json:"zone"`
	TimeClass   string       `json:"timeClass"`
	Status      StatusFilter `json:"status"`
	BlockedOnly bool         `json:"blockedOnly"`
}

// DisplayRow is the table projection of a RateRecord. In zone mode Code is
// empty and CodeSummary carries the truncated code list; in code mode Code
// holds the single fanned-out code. RateID always references the source
// record so row actions (delete, block) apply to the whole record.
type DisplayRow struct {
	RateID            int                    `json:"rateId"`
	Zone              string                 `json:"zone"`
	Code              string                 `json:"code,omitempty"`
	CodeSummary       string                 `json:"codeSummary,omitempty"`
	AllCodes          []string               `json:"allCodes"`
	TimeClass         string                 `json:"timeClass"`
	OriginSetID       *int                   `json:"originSetId,omitempty"`
	EffectiveAt       time.Time              `json:"effectiveAt"`
	EndAt             *time.Time             `json:"endAt,omitempty"`
	Status            models.EffectiveStatus `json:"status"`
	ConnectionCharge  float64                `json:"connectionCharge"`
	InitialCharge     float64                `json:"initialCharge"`
	RecurringCharge   float64                `json:"recurringCharge"`
	RecurringInterval int                    `json:"recurringInterval"`
	Blocked           bool                   `json:"blocked"`
}

// codeSummaryLimit caps how many codes the zone-view summary column shows
// before truncating with an ellipsis marker.
const codeSummaryLimit = 3

// matchesCriteria reports whether a single record passes every active filter
// at the given clock.
func matchesCriteria(r *models.RateRecord, c FilterCriteria, now time.Time) bool {
	if c.Code != "" {
		found := false
		for _, code := range r.Codes {
			if strings.Contains(code, c.Code) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if c.Zone != "" && !strings.Contains(strings.ToLower(r.Zone), strings.ToLower(c.Zone)) {
		return false
	}

	if c.TimeClass != "" && c.TimeClass != "any" && r.TimeClass != c.TimeClass {
		return false
	}

	if !matchesStatus(r.StatusAt(now), c.Status) {
		return false
	}

	if c.BlockedOnly && !r.Blocked {
		return false
	}

	return true
}

func matchesStatus(status models.EffectiveStatus, filter StatusFilter) bool {
	switch filter {
	case "", StatusAny, StatusEffectiveFrom, StatusEffectiveAt:
		return true
	case StatusActiveAndPending:
		return status != models.StatusExpired
	default:
		return string(status) == string(filter)
	}
}

// FilterRates returns the records passing all criteria, preserving order.
func FilterRates(records []models.RateRecord, c FilterCriteria, now time.Time) []models.RateRecord {
	out := make([]models.RateRecord, 0, len(records))
	for i := range records {
		if matchesCriteria(&records[i], c, now) {
			out = append(out, records[i])
		}
	}
	return out
}

// ToZoneRows projects one row per record, with the code list truncated for
// the summary column but retained in full for tooltips.
func ToZoneRows(records []models.RateRecord, now time.Time) []DisplayRow {
	rows := make([]DisplayRow, 0, len(records))
	for i := range records {
		r := &records[i]
		row := baseRow(r, now)
		row.CodeSummary = summarizeCodes(r.Codes)
		rows = append(rows, row)
	}
	return rows
}

// ToCodeRows fans each record out into one row per code, each carrying the
// source record's id so actions apply to the whole record.
func ToCodeRows(records []models.RateRecord, now time.Time) []DisplayRow {
	var rows []DisplayRow
	for i := range records {
		r := &records[i]
		for _, code := range r.Codes {
			row := baseRow(r, now)
			row.Code = code
			rows = append(rows, row)
		}
	}
	return rows
}

func baseRow(r *models.RateRecord, now time.Time) DisplayRow {
	return DisplayRow{
		RateID:            r.ID,
		Zone:              r.Zone,
		AllCodes:          []string(r.Codes),
		TimeClass:         r.TimeClass,
		OriginSetID:       r.OriginSetID,
		EffectiveAt:       r.EffectiveAt,
		EndAt:             r.EndAt,
		Status:            r.StatusAt(now),
		ConnectionCharge:  r.ConnectionCharge,
		InitialCharge:     r.InitialCharge,
		RecurringCharge:   r.RecurringCharge,
		RecurringInterval: r.RecurringInterval,
		Blocked:           r.Blocked,
	}
}

func summarizeCodes(codes []string) string {
	if len(codes) <= codeSummaryLimit {
		return strings.Join(codes, ", ")
	}
	return strings.Join(codes[:codeSummaryLimit], ", ") + ", ..."
}

// PaginateRows slices rows for the requested page. When the row count
// shrinks below the requested page (a filter or mode change), the page is
// clamped down to the last page (minimum 1); the clamped page and total
// page count are returned alongside the slice.
func PaginateRows(rows []DisplayRow, page, pageSize int) ([]DisplayRow, int, int) {
	if pageSize <= 0 {
		pageSize = 25
	}
	if page <= 0 {
		page = 1
	}

	totalPages := (len(rows) + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(rows) {
		start = len(rows)
	}
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], page, totalPages
}
