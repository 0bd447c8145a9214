package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NimbusVoIP/nimbus_api/internal/models"
)

func testRecords(now time.Time) []models.RateRecord {
	past := now.Add(-24 * time.Hour)
	return []models.RateRecord{
		{ID: 1, Zone: "UK Mobile", Codes: []string{"44", "441", "442"}, TimeClass: "any", EffectiveAt: past},
		{ID: 2, Zone: "US", Codes: []string{"1"}, TimeClass: "weekend", EffectiveAt: past, Blocked: true},
		{ID: 3, Zone: "Germany", Codes: []string{"49", "4915"}, TimeClass: "any", EffectiveAt: now.Add(time.Hour)},
	}
}

func TestFilterConjunction(t *testing.T) {
	now := time.Now()
	records := []models.RateRecord{
		{ID: 1, Zone: "UK", Codes: []string{"44"}, EffectiveAt: now.Add(-time.Hour), Blocked: false},
		{ID: 2, Zone: "US", Codes: []string{"1"}, EffectiveAt: now.Add(-time.Hour), Blocked: true},
	}

	// UK fails blocked, US fails zone: intersection is empty.
	out := FilterRates(records, FilterCriteria{Zone: "u", BlockedOnly: true}, now)
	assert.Empty(t, out)

	// Each predicate alone passes something.
	assert.Len(t, FilterRates(records, FilterCriteria{Zone: "u"}, now), 2)
	assert.Len(t, FilterRates(records, FilterCriteria{BlockedOnly: true}, now), 1)
}

func TestFilterCodeCaseSensitive(t *testing.T) {
	now := time.Now()
	records := []models.RateRecord{
		{ID: 1, Zone: "Test", Codes: []string{"44AB"}, EffectiveAt: now.Add(-time.Hour)},
	}

	assert.Len(t, FilterRates(records, FilterCriteria{Code: "4AB"}, now), 1)
	// Code filter is case-sensitive, unlike the zone filter.
	assert.Empty(t, FilterRates(records, FilterCriteria{Code: "4ab"}, now))
	assert.Len(t, FilterRates(records, FilterCriteria{Zone: "tEsT"}, now), 1)
}

func TestFilterTimeClass(t *testing.T) {
	now := time.Now()
	records := testRecords(now)

	assert.Len(t, FilterRates(records, FilterCriteria{TimeClass: "any"}, now), 3)
	out := FilterRates(records, FilterCriteria{TimeClass: "weekend"}, now)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].ID)
}

func TestFilterEffectiveStatus(t *testing.T) {
	now := time.Now()
	past := now.Add(-24 * time.Hour)
	ended := now.Add(-time.Hour)
	records := []models.RateRecord{
		{ID: 1, Zone: "A", Codes: []string{"1"}, EffectiveAt: past},                // active
		{ID: 2, Zone: "B", Codes: []string{"2"}, EffectiveAt: now.Add(time.Hour)}, // pending
		{ID: 3, Zone: "C", Codes: []string{"3"}, EffectiveAt: past, EndAt: &ended}, // expired
	}

	ids := func(out []models.RateRecord) []int {
		var got []int
		for _, r := range out {
			got = append(got, r.ID)
		}
		return got
	}

	assert.Equal(t, []int{1, 2, 3}, ids(FilterRates(records, FilterCriteria{Status: StatusAny}, now)))
	assert.Equal(t, []int{1}, ids(FilterRates(records, FilterCriteria{Status: StatusFilterActive}, now)))
	assert.Equal(t, []int{2}, ids(FilterRates(records, FilterCriteria{Status: StatusFilterPending}, now)))
	assert.Equal(t, []int{3}, ids(FilterRates(records, FilterCriteria{Status: StatusFilterExpired}, now)))
	assert.Equal(t, []int{1, 2}, ids(FilterRates(records, FilterCriteria{Status: StatusActiveAndPending}, now)))

	// Reserved date-anchored categories behave as "any".
	assert.Equal(t, []int{1, 2, 3}, ids(FilterRates(records, FilterCriteria{Status: StatusEffectiveFrom}, now)))
	assert.Equal(t, []int{1, 2, 3}, ids(FilterRates(records, FilterCriteria{Status: StatusEffectiveAt}, now)))
}

func TestPivotRowCounts(t *testing.T) {
	now := time.Now()
	records := testRecords(now)

	zoneRows := ToZoneRows(records, now)
	assert.Len(t, zoneRows, 3)

	codeRows := ToCodeRows(records, now)
	// 3 + 1 + 2 codes
	assert.Len(t, codeRows, 6)

	// Every code row points back at its source record.
	byRate := map[int]int{}
	for _, row := range codeRows {
		byRate[row.RateID]++
		assert.NotEmpty(t, row.Code)
	}
	assert.Equal(t, map[int]int{1: 3, 2: 1, 3: 2}, byRate)
}

func TestZoneRowCodeSummary(t *testing.T) {
	now := time.Now()
	records := []models.RateRecord{
		{ID: 1, Zone: "UK", Codes: []string{"44", "441", "442", "443"}, EffectiveAt: now.Add(-time.Hour)},
		{ID: 2, Zone: "US", Codes: []string{"1"}, EffectiveAt: now.Add(-time.Hour)},
	}

	rows := ToZoneRows(records, now)
	require.Len(t, rows, 2)

	// Truncated to the first 3 with an ellipsis, full list retained.
	assert.Equal(t, "44, 441, 442, ...", rows[0].CodeSummary)
	assert.Equal(t, []string{"44", "441", "442", "443"}, rows[0].AllCodes)
	assert.Equal(t, "1", rows[1].CodeSummary)
}

func TestPaginationClamp(t *testing.T) {
	rows := make([]DisplayRow, 25)

	page1, page, totalPages := PaginateRows(rows, 3, 10)
	assert.Equal(t, 3, page)
	assert.Equal(t, 3, totalPages)
	assert.Len(t, page1, 5)

	// A filter change shrinks the set to 5: page 3 clamps down to 1.
	shrunk := rows[:5]
	out, page, totalPages := PaginateRows(shrunk, 3, 10)
	assert.Equal(t, 1, page)
	assert.Equal(t, 1, totalPages)
	assert.Len(t, out, 5)
}

func TestPaginationEmpty(t *testing.T) {
	out, page, totalPages := PaginateRows(nil, 4, 10)
	assert.Empty(t, out)
	assert.Equal(t, 1, page)
	assert.Equal(t, 1, totalPages)
}

func TestPipelineDeterministic(t *testing.T) {
	now := time.Now()
	records := testRecords(now)
	criteria := FilterCriteria{Zone: "u", Status: StatusActiveAndPending}

	first := ToCodeRows(FilterRates(records, criteria, now), now)
	second := ToCodeRows(FilterRates(records, criteria, now), now)
	assert.Equal(t, first, second)
}
