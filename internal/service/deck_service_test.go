package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDeck = `zone,codes,time_class,connection_charge,initial_charge,recurring_charge,recurring_interval,effective_at,end_at
United Kingdom,44;441;442,any,0.01,0.02,0.015,60,2026-01-01,
United States,1;1212,peak,0,0.011,0.011,6,2026-01-01,2026-06-30
`

func TestParseDeckValid(t *testing.T) {
	rates, rowErrs, err := parseDeck(7, []byte(validDeck))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rates, 2)

	uk := rates[0]
	assert.Equal(t, 7, uk.PlanID)
	assert.Equal(t, "United Kingdom", uk.Zone)
	assert.Equal(t, []string{"44", "441", "442"}, []string(uk.Codes))
	assert.Equal(t, "any", uk.TimeClass)
	assert.Equal(t, 0.01, uk.ConnectionCharge)
	assert.Equal(t, 60, uk.RecurringInterval)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), uk.EffectiveAt)
	assert.Nil(t, uk.EndAt)

	us := rates[1]
	assert.Equal(t, "peak", us.TimeClass)
	require.NotNil(t, us.EndAt)
	assert.Equal(t, time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), *us.EndAt)
}

func TestParseDeckWithoutHeader(t *testing.T) {
	deck := "Germany,49,any,0,0.03,0.03,1,2026-01-01,\n"
	rates, rowErrs, err := parseDeck(1, []byte(deck))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rates, 1)
	assert.Equal(t, "Germany", rates[0].Zone)
}

func TestParseDeckCollectsRowErrors(t *testing.T) {
	deck := `zone,codes,time_class,connection_charge,initial_charge,recurring_charge,recurring_interval,effective_at,end_at
,44,any,0,0.02,0.02,1,2026-01-01,
France,33,any,abc,0.02,0.02,1,2026-01-01,
Spain,34,any,0,0.02,0.02,0,2026-01-01,
Italy,39,any,0,0.02,0.02,1,not-a-date,
Austria,43,any,0,0.02,0.02,1,2026-01-01,
`
	rates, rowErrs, err := parseDeck(1, []byte(deck))
	require.NoError(t, err)

	// Valid rows still parse; the caller decides whether any error rejects
	// the whole deck.
	require.Len(t, rates, 1)
	assert.Equal(t, "Austria", rates[0].Zone)

	require.Len(t, rowErrs, 4)
	assert.Equal(t, 2, rowErrs[0].Line)
	assert.Equal(t, "zone is required", rowErrs[0].Message)
	assert.Contains(t, rowErrs[1].Message, "connection_charge")
	assert.Contains(t, rowErrs[2].Message, "recurring_interval")
	assert.Contains(t, rowErrs[3].Message, "effective_at")
}

func TestParseDeckMultipleErrorsOnOneRow(t *testing.T) {
	deck := ",,any,x,0.02,0.02,1,2026-01-01,\n"
	rates, rowErrs, err := parseDeck(1, []byte(deck))
	require.NoError(t, err)
	assert.Empty(t, rates)
	require.Len(t, rowErrs, 3)
	for _, re := range rowErrs {
		assert.Equal(t, 1, re.Line)
	}
}

func TestParseDeckSplitsAndTrimsCodes(t *testing.T) {
	deck := "UK,44; 441 ;;442,any,0,0.02,0.02,1,2026-01-01,\n"
	rates, rowErrs, err := parseDeck(1, []byte(deck))
	require.NoError(t, err)
	require.Empty(t, rowErrs)
	require.Len(t, rates, 1)
	assert.Equal(t, []string{"44", "441", "442"}, []string(rates[0].Codes))
}

func TestParseDeckRejectsRaggedRows(t *testing.T) {
	deck := "UK,44,any,0,0.02\n"
	_, _, err := parseDeck(1, []byte(deck))
	assert.Error(t, err)
}

func TestParseDeckEmptyTimeClassDefaultsToAny(t *testing.T) {
	deck := "UK,44,,0,0.02,0.02,1,2026-01-01,\n"
	rates, rowErrs, err := parseDeck(1, []byte(deck))
	require.NoError(t, err)
	require.Empty(t, rowErrs)
	require.Len(t, rates, 1)
	assert.Equal(t, "any", rates[0].TimeClass)
}
