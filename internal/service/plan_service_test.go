package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/NimbusVoIP/nimbus_api/internal/models"
)

func TestPlanFromDraftNumericCoercion(t *testing.T) {
	tests := []struct {
		name          string
		draft         models.PlanDraft
		wantInitial   int
		wantRecurring int
		wantMargin    int
	}{
		{
			name: "parseable values pass through",
			draft: models.PlanDraft{
				MinMarginRaw:         "15",
				InitialIntervalRaw:   "30",
				RecurringIntervalRaw: "6",
			},
			wantInitial:   30,
			wantRecurring: 6,
			wantMargin:    15,
		},
		{
			name: "garbage falls back to defaults",
			draft: models.PlanDraft{
				MinMarginRaw:         "ten",
				InitialIntervalRaw:   "abc",
				RecurringIntervalRaw: "1.5",
			},
			wantInitial:   1,
			wantRecurring: 1,
			wantMargin:    0,
		},
		{
			name:          "empty strings fall back to defaults",
			draft:         models.PlanDraft{},
			wantInitial:   1,
			wantRecurring: 1,
			wantMargin:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := planFromDraft(&tt.draft)
			assert.Equal(t, tt.wantInitial, plan.InitialInterval)
			assert.Equal(t, tt.wantRecurring, plan.RecurringInterval)
			assert.Equal(t, tt.wantMargin, plan.MinMarginPercent)
		})
	}
}

func TestPlanFromDraftDefaultsSideAndOrigin(t *testing.T) {
	plan := planFromDraft(&models.PlanDraft{Name: "Gold", Currency: "EUR"})
	assert.Equal(t, models.PlanSideCustomer, plan.Side)
	assert.Equal(t, models.OriginModeNone, plan.OriginMode)

	plan = planFromDraft(&models.PlanDraft{Side: models.PlanSideSupplier, OriginMode: models.OriginModeAuto})
	assert.Equal(t, models.PlanSideSupplier, plan.Side)
	assert.Equal(t, models.OriginModeAuto, plan.OriginMode)
}

func TestDraftEffectiveAt(t *testing.T) {
	t.Run("date and time combine", func(t *testing.T) {
		got := draftEffectiveAt(&models.PlanDraft{EffectiveDate: "2026-03-01", EffectiveTime: "14:30"})
		assert.Equal(t, time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC), got)
	})

	t.Run("missing time means midnight", func(t *testing.T) {
		got := draftEffectiveAt(&models.PlanDraft{EffectiveDate: "2026-03-01"})
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("missing date falls back to now", func(t *testing.T) {
		before := time.Now()
		got := draftEffectiveAt(&models.PlanDraft{})
		assert.False(t, got.Before(before))
		assert.False(t, got.After(time.Now()))
	})

	t.Run("malformed date falls back to now", func(t *testing.T) {
		before := time.Now()
		got := draftEffectiveAt(&models.PlanDraft{EffectiveDate: "01/03/2026", EffectiveTime: "14:30"})
		assert.False(t, got.Before(before))
	})
}
