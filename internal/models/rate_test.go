package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusAtBoundaries(t *testing.T) {
	now := time.Now()
	sec := time.Second

	t.Run("active when effective just passed and no end date", func(t *testing.T) {
		r := RateRecord{EffectiveAt: now.Add(-sec)}
		assert.Equal(t, StatusActive, r.StatusAt(now))
	})

	t.Run("pending before effective date", func(t *testing.T) {
		r := RateRecord{EffectiveAt: now.Add(sec)}
		assert.Equal(t, StatusPending, r.StatusAt(now))
	})

	t.Run("expired once end date passed regardless of effective date", func(t *testing.T) {
		end := now.Add(-sec)
		r := RateRecord{EffectiveAt: now.Add(-24 * time.Hour), EndAt: &end}
		assert.Equal(t, StatusExpired, r.StatusAt(now))
	})

	t.Run("active while end date is still ahead", func(t *testing.T) {
		end := now.Add(sec)
		r := RateRecord{EffectiveAt: now.Add(-sec), EndAt: &end}
		assert.Equal(t, StatusActive, r.StatusAt(now))
	})
}
