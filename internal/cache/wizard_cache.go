package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NimbusVoIP/nimbus_api/internal/models"
)

// WizardCache persists plan-creation wizard sessions in Redis. Sessions
// expire after the configured draft TTL, which replaces the console's
// discard-on-unmount behavior for abandoned wizards.
type WizardCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewWizardCache creates a new WizardCache.
func NewWizardCache(redis *RedisClient, ttl time.Duration) *WizardCache {
	return &WizardCache{
		redis: redis,
		ttl:   ttl,
	}
}

func (c *WizardCache) keySession(id string) string {
	return fmt.Sprintf("wizard:session:%s", id)
}

func (c *WizardCache) keySubmitLock(id string) string {
	return fmt.Sprintf("wizard:submit:%s", id)
}

// Save stores (or replaces) a session, refreshing its TTL.
func (c *WizardCache) Save(ctx context.Context, session *models.WizardSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal wizard session: %w", err)
	}
	return c.redis.Set(ctx, c.keySession(session.ID), string(data), c.ttl)
}

// Get retrieves a session by id. Returns (nil, nil) when the session does
// not exist or has expired.
func (c *WizardCache) Get(ctx context.Context, id string) (*models.WizardSession, error) {
	data, err := c.redis.Get(ctx, c.keySession(id))
	if err != nil {
		if IsNil(err) {
			return nil, nil
		}
		return nil, err
	}
	var session models.WizardSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wizard session: %w", err)
	}
	return &session, nil
}

// Delete discards a session and any leftover submit lock.
func (c *WizardCache) Delete(ctx context.Context, id string) error {
	return c.redis.Delete(ctx, c.keySession(id), c.keySubmitLock(id))
}

// AcquireSubmitLock takes the per-session submission lock. Returns false
// when another submission for this session is already in flight.
func (c *WizardCache) AcquireSubmitLock(ctx context.Context, id string) (bool, error) {
	return c.redis.SetNX(ctx, c.keySubmitLock(id), "1", 30*time.Second)
}

// ReleaseSubmitLock frees the submission lock after a failed submit so the
// user can retry.
func (c *WizardCache) ReleaseSubmitLock(ctx context.Context, id string) error {
	return c.redis.Delete(ctx, c.keySubmitLock(id))
}
