package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/NimbusVoIP/nimbus_api/internal/models"
)

const lookupTTL = 30 * time.Minute

// LookupCache is a read-through cache for A-Z zone/code lookups. The
// reference tables change rarely; a background worker re-warms the hot
// entries on an interval.
type LookupCache struct {
	redis *RedisClient
}

// NewLookupCache creates a new LookupCache.
func NewLookupCache(redis *RedisClient) *LookupCache {
	return &LookupCache{redis: redis}
}

func (c *LookupCache) keyZones(search string) string {
	return fmt.Sprintf("azlookup:zones:%s", strings.ToLower(search))
}

func (c *LookupCache) keyCodes(zone string) string {
	return fmt.Sprintf("azlookup:codes:%s", strings.ToLower(zone))
}

// GetZones returns cached zones for a search term, or (nil, nil) on miss.
func (c *LookupCache) GetZones(ctx context.Context, search string) ([]models.Zone, error) {
	data, err := c.redis.Get(ctx, c.keyZones(search))
	if err != nil {
		if IsNil(err) {
			return nil, nil
		}
		return nil, err
	}
	var zones []models.Zone
	if err := json.Unmarshal([]byte(data), &zones); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached zones: %w", err)
	}
	return zones, nil
}

// SetZones caches the zone list for a search term.
func (c *LookupCache) SetZones(ctx context.Context, search string, zones []models.Zone) error {
	data, err := json.Marshal(zones)
	if err != nil {
		return fmt.Errorf("failed to marshal zones: %w", err)
	}
	return c.redis.Set(ctx, c.keyZones(search), string(data), lookupTTL)
}

// GetCodes returns cached codes for a zone, or (nil, nil) on miss.
func (c *LookupCache) GetCodes(ctx context.Context, zone string) ([]models.ZoneCode, error) {
	data, err := c.redis.Get(ctx, c.keyCodes(zone))
	if err != nil {
		if IsNil(err) {
			return nil, nil
		}
		return nil, err
	}
	var codes []models.ZoneCode
	if err := json.Unmarshal([]byte(data), &codes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached codes: %w", err)
	}
	return codes, nil
}

// SetCodes caches the code list for a zone.
func (c *LookupCache) SetCodes(ctx context.Context, zone string, codes []models.ZoneCode) error {
	data, err := json.Marshal(codes)
	if err != nil {
		return fmt.Errorf("failed to marshal codes: %w", err)
	}
	return c.redis.Set(ctx, c.keyCodes(zone), string(data), lookupTTL)
}
