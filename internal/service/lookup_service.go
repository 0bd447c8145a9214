package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/NimbusVoIP/nimbus_api/internal/cache"
	"github.com/NimbusVoIP/nimbus_api/internal/models"
	"github.com/NimbusVoIP/nimbus_api/internal/repository"
	"github.com/NimbusVoIP/nimbus_api/internal/utils"
)

// LookupService serves the A-Z autocomplete endpoints (zones, codes,
// zone-by-code) with a Redis read-through cache in front of Postgres.
type LookupService struct {
	zoneRepo *repository.ZoneRepository
	cache    *cache.LookupCache
}

// NewLookupService constructs a LookupService.
func NewLookupService(zoneRepo *repository.ZoneRepository, lookupCache *cache.LookupCache) *LookupService {
	return &LookupService{zoneRepo: zoneRepo, cache: lookupCache}
}

// SearchZones returns zones matching the search term. Cache errors fall
// through to the database; a lookup never fails because Redis is down.
func (s *LookupService) SearchZones(ctx context.Context, search string) ([]models.Zone, error) {
	if s.cache != nil {
		cached, err := s.cache.GetZones(ctx, search)
		if err != nil {
			log.Warn().Err(err).Msg("Zone lookup cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	zones, err := s.zoneRepo.SearchZones(ctx, search)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetZones(ctx, search, zones); err != nil {
			log.Warn().Err(err).Msg("Zone lookup cache write failed")
		}
	}
	return zones, nil
}

// CodesByZone returns a zone's dialing codes with their billing intervals.
func (s *LookupService) CodesByZone(ctx context.Context, zoneName string) ([]models.ZoneCode, error) {
	if s.cache != nil {
		cached, err := s.cache.GetCodes(ctx, zoneName)
		if err != nil {
			log.Warn().Err(err).Msg("Code lookup cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	zone, err := s.zoneRepo.GetZoneByName(ctx, zoneName)
	if err != nil {
		return nil, err
	}
	if zone == nil {
		return nil, utils.ErrZoneNotFound
	}
	codes, err := s.zoneRepo.CodesByZone(ctx, zone.ID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetCodes(ctx, zoneName, codes); err != nil {
			log.Warn().Err(err).Msg("Code lookup cache write failed")
		}
	}
	return codes, nil
}

// ZoneByCode resolves the zone owning the longest matching prefix of a code.
func (s *LookupService) ZoneByCode(ctx context.Context, code string) (*models.Zone, error) {
	zone, err := s.zoneRepo.ZoneByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if zone == nil {
		return nil, utils.ErrZoneNotFound
	}
	return zone, nil
}

// WarmCache refreshes the cached code list of every zone. Run by the
// lookup warm worker on an interval.
func (s *LookupService) WarmCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	zones, err := s.zoneRepo.ListAllZones(ctx)
	if err != nil {
		return err
	}
	for _, zone := range zones {
		codes, err := s.zoneRepo.CodesByZone(ctx, zone.ID)
		if err != nil {
			continue
		}
		if err := s.cache.SetCodes(ctx, zone.Name, codes); err != nil {
			log.Warn().Err(err).Str("zone", zone.Name).Msg("Cache warm write failed")
		}
	}
	return nil
}
