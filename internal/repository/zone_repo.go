package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/NimbusVoIP/nimbus_api/internal/models"
)

// ZoneRepository handles the A-Z reference tables (zones and their codes).
type ZoneRepository struct {
	db *sqlx.DB
}

// NewZoneRepository creates a new ZoneRepository.
func NewZoneRepository(db *sqlx.DB) *ZoneRepository {
	return &ZoneRepository{db: db}
}

// SearchZones returns zones whose name matches the search term,
// case-insensitive, capped at 50 for autocomplete.
func (r *ZoneRepository) SearchZones(ctx context.Context, search string) ([]models.Zone, error) {
	var zones []models.Zone
	q := `SELECT id, name FROM az_zones WHERE name ILIKE '%' || $1 || '%' ORDER BY name LIMIT 50`
	if err := r.db.SelectContext(ctx, &zones, q, search); err != nil {
		return nil, err
	}
	return zones, nil
}

// GetZoneByName returns a zone by exact name, case-insensitive, or (nil, nil).
func (r *ZoneRepository) GetZoneByName(ctx context.Context, name string) (*models.Zone, error) {
	var z models.Zone
	q := `SELECT id, name FROM az_zones WHERE LOWER(name) = LOWER($1)`
	if err := r.db.GetContext(ctx, &z, q, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &z, nil
}

// ListZonesByIDs returns the zones for a set of ids.
func (r *ZoneRepository) ListZonesByIDs(ctx context.Context, ids []int) ([]models.Zone, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q, args, err := sqlx.In(`SELECT id, name FROM az_zones WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	q = r.db.Rebind(q)
	var zones []models.Zone
	if err := r.db.SelectContext(ctx, &zones, q, args...); err != nil {
		return nil, err
	}
	return zones, nil
}

// ListAllZones returns every zone.
func (r *ZoneRepository) ListAllZones(ctx context.Context) ([]models.Zone, error) {
	var zones []models.Zone
	if err := r.db.SelectContext(ctx, &zones, `SELECT id, name FROM az_zones ORDER BY name`); err != nil {
		return nil, err
	}
	return zones, nil
}

// CodesByZone returns the dialing codes of a zone with their billing intervals.
func (r *ZoneRepository) CodesByZone(ctx context.Context, zoneID int) ([]models.ZoneCode, error) {
	var codes []models.ZoneCode
	q := `SELECT id, zone_id, code, initial_interval, recurring_interval
		FROM az_zone_codes WHERE zone_id = $1 ORDER BY code`
	if err := r.db.SelectContext(ctx, &codes, q, zoneID); err != nil {
		return nil, err
	}
	return codes, nil
}

// ZoneByCode resolves the zone owning the longest prefix of the given code.
func (r *ZoneRepository) ZoneByCode(ctx context.Context, code string) (*models.Zone, error) {
	var z models.Zone
	q := `
		SELECT z.id, z.name
		FROM az_zones z
		JOIN az_zone_codes c ON c.zone_id = z.id
		WHERE $1 LIKE c.code || '%'
		ORDER BY LENGTH(c.code) DESC
		LIMIT 1`
	if err := r.db.GetContext(ctx, &z, q, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &z, nil
}
