package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/NimbusVoIP/nimbus_api/internal/models"
)

// RateRepository handles rate-record persistence.
type RateRepository struct {
	db *sqlx.DB
}

// NewRateRepository creates a new RateRepository.
func NewRateRepository(db *sqlx.DB) *RateRepository {
	return &RateRepository{db: db}
}

const rateColumns = `id, plan_id, zone, codes, origin_set_id, time_class,
	effective_at, end_at, connection_charge, initial_charge, recurring_charge,
	recurring_interval, blocked, created_at`

// ListByPlan returns every rate of a plan ordered by zone then id. The view
// pipeline filters and paginates in the service, so this must be the full set.
func (r *RateRepository) ListByPlan(ctx context.Context, planID int) ([]models.RateRecord, error) {
	var rates []models.RateRecord
	q := `SELECT ` + rateColumns + ` FROM rate_records WHERE plan_id = $1 ORDER BY zone, id`
	if err := r.db.SelectContext(ctx, &rates, q, planID); err != nil {
		return nil, err
	}
	return rates, nil
}

// ListCursor returns up to limit rates with id greater than the cursor,
// plus the cursor for the next page (0 when exhausted).
func (r *RateRepository) ListCursor(ctx context.Context, planID int, cursor, limit int) ([]models.RateRecord, int, error) {
	var rates []models.RateRecord
	q := `SELECT ` + rateColumns + ` FROM rate_records WHERE plan_id = $1 AND id > $2 ORDER BY id LIMIT $3`
	if err := r.db.SelectContext(ctx, &rates, q, planID, cursor, limit+1); err != nil {
		return nil, 0, err
	}
	next := 0
	if len(rates) > limit {
		rates = rates[:limit]
		next = rates[len(rates)-1].ID
	}
	return rates, next, nil
}

// GetByID returns a rate or (nil, nil) when absent.
func (r *RateRepository) GetByID(ctx context.Context, id int) (*models.RateRecord, error) {
	var rate models.RateRecord
	q := `SELECT ` + rateColumns + ` FROM rate_records WHERE id = $1`
	if err := r.db.GetContext(ctx, &rate, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

// Create inserts one rate record.
func (r *RateRepository) Create(ctx context.Context, rate *models.RateRecord) error {
	q := `
		INSERT INTO rate_records (plan_id, zone, codes, origin_set_id, time_class,
			effective_at, end_at, connection_charge, initial_charge, recurring_charge,
			recurring_interval, blocked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		rate.PlanID, rate.Zone, pq.Array(rate.Codes), rate.OriginSetID, rate.TimeClass,
		rate.EffectiveAt, rate.EndAt, rate.ConnectionCharge, rate.InitialCharge,
		rate.RecurringCharge, rate.RecurringInterval, rate.Blocked,
	).Scan(&rate.ID, &rate.CreatedAt)
}

// CreateBatch inserts a deck of rates in one transaction. All-or-nothing:
// a failing row rolls back the whole deck.
func (r *RateRepository) CreateBatch(ctx context.Context, rates []models.RateRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	q := `
		INSERT INTO rate_records (plan_id, zone, codes, origin_set_id, time_class,
			effective_at, end_at, connection_charge, initial_charge, recurring_charge,
			recurring_interval, blocked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	for i := range rates {
		rate := &rates[i]
		if _, err := tx.ExecContext(ctx, q,
			rate.PlanID, rate.Zone, pq.Array(rate.Codes), rate.OriginSetID, rate.TimeClass,
			rate.EffectiveAt, rate.EndAt, rate.ConnectionCharge, rate.InitialCharge,
			rate.RecurringCharge, rate.RecurringInterval, rate.Blocked); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Delete removes a whole rate record. Code-view rows act on their source
// record, so this is the only deletion granularity.
func (r *RateRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM rate_records WHERE id = $1`, id)
	return err
}

// SetBlocked flips the blocked flag on a rate.
func (r *RateRepository) SetBlocked(ctx context.Context, id int, blocked bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE rate_records SET blocked = $2 WHERE id = $1`, id, blocked)
	return err
}

// DeleteExpiredBefore purges rates whose end date passed before the cutoff.
// Used by the retention sweep worker; returns the number of rows removed.
func (r *RateRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM rate_records WHERE end_at IS NOT NULL AND end_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountByTimeClass reports how many rates reference a time class by name.
func (r *RateRepository) CountByTimeClass(ctx context.Context, name string) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM rate_records WHERE time_class = $1`, name); err != nil {
		return 0, err
	}
	return n, nil
}

// CountByOriginSet reports how many rates reference an origin set.
func (r *RateRepository) CountByOriginSet(ctx context.Context, originSetID int) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM rate_records WHERE origin_set_id = $1`, originSetID); err != nil {
		return 0, err
	}
	return n, nil
}
