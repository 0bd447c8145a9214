package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/NimbusVoIP/nimbus_api/internal/models"
)

// PlanRepository handles rating-plan persistence.
type PlanRepository struct {
	db *sqlx.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(db *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

const planColumns = `id, name, currency, side, plan_timezone, display_timezone,
	default_rate_policy, enforce_margin, min_margin_percent, effective_at,
	initial_interval, recurring_interval, period_template_id, origin_mode,
	created_at, updated_at`

// List returns one page of plans for a side, newest first, plus the total count.
func (r *PlanRepository) List(ctx context.Context, side models.PlanSide, page, limit int) ([]models.RatingPlan, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM rating_plans WHERE side = $1`, side); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	var plans []models.RatingPlan
	q := `SELECT ` + planColumns + ` FROM rating_plans WHERE side = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &plans, q, side, limit, offset); err != nil {
		return nil, 0, err
	}
	return plans, total, nil
}

// GetByID returns a plan or (nil, nil) when absent.
func (r *PlanRepository) GetByID(ctx context.Context, id int) (*models.RatingPlan, error) {
	var p models.RatingPlan
	q := `SELECT ` + planColumns + ` FROM rating_plans WHERE id = $1`
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// GetByName returns a plan by its unique name or (nil, nil) when absent.
func (r *PlanRepository) GetByName(ctx context.Context, name string) (*models.RatingPlan, error) {
	var p models.RatingPlan
	q := `SELECT ` + planColumns + ` FROM rating_plans WHERE name = $1`
	if err := r.db.GetContext(ctx, &p, q, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts a plan and fills in its generated fields.
func (r *PlanRepository) Create(ctx context.Context, p *models.RatingPlan) error {
	q := `
		INSERT INTO rating_plans (name, currency, side, plan_timezone, display_timezone,
			default_rate_policy, enforce_margin, min_margin_percent, effective_at,
			initial_interval, recurring_interval, period_template_id, origin_mode)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, q,
		p.Name, p.Currency, p.Side, p.PlanTimezone, p.DisplayTimezone,
		p.DefaultRatePolicy, p.EnforceMargin, p.MinMarginPercent, p.EffectiveAt,
		p.InitialInterval, p.RecurringInterval, p.PeriodTemplateID, p.OriginMode,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Update writes the mutable plan fields. Name and currency are never
// touched here; immutability is enforced in the service layer.
func (r *PlanRepository) Update(ctx context.Context, p *models.RatingPlan) error {
	q := `
		UPDATE rating_plans SET
			plan_timezone = $2, display_timezone = $3, default_rate_policy = $4,
			enforce_margin = $5, min_margin_percent = $6, effective_at = $7,
			initial_interval = $8, recurring_interval = $9, period_template_id = $10,
			origin_mode = $11, updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q,
		p.ID, p.PlanTimezone, p.DisplayTimezone, p.DefaultRatePolicy,
		p.EnforceMargin, p.MinMarginPercent, p.EffectiveAt,
		p.InitialInterval, p.RecurringInterval, p.PeriodTemplateID, p.OriginMode)
	return err
}

// Delete removes a plan; its rates cascade in the schema.
func (r *PlanRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM rating_plans WHERE id = $1`, id)
	return err
}
