package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/NimbusVoIP/nimbus_api/internal/models"
)

// TimeClassRepository handles time-class persistence.
type TimeClassRepository struct {
	db *sqlx.DB
}

// NewTimeClassRepository creates a new TimeClassRepository.
func NewTimeClassRepository(db *sqlx.DB) *TimeClassRepository {
	return &TimeClassRepository{db: db}
}

func (r *TimeClassRepository) List(ctx context.Context) ([]models.TimeClass, error) {
	var out []models.TimeClass
	q := `SELECT id, name, days, start_time, end_time, created_at FROM time_classes ORDER BY name`
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TimeClassRepository) GetByID(ctx context.Context, id int) (*models.TimeClass, error) {
	var tc models.TimeClass
	q := `SELECT id, name, days, start_time, end_time, created_at FROM time_classes WHERE id = $1`
	if err := r.db.GetContext(ctx, &tc, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &tc, nil
}

func (r *TimeClassRepository) Create(ctx context.Context, tc *models.TimeClass) error {
	q := `
		INSERT INTO time_classes (name, days, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q, tc.Name, tc.Days, tc.StartTime, tc.EndTime).
		Scan(&tc.ID, &tc.CreatedAt)
}

func (r *TimeClassRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM time_classes WHERE id = $1`, id)
	return err
}
