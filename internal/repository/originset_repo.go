package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/NimbusVoIP/nimbus_api/internal/models"
)

// OriginSetRepository handles origin-set persistence.
type OriginSetRepository struct {
	db *sqlx.DB
}

// NewOriginSetRepository creates a new OriginSetRepository.
func NewOriginSetRepository(db *sqlx.DB) *OriginSetRepository {
	return &OriginSetRepository{db: db}
}

func (r *OriginSetRepository) List(ctx context.Context) ([]models.OriginSet, error) {
	var out []models.OriginSet
	q := `SELECT id, name, prefixes, created_at FROM origin_sets ORDER BY name`
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OriginSetRepository) GetByID(ctx context.Context, id int) (*models.OriginSet, error) {
	var os models.OriginSet
	q := `SELECT id, name, prefixes, created_at FROM origin_sets WHERE id = $1`
	if err := r.db.GetContext(ctx, &os, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &os, nil
}

func (r *OriginSetRepository) Create(ctx context.Context, os *models.OriginSet) error {
	q := `
		INSERT INTO origin_sets (name, prefixes)
		VALUES ($1, $2)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q, os.Name, pq.Array(os.Prefixes)).
		Scan(&os.ID, &os.CreatedAt)
}

func (r *OriginSetRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM origin_sets WHERE id = $1`, id)
	return err
}
