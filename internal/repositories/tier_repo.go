package repositories

import (
	"context"

	"github.com/base-creator-connect/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TierRepo struct {
	pool *pgxpool.Pool
}

func NewTierRepo(pool *pgxpool.Pool) *TierRepo {
	return &TierRepo{pool: pool}
}

const tierColumns = `id, creator_id, name, min_amount, perk_description, is_active, created_at, updated_at`

func scanTier(row pgx.Row) (*models.Tier, error) {
	var t models.Tier
	if err := row.Scan(&t.ID, &t.CreatorID, &t.Name, &t.MinAmount, &t.PerkDescription,
		&t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *TierRepo) Create(ctx context.Context, t *models.Tier) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO tiers (creator_id, name, min_amount, perk_description, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, t.CreatorID, t.Name, t.MinAmount, t.PerkDescription, t.IsActive,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TierRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tier, error) {
	return scanTier(r.pool.QueryRow(ctx, `SELECT `+tierColumns+` FROM tiers WHERE id = $1`, id))
}

func (r *TierRepo) Update(ctx context.Context, t *models.Tier) error {
	return r.pool.QueryRow(ctx, `
		UPDATE tiers SET name = $1, min_amount = $2, perk_description = $3,
		       is_active = $4, updated_at = now()
		WHERE id = $5
		RETURNING updated_at
	`, t.Name, t.MinAmount, t.PerkDescription, t.IsActive, t.ID).Scan(&t.UpdatedAt)
}

// ListByCreator orders tiers by minimum amount, lowest first.
func (r *TierRepo) ListByCreator(ctx context.Context, creatorID uuid.UUID, activeOnly bool) ([]models.Tier, error) {
	query := `SELECT ` + tierColumns + ` FROM tiers WHERE creator_id = $1`
	if activeOnly {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY min_amount ASC, created_at ASC`

	rows, err := r.pool.Query(ctx, query, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tiers := []models.Tier{}
	for rows.Next() {
		t, err := scanTier(rows)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, *t)
	}
	return tiers, rows.Err()
}

func (r *TierRepo) ListActiveByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Tier, error) {
	return r.ListByCreator(ctx, creatorID, true)
}
