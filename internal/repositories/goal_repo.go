package repositories

import (
	"context"
	"errors"

	"github.com/base-creator-connect/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type GoalRepo struct {
	pool *pgxpool.Pool
}

func NewGoalRepo(pool *pgxpool.Pool) *GoalRepo {
	return &GoalRepo{pool: pool}
}

const goalColumns = `id, creator_id, name, description, image_url, target_amount, current_amount,
	is_active, created_at, updated_at`

func scanGoal(row pgx.Row) (*models.TipGoal, error) {
	var g models.TipGoal
	if err := row.Scan(&g.ID, &g.CreatorID, &g.Name, &g.Description, &g.ImageURL,
		&g.TargetAmount, &g.CurrentAmount, &g.IsActive, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &g, nil
}

func (r *GoalRepo) Create(ctx context.Context, g *models.TipGoal) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO tip_goals (creator_id, name, description, image_url, target_amount, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, current_amount, created_at, updated_at
	`, g.CreatorID, g.Name, g.Description, g.ImageURL, g.TargetAmount, g.IsActive,
	).Scan(&g.ID, &g.CurrentAmount, &g.CreatedAt, &g.UpdatedAt)
}

func (r *GoalRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.TipGoal, error) {
	return scanGoal(r.pool.QueryRow(ctx, `SELECT `+goalColumns+` FROM tip_goals WHERE id = $1`, id))
}

// Update never touches current_amount, contributions go through Increment.
func (r *GoalRepo) Update(ctx context.Context, g *models.TipGoal) error {
	return r.pool.QueryRow(ctx, `
		UPDATE tip_goals SET name = $1, description = $2, image_url = $3,
		       target_amount = $4, is_active = $5, updated_at = now()
		WHERE id = $6
		RETURNING current_amount, updated_at
	`, g.Name, g.Description, g.ImageURL, g.TargetAmount, g.IsActive, g.ID).Scan(&g.CurrentAmount, &g.UpdatedAt)
}

// ListByCreator orders goals newest first.
func (r *GoalRepo) ListByCreator(ctx context.Context, creatorID uuid.UUID, activeOnly bool) ([]models.TipGoal, error) {
	query := `SELECT ` + goalColumns + ` FROM tip_goals WHERE creator_id = $1`
	if activeOnly {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := []models.TipGoal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

// Increment adds amount to the goal in one statement and returns the new total.
// With tipID set, the tip is marked applied in the same transaction, so a tip
// is counted at most once.
func (r *GoalRepo) Increment(ctx context.Context, goalID uuid.UUID, amount decimal.Decimal, tipID *uuid.UUID) (decimal.Decimal, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if tipID != nil {
		tag, err := tx.Exec(ctx, `
			UPDATE tips SET goal_applied = true
			WHERE id = $1 AND tip_goal_id = $2 AND goal_applied = false
		`, *tipID, goalID)
		if err != nil {
			return decimal.Zero, err
		}
		if tag.RowsAffected() == 0 {
			return decimal.Zero, ErrGoalAlreadyApplied
		}
	}

	var current decimal.Decimal
	err = tx.QueryRow(ctx, `
		UPDATE tip_goals SET current_amount = current_amount + $2, updated_at = now()
		WHERE id = $1
		RETURNING current_amount
	`, goalID, amount).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, ErrGoalNotFound
	}
	if err != nil {
		return decimal.Zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, err
	}
	return current, nil
}
