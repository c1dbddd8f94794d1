package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/base-creator-connect/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type TipRepo struct {
	pool *pgxpool.Pool
}

func NewTipRepo(pool *pgxpool.Pool) *TipRepo {
	return &TipRepo{pool: pool}
}

const tipColumns = `id, creator_id, fan_wallet_address, amount, currency, message, reaction,
	transaction_hash, tier_id, tip_goal_id, goal_applied, source, created_at`

func scanTip(row pgx.Row) (*models.Tip, error) {
	var t models.Tip
	if err := row.Scan(&t.ID, &t.CreatorID, &t.FanWalletAddress, &t.Amount, &t.Currency,
		&t.Message, &t.Reaction, &t.TransactionHash, &t.TierID, &t.TipGoalID,
		&t.GoalApplied, &t.Source, &t.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *TipRepo) Create(ctx context.Context, t *models.Tip) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO tips (creator_id, fan_wallet_address, amount, currency, message, reaction,
		                  transaction_hash, tier_id, tip_goal_id, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, goal_applied, created_at
	`, t.CreatorID, t.FanWalletAddress, t.Amount, t.Currency, t.Message, t.Reaction,
		t.TransactionHash, t.TierID, t.TipGoalID, t.Source,
	).Scan(&t.ID, &t.GoalApplied, &t.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateTx
	}
	return err
}

func (r *TipRepo) GetByHash(ctx context.Context, txHash string) (*models.Tip, error) {
	return scanTip(r.pool.QueryRow(ctx, `SELECT `+tipColumns+` FROM tips WHERE lower(transaction_hash) = lower($1)`, txHash))
}

type TipFilter struct {
	CreatorID *uuid.UUID
	FanWallet *string
	Limit     int
	Offset    int
}

// List returns one page of tips, newest first, and the total matching count.
func (r *TipRepo) List(ctx context.Context, f TipFilter) ([]models.Tip, int, error) {
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.CreatorID != nil {
		where = append(where, fmt.Sprintf("creator_id = $%d", argIdx))
		args = append(args, *f.CreatorID)
		argIdx++
	}
	if f.FanWallet != nil {
		where = append(where, fmt.Sprintf("fan_wallet_address = $%d", argIdx))
		args = append(args, *f.FanWallet)
		argIdx++
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM tips`+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	query := `SELECT ` + tipColumns + ` FROM tips` + cond +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tips := []models.Tip{}
	for rows.Next() {
		t, err := scanTip(rows)
		if err != nil {
			return nil, 0, err
		}
		tips = append(tips, *t)
	}
	return tips, total, rows.Err()
}

// ListGoalPending returns tips whose goal contribution has not been applied.
func (r *TipRepo) ListGoalPending(ctx context.Context, olderThan time.Duration, limit int) ([]models.Tip, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+tipColumns+` FROM tips
		WHERE tip_goal_id IS NOT NULL AND goal_applied = false
		  AND created_at < now() - $1::interval
		ORDER BY created_at ASC LIMIT $2
	`, olderThan.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tips []models.Tip
	for rows.Next() {
		t, err := scanTip(rows)
		if err != nil {
			return nil, err
		}
		tips = append(tips, *t)
	}
	return tips, rows.Err()
}

type TipStats struct {
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
	Fans   int             `json:"fans"`
	LastAt *time.Time      `json:"last_at,omitempty"`
}

func (r *TipRepo) StatsByCreator(ctx context.Context, creatorID uuid.UUID) (*TipStats, error) {
	var s TipStats
	err := r.pool.QueryRow(ctx, `
		SELECT count(*), COALESCE(sum(amount), 0), count(DISTINCT fan_wallet_address), max(created_at)
		FROM tips WHERE creator_id = $1
	`, creatorID).Scan(&s.Count, &s.Total, &s.Fans, &s.LastAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
