package repositories

import (
	"context"

	"github.com/base-creator-connect/backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FanRepo struct {
	pool *pgxpool.Pool
}

func NewFanRepo(pool *pgxpool.Pool) *FanRepo {
	return &FanRepo{pool: pool}
}

func (r *FanRepo) Upsert(ctx context.Context, wallet string, farcasterID *string) (*models.Fan, error) {
	var f models.Fan
	err := r.pool.QueryRow(ctx, `
		INSERT INTO fans (wallet_address, farcaster_id)
		VALUES ($1, $2)
		ON CONFLICT (wallet_address) DO UPDATE SET
			farcaster_id = COALESCE(EXCLUDED.farcaster_id, fans.farcaster_id),
			updated_at = now()
		RETURNING id, farcaster_id, wallet_address, created_at, updated_at
	`, wallet, farcasterID).Scan(&f.ID, &f.FarcasterID, &f.WalletAddress, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FanRepo) GetByWallet(ctx context.Context, wallet string) (*models.Fan, error) {
	var f models.Fan
	err := r.pool.QueryRow(ctx, `
		SELECT id, farcaster_id, wallet_address, created_at, updated_at
		FROM fans WHERE wallet_address = $1
	`, wallet).Scan(&f.ID, &f.FarcasterID, &f.WalletAddress, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}
