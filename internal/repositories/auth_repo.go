package repositories

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/base-creator-connect/backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuthRepo struct {
	pool *pgxpool.Pool
}

func NewAuthRepo(pool *pgxpool.Pool) *AuthRepo {
	return &AuthRepo{pool: pool}
}

// CreateNonce issues a single-use sign-in nonce bound to wallet.
func (r *AuthRepo) CreateNonce(ctx context.Context, wallet string, ttl time.Duration) (*models.AuthNonce, error) {
	n := &models.AuthNonce{
		Nonce:         generateNonce(16),
		WalletAddress: wallet,
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO auth_nonces (nonce, wallet_address, expires_at)
		VALUES ($1, $2, now() + $3::interval)
		RETURNING id, created_at, expires_at
	`, n.Nonce, wallet, ttl.String()).Scan(&n.ID, &n.CreatedAt, &n.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *AuthRepo) ConsumeNonce(ctx context.Context, nonce, wallet string) (*models.AuthNonce, error) {
	var n models.AuthNonce
	err := r.pool.QueryRow(ctx, `
		UPDATE auth_nonces
		SET used = true
		WHERE nonce = $1 AND wallet_address = $2 AND used = false AND expires_at > now()
		RETURNING id, nonce, wallet_address, created_at, expires_at, used
	`, nonce, wallet).Scan(&n.ID, &n.Nonce, &n.WalletAddress, &n.CreatedAt, &n.ExpiresAt, &n.Used)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNonceInvalid
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// PurgeExpired deletes used and expired nonces.
func (r *AuthRepo) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM auth_nonces WHERE used = true OR expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func generateNonce(bytes int) string {
	b := make([]byte, bytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
