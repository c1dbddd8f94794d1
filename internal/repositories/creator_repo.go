package repositories

import (
	"context"

	"github.com/base-creator-connect/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CreatorRepo struct {
	pool *pgxpool.Pool
}

func NewCreatorRepo(pool *pgxpool.Pool) *CreatorRepo {
	return &CreatorRepo{pool: pool}
}

const creatorColumns = `id, farcaster_id, username, bio, profile_image_url, wallet_address,
	social_links, created_at, updated_at`

func scanCreator(row pgx.Row) (*models.Creator, error) {
	var c models.Creator
	err := row.Scan(&c.ID, &c.FarcasterID, &c.Username, &c.Bio, &c.ProfileImageURL,
		&c.WalletAddress, &c.SocialLinks, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// UpsertByWallet returns the creator owning wallet, creating it on first sign-in.
func (r *CreatorRepo) UpsertByWallet(ctx context.Context, wallet string) (*models.Creator, error) {
	return scanCreator(r.pool.QueryRow(ctx, `
		INSERT INTO creators (wallet_address)
		VALUES ($1)
		ON CONFLICT (wallet_address) DO UPDATE SET wallet_address = EXCLUDED.wallet_address
		RETURNING `+creatorColumns, wallet))
}

func (r *CreatorRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Creator, error) {
	return scanCreator(r.pool.QueryRow(ctx, `SELECT `+creatorColumns+` FROM creators WHERE id = $1`, id))
}

func (r *CreatorRepo) GetByWallet(ctx context.Context, wallet string) (*models.Creator, error) {
	return scanCreator(r.pool.QueryRow(ctx, `SELECT `+creatorColumns+` FROM creators WHERE wallet_address = $1`, wallet))
}

func (r *CreatorRepo) UpdateProfile(ctx context.Context, c *models.Creator) error {
	links := c.SocialLinks
	if links == nil {
		links = map[string]string{}
	}
	return r.pool.QueryRow(ctx, `
		UPDATE creators SET farcaster_id = $1, username = $2, bio = $3,
		       profile_image_url = $4, social_links = $5, updated_at = now()
		WHERE id = $6
		RETURNING updated_at
	`, c.FarcasterID, c.Username, c.Bio, c.ProfileImageURL, links, c.ID).Scan(&c.UpdatedAt)
}
