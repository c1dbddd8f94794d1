package services

import (
	"context"
	"time"

	"github.com/base-creator-connect/backend/internal/models"
	"github.com/base-creator-connect/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Storage contracts, satisfied by the pgx repositories.

type CreatorStore interface {
	UpsertByWallet(ctx context.Context, wallet string) (*models.Creator, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Creator, error)
	GetByWallet(ctx context.Context, wallet string) (*models.Creator, error)
	UpdateProfile(ctx context.Context, c *models.Creator) error
}

type TierStore interface {
	Create(ctx context.Context, t *models.Tier) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tier, error)
	Update(ctx context.Context, t *models.Tier) error
	ListByCreator(ctx context.Context, creatorID uuid.UUID, activeOnly bool) ([]models.Tier, error)
	ListActiveByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Tier, error)
}

type GoalStore interface {
	Create(ctx context.Context, g *models.TipGoal) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TipGoal, error)
	Update(ctx context.Context, g *models.TipGoal) error
	ListByCreator(ctx context.Context, creatorID uuid.UUID, activeOnly bool) ([]models.TipGoal, error)
	Increment(ctx context.Context, goalID uuid.UUID, amount decimal.Decimal, tipID *uuid.UUID) (decimal.Decimal, error)
}

type TipStore interface {
	Create(ctx context.Context, t *models.Tip) error
	GetByHash(ctx context.Context, txHash string) (*models.Tip, error)
	List(ctx context.Context, f repositories.TipFilter) ([]models.Tip, int, error)
	ListGoalPending(ctx context.Context, olderThan time.Duration, limit int) ([]models.Tip, error)
	StatsByCreator(ctx context.Context, creatorID uuid.UUID) (*repositories.TipStats, error)
}

type FanStore interface {
	Upsert(ctx context.Context, wallet string, farcasterID *string) (*models.Fan, error)
	GetByWallet(ctx context.Context, wallet string) (*models.Fan, error)
}

type NonceStore interface {
	CreateNonce(ctx context.Context, wallet string, ttl time.Duration) (*models.AuthNonce, error)
	ConsumeNonce(ctx context.Context, nonce, wallet string) (*models.AuthNonce, error)
}

type AuditStore interface {
	Log(ctx context.Context, entry models.AuditLog) error
}
