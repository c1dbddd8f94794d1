package services

import (
	"context"
	"fmt"

	"github.com/base-creator-connect/backend/internal/apperr"
	"github.com/base-creator-connect/backend/internal/models"
	"github.com/base-creator-connect/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type TierService struct {
	tiers     TierStore
	auditRepo AuditStore
	log       *zap.Logger
}

func NewTierService(tiers TierStore, auditRepo AuditStore, log *zap.Logger) *TierService {
	return &TierService{tiers: tiers, auditRepo: auditRepo, log: log}
}

type TierInput struct {
	Name            string
	MinAmount       decimal.Decimal
	PerkDescription *string
	IsActive        *bool
}

func (in TierInput) validate() error {
	if in.Name == "" {
		return apperr.Validation("Tier name is required")
	}
	if in.MinAmount.IsNegative() {
		return apperr.Validation("Minimum amount must not be negative")
	}
	return nil
}

func (s *TierService) Create(ctx context.Context, creatorID uuid.UUID, in TierInput) (*models.Tier, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	t := &models.Tier{
		CreatorID:       creatorID,
		Name:            in.Name,
		MinAmount:       in.MinAmount,
		PerkDescription: in.PerkDescription,
		IsActive:        in.IsActive == nil || *in.IsActive,
	}
	if err := s.tiers.Create(ctx, t); err != nil {
		return nil, apperr.Database("Failed to create tier", err)
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorCreatorID: &creatorID,
		ActorType:      "creator",
		Action:         models.AuditActionTierCreated,
		EntityType:     "tier",
		EntityID:       &t.ID,
		Meta:           map[string]any{"min_amount": t.MinAmount.String()},
	})
	return t, nil
}

func (s *TierService) Update(ctx context.Context, creatorID, tierID uuid.UUID, in TierInput) (*models.Tier, error) {
	existing, err := s.tiers.GetByID(ctx, tierID)
	if err != nil || existing.CreatorID != creatorID {
		return nil, fmt.Errorf("tier %s: %w", tierID, repositories.ErrNotFound)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing.Name = in.Name
	existing.MinAmount = in.MinAmount
	existing.PerkDescription = in.PerkDescription
	if in.IsActive != nil {
		existing.IsActive = *in.IsActive
	}
	if err := s.tiers.Update(ctx, existing); err != nil {
		return nil, apperr.Database("Failed to update tier", err)
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorCreatorID: &creatorID,
		ActorType:      "creator",
		Action:         models.AuditActionTierUpdated,
		EntityType:     "tier",
		EntityID:       &existing.ID,
	})
	return existing, nil
}

func (s *TierService) List(ctx context.Context, creatorID uuid.UUID, activeOnly bool) ([]models.Tier, error) {
	return s.tiers.ListByCreator(ctx, creatorID, activeOnly)
}

// Resolve returns the tier an amount would earn, or nil.
func (s *TierService) Resolve(ctx context.Context, creatorID uuid.UUID, amount string) (*models.Tier, error) {
	tiers, err := s.tiers.ListActiveByCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	return models.FindTier(tiers, models.ResolveTier(tiers, amount)), nil
}
