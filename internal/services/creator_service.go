package services

import (
	"context"
	"strings"

	"github.com/base-creator-connect/backend/internal/apperr"
	"github.com/base-creator-connect/backend/internal/chain"
	"github.com/base-creator-connect/backend/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreatorService struct {
	creators  CreatorStore
	tiers     TierStore
	goals     GoalStore
	auditRepo AuditStore
	log       *zap.Logger
}

func NewCreatorService(creators CreatorStore, tiers TierStore, goals GoalStore, auditRepo AuditStore, log *zap.Logger) *CreatorService {
	return &CreatorService{creators: creators, tiers: tiers, goals: goals, auditRepo: auditRepo, log: log}
}

func (s *CreatorService) GetByID(ctx context.Context, id uuid.UUID) (*models.Creator, error) {
	return s.creators.GetByID(ctx, id)
}

func (s *CreatorService) GetByWallet(ctx context.Context, wallet string) (*models.Creator, error) {
	return s.creators.GetByWallet(ctx, chain.NormalizeAddress(wallet))
}

// GetWithRelations loads the creator with active tiers (lowest minimum
// first) and active goals (newest first).
func (s *CreatorService) GetWithRelations(ctx context.Context, id uuid.UUID) (*models.CreatorWithRelations, error) {
	c, err := s.creators.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tiers, err := s.tiers.ListByCreator(ctx, id, true)
	if err != nil {
		return nil, apperr.Database("Failed to load tiers", err)
	}
	goals, err := s.goals.ListByCreator(ctx, id, true)
	if err != nil {
		return nil, apperr.Database("Failed to load tip goals", err)
	}
	return &models.CreatorWithRelations{Creator: *c, Tiers: tiers, Goals: goals}, nil
}

type ProfileInput struct {
	FarcasterID     *string
	Username        *string
	Bio             *string
	ProfileImageURL *string
	SocialLinks     map[string]string
}

func (s *CreatorService) UpdateProfile(ctx context.Context, creatorID uuid.UUID, in ProfileInput) (*models.Creator, error) {
	c, err := s.creators.GetByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		name := strings.TrimSpace(*in.Username)
		if len(name) > 64 {
			return nil, apperr.Validation("Username must be at most 64 characters")
		}
		c.Username = &name
	}
	if in.FarcasterID != nil {
		c.FarcasterID = in.FarcasterID
	}
	if in.Bio != nil {
		c.Bio = in.Bio
	}
	if in.ProfileImageURL != nil {
		c.ProfileImageURL = in.ProfileImageURL
	}
	if in.SocialLinks != nil {
		c.SocialLinks = in.SocialLinks
	}

	if err := s.creators.UpdateProfile(ctx, c); err != nil {
		return nil, apperr.Database("Failed to update profile", err)
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorCreatorID: &creatorID,
		ActorType:      "creator",
		Action:         models.AuditActionProfileUpdated,
		EntityType:     "creator",
		EntityID:       &creatorID,
	})
	return c, nil
}
