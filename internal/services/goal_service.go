package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/base-creator-connect/backend/internal/apperr"
	"github.com/base-creator-connect/backend/internal/events"
	"github.com/base-creator-connect/backend/internal/models"
	"github.com/base-creator-connect/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type GoalService struct {
	goals     GoalStore
	tips      TipStore
	auditRepo AuditStore
	publisher events.Publisher
	log       *zap.Logger
}

func NewGoalService(goals GoalStore, tips TipStore, auditRepo AuditStore, publisher events.Publisher, log *zap.Logger) *GoalService {
	return &GoalService{goals: goals, tips: tips, auditRepo: auditRepo, publisher: publisher, log: log}
}

// ApplyContribution adds amount to the goal atomically and returns the new
// total. tipID, when set, makes the call idempotent for that tip.
func (s *GoalService) ApplyContribution(ctx context.Context, goalID uuid.UUID, tipID *uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, apperr.Validation("Contribution must not be negative")
	}

	total, err := s.goals.Increment(ctx, goalID, amount, tipID)
	switch {
	case errors.Is(err, repositories.ErrGoalNotFound):
		return decimal.Zero, apperr.Database("Tip goal not found", err)
	case errors.Is(err, repositories.ErrGoalAlreadyApplied):
		return decimal.Zero, err
	case err != nil:
		return decimal.Zero, apperr.Database("Failed to update tip goal", err)
	}

	s.log.Info("goal progress updated",
		zap.String("goal_id", goalID.String()),
		zap.String("added", amount.String()),
		zap.String("current_amount", total.String()),
	)

	if goal, err := s.goals.GetByID(ctx, goalID); err == nil {
		if perr := s.publisher.Publish(ctx, events.StreamTips, events.GoalProgress(goal.CreatorID.String(), goalID.String(), total)); perr != nil {
			s.log.Warn("failed to publish goal event", zap.Error(perr))
		}
	}
	return total, nil
}

// OpenFor checks that a tip to creatorID may count towards goalID: the goal
// exists, belongs to that creator and is active.
func (s *GoalService) OpenFor(ctx context.Context, creatorID, goalID uuid.UUID) (*models.TipGoal, error) {
	goal, err := s.goals.GetByID(ctx, goalID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil, apperr.Validation("Tip goal not found").WithCode("goal_not_found")
	case err != nil:
		return nil, apperr.Database("load tip goal", err)
	case goal.CreatorID != creatorID:
		return nil, apperr.Validation("Tip goal belongs to another creator").WithCode("goal_foreign")
	case !goal.IsActive:
		return nil, apperr.Validation("Tip goal is closed").WithCode("goal_closed")
	}
	return goal, nil
}

// Reconcile applies contributions for tips saved while the goal update failed.
func (s *GoalService) Reconcile(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	pending, err := s.tips.ListGoalPending(ctx, olderThan, limit)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, tip := range pending {
		if tip.TipGoalID == nil {
			continue
		}
		tipID := tip.ID
		if _, err := s.ApplyContribution(ctx, *tip.TipGoalID, &tipID, tip.Amount); err != nil {
			if errors.Is(err, repositories.ErrGoalAlreadyApplied) {
				continue
			}
			s.log.Error("goal reconcile failed",
				zap.String("tip_id", tip.ID.String()),
				zap.String("goal_id", tip.TipGoalID.String()),
				zap.Error(err),
			)
			continue
		}
		applied++
	}
	return applied, nil
}

type GoalInput struct {
	Name         string
	Description  *string
	ImageURL     *string
	TargetAmount decimal.Decimal
	IsActive     *bool
}

func (in GoalInput) validate() error {
	if in.Name == "" {
		return apperr.Validation("Goal name is required")
	}
	if !in.TargetAmount.IsPositive() {
		return apperr.Validation("Target amount must be greater than 0")
	}
	return nil
}

func (s *GoalService) Create(ctx context.Context, creatorID uuid.UUID, in GoalInput) (*models.TipGoal, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	g := &models.TipGoal{
		CreatorID:    creatorID,
		Name:         in.Name,
		Description:  in.Description,
		ImageURL:     in.ImageURL,
		TargetAmount: in.TargetAmount,
		IsActive:     in.IsActive == nil || *in.IsActive,
	}
	if err := s.goals.Create(ctx, g); err != nil {
		return nil, apperr.Database("Failed to create tip goal", err)
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorCreatorID: &creatorID,
		ActorType:      "creator",
		Action:         models.AuditActionGoalCreated,
		EntityType:     "tip_goal",
		EntityID:       &g.ID,
		Meta:           map[string]any{"target_amount": g.TargetAmount.String()},
	})
	return g, nil
}

func (s *GoalService) Update(ctx context.Context, creatorID, goalID uuid.UUID, in GoalInput) (*models.TipGoal, error) {
	existing, err := s.goals.GetByID(ctx, goalID)
	if err != nil || existing.CreatorID != creatorID {
		return nil, fmt.Errorf("tip goal %s: %w", goalID, repositories.ErrNotFound)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing.Name = in.Name
	existing.Description = in.Description
	existing.ImageURL = in.ImageURL
	existing.TargetAmount = in.TargetAmount
	if in.IsActive != nil {
		existing.IsActive = *in.IsActive
	}
	if err := s.goals.Update(ctx, existing); err != nil {
		return nil, apperr.Database("Failed to update tip goal", err)
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorCreatorID: &creatorID,
		ActorType:      "creator",
		Action:         models.AuditActionGoalUpdated,
		EntityType:     "tip_goal",
		EntityID:       &existing.ID,
	})
	return existing, nil
}

func (s *GoalService) List(ctx context.Context, creatorID uuid.UUID, activeOnly bool) ([]models.TipGoal, error) {
	return s.goals.ListByCreator(ctx, creatorID, activeOnly)
}
