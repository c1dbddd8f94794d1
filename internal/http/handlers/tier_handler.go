package handlers

import (
	"github.com/base-creator-connect/backend/internal/http/dto"
	"github.com/base-creator-connect/backend/internal/middleware"
	"github.com/base-creator-connect/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type TierHandler struct {
	tierService *services.TierService
	goalService *services.GoalService
	log         *zap.Logger
}

func NewTierHandler(tierService *services.TierService, goalService *services.GoalService, log *zap.Logger) *TierHandler {
	return &TierHandler{tierService: tierService, goalService: goalService, log: log}
}

func tierInput(req dto.TierRequest) (services.TierInput, bool) {
	minAmount, err := decimal.NewFromString(req.MinAmount)
	if err != nil {
		return services.TierInput{}, false
	}
	return services.TierInput{
		Name:            req.Name,
		MinAmount:       minAmount,
		PerkDescription: req.PerkDescription,
		IsActive:        req.IsActive,
	}, true
}

func goalInput(req dto.GoalRequest) (services.GoalInput, bool) {
	target, err := decimal.NewFromString(req.TargetAmount)
	if err != nil {
		return services.GoalInput{}, false
	}
	return services.GoalInput{
		Name:         req.Name,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		TargetAmount: target,
		IsActive:     req.IsActive,
	}, true
}

func (h *TierHandler) CreateTier(c *fiber.Ctx) error {
	var req dto.TierRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	in, ok := tierInput(req)
	if !ok {
		return badRequest(c, "min_amount must be a number")
	}

	tier, err := h.tierService.Create(c.Context(), middleware.GetCreatorID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: tier})
}

func (h *TierHandler) UpdateTier(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid tier id")
	}
	var req dto.TierRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	in, ok := tierInput(req)
	if !ok {
		return badRequest(c, "min_amount must be a number")
	}

	tier, err := h.tierService.Update(c.Context(), middleware.GetCreatorID(c), id, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: tier})
}

func (h *TierHandler) ListTiers(c *fiber.Ctx) error {
	tiers, err := h.tierService.List(c.Context(), middleware.GetCreatorID(c), c.QueryBool("active", false))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: tiers})
}

func (h *TierHandler) CreateGoal(c *fiber.Ctx) error {
	var req dto.GoalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	in, ok := goalInput(req)
	if !ok {
		return badRequest(c, "target_amount must be a number")
	}

	goal, err := h.goalService.Create(c.Context(), middleware.GetCreatorID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: goal})
}

func (h *TierHandler) UpdateGoal(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid goal id")
	}
	var req dto.GoalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	in, ok := goalInput(req)
	if !ok {
		return badRequest(c, "target_amount must be a number")
	}

	goal, err := h.goalService.Update(c.Context(), middleware.GetCreatorID(c), id, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: goal})
}

func (h *TierHandler) ListGoals(c *fiber.Ctx) error {
	goals, err := h.goalService.List(c.Context(), middleware.GetCreatorID(c), c.QueryBool("active", false))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: goals})
}
