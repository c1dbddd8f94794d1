package handlers

import (
	"github.com/base-creator-connect/backend/internal/chain"
	"github.com/base-creator-connect/backend/internal/http/dto"
	"github.com/base-creator-connect/backend/internal/middleware"
	"github.com/base-creator-connect/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CreatorHandler struct {
	creatorService *services.CreatorService
	tierService    *services.TierService
	tipService     *services.TipService
	log            *zap.Logger
}

func NewCreatorHandler(
	creatorService *services.CreatorService,
	tierService *services.TierService,
	tipService *services.TipService,
	log *zap.Logger,
) *CreatorHandler {
	return &CreatorHandler{
		creatorService: creatorService,
		tierService:    tierService,
		tipService:     tipService,
		log:            log,
	}
}

// GetCreator returns the public profile with active tiers and goals.
func (h *CreatorHandler) GetCreator(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid creator id")
	}
	cr, err := h.creatorService.GetWithRelations(c.Context(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: cr})
}

func (h *CreatorHandler) GetByWallet(c *fiber.Ctx) error {
	address := c.Params("address")
	if !chain.IsAddress(address) {
		return badRequest(c, "invalid wallet address")
	}
	cr, err := h.creatorService.GetByWallet(c.Context(), address)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: cr})
}

func (h *CreatorHandler) ListTips(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid creator id")
	}
	return h.listTips(c, id)
}

func (h *CreatorHandler) listTips(c *fiber.Ctx, creatorID uuid.UUID) error {
	page, err := h.tipService.ListByCreator(c.Context(), creatorID, c.QueryInt("page", 1), c.QueryInt("page_size", 10))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: page})
}

func (h *CreatorHandler) Stats(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid creator id")
	}
	stats, err := h.tipService.Stats(c.Context(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: stats})
}

// ResolveTier reports which tier a tip of ?amount= would earn.
func (h *CreatorHandler) ResolveTier(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid creator id")
	}
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil || !amount.IsPositive() {
		return badRequest(c, "amount must be a positive number")
	}

	tier, err := h.tierService.Resolve(c.Context(), id, amount.String())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{"amount": amount.String(), "tier": tier}})
}

func (h *CreatorHandler) GetMe(c *fiber.Ctx) error {
	cr, err := h.creatorService.GetWithRelations(c.Context(), middleware.GetCreatorID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: cr})
}

func (h *CreatorHandler) UpdateMe(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	cr, err := h.creatorService.UpdateProfile(c.Context(), middleware.GetCreatorID(c), services.ProfileInput{
		FarcasterID:     req.FarcasterID,
		Username:        req.Username,
		Bio:             req.Bio,
		ProfileImageURL: req.ProfileImageURL,
		SocialLinks:     req.SocialLinks,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: cr})
}

func (h *CreatorHandler) MyTips(c *fiber.Ctx) error {
	return h.listTips(c, middleware.GetCreatorID(c))
}
