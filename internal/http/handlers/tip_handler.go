package handlers

import (
	"github.com/base-creator-connect/backend/internal/chain"
	"github.com/base-creator-connect/backend/internal/config"
	"github.com/base-creator-connect/backend/internal/http/dto"
	"github.com/base-creator-connect/backend/internal/models"
	"github.com/base-creator-connect/backend/internal/services"
	"github.com/base-creator-connect/backend/internal/thankyou"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type TipHandler struct {
	tipService     *services.TipService
	creatorService *services.CreatorService
	fans           services.FanStore
	notes          services.NoteWriter
	transfers      services.TransferFactory
	cfg            *config.Config
	log            *zap.Logger
}

func NewTipHandler(
	tipService *services.TipService,
	creatorService *services.CreatorService,
	fans services.FanStore,
	notes services.NoteWriter,
	transfers services.TransferFactory,
	cfg *config.Config,
	log *zap.Logger,
) *TipHandler {
	return &TipHandler{
		tipService:     tipService,
		creatorService: creatorService,
		fans:           fans,
		notes:          notes,
		transfers:      transfers,
		cfg:            cfg,
		log:            log,
	}
}

// SubmitTip records a tip from the creator page once its transaction is
// confirmed on chain.
func (h *TipHandler) SubmitTip(c *fiber.Ctx) error {
	var req dto.SubmitTipRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	creatorID, err := uuid.Parse(req.CreatorID)
	if err != nil {
		return badRequest(c, "Creator ID is required")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return badRequest(c, "amount must be a number")
	}
	if !chain.IsTxHash(req.TransactionHash) {
		return badRequest(c, "transaction_hash is invalid")
	}
	tierID, ok := parseOptionalUUID(req.TierID)
	if !ok {
		return badRequest(c, "invalid tier_id")
	}
	goalID, ok := parseOptionalUUID(req.TipGoalID)
	if !ok {
		return badRequest(c, "invalid tip_goal_id")
	}

	creator, err := h.creatorService.GetByID(c.Context(), creatorID)
	if err != nil {
		return respondError(c, h.log, err)
	}

	res := h.tipService.Submit(c.Context(), h.transfers(req.TransactionHash, req.FanWalletAddress), services.SubmitRequest{
		CreatorID:      creator.ID,
		CreatorWallet:  creator.WalletAddress,
		FanWallet:      req.FanWalletAddress,
		Amount:         amount,
		Message:        req.Message,
		Reaction:       req.Reaction,
		TierID:         tierID,
		GoalID:         goalID,
		Source:         models.TipSourcePage,
		IdempotencyKey: req.TransactionHash,
	})
	if res.Status != services.SubmitSuccess {
		return respondError(c, h.log, res.Error)
	}

	resp := dto.TipSubmitResponse{
		Status:          string(res.Status),
		TransactionHash: res.TxHash,
		ExplorerURL:     h.cfg.ExplorerURL(res.TxHash),
		Tip:             res.Tip,
		TierName:        res.TierName,
		GoalTotal:       res.GoalTotal,
		Warnings:        res.Warnings,
		Partial:         res.Partial,
		Duplicate:       res.Duplicate,
	}
	if !res.Duplicate {
		var message string
		if req.Message != nil {
			message = *req.Message
		}
		resp.ThankYou = h.notes.Note(c.Context(), thankyou.Request{
			Message:  message,
			Amount:   amount.String(),
			Currency: h.tipService.Currency(),
			TierName: res.TierName,
			Style:    thankyou.ParseStyle(req.Style),
		})
		return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: resp})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: resp})
}

func (h *TipHandler) GetTip(c *fiber.Ctx) error {
	hash := c.Params("hash")
	if !chain.IsTxHash(hash) {
		return badRequest(c, "invalid transaction hash")
	}
	tip, err := h.tipService.GetByHash(c.Context(), hash)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: tip})
}

func (h *TipHandler) ListFanTips(c *fiber.Ctx) error {
	address := c.Params("address")
	if !chain.IsAddress(address) {
		return badRequest(c, "invalid wallet address")
	}
	page, err := h.tipService.ListByFan(c.Context(), address, c.QueryInt("page", 1), c.QueryInt("page_size", 10))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: page})
}

func (h *TipHandler) UpsertFan(c *fiber.Ctx) error {
	var req dto.FanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !chain.IsAddress(req.WalletAddress) {
		return badRequest(c, "invalid wallet address")
	}

	fan, err := h.fans.Upsert(c.Context(), chain.NormalizeAddress(req.WalletAddress), req.FarcasterID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: fan})
}

type ThankYouHandler struct {
	service  *thankyou.Service
	currency string
}

func NewThankYouHandler(service *thankyou.Service, currency string) *ThankYouHandler {
	return &ThankYouHandler{service: service, currency: currency}
}

func (h *ThankYouHandler) Generate(c *fiber.Ctx) error {
	var req dto.ThankYouRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	note := h.service.Note(c.Context(), thankyou.Request{
		Message:  req.Message,
		Amount:   req.Amount,
		Currency: h.currency,
		TierName: req.TierName,
		Style:    thankyou.ParseStyle(req.Style),
	})
	return c.JSON(fiber.Map{"note": note})
}

func (h *ThankYouHandler) SuggestReaction(c *fiber.Ctx) error {
	var req dto.ReactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Message == "" {
		return badRequest(c, "message is required")
	}
	return c.JSON(fiber.Map{"reaction": h.service.SuggestReaction(c.Context(), req.Message)})
}
