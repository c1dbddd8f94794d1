package handlers

import (
	"bytes"
	"context"

	"github.com/base-creator-connect/backend/internal/chain"
	"github.com/base-creator-connect/backend/internal/flow"
	"github.com/base-creator-connect/backend/internal/framehub"
	"github.com/base-creator-connect/backend/internal/http/dto"
	"github.com/base-creator-connect/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FrameHandler serves the social-feed frame. Every response is a complete
// frame document whose post_url carries the flow state.
type FrameHandler struct {
	frame          *flow.Frame
	creatorService *services.CreatorService
	validator      *framehub.Validator
	chainID        int64
	log            *zap.Logger
}

func NewFrameHandler(
	frame *flow.Frame,
	creatorService *services.CreatorService,
	validator *framehub.Validator,
	chainID int64,
	log *zap.Logger,
) *FrameHandler {
	return &FrameHandler{
		frame:          frame,
		creatorService: creatorService,
		validator:      validator,
		chainID:        chainID,
		log:            log,
	}
}

func (h *FrameHandler) Open(c *fiber.Ctx) error {
	creatorID := c.Query("creatorId")
	if creatorID == "" {
		return h.render(c, flow.Failed{Error: "Creator ID is required"})
	}
	if id, err := uuid.Parse(creatorID); err != nil {
		return h.render(c, flow.Failed{Error: "Creator not found"})
	} else if _, err := h.creatorService.GetByID(c.Context(), id); err != nil {
		h.log.Debug("frame for unknown creator", zap.String("creator_id", creatorID), zap.Error(err))
		return h.render(c, flow.Failed{Error: "Creator not found"})
	}
	return h.render(c, h.frame.Open(c.Context(), creatorID))
}

func (h *FrameHandler) Action(c *fiber.Ctx) error {
	var req dto.FrameActionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return h.render(c, flow.Failed{CreatorID: c.Query("creatorId"), Error: "Invalid frame message"})
		}
	}

	raw := c.Query("state")
	if raw == "" {
		raw = req.UntrustedData.State
	}
	state := flow.Decode(raw)

	action := flow.FrameAction{
		ButtonIndex:   req.UntrustedData.ButtonIndex,
		InputText:     req.UntrustedData.InputText,
		TransactionID: req.UntrustedData.TransactionID,
		FanAddress:    req.UntrustedData.Address,
		CreatorID:     c.Query("creatorId"),
	}
	if h.validator != nil {
		verified, err := h.validator.Validate(c.Context(), req.TrustedData.MessageBytes)
		if err != nil {
			h.log.Warn("frame message rejected", zap.Error(err))
			return h.render(c, flow.Failed{CreatorID: state.Creator(), Error: "Invalid frame message"})
		}
		action.ButtonIndex = verified.ButtonIndex
		action.InputText = verified.InputText
		if verified.TransactionID != "" {
			action.TransactionID = verified.TransactionID
		}
		if verified.Address != "" {
			action.FanAddress = verified.Address
		}
	}

	return h.render(c, h.frame.Handle(c.Context(), state, action))
}

// Transaction answers the tx button with the transfer the wallet should sign.
func (h *FrameHandler) Transaction(c *fiber.Ctx) error {
	confirm, ok := flow.Decode(c.Query("state")).(flow.Confirm)
	if !ok {
		return badRequest(c, "tip is not ready to confirm")
	}
	creatorID, err := uuid.Parse(confirm.CreatorID)
	if err != nil {
		return badRequest(c, "Creator ID and amount are required")
	}
	amount, err := decimal.NewFromString(confirm.Amount)
	if err != nil || !amount.IsPositive() {
		return badRequest(c, "Creator ID and amount are required")
	}
	wei, err := chain.ToWei(amount)
	if err != nil {
		return badRequest(c, "invalid amount")
	}

	creator, err := h.creatorService.GetByID(c.Context(), creatorID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(chain.NewTxRequest(h.chainID, creator.WalletAddress, wei))
}

func (h *FrameHandler) render(c *fiber.Ctx, s flow.State) error {
	var buf bytes.Buffer
	if err := flow.WriteHTML(&buf, h.frame.Render(s, h.card(c.Context(), s.Creator()))); err != nil {
		h.log.Error("frame render failed", zap.Error(err))
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}

func (h *FrameHandler) card(ctx context.Context, creatorID string) flow.CreatorCard {
	return creatorCard(ctx, h.creatorService, h.log, creatorID)
}

func creatorCard(ctx context.Context, creators *services.CreatorService, log *zap.Logger, creatorID string) flow.CreatorCard {
	id, err := uuid.Parse(creatorID)
	if err != nil {
		return flow.CreatorCard{}
	}
	creator, err := creators.GetByID(ctx, id)
	if err != nil {
		log.Debug("creator lookup for card failed", zap.String("creator_id", creatorID), zap.Error(err))
		return flow.CreatorCard{}
	}
	card := flow.CreatorCard{Name: creator.DisplayName()}
	if creator.ProfileImageURL != nil {
		card.ImageURL = *creator.ProfileImageURL
	}
	return card
}
