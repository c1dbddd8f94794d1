package handlers

import (
	"github.com/base-creator-connect/backend/internal/http/dto"
	"github.com/base-creator-connect/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *services.AuthService
	log         *zap.Logger
}

func NewAuthHandler(authService *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// Nonce issues a sign-in challenge for a wallet.
func (h *AuthHandler) Nonce(c *fiber.Ctx) error {
	var req dto.NonceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.WalletAddress == "" {
		return badRequest(c, "wallet_address is required")
	}

	challenge, err := h.authService.Challenge(c.Context(), req.WalletAddress)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: challenge})
}

func (h *AuthHandler) WalletLogin(c *fiber.Ctx) error {
	var req dto.WalletLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.WalletAddress == "" || req.Nonce == "" || req.Signature == "" {
		return badRequest(c, "wallet_address, nonce and signature are required")
	}

	token, creator, err := h.authService.Login(c.Context(), req.WalletAddress, req.Nonce, req.Signature)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(dto.AuthResponse{
		Token:   token,
		Creator: creator,
	})
}
