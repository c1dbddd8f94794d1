package services

import (
	"context"
	"fmt"
	"time"

	"github.com/base-creator-connect/backend/internal/apperr"
	"github.com/base-creator-connect/backend/internal/auth"
	"github.com/base-creator-connect/backend/internal/chain"
	"github.com/base-creator-connect/backend/internal/config"
	"github.com/base-creator-connect/backend/internal/models"
	"go.uber.org/zap"
)

type AuthService struct {
	nonces    NonceStore
	creators  CreatorStore
	auditRepo AuditStore
	cfg       *config.Config
	log       *zap.Logger
}

func NewAuthService(nonces NonceStore, creators CreatorStore, auditRepo AuditStore, cfg *config.Config, log *zap.Logger) *AuthService {
	return &AuthService{nonces: nonces, creators: creators, auditRepo: auditRepo, cfg: cfg, log: log}
}

type LoginChallenge struct {
	Nonce     string    `json:"nonce"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SignInMessage is the text the wallet signs with personal_sign.
func SignInMessage(wallet, nonce string) string {
	return fmt.Sprintf("Sign in to Base Creator Connect\n\nWallet: %s\nNonce: %s", wallet, nonce)
}

func (s *AuthService) Challenge(ctx context.Context, wallet string) (*LoginChallenge, error) {
	if !chain.IsAddress(wallet) {
		return nil, apperr.Validation("Invalid wallet address")
	}
	wallet = chain.NormalizeAddress(wallet)

	n, err := s.nonces.CreateNonce(ctx, wallet, s.cfg.LoginNonceTTL)
	if err != nil {
		return nil, apperr.Database("Failed to create nonce", err)
	}
	return &LoginChallenge{Nonce: n.Nonce, Message: SignInMessage(wallet, n.Nonce), ExpiresAt: n.ExpiresAt}, nil
}

// Login verifies the signed challenge and returns a session token for the
// wallet's creator, creating the creator on first sign-in.
func (s *AuthService) Login(ctx context.Context, wallet, nonce, signature string) (string, *models.Creator, error) {
	if !chain.IsAddress(wallet) {
		return "", nil, apperr.Validation("Invalid wallet address")
	}
	wallet = chain.NormalizeAddress(wallet)

	// 1. Signature over the exact challenge text
	if err := chain.VerifyPersonalSign(wallet, SignInMessage(wallet, nonce), signature); err != nil {
		s.log.Debug("wallet signature rejected", zap.String("wallet", wallet), zap.Error(err))
		return "", nil, apperr.Authentication("Invalid signature")
	}

	// 2. Consume nonce (replay protection)
	if _, err := s.nonces.ConsumeNonce(ctx, nonce, wallet); err != nil {
		return "", nil, apperr.Authentication("Invalid or expired nonce")
	}

	// 3. Creator upsert
	creator, err := s.creators.UpsertByWallet(ctx, wallet)
	if err != nil {
		return "", nil, apperr.Database("Failed to load creator", err)
	}

	token, err := auth.GenerateJWT(s.cfg.JWTSecret, creator.ID, creator.WalletAddress, s.cfg.JWTExpiration)
	if err != nil {
		return "", nil, apperr.Wrap(apperr.TypeUnknown, "Failed to issue token", err)
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorCreatorID: &creator.ID,
		ActorType:      "creator",
		Action:         models.AuditActionCreatorSignIn,
		EntityType:     "creator",
		EntityID:       &creator.ID,
	})

	s.log.Info("creator signed in",
		zap.String("creator_id", creator.ID.String()),
		zap.String("wallet", wallet),
	)
	return token, creator, nil
}
