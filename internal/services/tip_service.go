package services

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/base-creator-connect/backend/internal/apperr"
	"github.com/base-creator-connect/backend/internal/chain"
	"github.com/base-creator-connect/backend/internal/events"
	"github.com/base-creator-connect/backend/internal/metrics"
	"github.com/base-creator-connect/backend/internal/models"
	"github.com/base-creator-connect/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ValueTransfer moves valueWei to `to` and returns the transaction hash.
type ValueTransfer interface {
	SendTransaction(ctx context.Context, to string, valueWei *big.Int) (string, error)
}

// SenderReporter is implemented by transfers that learn the payer address.
type SenderReporter interface {
	SenderAddress() string
}

type SubmitStatus string

const (
	SubmitSuccess SubmitStatus = "SUCCESS"
	SubmitFailed  SubmitStatus = "FAILED"
)

type SubmitRequest struct {
	CreatorID     uuid.UUID
	CreatorWallet string
	FanWallet     string
	Amount        decimal.Decimal
	Message       *string
	Reaction      *string
	TierID        *uuid.UUID
	GoalID        *uuid.UUID
	Source        string
	// IdempotencyKey identifies the user action, normally the reported tx hash.
	IdempotencyKey string
}

type SubmitResult struct {
	Status    SubmitStatus     `json:"status"`
	TxHash    string           `json:"transaction_hash,omitempty"`
	Tip       *models.Tip      `json:"tip,omitempty"`
	TierName  string           `json:"tier_name,omitempty"`
	GoalTotal *decimal.Decimal `json:"goal_total,omitempty"`
	Error     *apperr.Error    `json:"error,omitempty"`
	Warnings  []string         `json:"warnings,omitempty"`
	// Partial is set when the transfer succeeded but a follow-up write failed.
	Partial   bool `json:"partial"`
	Duplicate bool `json:"duplicate,omitempty"`
}

func (r *SubmitResult) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

func failed(err *apperr.Error) SubmitResult {
	return SubmitResult{Status: SubmitFailed, Error: err}
}

type TipService struct {
	tips      TipStore
	tiers     TierStore
	fans      FanStore
	goals     *GoalService
	guard     SubmitGuard
	publisher events.Publisher
	currency  string
	guardTTL  time.Duration
	log       *zap.Logger
}

func NewTipService(
	tips TipStore,
	tiers TierStore,
	fans FanStore,
	goals *GoalService,
	guard SubmitGuard,
	publisher events.Publisher,
	currency string,
	guardTTL time.Duration,
	log *zap.Logger,
) *TipService {
	if currency == "" {
		currency = "ETH"
	}
	if guardTTL <= 0 {
		guardTTL = 5 * time.Minute
	}
	return &TipService{
		tips:      tips,
		tiers:     tiers,
		fans:      fans,
		goals:     goals,
		guard:     guard,
		publisher: publisher,
		currency:  currency,
		guardTTL:  guardTTL,
		log:       log,
	}
}

func (s *TipService) Currency() string {
	return s.currency
}

// Submit runs the tip pipeline: validate, transfer, resolve tier, persist,
// update goal. Once the transfer succeeds the result stays SUCCESS; later
// failures are logged and reported as warnings.
func (s *TipService) Submit(ctx context.Context, transfer ValueTransfer, req SubmitRequest) SubmitResult {
	start := time.Now()
	res := s.submit(ctx, transfer, req)
	metrics.RecordTipSubmission(req.Source, strings.ToLower(string(res.Status)), res.Partial, time.Since(start))
	return res
}

func (s *TipService) submit(ctx context.Context, transfer ValueTransfer, req SubmitRequest) SubmitResult {
	// 1. Validate before anything leaves the server
	if verr := validateSubmit(req); verr != nil {
		return failed(verr)
	}
	wei, err := chain.ToWei(req.Amount)
	if err != nil {
		return failed(apperr.Validation("Amount has more than 18 decimal places"))
	}
	creatorWallet := chain.NormalizeAddress(req.CreatorWallet)

	// 2. Idempotency: a recorded hash or an in-flight action never transfers again
	key := strings.ToLower(req.IdempotencyKey)
	if key != "" {
		if existing, err := s.tips.GetByHash(ctx, key); err == nil {
			if verr := s.sameTip(existing, req); verr != nil {
				return failed(verr)
			}
			s.log.Info("tip already recorded", zap.String("tx_hash", existing.TransactionHash))
			return SubmitResult{Status: SubmitSuccess, TxHash: existing.TransactionHash, Tip: existing, Duplicate: true}
		}
	}

	// A goal must be open and owned by the creator before any value moves
	if req.GoalID != nil {
		if _, err := s.goals.OpenFor(ctx, req.CreatorID, *req.GoalID); err != nil {
			return failed(apperr.From(err))
		}
	}

	if key != "" {
		acquired, err := s.guard.Acquire(ctx, "tip:"+key, s.guardTTL)
		switch {
		case err != nil:
			s.log.Warn("submit guard unavailable", zap.String("key", key), zap.Error(err))
		case !acquired:
			return failed(apperr.Validation("This tip is already being processed").WithCode("submit_in_progress"))
		}
	}

	// 3. Transfer
	txHash, err := transfer.SendTransaction(ctx, creatorWallet, wei)
	if err != nil {
		s.log.Warn("tip transfer failed",
			zap.String("creator_id", req.CreatorID.String()),
			zap.String("amount", req.Amount.String()),
			zap.Error(err),
		)
		if key != "" {
			_ = s.guard.Release(ctx, "tip:"+key)
		}
		return failed(apperr.Transaction(err))
	}

	res := SubmitResult{Status: SubmitSuccess, TxHash: txHash}
	fanWallet := chain.NormalizeAddress(req.FanWallet)
	if sr, ok := transfer.(SenderReporter); ok && fanWallet == "" {
		fanWallet = chain.NormalizeAddress(sr.SenderAddress())
	}

	// The fan has paid; finish the bookkeeping even if the caller goes away.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()

	// 4. Tier: a supplied tier is kept only if it is one of the creator's
	// active tiers and the amount reaches its minimum
	var tierID *uuid.UUID
	tiers, err := s.tiers.ListActiveByCreator(ctx, req.CreatorID)
	if err != nil {
		s.log.Warn("tier lookup failed", zap.String("creator_id", req.CreatorID.String()), zap.Error(err))
		res.warn("tier could not be resolved")
	} else {
		t := models.FindTier(tiers, req.TierID)
		if t != nil && !t.Qualifies(req.Amount) {
			t = nil
		}
		if t == nil {
			if req.TierID != nil {
				s.log.Info("supplied tier ignored",
					zap.String("tier_id", req.TierID.String()),
					zap.String("creator_id", req.CreatorID.String()),
					zap.String("amount", req.Amount.String()),
				)
			}
			t = models.ResolveTierForAmount(tiers, req.Amount)
		}
		if t != nil {
			tierID = &t.ID
			res.TierName = t.Name
		}
	}

	// 5. Persist
	tip := &models.Tip{
		CreatorID:        req.CreatorID,
		FanWalletAddress: fanWallet,
		Amount:           req.Amount,
		Currency:         s.currency,
		Message:          req.Message,
		Reaction:         req.Reaction,
		TransactionHash:  strings.ToLower(txHash),
		TierID:           tierID,
		TipGoalID:        req.GoalID,
		Source:           req.Source,
	}
	persisted := false
	switch err := s.tips.Create(ctx, tip); {
	case errors.Is(err, repositories.ErrDuplicateTx):
		if existing, gerr := s.tips.GetByHash(ctx, tip.TransactionHash); gerr == nil {
			if verr := s.sameTip(existing, req); verr != nil {
				return failed(verr)
			}
			res.Tip = existing
		}
		s.log.Info("tip already recorded", zap.String("tx_hash", tip.TransactionHash))
		res.Duplicate = true
		return res
	case err != nil:
		s.log.Warn("tip persistence failed",
			zap.String("tx_hash", txHash),
			zap.String("creator_id", req.CreatorID.String()),
			zap.Error(apperr.Database("insert tip", err)),
		)
		res.Partial = true
		res.warn("tip was sent but could not be recorded")
	default:
		persisted = true
		res.Tip = tip
	}

	// 6. Goal
	if req.GoalID != nil {
		var tipID *uuid.UUID
		if persisted {
			tipID = &tip.ID
		}
		total, err := s.goals.ApplyContribution(ctx, *req.GoalID, tipID, req.Amount)
		if err != nil {
			s.log.Warn("goal update failed",
				zap.String("tx_hash", txHash),
				zap.String("goal_id", req.GoalID.String()),
				zap.Error(err),
			)
			res.Partial = true
			res.warn("tip goal progress could not be updated")
		} else {
			res.GoalTotal = &total
			if persisted {
				tip.GoalApplied = true
			}
		}
	}

	// 7. Side effects
	if fanWallet != "" {
		if _, err := s.fans.Upsert(ctx, fanWallet, nil); err != nil {
			s.log.Debug("fan upsert failed", zap.String("wallet", fanWallet), zap.Error(err))
		}
	}
	if persisted {
		if err := s.publisher.Publish(ctx, events.StreamTips, events.TipReceived(tip, res.TierName)); err != nil {
			s.log.Warn("failed to publish tip event", zap.String("tx_hash", txHash), zap.Error(err))
		}
	}

	s.log.Info("tip submitted",
		zap.String("tx_hash", txHash),
		zap.String("creator_id", req.CreatorID.String()),
		zap.String("amount", req.Amount.String()),
		zap.String("source", req.Source),
		zap.Bool("partial", res.Partial),
	)
	return res
}

func validateSubmit(req SubmitRequest) *apperr.Error {
	if req.CreatorID == uuid.Nil {
		return apperr.Validation("Creator ID is required")
	}
	if !chain.IsAddress(req.CreatorWallet) {
		return apperr.Validation("Creator wallet address is invalid")
	}
	if !req.Amount.IsPositive() {
		return apperr.Validation("Amount must be greater than 0")
	}
	if req.FanWallet != "" && !chain.IsAddress(req.FanWallet) {
		return apperr.Validation("Fan wallet address is invalid")
	}
	return nil
}

// sameTip reports whether a recorded tip is the one req describes. A hash
// recorded for another creator or amount is never a duplicate.
func (s *TipService) sameTip(existing *models.Tip, req SubmitRequest) *apperr.Error {
	if existing.CreatorID != req.CreatorID || !existing.Amount.Equal(req.Amount) {
		s.log.Warn("transaction hash replayed for another tip",
			zap.String("tx_hash", existing.TransactionHash),
			zap.String("recorded_creator_id", existing.CreatorID.String()),
			zap.String("creator_id", req.CreatorID.String()),
		)
		return apperr.Validation("Transaction already used for another tip").WithCode("tx_already_used")
	}
	return nil
}

func (s *TipService) GetByHash(ctx context.Context, txHash string) (*models.Tip, error) {
	return s.tips.GetByHash(ctx, txHash)
}

// Page bounds shared by tip listings.
const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func pageBounds(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func (s *TipService) ListByCreator(ctx context.Context, creatorID uuid.UUID, page, pageSize int) (*models.TipPage, error) {
	return s.list(ctx, repositories.TipFilter{CreatorID: &creatorID}, page, pageSize)
}

func (s *TipService) ListByFan(ctx context.Context, wallet string, page, pageSize int) (*models.TipPage, error) {
	wallet = chain.NormalizeAddress(wallet)
	return s.list(ctx, repositories.TipFilter{FanWallet: &wallet}, page, pageSize)
}

func (s *TipService) list(ctx context.Context, f repositories.TipFilter, page, pageSize int) (*models.TipPage, error) {
	page, pageSize = pageBounds(page, pageSize)
	f.Limit = pageSize
	f.Offset = (page - 1) * pageSize

	tips, total, err := s.tips.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &models.TipPage{Tips: tips, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *TipService) Stats(ctx context.Context, creatorID uuid.UUID) (*repositories.TipStats, error) {
	return s.tips.StatsByCreator(ctx, creatorID)
}
