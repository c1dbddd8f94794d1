package services

import (
	"context"
	"errors"
	"time"

	"github.com/base-creator-connect/backend/internal/apperr"
	"github.com/base-creator-connect/backend/internal/chain"
	"github.com/base-creator-connect/backend/internal/flow"
	"github.com/base-creator-connect/backend/internal/repositories"
	"github.com/base-creator-connect/backend/internal/thankyou"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type NoteWriter interface {
	Note(ctx context.Context, req thankyou.Request) string
}

// TransferFactory builds the transfer for a transaction the fan reported.
type TransferFactory func(txHash, from string) ValueTransfer

// ReportedTransfers verifies reported hashes against the chain.
func ReportedTransfers(v *chain.Verifier) TransferFactory {
	return func(txHash, from string) ValueTransfer {
		return &chain.ReportedTransfer{Verifier: v, TxHash: txHash, From: from}
	}
}

// FlowSubmitter runs the tip pipeline for the frame and widget flows.
type FlowSubmitter struct {
	creators  CreatorStore
	tips      *TipService
	notes     NoteWriter
	transfers TransferFactory
	log       *zap.Logger
}

func NewFlowSubmitter(creators CreatorStore, tips *TipService, notes NoteWriter, transfers TransferFactory, log *zap.Logger) *FlowSubmitter {
	return &FlowSubmitter{
		creators:  creators,
		tips:      tips,
		notes:     notes,
		transfers: transfers,
		log:       log,
	}
}

func (s *FlowSubmitter) SubmitTip(ctx context.Context, sub flow.Submission) flow.Outcome {
	creatorID, err := uuid.Parse(sub.CreatorID)
	if err != nil {
		return flow.Outcome{Err: apperr.Validation("Invalid creator ID")}
	}
	creator, err := s.creators.GetByID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return flow.Outcome{Err: apperr.Validation("Creator not found")}
		}
		s.log.Error("failed to load creator", zap.String("creator_id", sub.CreatorID), zap.Error(err))
		return flow.Outcome{Err: apperr.Database("load creator", err)}
	}
	amount, err := decimal.NewFromString(sub.Amount)
	if err != nil {
		return flow.Outcome{Err: apperr.Validation("Please enter a valid amount")}
	}
	if sub.TxHash == "" {
		return flow.Outcome{Err: apperr.Validation("Transaction ID is required")}
	}

	req := SubmitRequest{
		CreatorID:      creator.ID,
		CreatorWallet:  creator.WalletAddress,
		FanWallet:      sub.FanAddress,
		Amount:         amount,
		Source:         sub.Variant,
		IdempotencyKey: sub.TxHash,
	}
	if sub.Message != "" {
		msg := sub.Message
		req.Message = &msg
	}

	res := s.tips.Submit(ctx, s.transfers(sub.TxHash, sub.FanAddress), req)
	if res.Status != SubmitSuccess {
		return flow.Outcome{Err: res.Error}
	}

	noteCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	note := s.notes.Note(noteCtx, thankyou.Request{
		Message:  sub.Message,
		Amount:   amount.String(),
		Currency: s.tips.Currency(),
		TierName: res.TierName,
		Style:    thankyou.StyleGrateful,
	})

	return flow.Outcome{TxHash: res.TxHash, ThankYou: note, Warnings: res.Warnings}
}
