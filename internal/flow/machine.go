package flow

import (
	"context"
	"strings"

	"github.com/base-creator-connect/backend/internal/apperr"
	"github.com/base-creator-connect/backend/internal/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	VariantFrame  = "frame"
	VariantWidget = "widget"
)

const (
	msgCreatorRequired = "Creator ID is required"
	msgInvalidAmount   = "Please enter a valid amount"
	msgConfirmMissing  = "Creator ID and amount are required"
	msgConnectWallet   = "Connect your wallet to tip"
)

// Submission is what the machine hands to the tip pipeline on confirm.
type Submission struct {
	Variant    string
	CreatorID  string
	Amount     string
	Message    string
	FanAddress string
	TxHash     string
}

// Outcome is the pipeline result as seen by the flow.
type Outcome struct {
	TxHash   string
	ThankYou string
	Warnings []string
	Err      *apperr.Error
}

type Submitter interface {
	SubmitTip(ctx context.Context, sub Submission) Outcome
}

type Machine struct {
	variant    string
	submitter  Submitter
	requireFan bool
	log        *zap.Logger
}

func NewMachine(variant string, submitter Submitter, log *zap.Logger) *Machine {
	return &Machine{
		variant:    variant,
		submitter:  submitter,
		requireFan: variant == VariantWidget,
		log:        log,
	}
}

func (m *Machine) Variant() string {
	return m.variant
}

// Step applies ev to s. Pairs without a transition return s unchanged.
func (m *Machine) Step(ctx context.Context, s State, ev Event) State {
	if s == nil {
		s = Initial{}
	}
	next := m.step(ctx, s, ev)
	if next.Kind() != s.Kind() {
		metrics.RecordTransition(m.variant, s.Kind().String(), next.Kind().String())
		m.log.Debug("flow transition",
			zap.String("variant", m.variant),
			zap.String("creator_id", next.Creator()),
			zap.Stringer("from", s.Kind()),
			zap.Stringer("to", next.Kind()),
		)
	}
	return next
}

func (m *Machine) step(ctx context.Context, s State, ev Event) State {
	if _, ok := ev.(Stay); ok {
		return s
	}

	switch st := s.(type) {
	case Initial:
		if e, ok := ev.(Start); ok {
			creatorID := strings.TrimSpace(e.CreatorID)
			if creatorID == "" {
				creatorID = st.CreatorID
			}
			if creatorID == "" {
				return Failed{Error: msgCreatorRequired}
			}
			return SelectAmount{CreatorID: creatorID}
		}

	case SelectAmount:
		switch e := ev.(type) {
		case ChoosePreset:
			amount, ok := NormalizeAmount(e.Amount)
			if !ok {
				return CustomAmount{CreatorID: st.CreatorID, Error: msgInvalidAmount}
			}
			return AddMessage{CreatorID: st.CreatorID, Amount: amount}
		case ChooseCustom:
			return CustomAmount{CreatorID: st.CreatorID}
		}

	case CustomAmount:
		switch e := ev.(type) {
		case EnterCustom:
			amount, ok := NormalizeAmount(e.Input)
			if !ok {
				return CustomAmount{CreatorID: st.CreatorID, Error: msgInvalidAmount}
			}
			return AddMessage{CreatorID: st.CreatorID, Amount: amount}
		case Back:
			return SelectAmount{CreatorID: st.CreatorID}
		}

	case AddMessage:
		switch e := ev.(type) {
		case EnterMessage:
			return Confirm{CreatorID: st.CreatorID, Amount: st.Amount, Message: strings.TrimSpace(e.Message)}
		case SkipMessage:
			return Confirm{CreatorID: st.CreatorID, Amount: st.Amount}
		case Back:
			return SelectAmount{CreatorID: st.CreatorID}
		}

	case Confirm:
		switch e := ev.(type) {
		case Submit:
			return m.submit(ctx, st, e)
		case Back:
			return AddMessage{CreatorID: st.CreatorID, Amount: st.Amount}
		}

	case Success:
		if _, ok := ev.(TipAgain); ok {
			return SelectAmount{CreatorID: st.CreatorID}
		}

	case Failed:
		if _, ok := ev.(TryAgain); ok {
			if st.CreatorID == "" {
				return Initial{}
			}
			return SelectAmount{CreatorID: st.CreatorID}
		}
	}
	return s
}

func (m *Machine) submit(ctx context.Context, st Confirm, e Submit) State {
	if st.CreatorID == "" || st.Amount == "" {
		return Failed{CreatorID: st.CreatorID, Amount: st.Amount, Error: msgConfirmMissing}
	}
	if m.requireFan && strings.TrimSpace(e.FanAddress) == "" {
		return Failed{CreatorID: st.CreatorID, Amount: st.Amount, Error: msgConnectWallet}
	}

	out := m.submitter.SubmitTip(ctx, Submission{
		Variant:    m.variant,
		CreatorID:  st.CreatorID,
		Amount:     st.Amount,
		Message:    st.Message,
		FanAddress: strings.TrimSpace(e.FanAddress),
		TxHash:     strings.TrimSpace(e.TxHash),
	})
	if out.Err != nil {
		m.log.Info("tip submission failed",
			zap.String("variant", m.variant),
			zap.String("creator_id", st.CreatorID),
			zap.String("type", string(out.Err.Type)),
			zap.String("error", out.Err.Message),
		)
		return Failed{CreatorID: st.CreatorID, Amount: st.Amount, Error: out.Err.Message}
	}
	return Success{
		CreatorID: st.CreatorID,
		Amount:    st.Amount,
		Message:   st.Message,
		TxHash:    out.TxHash,
		ThankYou:  out.ThankYou,
		Warnings:  out.Warnings,
	}
}

// NormalizeAmount parses a positive decimal with at most 18 fractional digits.
func NormalizeAmount(s string) (string, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsPositive() {
		return "", false
	}
	if !d.Shift(18).IsInteger() {
		return "", false
	}
	return d.String(), true
}
