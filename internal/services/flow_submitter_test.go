package services

import (
	"context"
	"errors"
	"testing"

	"github.com/base-creator-connect/backend/internal/apperr"
	"github.com/base-creator-connect/backend/internal/flow"
	"github.com/base-creator-connect/backend/internal/models"
	"github.com/base-creator-connect/backend/internal/thankyou"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubNotes struct {
	reqs []thankyou.Request
}

func (s *stubNotes) Note(_ context.Context, req thankyou.Request) string {
	s.reqs = append(s.reqs, req)
	return "Thanks, " + req.Amount
}

func newFlowFixture(t *testing.T, transfer *fakeTransfer) (*FlowSubmitter, *tipFixture, *stubNotes, *[]string) {
	t.Helper()
	f := newTipFixture(t)
	creators := newMemCreators(models.Creator{ID: f.creatorID, WalletAddress: creatorWallet})
	notes := &stubNotes{}
	var reported []string
	factory := func(txHash, from string) ValueTransfer {
		reported = append(reported, txHash)
		return transfer
	}
	return NewFlowSubmitter(creators, f.svc, notes, factory, zap.NewNop()), f, notes, &reported
}

func TestFlowSubmitter_Success(t *testing.T) {
	transfer := &fakeTransfer{hash: "0xabc"}
	sub, f, notes, reported := newFlowFixture(t, transfer)

	out := sub.SubmitTip(context.Background(), flow.Submission{
		Variant:    flow.VariantWidget,
		CreatorID:  f.creatorID.String(),
		Amount:     "0.05",
		Message:    "gm",
		FanAddress: fanWallet,
		TxHash:     "0xabc",
	})

	require.Nil(t, out.Err)
	assert.Equal(t, "0xabc", out.TxHash)
	assert.Equal(t, "Thanks, 0.05", out.ThankYou)
	assert.Equal(t, []string{"0xabc"}, *reported)
	require.Len(t, notes.reqs, 1)
	assert.Equal(t, "gm", notes.reqs[0].Message)
	assert.Equal(t, "ETH", notes.reqs[0].Currency)

	stored, err := f.tips.GetByHash(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, models.TipSourceWidget, stored.Source)
}

func TestFlowSubmitter_TransferError(t *testing.T) {
	sub, f, notes, _ := newFlowFixture(t, &fakeTransfer{err: errors.New("user rejected")})

	out := sub.SubmitTip(context.Background(), flow.Submission{
		Variant:   flow.VariantFrame,
		CreatorID: f.creatorID.String(),
		Amount:    "0.05",
		TxHash:    "0xabc",
	})
	require.NotNil(t, out.Err)
	assert.Equal(t, "user rejected", out.Err.Message)
	assert.Empty(t, notes.reqs)
}

func TestFlowSubmitter_Rejects(t *testing.T) {
	transfer := &fakeTransfer{hash: "0xabc"}
	sub, f, _, _ := newFlowFixture(t, transfer)

	cases := map[string]flow.Submission{
		"bad creator id":  {CreatorID: "nope", Amount: "1", TxHash: "0xabc"},
		"unknown creator": {CreatorID: "7c9e6679-7425-40de-944b-e07fc1f90ae7", Amount: "1", TxHash: "0xabc"},
		"bad amount":      {CreatorID: f.creatorID.String(), Amount: "x", TxHash: "0xabc"},
		"no tx":           {CreatorID: f.creatorID.String(), Amount: "1"},
	}
	for name, s := range cases {
		out := sub.SubmitTip(context.Background(), s)
		require.NotNil(t, out.Err, name)
		assert.Equal(t, apperr.TypeValidation, out.Err.Type, name)
	}
	assert.Equal(t, 0, transfer.calls)
}

func TestFlowSubmitter_DrivesMachine(t *testing.T) {
	sub, f, _, _ := newFlowFixture(t, &fakeTransfer{hash: "0xabc"})
	m := flow.NewMachine(flow.VariantFrame, sub, zap.NewNop())

	s := m.Step(context.Background(), flow.Confirm{CreatorID: f.creatorID.String(), Amount: "0.01"}, flow.Submit{TxHash: "0xabc"})
	success, ok := s.(flow.Success)
	require.True(t, ok, "got %T", s)
	assert.Equal(t, "0xabc", success.TxHash)
	assert.Equal(t, "Thanks, 0.01", success.ThankYou)
}
