package events

import (
	"testing"

	"github.com/base-creator-connect/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestTipReceived(t *testing.T) {
	msg := "great stream"
	tip := &models.Tip{
		ID:               uuid.New(),
		CreatorID:        uuid.New(),
		FanWalletAddress: "0xfan",
		Amount:           decimal.RequireFromString("0.05"),
		Currency:         "ETH",
		Message:          &msg,
		TransactionHash:  "0xabc",
		Source:           models.TipSourceFrame,
	}

	e := TipReceived(tip, "Champion")
	if e.Type != EventTipReceived || e.CreatorID != tip.CreatorID.String() {
		t.Fatalf("unexpected event header: %+v", e)
	}
	if e.Payload["amount"] != "0.05" || e.Payload["message"] != msg || e.Payload["tier"] != "Champion" {
		t.Errorf("unexpected payload: %v", e.Payload)
	}
	if _, ok := e.Payload["reaction"]; ok {
		t.Error("reaction should be omitted when nil")
	}
}

func TestGoalProgress(t *testing.T) {
	e := GoalProgress("c1", "g1", decimal.RequireFromString("0.5"))
	if e.Type != EventGoalProgress || e.Payload["current_amount"] != "0.5" {
		t.Errorf("unexpected event: %+v", e)
	}
}
