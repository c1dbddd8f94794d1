package events

import (
	"context"

	"github.com/base-creator-connect/backend/internal/models"
	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTipReceived  = "tip_received"
	EventGoalProgress = "goal_progress"
)

// StreamTips carries every tip and goal event.
const StreamTips = "events:tips"

type Event struct {
	Type      string         `json:"type"`
	CreatorID string         `json:"creator_id"`
	Payload   map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}

func TipReceived(tip *models.Tip, tierName string) Event {
	payload := map[string]any{
		"tip_id":           tip.ID.String(),
		"amount":           tip.Amount.String(),
		"currency":         tip.Currency,
		"fan":              tip.FanWalletAddress,
		"transaction_hash": tip.TransactionHash,
		"source":           tip.Source,
	}
	if tip.Message != nil {
		payload["message"] = *tip.Message
	}
	if tip.Reaction != nil {
		payload["reaction"] = *tip.Reaction
	}
	if tierName != "" {
		payload["tier"] = tierName
	}
	return Event{Type: EventTipReceived, CreatorID: tip.CreatorID.String(), Payload: payload}
}

func GoalProgress(creatorID, goalID string, current decimal.Decimal) Event {
	return Event{
		Type:      EventGoalProgress,
		CreatorID: creatorID,
		Payload: map[string]any{
			"goal_id":        goalID,
			"current_amount": current.String(),
		},
	}
}
