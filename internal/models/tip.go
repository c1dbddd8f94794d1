package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tip sources
const (
	TipSourcePage   = "page"
	TipSourceWidget = "widget"
	TipSourceFrame  = "frame"
)

type Tip struct {
	ID               uuid.UUID       `json:"id"`
	CreatorID        uuid.UUID       `json:"creator_id"`
	FanWalletAddress string          `json:"fan_wallet_address"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Message          *string         `json:"message,omitempty"`
	Reaction         *string         `json:"reaction,omitempty"`
	TransactionHash  string          `json:"transaction_hash"`
	TierID           *uuid.UUID      `json:"tier_id,omitempty"`
	TipGoalID        *uuid.UUID      `json:"tip_goal_id,omitempty"`
	GoalApplied      bool            `json:"goal_applied"`
	Source           string          `json:"source"`
	CreatedAt        time.Time       `json:"created_at"`
}

// TipPage is one page of a tip listing.
type TipPage struct {
	Tips     []Tip `json:"tips"`
	Total    int   `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}
