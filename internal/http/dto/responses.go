package dto

import (
	"github.com/base-creator-connect/backend/internal/models"
	"github.com/shopspring/decimal"
)

type AuthResponse struct {
	Token   string `json:"token"`
	Creator any    `json:"creator"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Type      string `json:"type,omitempty"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type TipSubmitResponse struct {
	Status          string           `json:"status"`
	TransactionHash string           `json:"transaction_hash,omitempty"`
	ExplorerURL     string           `json:"explorer_url,omitempty"`
	Tip             *models.Tip      `json:"tip,omitempty"`
	TierName        string           `json:"tier_name,omitempty"`
	GoalTotal       *decimal.Decimal `json:"goal_total,omitempty"`
	ThankYou        string           `json:"thank_you,omitempty"`
	Warnings        []string         `json:"warnings,omitempty"`
	Partial         bool             `json:"partial"`
	Duplicate       bool             `json:"duplicate,omitempty"`
}

type TipAmountsResponse struct {
	Amounts  []string `json:"amounts"`
	Currency string   `json:"currency"`
	ChainID  int64    `json:"chain_id"`
}

type WidgetCreator struct {
	ID              string  `json:"id"`
	Username        *string `json:"username,omitempty"`
	ProfileImageURL *string `json:"profileImageUrl,omitempty"`
}

type WidgetEmbedResponse struct {
	Creator            WidgetCreator `json:"creator"`
	EmbedCode          string        `json:"embedCode"`
	FarcasterFrameCode string        `json:"farcasterFrameCode"`
	WidgetURL          string        `json:"widgetUrl"`
	FrameURL           string        `json:"frameUrl"`
}
