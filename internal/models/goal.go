package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TipGoal struct {
	ID            uuid.UUID       `json:"id"`
	CreatorID     uuid.UUID       `json:"creator_id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	ImageURL      *string         `json:"image_url,omitempty"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Progress is the funded share in [0, 1]. Overfunded goals report 1.
func (g *TipGoal) Progress() float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	p, _ := g.CurrentAmount.Div(g.TargetAmount).Float64()
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

func (g *TipGoal) Completed() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}
