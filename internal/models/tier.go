package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Tier struct {
	ID              uuid.UUID       `json:"id"`
	CreatorID       uuid.UUID       `json:"creator_id"`
	Name            string          `json:"name"`
	MinAmount       decimal.Decimal `json:"min_amount"`
	PerkDescription *string         `json:"perk_description,omitempty"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Qualifies reports whether amount reaches the tier minimum.
func (t *Tier) Qualifies(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(t.MinAmount)
}

// ResolveTier returns the id of the qualifying tier with the greatest
// minimum, or nil when amount is malformed or nothing qualifies.
func ResolveTier(tiers []Tier, amount string) *uuid.UUID {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil
	}
	t := ResolveTierForAmount(tiers, d)
	if t == nil {
		return nil
	}
	id := t.ID
	return &id
}

// ResolveTierForAmount is ResolveTier over a parsed amount. Equal minimums
// resolve to the tier listed first. The input slice is not reordered.
func ResolveTierForAmount(tiers []Tier, amount decimal.Decimal) *Tier {
	qualifying := make([]Tier, 0, len(tiers))
	for _, t := range tiers {
		if t.Qualifies(amount) {
			qualifying = append(qualifying, t)
		}
	}
	if len(qualifying) == 0 {
		return nil
	}
	sort.SliceStable(qualifying, func(i, j int) bool {
		return qualifying[i].MinAmount.GreaterThan(qualifying[j].MinAmount)
	})
	return &qualifying[0]
}

// FindTier returns the tier with id, or nil.
func FindTier(tiers []Tier, id *uuid.UUID) *Tier {
	if id == nil {
		return nil
	}
	for i := range tiers {
		if tiers[i].ID == *id {
			return &tiers[i]
		}
	}
	return nil
}
