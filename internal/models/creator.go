package models

import (
	"time"

	"github.com/google/uuid"
)

type Creator struct {
	ID              uuid.UUID         `json:"id"`
	FarcasterID     *string           `json:"farcaster_id,omitempty"`
	Username        *string           `json:"username,omitempty"`
	Bio             *string           `json:"bio,omitempty"`
	ProfileImageURL *string           `json:"profile_image_url,omitempty"`
	WalletAddress   string            `json:"wallet_address"`
	SocialLinks     map[string]string `json:"social_links,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// DisplayName is the name shown in frames and widgets.
func (c *Creator) DisplayName() string {
	if c.Username != nil && *c.Username != "" {
		return *c.Username
	}
	if len(c.WalletAddress) > 10 {
		return c.WalletAddress[:6] + "..." + c.WalletAddress[len(c.WalletAddress)-4:]
	}
	return c.WalletAddress
}

// CreatorWithRelations is a creator together with its active tiers and goals.
type CreatorWithRelations struct {
	Creator
	Tiers []Tier    `json:"tiers"`
	Goals []TipGoal `json:"tip_goals"`
}

type Fan struct {
	ID            uuid.UUID `json:"id"`
	FarcasterID   *string   `json:"farcaster_id,omitempty"`
	WalletAddress string    `json:"wallet_address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type AuthNonce struct {
	ID            uuid.UUID `json:"id"`
	Nonce         string    `json:"nonce"`
	WalletAddress string    `json:"wallet_address"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	Used          bool      `json:"used"`
}
