package dto

type NonceRequest struct {
	WalletAddress string `json:"wallet_address"`
}

type WalletLoginRequest struct {
	WalletAddress string `json:"wallet_address"`
	Nonce         string `json:"nonce"`
	Signature     string `json:"signature"`
}

type UpdateProfileRequest struct {
	FarcasterID     *string           `json:"farcaster_id,omitempty"`
	Username        *string           `json:"username,omitempty"`
	Bio             *string           `json:"bio,omitempty"`
	ProfileImageURL *string           `json:"profile_image_url,omitempty"`
	SocialLinks     map[string]string `json:"social_links,omitempty"`
}

type TierRequest struct {
	Name            string  `json:"name"`
	MinAmount       string  `json:"min_amount"`
	PerkDescription *string `json:"perk_description,omitempty"`
	IsActive        *bool   `json:"is_active,omitempty"`
}

type GoalRequest struct {
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	ImageURL     *string `json:"image_url,omitempty"`
	TargetAmount string  `json:"target_amount"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

// SubmitTipRequest is a tip from the creator page. TransactionHash is the
// transfer the fan's wallet already broadcast.
type SubmitTipRequest struct {
	CreatorID        string  `json:"creator_id"`
	FanWalletAddress string  `json:"fan_wallet_address"`
	Amount           string  `json:"amount"`
	Message          *string `json:"message,omitempty"`
	Reaction         *string `json:"reaction,omitempty"`
	TierID           *string `json:"tier_id,omitempty"`
	TipGoalID        *string `json:"tip_goal_id,omitempty"`
	TransactionHash  string  `json:"transaction_hash"`
	Style            string  `json:"style,omitempty"`
}

type FanRequest struct {
	WalletAddress string  `json:"wallet_address"`
	FarcasterID   *string `json:"farcaster_id,omitempty"`
}

type ThankYouRequest struct {
	Message  string `json:"message"`
	Amount   string `json:"amount"`
	TierName string `json:"tier_name,omitempty"`
	Style    string `json:"style,omitempty"`
}

type ReactionRequest struct {
	Message string `json:"message"`
}

// FrameActionRequest is the body a frame client POSTs on a button press.
type FrameActionRequest struct {
	UntrustedData struct {
		FID           uint64 `json:"fid"`
		URL           string `json:"url"`
		ButtonIndex   int    `json:"buttonIndex"`
		InputText     string `json:"inputText"`
		TransactionID string `json:"transactionId"`
		Address       string `json:"address"`
		State         string `json:"state"`
	} `json:"untrustedData"`
	TrustedData struct {
		MessageBytes string `json:"messageBytes"`
	} `json:"trustedData"`
}
