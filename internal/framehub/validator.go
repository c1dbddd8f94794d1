// Package framehub checks signed frame actions against a Farcaster hub.
package framehub

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var (
	ErrInvalidMessage = errors.New("invalid frame message")
	ErrDisabled       = errors.New("frame hub validation disabled")
)

// Action is the verified part of a frame action message.
type Action struct {
	FID           uint64
	ButtonIndex   int
	InputText     string
	TransactionID string
	Address       string
}

type Validator struct {
	http *resty.Client
	log  *zap.Logger
}

// NewValidator returns nil when hubURL is empty.
func NewValidator(hubURL string, timeout time.Duration, log *zap.Logger) *Validator {
	if hubURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Validator{
		http: resty.New().
			SetBaseURL(strings.TrimRight(hubURL, "/")).
			SetTimeout(timeout),
		log: log,
	}
}

type validateResponse struct {
	Valid   bool `json:"valid"`
	Message struct {
		Data struct {
			FID             uint64 `json:"fid"`
			FrameActionBody struct {
				ButtonIndex   int    `json:"buttonIndex"`
				InputText     string `json:"inputText"`
				TransactionID string `json:"transactionId"`
				Address       string `json:"address"`
			} `json:"frameActionBody"`
		} `json:"data"`
	} `json:"message"`
}

// Validate posts the hex encoded message bytes to the hub.
func (v *Validator) Validate(ctx context.Context, messageBytes string) (*Action, error) {
	if v == nil {
		return nil, ErrDisabled
	}
	raw, err := hexutil.Decode(ensure0x(messageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	var out validateResponse
	resp, err := v.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(raw).
		SetResult(&out).
		Post("/v1/validateMessage")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("hub validateMessage status %d", resp.StatusCode())
	}
	if !out.Valid {
		return nil, ErrInvalidMessage
	}

	body := out.Message.Data.FrameActionBody
	action := &Action{
		FID:         out.Message.Data.FID,
		ButtonIndex: body.ButtonIndex,
	}
	if b, err := base64.StdEncoding.DecodeString(body.InputText); err == nil {
		action.InputText = string(b)
	}
	if b, err := base64.StdEncoding.DecodeString(body.TransactionID); err == nil && len(b) > 0 {
		action.TransactionID = hexutil.Encode(b)
	}
	if b, err := base64.StdEncoding.DecodeString(body.Address); err == nil && len(b) > 0 {
		action.Address = hexutil.Encode(b)
	}

	v.log.Debug("frame message validated", zap.Uint64("fid", action.FID), zap.Int("button", action.ButtonIndex))
	return action, nil
}

func ensure0x(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s
	}
	return "0x" + s
}
