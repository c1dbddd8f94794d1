// Package thankyou generates personalized thank-you notes and reaction
// suggestions for tips, falling back to fixed text when generation fails.
package thankyou

import (
	"context"
	"fmt"
	"strings"

	"github.com/base-creator-connect/backend/internal/metrics"
	"go.uber.org/zap"
)

const (
	FallbackNote     = "Thank you for your support!"
	FallbackReaction = "❤️"

	noteMaxTokens     = 150
	reactionMaxTokens = 5
)

type Style string

const (
	StyleCasual       Style = "casual"
	StyleFormal       Style = "formal"
	StyleFunny        Style = "funny"
	StyleGrateful     Style = "grateful"
	StyleEnthusiastic Style = "enthusiastic"
)

var Styles = []Style{StyleCasual, StyleFormal, StyleFunny, StyleGrateful, StyleEnthusiastic}

// ParseStyle is case-insensitive; unknown or empty values yield StyleGrateful.
func ParseStyle(s string) Style {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, st := range Styles {
		if string(st) == s {
			return st
		}
	}
	return StyleGrateful
}

type Request struct {
	Message  string
	Amount   string
	Currency string
	TierName string
	Style    Style
}

func (r Request) cacheKey() string {
	return fmt.Sprintf("%s:%s:%s:%s", r.Message, r.Amount, r.TierName, r.Style)
}

func (r Request) prompt() string {
	message := r.Message
	if message == "" {
		message = "No message"
	}
	currency := r.Currency
	if currency == "" {
		currency = "ETH"
	}
	tier := ""
	if r.TierName != "" {
		tier = fmt.Sprintf(" (%s tier)", r.TierName)
	}
	return fmt.Sprintf("Generate a personalized thank-you note in a %s style for a fan who tipped %s %s%s with this message: %q",
		r.Style, r.Amount, currency, tier, message)
}

type Service struct {
	gen   Completer
	cache *Cache
	log   *zap.Logger
}

// NewService accepts a nil gen, every call then returns the fallback text.
func NewService(gen Completer, cache *Cache, log *zap.Logger) *Service {
	return &Service{gen: gen, cache: cache, log: log}
}

// Note returns a cached or freshly generated note. It never fails.
func (s *Service) Note(ctx context.Context, req Request) string {
	if req.Style == "" {
		req.Style = StyleGrateful
	}
	key := req.cacheKey()
	if note, ok := s.cache.Get(key); ok {
		metrics.RecordThankYouLookup("hit")
		return note
	}

	if s.gen == nil {
		metrics.RecordThankYouLookup("fallback")
		return FallbackNote
	}

	note, err := s.gen.Complete(ctx, req.prompt(), noteMaxTokens)
	if err != nil {
		s.log.Warn("thank-you note generation failed", zap.Error(err))
		metrics.RecordThankYouLookup("fallback")
		return FallbackNote
	}

	s.cache.Set(key, note)
	metrics.RecordThankYouLookup("generated")
	return note
}

// SuggestReaction returns a single emoji matching the fan message.
func (s *Service) SuggestReaction(ctx context.Context, message string) string {
	if s.gen == nil || strings.TrimSpace(message) == "" {
		return FallbackReaction
	}
	prompt := fmt.Sprintf("Suggest a single emoji reaction that best matches this fan message: %q", message)
	reaction, err := s.gen.Complete(ctx, prompt, reactionMaxTokens)
	if err != nil {
		s.log.Warn("reaction suggestion failed", zap.Error(err))
		return FallbackReaction
	}
	if fields := strings.Fields(reaction); len(fields) > 0 {
		return fields[0]
	}
	return FallbackReaction
}
