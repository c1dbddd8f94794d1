package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTipGoalProgress(t *testing.T) {
	tests := []struct {
		target, current string
		want            float64
		done            bool
	}{
		{"1", "0", 0, false},
		{"1", "0.5", 0.5, false},
		{"1", "1", 1, true},
		{"1", "2.5", 1, true},
		{"0", "1", 0, true},
	}
	for _, tt := range tests {
		g := TipGoal{TargetAmount: decimal.RequireFromString(tt.target), CurrentAmount: decimal.RequireFromString(tt.current)}
		if got := g.Progress(); got != tt.want {
			t.Errorf("Progress(%s/%s) = %v, want %v", tt.current, tt.target, got, tt.want)
		}
		if got := g.Completed(); got != tt.done {
			t.Errorf("Completed(%s/%s) = %v, want %v", tt.current, tt.target, got, tt.done)
		}
	}
}

func TestCreatorDisplayName(t *testing.T) {
	name := "alice"
	c := Creator{WalletAddress: "0x1234567890abcdef1234567890abcdef12345678"}
	if got := c.DisplayName(); got != "0x1234...5678" {
		t.Errorf("DisplayName() = %q", got)
	}
	c.Username = &name
	if got := c.DisplayName(); got != "alice" {
		t.Errorf("DisplayName() = %q", got)
	}
}
