package config

import (
	"testing"
	"time"
)

func TestParseAmountList(t *testing.T) {
	got := parseAmountList(" 0.001, abc,0.050 ,-1,0, 1")
	want := []string{"0.001", "0.05", "1"}
	if len(got) != len(want) {
		t.Fatalf("parseAmountList: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("parseAmountList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CHAIN_ID", "")
	t.Setenv("DEFAULT_TIP_AMOUNTS", "nope")
	t.Setenv("TX_CONFIRM_TIMEOUT_SECONDS", "15")
	t.Setenv("APP_BASE_URL", "https://tips.example.com/")

	cfg := Load()
	if cfg.ChainID != 8453 {
		t.Errorf("ChainID = %d, want 8453", cfg.ChainID)
	}
	if len(cfg.DefaultTipAmounts) != 5 {
		t.Errorf("DefaultTipAmounts = %v, want the five defaults", cfg.DefaultTipAmounts)
	}
	if cfg.TxConfirmTimeout != 15*time.Second {
		t.Errorf("TxConfirmTimeout = %v", cfg.TxConfirmTimeout)
	}
	if cfg.APPBaseURL != "https://tips.example.com" {
		t.Errorf("APPBaseURL = %q", cfg.APPBaseURL)
	}
}

func TestLLMKeyFallback(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	if got := Load().LLMAPIKey; got != "sk-test" {
		t.Errorf("LLMAPIKey = %q, want sk-test", got)
	}
}
