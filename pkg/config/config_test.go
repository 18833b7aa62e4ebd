package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	yaml := `
llm:
  base_url: "https://api.example.com/v1"
  api_key: "sk-test"
  model: "gpt-4o-mini"
serp:
  provider: "searxng"
  searxng:
    base_url: "http://localhost:8080"
    timeout: 10
topics:
  - "widget maintenance"
  - "widget pricing"
concurrency:
  qps: 2
  rpm: 60
analysis:
  competitor_limit: 5
  url_delay_ms: 200
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.SERP.Provider != "searxng" {
		t.Errorf("Provider = %q", cfg.SERP.Provider)
	}
	if len(cfg.Topics) != 2 {
		t.Errorf("Topics = %v", cfg.Topics)
	}
	if cfg.Analysis.CompetitorLimit != 5 {
		t.Errorf("CompetitorLimit = %d", cfg.Analysis.CompetitorLimit)
	}
	if got := cfg.Analysis.URLDelay(); got != 200*time.Millisecond {
		t.Errorf("URLDelay = %v", got)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestAnalysisDefaults(t *testing.T) {
	var a AnalysisConfig
	if a.URLDelay() != 500*time.Millisecond {
		t.Errorf("URLDelay default = %v", a.URLDelay())
	}
	if a.TopicDelay() != 2*time.Second {
		t.Errorf("TopicDelay default = %v", a.TopicDelay())
	}
	if a.CacheTTL() != 30*time.Minute {
		t.Errorf("CacheTTL default = %v", a.CacheTTL())
	}
}
