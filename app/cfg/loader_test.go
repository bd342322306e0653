package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		DBPath:           "./test.db",
		SubscriptionsDir: "./subscriptions",
		Port:             "5000",
		DaysToFetch:      7,
		MaxEntries:       10,
		FetchTimeout:     10,
		OpenAIAPIKey:     "sk-test",
		YouTubeAPIKey:    "yt-test",
		TwitterAPIKey:    "tw-test",
		UserAgent:        "Test Agent",
		Timezone:         "UTC",
		Debug:            true,
		Version:          "test-version",
	}

	if cfg.DBPath != "./test.db" {
		t.Errorf("Expected DB path './test.db', got '%s'", cfg.DBPath)
	}
	if cfg.SubscriptionsDir != "./subscriptions" {
		t.Errorf("Expected subscriptions dir './subscriptions', got '%s'", cfg.SubscriptionsDir)
	}
	if cfg.Port != "5000" {
		t.Errorf("Expected port '5000', got '%s'", cfg.Port)
	}
	if cfg.DaysToFetch != 7 {
		t.Errorf("Expected days to fetch 7, got %d", cfg.DaysToFetch)
	}
	if cfg.MaxEntries != 10 {
		t.Errorf("Expected max entries 10, got %d", cfg.MaxEntries)
	}
	if cfg.FetchTimeout != 10 {
		t.Errorf("Expected fetch timeout 10, got %d", cfg.FetchTimeout)
	}
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Errorf("Expected OpenAI key 'sk-test', got '%s'", cfg.OpenAIAPIKey)
	}
	if cfg.UserAgent != "Test Agent" {
		t.Errorf("Expected user agent 'Test Agent', got '%s'", cfg.UserAgent)
	}
	if cfg.Version != "test-version" {
		t.Errorf("Expected version 'test-version', got '%s'", cfg.Version)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}
