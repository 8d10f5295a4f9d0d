package main

import (
	"testing"

	"go.uber.org/zap"

	"github.com/infinitydev4/reenove-sub000/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:        "127.0.0.1",
			Port:        8080,
			Environment: "development",
		},
		Assistant: config.AssistantConfig{
			Strategy:         "scripted",
			MaxImagesPerTurn: 5,
		},
		Log: config.LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func TestVerifyStaticTables(t *testing.T) {
	if err := verifyStaticTables(); err != nil {
		t.Errorf("verifyStaticTables() error = %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	cfg := testConfig()

	log, err := newLogger(cfg)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	defer func() { _ = log.Zap().Sync() }()

	if log.GetLevel() != "info" {
		t.Errorf("GetLevel() = %q, want %q", log.GetLevel(), "info")
	}
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	cfg := testConfig()
	cfg.Log.Format = "console"
	cfg.Log.Level = "debug"

	log, err := newLogger(cfg)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	defer func() { _ = log.Zap().Sync() }()

	if log.GetLevel() != "debug" {
		t.Errorf("GetLevel() = %q, want %q", log.GetLevel(), "debug")
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	cfg := testConfig()
	cfg.Log.Level = "verbose"

	if _, err := newLogger(cfg); err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestBuildAssistant_Scripted(t *testing.T) {
	cfg := testConfig()

	assistant, classifier, vision, client := buildAssistant(cfg, zap.NewNop())

	if assistant == nil {
		t.Fatal("expected non-nil assistant")
	}
	if classifier == nil {
		t.Fatal("expected non-nil classifier")
	}
	if vision != nil {
		t.Error("scripted strategy must not have a photo analyzer")
	}
	if client != nil {
		t.Error("scripted strategy must not create an API client")
	}
}

func TestBuildAssistant_Generative(t *testing.T) {
	cfg := testConfig()
	cfg.Assistant.Strategy = "generative"
	cfg.Anthropic = config.AnthropicConfig{
		APIKey: "test-key",
		Model:  "claude-sonnet-4-20250514",
	}

	assistant, classifier, vision, client := buildAssistant(cfg, zap.NewNop())

	if assistant == nil {
		t.Fatal("expected non-nil assistant")
	}
	if classifier == nil {
		t.Fatal("expected non-nil classifier")
	}
	if vision == nil {
		t.Error("generative strategy must analyze photos")
	}
	if client == nil {
		t.Error("generative strategy must create an API client")
	}
	if client.IsCircuitOpen() {
		t.Error("circuit breaker must start closed")
	}
}
