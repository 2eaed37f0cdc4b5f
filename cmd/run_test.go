package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/techhire/interview-assistant/internal/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithSessionAttachesSessionID(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	log := withSession(zap.New(core), "abc-123")

	log.Info("session archived")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields[logger.FieldSession] != "abc-123" {
		t.Fatalf("expected session id on the entry, got %v", fields)
	}
}

func TestNewOracleRejectsUnknownProvider(t *testing.T) {
	cfg := &AIConfig{
		Provider: "anthropic",
		Gemini:   &GeminiConfig{},
		OpenAI:   &OpenAIConfig{},
	}

	_, err := newOracle(context.Background(), cfg, zap.NewNop())
	if err == nil {
		t.Fatal("expected an error for an unknown provider")
	}
	if !strings.Contains(err.Error(), "unsupported ai provider") {
		t.Fatalf("unexpected error: %v", err)
	}
}
