package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerWritesStructuredField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := New(zap.New(core))

	log.InfoObj("list fetched", "list_meta", map[string]any{"page": 1})
	log.DebugObj("debug", "k", 1)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	meta, ok := fields["list_meta"].(map[string]any)
	if !ok || meta["page"] != 1 {
		t.Fatalf("unexpected fields %#v", fields)
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if parseLevel("verbose") != zapcore.InfoLevel {
		t.Fatalf("unknown level should map to info")
	}
	if parseLevel("warning") != zapcore.WarnLevel {
		t.Fatalf("warning should map to warn")
	}
}

func TestPackageHelpersAreNoopsBeforeInit(t *testing.T) {
	prev := S
	S = nil
	defer func() { S = prev }()

	InfoObj("x", "k", 1)
	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
