package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeRedactsCredentials(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.Info("login", "user", "alice", "password", "hunter2", "access_token", "abc")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["user"] != "alice" {
		t.Fatalf("user = %v", fields["user"])
	}
	if fields["password"] != "[REDACTED]" || fields["access_token"] != "[REDACTED]" {
		t.Fatalf("credentials leaked: %v", fields)
	}
}

func TestSanitizeOddKeyCount(t *testing.T) {
	got := sanitizeKVs([]interface{}{"a", 1, "dangling"})
	if len(got) != 3 || got[2] != "dangling" {
		t.Fatalf("unexpected: %v", got)
	}
}
