package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"timetrack.org/internal/auth"
	"timetrack.org/internal/obs"
)

func TestLogEvent(t *testing.T) {
	logger := obs.Logger()
	original := logger.Writer()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(original)

	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-123")
	ctx = auth.ContextWithPrincipal(ctx, auth.Principal{
		ID:       "user-42",
		Username: "jbtest1ab",
		Role:     auth.RoleAdmin,
	})

	if err := LogEvent(ctx, "auth.login.ok", map[string]any{"username": "jbtest1ab"}); err != nil {
		t.Fatalf("LogEvent failed: %v", err)
	}

	line := buf.String()
	if line == "" {
		t.Fatal("expected log output")
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log not valid JSON: %v", err)
	}
	if entry["type"] != "audit" {
		t.Fatalf("unexpected type: %v", entry["type"])
	}
	if entry["event"] != "auth.login.ok" {
		t.Fatalf("unexpected event: %v", entry["event"])
	}
	if entry["request_id"] != "req-123" {
		t.Fatalf("unexpected request id: %v", entry["request_id"])
	}
	if entry["actor_id"] != "user-42" {
		t.Fatalf("unexpected actor id: %v", entry["actor_id"])
	}
	if entry["actor_role"] != auth.RoleAdmin {
		t.Fatalf("unexpected actor role: %v", entry["actor_role"])
	}
	fields, ok := entry["fields"].(map[string]any)
	if !ok || fields["username"] != "jbtest1ab" {
		t.Fatalf("fields missing or incorrect: %v", entry["fields"])
	}
}

func TestLogEventRequiresName(t *testing.T) {
	if err := LogEvent(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected error for blank event name")
	}
}

func TestLogEventWithoutContext(t *testing.T) {
	logger := obs.Logger()
	original := logger.Writer()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(original)

	if err := LogEvent(context.Background(), "account.created", nil); err != nil {
		t.Fatalf("LogEvent failed: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log not valid JSON: %v", err)
	}
	if _, present := entry["actor_id"]; present {
		t.Fatalf("anonymous entry must not carry an actor: %v", entry)
	}
	if _, present := entry["request_id"]; present {
		t.Fatalf("entry without request id must omit the key: %v", entry)
	}
}
