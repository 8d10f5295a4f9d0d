package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestInMemoryLog_AppendAndRecent(t *testing.T) {
	log := NewInMemoryLog()
	ctx := context.Background()
	session := uuid.New()

	for _, content := range []string{"bonjour", "quel type de travaux ?", "peinture"} {
		role := RoleUser
		if content == "quel type de travaux ?" {
			role = RoleAssistant
		}
		if err := log.Append(ctx, NewEntry(session, role, content)); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	entries, err := log.Recent(ctx, session, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	if entries[0].Content != "bonjour" || entries[2].Content != "peinture" {
		t.Errorf("entries out of order: %v", entries)
	}
}

func TestInMemoryLog_RecentLimit(t *testing.T) {
	log := NewInMemoryLog()
	ctx := context.Background()
	session := uuid.New()

	for i := 0; i < 5; i++ {
		if err := log.Append(ctx, NewEntry(session, RoleUser, string(rune('a'+i)))); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	entries, err := log.Recent(ctx, session, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Content != "d" || entries[1].Content != "e" {
		t.Errorf("limit should keep the latest entries, got %v", entries)
	}
}

func TestInMemoryLog_SessionsIsolated(t *testing.T) {
	log := NewInMemoryLog()
	ctx := context.Background()

	a, b := uuid.New(), uuid.New()
	log.Append(ctx, NewEntry(a, RoleUser, "session a"))
	log.Append(ctx, NewEntry(b, RoleUser, "session b"))

	entries, _ := log.Recent(ctx, a, 10)
	if len(entries) != 1 || entries[0].Content != "session a" {
		t.Errorf("session a entries = %v", entries)
	}
}

func TestNewEntry(t *testing.T) {
	session := uuid.New()
	e := NewEntry(session, RoleAssistant, "bonjour")

	if e.ID == uuid.Nil {
		t.Error("expected a generated id")
	}
	if e.SessionID != session {
		t.Error("session id not carried")
	}
	if e.CreatedAt.IsZero() {
		t.Error("expected a timestamp")
	}
}
