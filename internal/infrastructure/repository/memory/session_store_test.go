package memory

import (
	"context"
	"testing"

	"github.com/mbaranov/ops-support-assistant/internal/core/domain"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	if err := store.EnsureSession(ctx, "s1"); err != nil {
		t.Fatalf("EnsureSession() error = %v", err)
	}
	if err := store.AppendTurn(ctx, "s1", domain.ConversationTurn{User: "q1", Assistant: "a1"}); err != nil {
		t.Fatalf("AppendTurn() error = %v", err)
	}
	if err := store.AppendTurn(ctx, "s1", domain.ConversationTurn{User: "q2", Assistant: "a2"}); err != nil {
		t.Fatalf("AppendTurn() error = %v", err)
	}

	history, err := store.RecentTurns(ctx, "s1", 4)
	if err != nil {
		t.Fatalf("RecentTurns() error = %v", err)
	}
	if len(history) != 2 || history[0].User != "q1" || history[1].User != "q2" {
		t.Fatalf("history = %+v", history)
	}
}

func TestSessionStoreBoundsRecentTurns(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	for _, q := range []string{"1", "2", "3", "4", "5"} {
		_ = store.AppendTurn(ctx, "s1", domain.ConversationTurn{User: q, Assistant: "a"})
	}

	history, err := store.RecentTurns(ctx, "s1", 2)
	if err != nil {
		t.Fatalf("RecentTurns() error = %v", err)
	}
	if len(history) != 2 || history[0].User != "4" || history[1].User != "5" {
		t.Fatalf("history = %+v", history)
	}
}

func TestSessionStoreIsolatesSessions(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	_ = store.AppendTurn(ctx, "a", domain.ConversationTurn{User: "qa", Assistant: "aa"})
	history, err := store.RecentTurns(ctx, "b", 4)
	if err != nil {
		t.Fatalf("RecentTurns() error = %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history for unseen session, got %+v", history)
	}
}
