package logging

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/danielpatrickdp/adaptive-motion/controller/internal/store"
)

func tempDB(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLogDecisionRoundTrip(t *testing.T) {
	s := tempDB(t)
	at := time.Now().UTC()

	err := LogDecision(s.DB(), DecisionEntry{
		VersionID:  "v-1",
		Origin:     "user",
		Action:     "commit",
		Reason:     "fields applied",
		VetoesJSON: `[{"type":"auto_upgrade_level"}]`,
		CreatedAt:  at,
	})
	if err != nil {
		t.Fatalf("log: %v", err)
	}

	entries, err := RecentDecisions(s.DB(), 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.VersionID != "v-1" || e.Origin != "user" || e.Action != "commit" {
		t.Fatalf("unexpected entry %+v", e)
	}
	if e.Reason != "fields applied" {
		t.Fatalf("reason mismatch: %q", e.Reason)
	}
	if e.VetoesJSON != `[{"type":"auto_upgrade_level"}]` {
		t.Fatalf("vetoes mismatch: %q", e.VetoesJSON)
	}
}

func TestLogDecisionEmptyOptionalFields(t *testing.T) {
	s := tempDB(t)

	err := LogDecision(s.DB(), DecisionEntry{
		VersionID: "v-2",
		Origin:    "auto_degrade",
		Action:    "no_op",
	})
	if err != nil {
		t.Fatalf("log: %v", err)
	}

	entries, err := RecentDecisions(s.DB(), 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Reason != "" || entries[0].VetoesJSON != "" {
		t.Fatalf("expected empty optionals, got %+v", entries[0])
	}
	if entries[0].CreatedAt.IsZero() {
		t.Fatal("expected a default timestamp")
	}
}

func TestRecentDecisionsNewestFirst(t *testing.T) {
	s := tempDB(t)
	for i, action := range []string{"commit", "no_op", "commit"} {
		err := LogDecision(s.DB(), DecisionEntry{
			VersionID: "v",
			Origin:    "user",
			Action:    action,
			CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("log %d: %v", i, err)
		}
	}

	entries, err := RecentDecisions(s.DB(), 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected limit applied, got %d", len(entries))
	}
	if entries[0].Action != "commit" || entries[1].Action != "no_op" {
		t.Fatalf("expected newest first, got %+v", entries)
	}
}
