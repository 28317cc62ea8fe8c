package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/falzahrani7002-debug/gggpro/internal/docpath"
	"github.com/falzahrani7002-debug/gggpro/internal/document"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestInitializeIfAbsentIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seed := json.RawMessage(`{"studentInfo":{"name":"A"}}`)

	created, err := s.InitializeIfAbsent(ctx, "portfolio", seed)
	if err != nil || !created {
		t.Fatalf("expected first initialize to create, created=%v err=%v", created, err)
	}
	created, err = s.InitializeIfAbsent(ctx, "portfolio", json.RawMessage(`{"studentInfo":{"name":"B"}}`))
	if err != nil || created {
		t.Fatalf("expected second initialize to no-op, created=%v err=%v", created, err)
	}
	data, err := s.Load(ctx, "portfolio")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := docpath.GetString(data, "studentInfo.name"); got != "A" {
		t.Fatalf("expected original seed kept, got name=%q", got)
	}
}

func TestLoadMissingDocument(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Load(context.Background(), "portfolio"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSequentialFieldUpdatesLastWriteWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.InitializeIfAbsent(ctx, "portfolio", json.RawMessage(`{"studentInfo":{"name":"initial"}}`)); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	if err := s.ApplyFieldUpdate(ctx, "portfolio", "studentInfo.name", "A"); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if err := s.ApplyFieldUpdate(ctx, "portfolio", "studentInfo.name", "B"); err != nil {
		t.Fatalf("second update: %v", err)
	}
	data, err := s.Load(ctx, "portfolio")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := docpath.GetString(data, "studentInfo.name"); got != "B" {
		t.Fatalf("expected last write to win, got name=%q", got)
	}
}

func TestSubscribeDeliversSnapshots(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.InitializeIfAbsent(ctx, "portfolio", json.RawMessage(`{"studentInfo":{"name":"initial"}}`)); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	snapshots := make(chan Snapshot, 8)
	unsubscribe, err := s.Subscribe(ctx, "portfolio", func(snap Snapshot) {
		snapshots <- snap
	}, func(err error) {
		t.Errorf("unexpected subscription error: %v", err)
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer unsubscribe()

	first := waitSnapshot(t, snapshots)
	if !first.Exists {
		t.Fatalf("expected initial snapshot to exist")
	}
	if got := docpath.GetString(first.Data, "studentInfo.name"); got != "initial" {
		t.Fatalf("expected initial snapshot, got name=%q", got)
	}

	if err := s.ApplyFieldUpdate(ctx, "portfolio", "studentInfo.name", "updated"); err != nil {
		t.Fatalf("update: %v", err)
	}
	next := waitSnapshot(t, snapshots)
	if got := docpath.GetString(next.Data, "studentInfo.name"); got != "updated" {
		t.Fatalf("expected pushed snapshot to reflect update, got name=%q", got)
	}
}

func TestSubscribeAbsentDocument(t *testing.T) {
	s := newTestStore(t)
	snapshots := make(chan Snapshot, 1)
	unsubscribe, err := s.Subscribe(context.Background(), "portfolio", func(snap Snapshot) {
		snapshots <- snap
	}, func(err error) {})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer unsubscribe()

	first := waitSnapshot(t, snapshots)
	if first.Exists {
		t.Fatalf("expected absent snapshot for missing document")
	}
}

func TestAchievementsOrderedNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, name := range []string{"first", "second", "third"} {
		err := s.Add(ctx, document.CommunityAchievement{
			ID:          name,
			Name:        name,
			Achievement: "did something",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}

	achievements, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(achievements) != 3 {
		t.Fatalf("expected 3 achievements, got %d", len(achievements))
	}
	if achievements[0].ID != "third" || achievements[2].ID != "first" {
		t.Fatalf("expected newest first, got %s..%s", achievements[0].ID, achievements[2].ID)
	}
}

func TestDeleteAchievement(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.Add(ctx, document.CommunityAchievement{ID: "ach-1", Name: "x", Achievement: "y", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Delete(ctx, "ach-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "ach-1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	achievements, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(achievements) != 0 {
		t.Fatalf("expected empty list, got %d", len(achievements))
	}
}

func waitSnapshot(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snap := <-ch:
		return snap
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for snapshot")
		return Snapshot{}
	}
}
