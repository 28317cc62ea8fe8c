package livesync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/falzahrani7002-debug/gggpro/internal/docpath"
	"github.com/falzahrani7002-debug/gggpro/internal/document"
	"github.com/falzahrani7002-debug/gggpro/internal/store"
)

func startHub(t *testing.T) (*Hub, *store.FileStore) {
	t.Helper()
	fileStore, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	seed := json.RawMessage(`{"studentInfo":{"name":"seeded"}}`)
	hub := New(fileStore, fileStore, "portfolio", seed)
	if err := hub.Start(context.Background()); err != nil {
		t.Fatalf("start hub: %v", err)
	}
	t.Cleanup(hub.Stop)
	return hub, fileStore
}

func dial(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	wsServer := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(wsServer.Close)
	url := "ws" + strings.TrimPrefix(wsServer.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func waitForDocument(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	for {
		msg := readMessage(t, conn)
		if msg.Type == MessageDocument {
			return msg
		}
	}
}

func TestSeedsAbsentDocument(t *testing.T) {
	hub, _ := startHub(t)
	deadline := time.Now().Add(3 * time.Second)
	for {
		if snapshot, ok := hub.Snapshot(); ok {
			if got := docpath.GetString(snapshot, "studentInfo.name"); got != "seeded" {
				t.Fatalf("expected seeded snapshot, got name=%q", got)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("hub never published the seeded snapshot")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestClientReceivesSnapshotOnConnectAndChange(t *testing.T) {
	hub, fileStore := startHub(t)
	waitReady(t, hub)

	conn := dial(t, hub)
	first := waitForDocument(t, conn)
	if got := docpath.GetString(first.Data, "studentInfo.name"); got != "seeded" {
		t.Fatalf("expected initial snapshot on connect, got name=%q", got)
	}

	if err := fileStore.ApplyFieldUpdate(context.Background(), "portfolio", "studentInfo.name", "changed"); err != nil {
		t.Fatalf("update: %v", err)
	}
	next := waitForDocument(t, conn)
	if got := docpath.GetString(next.Data, "studentInfo.name"); got != "changed" {
		t.Fatalf("expected pushed snapshot, got name=%q", got)
	}
}

func TestAchievementChangeBroadcast(t *testing.T) {
	hub, fileStore := startHub(t)
	waitReady(t, hub)

	conn := dial(t, hub)
	waitForDocument(t, conn)

	err := fileStore.Add(context.Background(), document.CommunityAchievement{
		ID: "ach-1", Name: "زائر", Achievement: "إنجاز", CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("add achievement: %v", err)
	}

	for {
		msg := readMessage(t, conn)
		if msg.Type != MessageAchievements {
			continue
		}
		var achievements []document.CommunityAchievement
		if err := json.Unmarshal(msg.Data, &achievements); err != nil {
			t.Fatalf("decode achievements: %v", err)
		}
		if len(achievements) == 0 {
			// Initial empty list pushed on connect.
			continue
		}
		if achievements[0].ID != "ach-1" {
			t.Fatalf("unexpected achievement %s", achievements[0].ID)
		}
		return
	}
}

func waitReady(t *testing.T, hub *Hub) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		if _, ok := hub.Snapshot(); ok {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("hub not ready")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
