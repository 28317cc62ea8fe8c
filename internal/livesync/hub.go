// Package livesync owns the single store subscription for the portfolio
// document and republishes every confirmed snapshot to all connected
// WebSocket viewers. Clients never see locally-optimistic state: the only
// thing that flows out of the hub is what the store has acknowledged, so
// every viewer converges on the same document.
package livesync

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/falzahrani7002-debug/gggpro/internal/store"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Message is one push to a connected viewer.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	MessageDocument     = "document"
	MessageAchievements = "achievements"
)

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// write sends one websocket message guarded by the client's mutex and a
// write deadline.
func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

type Hub struct {
	docs store.DocumentStore
	ach  store.AchievementStore
	key  string
	seed json.RawMessage

	mu       sync.RWMutex
	snapshot json.RawMessage
	clients  map[*client]struct{}

	unsubscribeDoc func()
	unsubscribeAch func()

	connectedClients prometheus.Gauge
	snapshotsPushed  prometheus.Counter
}

func New(docs store.DocumentStore, ach store.AchievementStore, documentKey string, seed json.RawMessage) *Hub {
	return &Hub{
		docs:    docs,
		ach:     ach,
		key:     documentKey,
		seed:    seed,
		clients: make(map[*client]struct{}),
		connectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "portfolio_sync_clients",
			Help: "Currently connected live-sync clients.",
		}),
		snapshotsPushed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_sync_snapshots_total",
			Help: "Snapshots broadcast to live-sync clients.",
		}),
	}
}

// Register adds the hub's metrics to a Prometheus registry.
func (h *Hub) Register(reg prometheus.Registerer) {
	reg.MustRegister(h.connectedClients, h.snapshotsPushed)
}

// Start opens the document subscription and the achievements watch. When
// the first snapshot reports an absent document the hub seeds the store;
// no placeholder is published, viewers stay in a loading state until the
// seeded snapshot comes back through the subscription.
func (h *Hub) Start(ctx context.Context) error {
	unsubscribeDoc, err := h.docs.Subscribe(ctx, h.key, func(snap store.Snapshot) {
		if !snap.Exists {
			go h.initialize(ctx)
			return
		}
		h.mu.Lock()
		h.snapshot = snap.Data
		h.mu.Unlock()
		h.broadcast(MessageDocument, snap.Data)
	}, func(err error) {
		// One-shot subscription: log the failure, no retry.
		log.Printf("livesync: subscription error: %v", err)
	})
	if err != nil {
		return fmt.Errorf("livesync: subscribe: %w", err)
	}
	h.unsubscribeDoc = unsubscribeDoc

	unsubscribeAch, err := h.ach.Watch(ctx, func() {
		h.broadcastAchievements(ctx)
	}, func(err error) {
		log.Printf("livesync: achievements watch error: %v", err)
	})
	if err != nil {
		unsubscribeDoc()
		return fmt.Errorf("livesync: watch achievements: %w", err)
	}
	h.unsubscribeAch = unsubscribeAch
	return nil
}

func (h *Hub) Stop() {
	if h.unsubscribeDoc != nil {
		h.unsubscribeDoc()
	}
	if h.unsubscribeAch != nil {
		h.unsubscribeAch()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.conn.Close()
		delete(h.clients, c)
	}
	h.connectedClients.Set(0)
}

func (h *Hub) initialize(ctx context.Context) {
	created, err := h.docs.InitializeIfAbsent(ctx, h.key, h.seed)
	if err != nil {
		log.Printf("livesync: initialize document: %v", err)
		return
	}
	if created {
		log.Printf("livesync: seeded document %s", h.key)
	}
}

// Snapshot returns the last confirmed document, or false while loading.
func (h *Hub) Snapshot() (json.RawMessage, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.snapshot == nil {
		return nil, false
	}
	return h.snapshot, true
}

// ServeWS upgrades the request and streams snapshots to the viewer. The
// current document and achievement list are pushed immediately so late
// joiners do not wait for the next change.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("livesync: upgrade: %v", err)
		return
	}
	c := &client{conn: conn}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	snapshot := h.snapshot
	h.mu.Unlock()
	h.connectedClients.Inc()

	if snapshot != nil {
		if data, err := json.Marshal(Message{Type: MessageDocument, Data: snapshot}); err == nil {
			_ = c.write(data)
		}
	}
	h.pushAchievements(r.Context(), c)

	// Reader loop: the client sends nothing meaningful, this just
	// detects disconnects.
	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, c)
			h.mu.Unlock()
			h.connectedClients.Dec()
			_ = conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) broadcast(messageType string, payload json.RawMessage) {
	data, err := json.Marshal(Message{Type: messageType, Data: payload})
	if err != nil {
		log.Printf("livesync: encode broadcast: %v", err)
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			log.Printf("livesync: write: %v", err)
		}
	}
	h.snapshotsPushed.Inc()
}

func (h *Hub) broadcastAchievements(ctx context.Context) {
	payload, err := h.achievementsPayload(ctx)
	if err != nil {
		log.Printf("livesync: list achievements: %v", err)
		return
	}
	h.broadcast(MessageAchievements, payload)
}

func (h *Hub) pushAchievements(ctx context.Context, c *client) {
	payload, err := h.achievementsPayload(ctx)
	if err != nil {
		log.Printf("livesync: list achievements: %v", err)
		return
	}
	if data, err := json.Marshal(Message{Type: MessageAchievements, Data: payload}); err == nil {
		_ = c.write(data)
	}
}

func (h *Hub) achievementsPayload(ctx context.Context) (json.RawMessage, error) {
	achievements, err := h.ach.List(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(achievements)
}
