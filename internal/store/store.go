// Package store persists the shared portfolio document and the
// community-achievement collection, and pushes change notifications to
// subscribers. Two backends exist: Postgres+Redis for deployments with a
// remote store, and a file-backed fallback for local runs.
package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/falzahrani7002-debug/gggpro/internal/document"
)

var ErrNotFound = errors.New("store: not found")

// Snapshot is the full document as delivered by one subscription push.
// Exists is false on the first push when the document has never been
// created; consumers treat that as a loading state and seed the store.
type Snapshot struct {
	Key    string
	Data   json.RawMessage
	Exists bool
}

// DocumentStore owns the portfolio aggregate. Writes are whole-field
// replacements; there are no internal retries, errors surface to the
// caller as failed operations.
type DocumentStore interface {
	// Load returns the current document bytes, or ErrNotFound.
	Load(ctx context.Context, key string) (json.RawMessage, error)

	// InitializeIfAbsent creates the document with seed content when no
	// document exists at key. Racing initializers are tolerated: both
	// write identical bytes, so last write wins without corruption.
	// Returns true when this call created the document.
	InitializeIfAbsent(ctx context.Context, key string, seed json.RawMessage) (bool, error)

	// ApplyFieldUpdate persists a single dotted-path field replacement.
	ApplyFieldUpdate(ctx context.Context, key, path string, value interface{}) error

	// ReplaceField is ApplyFieldUpdate with a pre-encoded payload, used
	// for whole-collection replacement.
	ReplaceField(ctx context.Context, key, path string, raw json.RawMessage) error

	// Subscribe opens a standing subscription for key. onSnapshot fires
	// with the full current document on every remote change, including
	// once immediately with current state. onError fires on transport
	// failure; the subscription does not recover on its own. The
	// returned func releases the subscription.
	Subscribe(ctx context.Context, key string, onSnapshot func(Snapshot), onError func(error)) (func(), error)
}

// AchievementStore holds the guestbook collection, which lives outside
// the portfolio aggregate: records are top-level documents appended by
// the public and deleted individually.
type AchievementStore interface {
	// List returns all achievements ordered by descending timestamp.
	List(ctx context.Context) ([]document.CommunityAchievement, error)
	Add(ctx context.Context, a document.CommunityAchievement) error
	Delete(ctx context.Context, id string) error

	// Watch fires onChange after every add or delete. Same one-shot
	// error semantics as DocumentStore.Subscribe.
	Watch(ctx context.Context, onChange func(), onError func(error)) (func(), error)
}
