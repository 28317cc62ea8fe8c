// Package mutate implements add, update-by-id and delete-by-id over the
// named sub-collections of the portfolio document. Every operation is
// expressed as a whole-collection replacement: the current snapshot's
// sequence is rewritten in memory and persisted back to its dotted path
// in one field update. Two admins editing the same collection
// concurrently therefore race last-write-wins; the loser's concurrent
// addition is silently dropped. This is a known limitation of the
// replacement strategy, not something callers should try to patch over
// with optimistic local state.
package mutate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/falzahrani7002-debug/gggpro/internal/store"
)

// Collection keys addressable by the mutator. The goals lists are two
// distinct collections; the caller always names one explicitly, the
// record's own type discriminator is never used for dispatch.
const (
	CollectionEducation  = "education"
	CollectionSkills     = "skills"
	CollectionVolunteer  = "volunteerWork"
	CollectionHobbies    = "hobbies"
	CollectionShortGoals = "goals.shortTerm"
	CollectionLongGoals  = "goals.longTerm"
	CollectionGallery    = "gallery"
	CollectionEvaluation = "evaluations"
)

var kindPrefixes = map[string]string{
	CollectionEducation:  "edu",
	CollectionSkills:     "skill",
	CollectionVolunteer:  "vol",
	CollectionHobbies:    "hob",
	CollectionShortGoals: "stg",
	CollectionLongGoals:  "ltg",
	CollectionGallery:    "gal",
	CollectionEvaluation: "eval",
}

// KnownCollection reports whether key names a mutable sub-collection.
func KnownCollection(key string) bool {
	_, ok := kindPrefixes[key]
	return ok
}

// NewID builds a record identifier for a collection. The random UUID
// component makes ids collision-safe under rapid successive creates,
// which timestamp-only ids were not.
func NewID(collection string) string {
	prefix, ok := kindPrefixes[collection]
	if !ok {
		prefix = "item"
	}
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}

// Mutator translates record operations into field replacements against
// the document store.
type Mutator struct {
	store store.DocumentStore
	key   string
}

func New(docStore store.DocumentStore, documentKey string) *Mutator {
	return &Mutator{store: docStore, key: documentKey}
}

// AddItem appends record to the collection and persists the resulting
// sequence. The record must carry a pre-populated unique id.
func (m *Mutator) AddItem(ctx context.Context, collection string, record interface{}) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("mutate: encode record: %w", err)
	}
	doc, err := m.store.Load(ctx, m.key)
	if err != nil {
		return err
	}
	updated := appendItem(collectionArray(doc, collection), raw)
	return m.store.ReplaceField(ctx, m.key, collection, updated)
}

// UpdateItem replaces the record whose id matches and persists the full
// sequence. When no id matches the sequence is persisted unchanged.
func (m *Mutator) UpdateItem(ctx context.Context, collection, id string, record interface{}) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("mutate: encode record: %w", err)
	}
	doc, err := m.store.Load(ctx, m.key)
	if err != nil {
		return err
	}
	updated, matched := replaceByID(collectionArray(doc, collection), id, raw)
	if !matched {
		log.Printf("mutate: update %s/%s matched no record", collection, id)
	}
	return m.store.ReplaceField(ctx, m.key, collection, updated)
}

// DeleteItem filters out the record whose id matches and persists the
// possibly empty result.
func (m *Mutator) DeleteItem(ctx context.Context, collection, id string) error {
	doc, err := m.store.Load(ctx, m.key)
	if err != nil {
		return err
	}
	updated, _ := removeByID(collectionArray(doc, collection), id)
	return m.store.ReplaceField(ctx, m.key, collection, updated)
}

// Lookup returns the raw record with the given id, or false.
func (m *Mutator) Lookup(ctx context.Context, collection, id string) (json.RawMessage, bool, error) {
	doc, err := m.store.Load(ctx, m.key)
	if err != nil {
		return nil, false, err
	}
	for _, item := range gjson.ParseBytes(collectionArray(doc, collection)).Array() {
		if item.Get("id").String() == id {
			return json.RawMessage(item.Raw), true, nil
		}
	}
	return nil, false, nil
}

func collectionArray(doc []byte, collection string) []byte {
	result := gjson.GetBytes(doc, collection)
	if !result.Exists() || !result.IsArray() {
		return []byte("[]")
	}
	return []byte(result.Raw)
}

func appendItem(array, item []byte) []byte {
	items := rawItems(array)
	items = append(items, item)
	return joinItems(items)
}

func replaceByID(array []byte, id string, item []byte) ([]byte, bool) {
	items := rawItems(array)
	matched := false
	for i, existing := range items {
		if gjson.GetBytes(existing, "id").String() == id {
			items[i] = item
			matched = true
		}
	}
	return joinItems(items), matched
}

func removeByID(array []byte, id string) ([]byte, bool) {
	items := rawItems(array)
	kept := items[:0]
	removed := false
	for _, existing := range items {
		if gjson.GetBytes(existing, "id").String() == id {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	return joinItems(kept), removed
}

func rawItems(array []byte) [][]byte {
	parsed := gjson.ParseBytes(array).Array()
	items := make([][]byte, 0, len(parsed))
	for _, item := range parsed {
		items = append(items, []byte(item.Raw))
	}
	return items
}

func joinItems(items [][]byte) []byte {
	out := []byte("[")
	for i, item := range items {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, item...)
	}
	return append(out, ']')
}
