package mutate

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/falzahrani7002-debug/gggpro/internal/docpath"
	"github.com/falzahrani7002-debug/gggpro/internal/store"
)

const baseCollection = `[
	{"id":"skill1","name":{"ar":"الحساب","en":"Math"},"level":90},
	{"id":"skill2","name":{"ar":"البرمجة","en":"Programming"},"level":75},
	{"id":"skill3","name":{"ar":"القراءة","en":"Reading"},"level":60}
]`

func compact(t *testing.T, raw []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		t.Fatalf("compact: %v", err)
	}
	return buf.Bytes()
}

func TestAddThenDeleteRoundTrip(t *testing.T) {
	record := []byte(`{"id":"skill9","name":{"ar":"جديد","en":"New"},"level":50}`)
	added := appendItem(compact(t, []byte(baseCollection)), record)
	removed, ok := removeByID(added, "skill9")
	if !ok {
		t.Fatalf("expected delete to find the added record")
	}
	if !bytes.Equal(removed, compact(t, []byte(baseCollection))) {
		t.Fatalf("expected add-then-delete to restore collection:\n%s\nvs\n%s", removed, baseCollection)
	}
}

func TestUpdateTouchesOnlyMatchingRecord(t *testing.T) {
	replacement := []byte(`{"id":"skill2","name":{"ar":"البرمجة","en":"Programming"},"level":99}`)
	updated, matched := replaceByID(compact(t, []byte(baseCollection)), "skill2", replacement)
	if !matched {
		t.Fatalf("expected update to match skill2")
	}
	items := gjson.ParseBytes(updated).Array()
	if len(items) != 3 {
		t.Fatalf("expected 3 records, got %d", len(items))
	}
	if items[1].Get("level").Int() != 99 {
		t.Fatalf("expected skill2 level updated, got %d", items[1].Get("level").Int())
	}
	original := gjson.ParseBytes(compact(t, []byte(baseCollection))).Array()
	if items[0].Raw != original[0].Raw || items[2].Raw != original[2].Raw {
		t.Fatalf("expected untouched records to be identical")
	}
}

func TestUpdateNoMatchPersistsUnchanged(t *testing.T) {
	base := compact(t, []byte(baseCollection))
	updated, matched := replaceByID(base, "missing", []byte(`{"id":"missing"}`))
	if matched {
		t.Fatalf("expected no match")
	}
	if !bytes.Equal(updated, base) {
		t.Fatalf("expected sequence unchanged on no-match update")
	}
}

func TestDeletePreservesOrder(t *testing.T) {
	removed, ok := removeByID(compact(t, []byte(baseCollection)), "skill2")
	if !ok {
		t.Fatalf("expected delete to match")
	}
	items := gjson.ParseBytes(removed).Array()
	if len(items) != 2 {
		t.Fatalf("expected 2 records, got %d", len(items))
	}
	if items[0].Get("id").String() != "skill1" || items[1].Get("id").String() != "skill3" {
		t.Fatalf("expected order preserved, got %s, %s", items[0].Get("id").String(), items[1].Get("id").String())
	}
}

func TestDeleteToEmpty(t *testing.T) {
	removed, ok := removeByID([]byte(`[{"id":"only"}]`), "only")
	if !ok {
		t.Fatalf("expected delete to match")
	}
	if string(removed) != "[]" {
		t.Fatalf("expected empty sequence, got %s", removed)
	}
}

func TestNewIDUniqueAndPrefixed(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID(CollectionGallery)
		if !strings.HasPrefix(id, "gal-") {
			t.Fatalf("expected gal- prefix, got %s", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestMutatorAgainstStore(t *testing.T) {
	fileStore, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()
	seed := `{"skills":[],"goals":{"shortTerm":[],"longTerm":[]}}`
	if _, err := fileStore.InitializeIfAbsent(ctx, "portfolio", json.RawMessage(seed)); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	m := New(fileStore, "portfolio")

	record := map[string]interface{}{
		"id":   NewID(CollectionShortGoals),
		"text": map[string]string{"ar": "هدف", "en": "Goal"},
		"type": "short",
	}
	if err := m.AddItem(ctx, CollectionShortGoals, record); err != nil {
		t.Fatalf("add: %v", err)
	}

	doc, err := fileStore.Load(ctx, "portfolio")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	result, ok := docpath.Get(doc, "goals.shortTerm")
	if !ok || len(result.Array()) != 1 {
		t.Fatalf("expected one short-term goal, got %v", result.Raw)
	}
	if longTerm, _ := docpath.Get(doc, "goals.longTerm"); len(longTerm.Array()) != 0 {
		t.Fatalf("expected long-term goals untouched")
	}

	id := record["id"].(string)
	raw, found, err := m.Lookup(ctx, CollectionShortGoals, id)
	if err != nil || !found {
		t.Fatalf("lookup: found=%v err=%v", found, err)
	}
	if gjson.GetBytes(raw, "text.ar").String() != "هدف" {
		t.Fatalf("unexpected record %s", raw)
	}

	if err := m.DeleteItem(ctx, CollectionShortGoals, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	doc, _ = fileStore.Load(ctx, "portfolio")
	if result, _ := docpath.Get(doc, "goals.shortTerm"); len(result.Array()) != 0 {
		t.Fatalf("expected empty collection after delete")
	}
}
