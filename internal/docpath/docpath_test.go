package docpath

import (
	"encoding/json"
	"testing"
)

const sampleDoc = `{
	"studentInfo": {"name": "فيصل", "grade": {"ar": "الأول", "en": "First"}},
	"skills": [
		{"id": "skill1", "name": {"ar": "الحساب", "en": "Math"}, "level": 90},
		{"id": "skill2", "name": {"ar": "البرمجة", "en": "Programming"}, "level": 75}
	],
	"goals": {"shortTerm": [{"id": "stg1", "text": {"ar": "هدف", "en": "Goal"}}], "longTerm": []}
}`

func TestWriteThenReadIdentity(t *testing.T) {
	cases := []struct {
		path  string
		value interface{}
	}{
		{"studentInfo.name", "فيصل فهد"},
		{"studentInfo.grade.en", "Second"},
		{"skills.1.level", float64(80)},
		{"goals.shortTerm.0.text.ar", "هدف جديد"},
	}
	for _, tc := range cases {
		updated, err := Set([]byte(sampleDoc), tc.path, tc.value)
		if err != nil {
			t.Fatalf("set %s: %v", tc.path, err)
		}
		result, ok := Get(updated, tc.path)
		if !ok {
			t.Fatalf("expected %s to exist after write", tc.path)
		}
		switch want := tc.value.(type) {
		case string:
			if result.String() != want {
				t.Fatalf("path %s: expected %q, got %q", tc.path, want, result.String())
			}
		case float64:
			if result.Float() != want {
				t.Fatalf("path %s: expected %v, got %v", tc.path, want, result.Float())
			}
		}
	}
}

func TestWritePreservesSiblings(t *testing.T) {
	updated, err := Set([]byte(sampleDoc), "skills.0.level", 95)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := GetString(updated, "skills.1.name.en"); got != "Programming" {
		t.Fatalf("sibling record changed: got %q", got)
	}
	if got := GetString(updated, "studentInfo.name"); got != "فيصل" {
		t.Fatalf("unrelated field changed: got %q", got)
	}
}

func TestGetAbsentPath(t *testing.T) {
	for _, path := range []string{"studentInfo.photo", "skills.5.level", "goals.midTerm"} {
		if _, ok := Get([]byte(sampleDoc), path); ok {
			t.Fatalf("expected %s to be absent", path)
		}
	}
}

func TestSetRawReplacesCollection(t *testing.T) {
	replacement := `[{"id":"skill9","name":{"ar":"جديد","en":"New"},"level":50}]`
	updated, err := SetRaw([]byte(sampleDoc), "skills", []byte(replacement))
	if err != nil {
		t.Fatalf("set raw: %v", err)
	}
	result, ok := Get(updated, "skills")
	if !ok || !result.IsArray() {
		t.Fatalf("expected skills array after replacement")
	}
	if len(result.Array()) != 1 {
		t.Fatalf("expected 1 element, got %d", len(result.Array()))
	}
	if !json.Valid(updated) {
		t.Fatalf("replacement produced invalid JSON")
	}
}

func TestSetEmptyPath(t *testing.T) {
	if _, err := Set([]byte(sampleDoc), "", "x"); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
