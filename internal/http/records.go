package http

import (
	"encoding/json"
	"strings"

	"github.com/falzahrani7002-debug/gggpro/internal/document"
	"github.com/falzahrani7002-debug/gggpro/internal/mutate"
)

// buildRecord validates an incoming record for its collection and
// normalizes it: the server assigns the id, and for goals the containing
// collection is authoritative over the record's type discriminator.
// Returns the record to persist, or a stable error code.
func buildRecord(collection string, raw json.RawMessage, id string) (interface{}, string) {
	switch collection {
	case mutate.CollectionEducation:
		var record document.EducationItem
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, "invalid_request"
		}
		if empty(record.Degree) || empty(record.Institution) {
			return nil, "missing_fields"
		}
		record.ID = id
		return record, ""

	case mutate.CollectionSkills:
		var record document.Skill
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, "invalid_request"
		}
		if empty(record.Name) {
			return nil, "missing_fields"
		}
		if record.Level < 0 || record.Level > 100 {
			return nil, "invalid_level"
		}
		record.ID = id
		return record, ""

	case mutate.CollectionVolunteer:
		var record document.VolunteerWork
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, "invalid_request"
		}
		if empty(record.Organization) || empty(record.Role) {
			return nil, "missing_fields"
		}
		record.ID = id
		return record, ""

	case mutate.CollectionHobbies:
		var record document.Hobby
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, "invalid_request"
		}
		if empty(record.Name) {
			return nil, "missing_fields"
		}
		record.ID = id
		return record, ""

	case mutate.CollectionShortGoals, mutate.CollectionLongGoals:
		var record document.Goal
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, "invalid_request"
		}
		if empty(record.Text) {
			return nil, "missing_fields"
		}
		record.ID = id
		record.Type = document.GoalShortTerm
		if collection == mutate.CollectionLongGoals {
			record.Type = document.GoalLongTerm
		}
		return record, ""

	case mutate.CollectionGallery:
		var record document.GalleryItem
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, "invalid_request"
		}
		if empty(record.Title) || empty(record.Description) {
			return nil, "missing_fields"
		}
		if !record.Type.Valid() {
			return nil, "invalid_type"
		}
		if strings.TrimSpace(record.URL) == "" {
			return nil, "missing_fields"
		}
		record.ID = id
		// Videos need a renderable preview; the primary URL may not be
		// usable as an image.
		if record.Type == document.GalleryVideo && record.ThumbnailURL == "" {
			record.ThumbnailURL = placeholderThumbnail()
		}
		return record, ""

	case mutate.CollectionEvaluation:
		var record document.Evaluation
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, "invalid_request"
		}
		if strings.TrimSpace(record.Author) == "" || empty(record.Comment) {
			return nil, "missing_fields"
		}
		record.ID = id
		return record, ""
	}
	return nil, "unknown_collection"
}

func empty(t document.Translatable) bool {
	return strings.TrimSpace(t.Ar) == "" && strings.TrimSpace(t.En) == ""
}
