// Package editor implements the click-to-edit behavior behind every
// scalar field as an explicit state machine: Viewing → Editing →
// Saving → Viewing. Events are Click, Input, Blur, Enter and Escape.
// The save callback fires only when the committed value differs from the
// original; a failed save leaves the field in Editing so the user can
// retry or escape out.
package editor

import "errors"

type FieldState int

const (
	StateViewing FieldState = iota
	StateEditing
	StateSaving
)

func (s FieldState) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	default:
		return "unknown"
	}
}

var ErrNotEditing = errors.New("editor: field is not being edited")

// SaveFunc persists the new value, typically routing into a dotted-path
// field update or a collection update-by-id.
type SaveFunc func(value string) error

// Field is one editable field's state machine. Not safe for concurrent
// use; each field belongs to a single editing session.
type Field struct {
	state     FieldState
	original  string
	input     string
	multiline bool
	canEdit   func() bool
	save      SaveFunc
}

// NewField wires a field to its current value and save callback. canEdit
// gates the whole machine: while it reports false the field never leaves
// Viewing, which is how edit affordances stay unreachable for anyone who
// is not an admin in edit mode.
func NewField(value string, multiline bool, canEdit func() bool, save SaveFunc) *Field {
	if canEdit == nil {
		canEdit = func() bool { return false }
	}
	return &Field{
		state:     StateViewing,
		original:  value,
		input:     value,
		multiline: multiline,
		canEdit:   canEdit,
		save:      save,
	}
}

func (f *Field) State() FieldState { return f.state }

// Value returns what should currently be rendered.
func (f *Field) Value() string {
	if f.state == StateViewing {
		return f.original
	}
	return f.input
}

// Click switches a viewable field into editing, seeded with the current
// value. No-op unless editing is permitted.
func (f *Field) Click() {
	if f.state != StateViewing || !f.canEdit() {
		return
	}
	f.input = f.original
	f.state = StateEditing
}

// Input replaces the in-progress value.
func (f *Field) Input(value string) error {
	if f.state != StateEditing {
		return ErrNotEditing
	}
	f.input = value
	return nil
}

// Blur commits the edit. Returns true when a save was actually performed.
func (f *Field) Blur() (bool, error) {
	return f.commit()
}

// Enter commits single-line fields; multi-line fields treat Enter as a
// plain newline and stay in editing.
func (f *Field) Enter() (bool, error) {
	if f.multiline {
		return false, nil
	}
	return f.commit()
}

// Escape abandons the edit and restores the original value.
func (f *Field) Escape() {
	if f.state != StateEditing {
		return
	}
	f.input = f.original
	f.state = StateViewing
}

func (f *Field) commit() (bool, error) {
	if f.state != StateEditing {
		return false, nil
	}
	if f.input == f.original {
		f.state = StateViewing
		return false, nil
	}
	f.state = StateSaving
	if err := f.save(f.input); err != nil {
		f.state = StateEditing
		return false, err
	}
	f.original = f.input
	f.state = StateViewing
	return true, nil
}
