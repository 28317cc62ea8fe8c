package session

import (
	"testing"
	"time"

	"github.com/falzahrani7002-debug/gggpro/internal/document"
)

func newTestManager() *Manager {
	return NewManager("correct-password", "test-jwt-secret", "test-issuer", time.Hour)
}

func TestLoginSuccess(t *testing.T) {
	m := newTestManager()
	token, err := m.Login("correct-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	state, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !state.IsAdmin {
		t.Fatalf("expected admin after login")
	}
	if state.IsEditing {
		t.Fatalf("expected edit mode off after login")
	}
	if state.Language != document.LanguageArabic {
		t.Fatalf("expected default language ar, got %s", state.Language)
	}
}

func TestRepeatedWrongPasswordNoLockout(t *testing.T) {
	m := newTestManager()
	for i := 0; i < 3; i++ {
		if _, err := m.Login("wrong"); err != ErrInvalidPassword {
			t.Fatalf("attempt %d: expected ErrInvalidPassword, got %v", i+1, err)
		}
	}
	// Still no throttling: the correct password works immediately.
	if _, err := m.Login("correct-password"); err != nil {
		t.Fatalf("expected login to succeed after failed attempts: %v", err)
	}
}

func TestEditingToggle(t *testing.T) {
	m := newTestManager()
	token, err := m.Login("correct-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	state, err := m.SetEditing(token, true)
	if err != nil {
		t.Fatalf("set editing: %v", err)
	}
	if !state.IsEditing {
		t.Fatalf("expected editing on")
	}
	state, err = m.SetEditing(token, false)
	if err != nil || state.IsEditing {
		t.Fatalf("expected editing off, err=%v", err)
	}
}

func TestLogoutClearsEditMode(t *testing.T) {
	m := newTestManager()
	token, err := m.Login("correct-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := m.SetEditing(token, true); err != nil {
		t.Fatalf("set editing: %v", err)
	}
	m.Logout(token)
	if _, err := m.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected invalid token after logout, got %v", err)
	}
}

func TestSetLanguage(t *testing.T) {
	m := newTestManager()
	token, err := m.Login("correct-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	state, err := m.SetLanguage(token, document.LanguageEnglish)
	if err != nil {
		t.Fatalf("set language: %v", err)
	}
	if state.Language != document.LanguageEnglish {
		t.Fatalf("expected en, got %s", state.Language)
	}
	if state.Language.Direction() != "ltr" {
		t.Fatalf("expected ltr for en")
	}
	if document.LanguageArabic.Direction() != "rtl" {
		t.Fatalf("expected rtl for ar")
	}
	if _, err := m.SetLanguage(token, "fr"); err != ErrInvalidLanguage {
		t.Fatalf("expected ErrInvalidLanguage, got %v", err)
	}
}

func TestVerifyRejectsForgedToken(t *testing.T) {
	m := newTestManager()
	other := NewManager("correct-password", "other-secret", "test-issuer", time.Hour)
	token, err := other.Login("correct-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := m.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected token signed with other secret to be rejected, got %v", err)
	}
}
