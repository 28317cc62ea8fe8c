// Package session tracks admin authentication, the edit-mode toggle and
// the active display language for each connected editor. Admin access is
// a single shared secret; there is no lockout or throttling, and a failed
// attempt simply stays logged out.
package session

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/falzahrani7002-debug/gggpro/internal/document"
)

var (
	ErrInvalidPassword = errors.New("session: invalid password")
	ErrInvalidToken    = errors.New("session: invalid token")
	ErrNotAdmin        = errors.New("session: not admin")
	ErrInvalidLanguage = errors.New("session: invalid language")
)

type Claims struct {
	jwt.RegisteredClaims
}

// State is one editor's process-lifetime flags. IsEditing is only
// meaningful while IsAdmin holds; clearing admin always clears editing.
type State struct {
	IsAdmin   bool
	IsEditing bool
	Language  document.Language
}

type Manager struct {
	adminPassword string
	jwtSecret     string
	issuer        string
	ttl           time.Duration

	mu       sync.Mutex
	sessions map[string]*State
}

func NewManager(adminPassword, jwtSecret, issuer string, ttl time.Duration) *Manager {
	return &Manager{
		adminPassword: adminPassword,
		jwtSecret:     jwtSecret,
		issuer:        issuer,
		ttl:           ttl,
		sessions:      make(map[string]*State),
	}
}

// Login compares the submitted password against the shared secret and,
// on success, mints an admin token with a fresh session. The comparison
// is constant-time; everything else about the scheme stays deliberately
// simple.
func (m *Manager) Login(password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(m.adminPassword)) != 1 {
		return "", ErrInvalidPassword
	}

	sessionID := uuid.NewString()
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   "admin",
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.jwtSecret))
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.sessions[sessionID] = &State{IsAdmin: true, Language: document.LanguageArabic}
	m.mu.Unlock()
	return token, nil
}

// Logout drops the session. Revoking admin forces edit mode off with it.
func (m *Manager) Logout(token string) {
	sessionID, err := m.parse(token)
	if err != nil {
		return
	}
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}

// Verify resolves a token to its session state.
func (m *Manager) Verify(token string) (State, error) {
	sessionID, err := m.parse(token)
	if err != nil {
		return State{}, ErrInvalidToken
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.sessions[sessionID]
	if !ok {
		return State{}, ErrInvalidToken
	}
	return *state, nil
}

// SetEditing toggles edit mode for an admin session.
func (m *Manager) SetEditing(token string, editing bool) (State, error) {
	return m.update(token, func(state *State) error {
		if !state.IsAdmin {
			return ErrNotAdmin
		}
		state.IsEditing = editing
		return nil
	})
}

// SetLanguage switches the session's display language.
func (m *Manager) SetLanguage(token string, lang document.Language) (State, error) {
	if !lang.Valid() {
		return State{}, ErrInvalidLanguage
	}
	return m.update(token, func(state *State) error {
		state.Language = lang
		return nil
	})
}

func (m *Manager) update(token string, fn func(*State) error) (State, error) {
	sessionID, err := m.parse(token)
	if err != nil {
		return State{}, ErrInvalidToken
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.sessions[sessionID]
	if !ok {
		return State{}, ErrInvalidToken
	}
	if err := fn(state); err != nil {
		return State{}, err
	}
	return *state, nil
}

func (m *Manager) parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(m.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(m.issuer))
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	return claims.ID, nil
}
