package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tidwall/gjson"

	"github.com/falzahrani7002-debug/gggpro/internal/blob"
	"github.com/falzahrani7002-debug/gggpro/internal/config"
	"github.com/falzahrani7002-debug/gggpro/internal/docpath"
	"github.com/falzahrani7002-debug/gggpro/internal/document"
	"github.com/falzahrani7002-debug/gggpro/internal/livesync"
	"github.com/falzahrani7002-debug/gggpro/internal/mutate"
	"github.com/falzahrani7002-debug/gggpro/internal/session"
	"github.com/falzahrani7002-debug/gggpro/internal/store"
)

const maxUploadBytes = 32 << 20

type Server struct {
	cfg      config.Config
	docs     store.DocumentStore
	ach      store.AchievementStore
	mutator  *mutate.Mutator
	sessions *session.Manager
	blobs    blob.Store
	hub      *livesync.Hub
}

func NewServer(cfg config.Config, docs store.DocumentStore, ach store.AchievementStore, sessions *session.Manager, blobs blob.Store, hub *livesync.Hub) *Server {
	return &Server{
		cfg:      cfg,
		docs:     docs,
		ach:      ach,
		mutator:  mutate.New(docs, cfg.DocumentKey),
		sessions: sessions,
		blobs:    blobs,
		hub:      hub,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", s.hub.ServeWS)
	r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(s.cfg.MediaDir))))

	r.Post("/auth/login", s.handleLogin)
	r.With(s.authMiddleware).Post("/auth/logout", s.handleLogout)
	r.With(s.authMiddleware).Get("/session", s.handleGetSession)
	r.With(s.authMiddleware).Put("/session/editing", s.handleSetEditing)
	r.With(s.authMiddleware).Put("/session/language", s.handleSetLanguage)

	r.Get("/portfolio", s.handleGetPortfolio)
	r.Get("/gallery", s.handleListGallery)
	r.With(s.authMiddleware, s.editModeMiddleware).Patch("/portfolio/field", s.handlePatchField)
	r.With(s.authMiddleware, s.editModeMiddleware).Post("/gallery/upload", s.handleUpload)
	r.With(s.authMiddleware, s.editModeMiddleware).Post("/portfolio/{collection}", s.handleAddItem)
	r.With(s.authMiddleware, s.editModeMiddleware).Put("/portfolio/{collection}/{itemId}", s.handleUpdateItem)
	r.With(s.authMiddleware, s.editModeMiddleware).Delete("/portfolio/{collection}/{itemId}", s.handleDeleteItem)

	// Public write entry points: peer evaluations and the guestbook.
	r.Post("/evaluations", s.handleSubmitEvaluation)
	r.Get("/community", s.handleListAchievements)
	r.Post("/community", s.handleSubmitAchievement)
	r.With(s.authMiddleware, s.editModeMiddleware).Delete("/community/{achievementId}", s.handleDeleteAchievement)

	return r
}

// Auth

type sessionKey struct{}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}
		state, err := s.sessions.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, sessionInfo{token: token, state: state})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// editModeMiddleware gates every mutation entry point: the caller must be
// an authenticated admin with edit mode switched on.
func (s *Server) editModeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := sessionFromContext(r.Context())
		if !ok || !info.state.IsAdmin || !info.state.IsEditing {
			writeError(w, http.StatusForbidden, "edit_mode_required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type sessionInfo struct {
	token string
	state session.State
}

func sessionFromContext(ctx context.Context) (sessionInfo, bool) {
	info, ok := ctx.Value(sessionKey{}).(sessionInfo)
	return info, ok
}

func bearerToken(header string) string {
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// Models

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type sessionResponse struct {
	IsAdmin   bool   `json:"isAdmin"`
	IsEditing bool   `json:"isEditing"`
	Language  string `json:"language"`
	Direction string `json:"direction"`
}

type setEditingRequest struct {
	Editing bool `json:"editing"`
}

type setLanguageRequest struct {
	Language string `json:"language"`
}

type patchFieldRequest struct {
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

type achievementRequest struct {
	Name        string `json:"name"`
	Achievement string `json:"achievement"`
}

type evaluationRequest struct {
	Author  string                `json:"author"`
	Role    document.Translatable `json:"role"`
	Comment document.Translatable `json:"comment"`
}

// Session handlers

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	token, err := s.sessions.Login(req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_password")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	info, _ := sessionFromContext(r.Context())
	s.sessions.Logout(info.token)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	info, _ := sessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, sessionResponseFrom(info.state))
}

func (s *Server) handleSetEditing(w http.ResponseWriter, r *http.Request) {
	info, _ := sessionFromContext(r.Context())
	var req setEditingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	state, err := s.sessions.SetEditing(info.token, req.Editing)
	if err != nil {
		if errors.Is(err, session.ErrNotAdmin) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		writeError(w, http.StatusUnauthorized, "invalid_token")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponseFrom(state))
}

func (s *Server) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	info, _ := sessionFromContext(r.Context())
	var req setLanguageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	state, err := s.sessions.SetLanguage(info.token, document.Language(req.Language))
	if err != nil {
		if errors.Is(err, session.ErrInvalidLanguage) {
			writeError(w, http.StatusBadRequest, "invalid_language")
			return
		}
		writeError(w, http.StatusUnauthorized, "invalid_token")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponseFrom(state))
}

func sessionResponseFrom(state session.State) sessionResponse {
	return sessionResponse{
		IsAdmin:   state.IsAdmin,
		IsEditing: state.IsEditing,
		Language:  string(state.Language),
		Direction: state.Language.Direction(),
	}
}

// Document handlers

func (s *Server) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := s.hub.Snapshot()
	if !ok {
		// Document not seeded yet; clients treat this as loading.
		data, err := s.docs.Load(r.Context(), s.cfg.DocumentKey)
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, "not_ready")
			return
		}
		snapshot = data
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(snapshot)
}

func (s *Server) handlePatchField(w http.ResponseWriter, r *http.Request) {
	var req patchFieldRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Path == "" || len(req.Value) == 0 {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}
	doc, err := s.docs.Load(r.Context(), s.cfg.DocumentKey)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if _, ok := docpath.Get(doc, req.Path); !ok {
		writeError(w, http.StatusBadRequest, "unknown_path")
		return
	}
	if err := s.docs.ReplaceField(r.Context(), s.cfg.DocumentKey, req.Path, json.RawMessage(req.Value)); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Collection handlers

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	if !mutate.KnownCollection(collection) {
		writeError(w, http.StatusNotFound, "unknown_collection")
		return
	}
	var raw json.RawMessage
	if err := decodeJSON(r, &raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	record, errCode := buildRecord(collection, raw, mutate.NewID(collection))
	if errCode != "" {
		writeError(w, http.StatusBadRequest, errCode)
		return
	}
	if err := s.mutator.AddItem(r.Context(), collection, record); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	itemID := chi.URLParam(r, "itemId")
	if !mutate.KnownCollection(collection) {
		writeError(w, http.StatusNotFound, "unknown_collection")
		return
	}
	var raw json.RawMessage
	if err := decodeJSON(r, &raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	record, errCode := buildRecord(collection, raw, itemID)
	if errCode != "" {
		writeError(w, http.StatusBadRequest, errCode)
		return
	}
	if err := s.mutator.UpdateItem(r.Context(), collection, itemID, record); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	itemID := chi.URLParam(r, "itemId")
	if !mutate.KnownCollection(collection) {
		writeError(w, http.StatusNotFound, "unknown_collection")
		return
	}
	if collection == mutate.CollectionGallery {
		s.deleteGalleryBlob(r.Context(), itemID)
	}
	if err := s.mutator.DeleteItem(r.Context(), collection, itemID); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// deleteGalleryBlob removes the stored binary behind a gallery item when
// its URL belongs to the configured object store. At most once: failure
// is logged and never blocks removal of the record itself.
func (s *Server) deleteGalleryBlob(ctx context.Context, itemID string) {
	record, found, err := s.mutator.Lookup(ctx, mutate.CollectionGallery, itemID)
	if err != nil || !found {
		return
	}
	url := gjson.GetBytes(record, "url").String()
	if url == "" || !s.blobs.Owns(url) {
		return
	}
	if err := s.blobs.Delete(ctx, url); err != nil {
		log.Printf("gallery: blob delete for %s failed: %v", itemID, err)
	}
}

// Gallery

func (s *Server) handleListGallery(w http.ResponseWriter, r *http.Request) {
	doc, err := s.docs.Load(r.Context(), s.cfg.DocumentKey)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	var items []document.GalleryItem
	if result, ok := docpath.Get(doc, "gallery"); ok {
		if err := json.Unmarshal([]byte(result.Raw), &items); err != nil {
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}
	}

	typeFilter := r.URL.Query().Get("type")
	yearFilter := r.URL.Query().Get("year")
	filtered := filterGallery(items, typeFilter, yearFilter)
	writeJSON(w, http.StatusOK, filtered)
}

// filterGallery keeps items matching both filters; "all" or empty
// matches everything.
func filterGallery(items []document.GalleryItem, typeFilter, yearFilter string) []document.GalleryItem {
	filtered := []document.GalleryItem{}
	for _, item := range items {
		if typeFilter != "" && typeFilter != "all" && string(item.Type) != typeFilter {
			continue
		}
		if yearFilter != "" && yearFilter != "all" {
			year, err := strconv.Atoi(yearFilter)
			if err != nil || item.Year != year {
				continue
			}
		}
		filtered = append(filtered, item)
	}
	return filtered
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing_file")
		return
	}
	defer file.Close()

	url, err := s.blobs.Upload(r.Context(), header.Filename, file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "upload_failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

// Evaluations

func (s *Server) handleSubmitEvaluation(w http.ResponseWriter, r *http.Request) {
	var req evaluationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if strings.TrimSpace(req.Author) == "" || (req.Comment.Ar == "" && req.Comment.En == "") {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}
	record := document.Evaluation{
		ID:      mutate.NewID(mutate.CollectionEvaluation),
		Author:  strings.TrimSpace(req.Author),
		Role:    req.Role,
		Comment: req.Comment,
	}
	if err := s.mutator.AddItem(r.Context(), mutate.CollectionEvaluation, record); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// Community achievements

func (s *Server) handleListAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := s.ach.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, achievements)
}

func (s *Server) handleSubmitAchievement(w http.ResponseWriter, r *http.Request) {
	var req achievementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Achievement) == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}
	record := document.CommunityAchievement{
		ID:          "ach-" + uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Achievement: strings.TrimSpace(req.Achievement),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.ach.Add(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleDeleteAchievement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "achievementId")
	if err := s.ach.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Helpers

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	log.Printf("http: store error: %v", err)
	writeError(w, http.StatusInternalServerError, "server_error")
}

func placeholderThumbnail() string {
	return fmt.Sprintf("https://picsum.photos/seed/video-%s/800/600", uuid.NewString()[:8])
}
