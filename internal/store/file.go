package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/falzahrani7002-debug/gggpro/internal/docpath"
	"github.com/falzahrani7002-debug/gggpro/internal/document"
)

// FileStore is the local fallback used when no remote store is
// configured: each document is one JSON file on disk, read at startup and
// rewritten on every change. Change notification is in-process only.
type FileStore struct {
	dir string

	mu       sync.Mutex
	watchers map[int]chan string
	nextID   int
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create dir: %w", err)
	}
	return &FileStore{dir: dir, watchers: make(map[int]chan string)}, nil
}

func (s *FileStore) docPath(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) achievementsPath() string {
	return filepath.Join(s.dir, "community_achievements.json")
}

func (s *FileStore) Load(ctx context.Context, key string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(key)
}

func (s *FileStore) loadLocked(key string) (json.RawMessage, error) {
	data, err := os.ReadFile(s.docPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	return data, nil
}

func (s *FileStore) writeLocked(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: write: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("store: rename: %w", err)
	}
	return nil
}

func (s *FileStore) InitializeIfAbsent(ctx context.Context, key string, seed json.RawMessage) (bool, error) {
	s.mu.Lock()
	if _, err := s.loadLocked(key); err == nil {
		s.mu.Unlock()
		return false, nil
	} else if !errors.Is(err, ErrNotFound) {
		s.mu.Unlock()
		return false, err
	}
	if err := s.writeLocked(s.docPath(key), seed); err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.mu.Unlock()
	s.notify(key)
	return true, nil
}

func (s *FileStore) ApplyFieldUpdate(ctx context.Context, key, path string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode value for %s: %w", path, err)
	}
	return s.ReplaceField(ctx, key, path, raw)
}

func (s *FileStore) ReplaceField(ctx context.Context, key, path string, raw json.RawMessage) error {
	s.mu.Lock()
	data, err := s.loadLocked(key)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	updated, err := docpath.SetRaw(data, path, raw)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.writeLocked(s.docPath(key), updated); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	s.notify(key)
	return nil
}

func (s *FileStore) Subscribe(ctx context.Context, key string, onSnapshot func(Snapshot), onError func(error)) (func(), error) {
	events, cancel := s.watch()

	deliver := func() {
		data, err := s.Load(ctx, key)
		if errors.Is(err, ErrNotFound) {
			onSnapshot(Snapshot{Key: key, Exists: false})
			return
		}
		if err != nil {
			onError(err)
			return
		}
		onSnapshot(Snapshot{Key: key, Data: data, Exists: true})
	}

	go func() {
		deliver()
		for topic := range events {
			if topic == key {
				deliver()
			}
		}
	}()
	return cancel, nil
}

// Community achievements

func (s *FileStore) List(ctx context.Context) ([]document.CommunityAchievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked()
}

func (s *FileStore) listLocked() ([]document.CommunityAchievement, error) {
	data, err := os.ReadFile(s.achievementsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []document.CommunityAchievement{}, nil
		}
		return nil, fmt.Errorf("store: read achievements: %w", err)
	}
	var achievements []document.CommunityAchievement
	if err := json.Unmarshal(data, &achievements); err != nil {
		return nil, fmt.Errorf("store: decode achievements: %w", err)
	}
	sort.SliceStable(achievements, func(i, j int) bool {
		return achievements[i].CreatedAt.After(achievements[j].CreatedAt)
	})
	return achievements, nil
}

func (s *FileStore) saveAchievementsLocked(achievements []document.CommunityAchievement) error {
	data, err := json.Marshal(achievements)
	if err != nil {
		return fmt.Errorf("store: encode achievements: %w", err)
	}
	return s.writeLocked(s.achievementsPath(), data)
}

func (s *FileStore) Add(ctx context.Context, a document.CommunityAchievement) error {
	s.mu.Lock()
	achievements, err := s.listLocked()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	achievements = append(achievements, a)
	if err := s.saveAchievementsLocked(achievements); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	s.notify(achievementsTopic)
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	achievements, err := s.listLocked()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	kept := achievements[:0]
	found := false
	for _, a := range achievements {
		if a.ID == id {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		s.mu.Unlock()
		return ErrNotFound
	}
	if err := s.saveAchievementsLocked(kept); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	s.notify(achievementsTopic)
	return nil
}

func (s *FileStore) Watch(ctx context.Context, onChange func(), onError func(error)) (func(), error) {
	events, cancel := s.watch()
	go func() {
		for topic := range events {
			if topic == achievementsTopic {
				onChange()
			}
		}
	}()
	return cancel, nil
}

func (s *FileStore) watch() (<-chan string, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	events := make(chan string, 16)
	s.watchers[id] = events
	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if ch, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(ch)
		}
	}
	return events, cancel
}

func (s *FileStore) notify(topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.watchers {
		select {
		case ch <- topic:
		default:
			// Slow watcher; it will catch up on the next change.
		}
	}
}
