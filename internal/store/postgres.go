package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/falzahrani7002-debug/gggpro/internal/docpath"
	"github.com/falzahrani7002-debug/gggpro/internal/document"
)

// achievementsTopic is the change-notification payload for the guestbook
// collection; document changes are published under their document key.
const achievementsTopic = "communityAchievements"

// PostgresStore keeps each document as one JSONB row and fans change
// notifications out across instances over a Redis pub/sub channel.
type PostgresStore struct {
	pool    *pgxpool.Pool
	redis   *redis.Client
	channel string
}

func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("store: pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return pool, nil
}

func NewPostgresStore(pool *pgxpool.Pool, redisClient *redis.Client, channel string) *PostgresStore {
	return &PostgresStore{pool: pool, redis: redisClient, channel: channel}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			key        text PRIMARY KEY,
			data       jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("store: create documents: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS community_achievements (
			id          text PRIMARY KEY,
			name        text NOT NULL,
			achievement text NOT NULL,
			created_at  timestamptz NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("store: create community_achievements: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, key string) (json.RawMessage, error) {
	var data []byte
	row := s.pool.QueryRow(ctx, `SELECT data FROM documents WHERE key = $1`, key)
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: load %s: %w", key, err)
	}
	return data, nil
}

func (s *PostgresStore) InitializeIfAbsent(ctx context.Context, key string, seed json.RawMessage) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO documents (key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO NOTHING
	`, key, []byte(seed))
	if err != nil {
		return false, fmt.Errorf("store: initialize %s: %w", key, err)
	}
	created := tag.RowsAffected() > 0
	if created {
		s.publish(ctx, key)
	}
	return created, nil
}

func (s *PostgresStore) ApplyFieldUpdate(ctx context.Context, key, path string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode value for %s: %w", path, err)
	}
	return s.ReplaceField(ctx, key, path, raw)
}

func (s *PostgresStore) ReplaceField(ctx context.Context, key, path string, raw json.RawMessage) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var data []byte
	row := tx.QueryRow(ctx, `SELECT data FROM documents WHERE key = $1 FOR UPDATE`, key)
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("store: load %s for update: %w", key, err)
	}

	updated, err := docpath.SetRaw(data, path, raw)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE documents SET data = $1, updated_at = now() WHERE key = $2`, updated, key); err != nil {
		return fmt.Errorf("store: update %s: %w", key, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("store: commit %s: %w", key, err)
	}

	s.publish(ctx, key)
	return nil
}

func (s *PostgresStore) Subscribe(ctx context.Context, key string, onSnapshot func(Snapshot), onError func(error)) (func(), error) {
	pubsub := s.redis.Subscribe(ctx, s.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("store: subscribe: %w", err)
	}

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
		for msg := range pubsub.Channel() {
			if msg.Payload == key {
				deliver()
			}
		}
		onError(errors.New("store: subscribe channel closed"))
	}()

	return func() { _ = pubsub.Close() }, nil
}

// Community achievements

func (s *PostgresStore) List(ctx context.Context) ([]document.CommunityAchievement, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, achievement, created_at
		FROM community_achievements
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list achievements: %w", err)
	}
	defer rows.Close()

	achievements := []document.CommunityAchievement{}
	for rows.Next() {
		var a document.CommunityAchievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Achievement, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan achievement: %w", err)
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

func (s *PostgresStore) Add(ctx context.Context, a document.CommunityAchievement) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO community_achievements (id, name, achievement, created_at)
		VALUES ($1, $2, $3, $4)
	`, a.ID, a.Name, a.Achievement, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: add achievement: %w", err)
	}
	s.publish(ctx, achievementsTopic)
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM community_achievements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("store: delete achievement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	s.publish(ctx, achievementsTopic)
	return nil
}

func (s *PostgresStore) Watch(ctx context.Context, onChange func(), onError func(error)) (func(), error) {
	pubsub := s.redis.Subscribe(ctx, s.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("store: watch: %w", err)
	}
	go func() {
		for msg := range pubsub.Channel() {
			if msg.Payload == achievementsTopic {
				onChange()
			}
		}
		onError(errors.New("store: watch channel closed"))
	}()
	return func() { _ = pubsub.Close() }, nil
}

func (s *PostgresStore) publish(ctx context.Context, topic string) {
	if err := s.redis.Publish(ctx, s.channel, topic).Err(); err != nil {
		log.Printf("store: publish %s failed: %v", topic, err)
	}
}
