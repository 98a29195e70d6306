// Package session keeps logged-in user state behind an injectable Store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"leet_tracker/internal/common"
	"leet_tracker/internal/domain/model"
)

// Store persists sessions by ID. Load returns common.ErrNotFound for unknown
// or expired sessions.
type Store interface {
	Save(ctx context.Context, s *model.Session) error
	Load(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
}

type MemoryStore struct {
	sessions map[string]*model.Session
	mutex    sync.RWMutex
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*model.Session),
		now:      time.Now,
	}
}

// Save also evicts expired sessions so the map stays bounded without a
// background task.
func (m *MemoryStore) Save(_ context.Context, s *model.Session) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sweepLocked()
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id string) (*model.Session, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, common.ErrNotFound)
	}
	if s.Expired(m.now()) {
		delete(m.sessions, id)
		return nil, fmt.Errorf("session %s expired: %w", id, common.ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, id)
	return nil
}

// sweepLocked drops every expired session. Callers hold the write lock.
func (m *MemoryStore) sweepLocked() {
	now := m.now()
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
		}
	}
}

const redisKeyPrefix = "leet_tracker:session:"

// RedisStore keeps each session as a JSON value that expires with the session.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (r *RedisStore) Save(ctx context.Context, s *model.Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired: %w", s.ID, common.ErrValidation)
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("RedisStore.Save marshal: %w", err)
	}
	if err := r.rdb.Set(ctx, redisKeyPrefix+s.ID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("RedisStore.Save: %w", err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context, id string) (*model.Session, error) {
	raw, err := r.rdb.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("session %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("RedisStore.Load: %w", err)
	}
	var s model.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("RedisStore.Load unmarshal: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("RedisStore.Delete: %w", err)
	}
	return nil
}
