package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DraftStore is the injected key-value staging store for in-progress logs.
// Implementations must honor the TTL; entries past it are unrecoverable.
type DraftStore interface {
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, key string) error
}

// MemoryDraftStore is the single-node implementation, also used in tests.
// Expired entries linger until read or swept by the janitor.
type MemoryDraftStore struct {
	mu      sync.Mutex
	entries map[string]memoryDraft
}

type memoryDraft struct {
	value     []byte
	expiresAt time.Time
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{entries: make(map[string]memoryDraft)}
}

func (m *MemoryDraftStore) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryDraft{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *MemoryDraftStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (m *MemoryDraftStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Sweep drops every expired entry and returns how many were removed.
func (m *MemoryDraftStore) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for key, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// RedisDraftStore backs draft staging with Redis so drafts survive restarts
// and are shared across instances. TTL expiry is native, no janitor needed.
type RedisDraftStore struct {
	Client *redis.Client
}

func NewRedisDraftStore(client *redis.Client) *RedisDraftStore {
	return &RedisDraftStore{Client: client}
}

func (r *RedisDraftStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.Client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisDraftStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.Client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (r *RedisDraftStore) Delete(ctx context.Context, key string) error {
	return r.Client.Del(ctx, key).Err()
}

const (
	// DraftQuietPeriod is the debounce window: a staged edit is written
	// only after this much idle time, and every new edit restarts it.
	DraftQuietPeriod = 2 * time.Second

	// DraftTTL bounds how long unsaved work is recoverable.
	DraftTTL = 72 * time.Hour
)

// DraftService stages in-progress logs keyed by (user, date). Staging is
// fire-and-forget: at most one pending write per key, last edit wins.
type DraftService struct {
	store DraftStore
	quiet time.Duration
	ttl   time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewDraftService(store DraftStore) *DraftService {
	return &DraftService{
		store:  store,
		quiet:  DraftQuietPeriod,
		ttl:    DraftTTL,
		timers: make(map[string]*time.Timer),
	}
}

// NewDraftServiceWithQuietPeriod exists for tests that cannot wait out the
// production debounce window.
func NewDraftServiceWithQuietPeriod(store DraftStore, quiet time.Duration) *DraftService {
	s := NewDraftService(store)
	s.quiet = quiet
	return s
}

func draftKey(userID string, date time.Time) string {
	return fmt.Sprintf("draft:%s:%s", userID, Day(date).Format("2006-01-02"))
}

// Stage schedules a debounced write of the payload. A prior pending write
// for the same date is cancelled and rescheduled; the caller never blocks.
func (s *DraftService) Stage(userID string, date time.Time, payload LogPayload) {
	key := draftKey(userID, date)
	value, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[DRAFTS] failed to encode draft %s: %v", key, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[key]; ok {
		timer.Stop()
	}
	s.timers[key] = time.AfterFunc(s.quiet, func() {
		s.mu.Lock()
		delete(s.timers, key)
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.Put(ctx, key, value, s.ttl); err != nil {
			log.Printf("[DRAFTS] failed to stage %s: %v", key, err)
		}
	})
}

// Recover returns the staged draft for (user, date) if one exists.
func (s *DraftService) Recover(ctx context.Context, userID string, date time.Time) (*LogPayload, bool, error) {
	value, found, err := s.store.Get(ctx, draftKey(userID, date))
	if err != nil || !found {
		return nil, false, err
	}
	var payload LogPayload
	if err := json.Unmarshal(value, &payload); err != nil {
		return nil, false, fmt.Errorf("corrupt draft for %s: %w", userID, err)
	}
	return &payload, true, nil
}

// Discard cancels any pending write and purges the stored draft. Called
// after a successful submission; failures only log — a leftover draft is
// harmless because persisted records take precedence on load.
func (s *DraftService) Discard(ctx context.Context, userID string, date time.Time) {
	key := draftKey(userID, date)

	s.mu.Lock()
	if timer, ok := s.timers[key]; ok {
		timer.Stop()
		delete(s.timers, key)
	}
	s.mu.Unlock()

	if err := s.store.Delete(ctx, key); err != nil {
		log.Printf("[DRAFTS] failed to purge %s: %v", key, err)
	}
}

// Flush synchronously writes any pending draft for (user, date). Used by
// tests and the shutdown path; normal staging stays debounced.
func (s *DraftService) Flush(ctx context.Context, userID string, date time.Time, payload LogPayload) error {
	key := draftKey(userID, date)

	s.mu.Lock()
	if timer, ok := s.timers[key]; ok {
		timer.Stop()
		delete(s.timers, key)
	}
	s.mu.Unlock()

	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.store.Put(ctx, key, value, s.ttl)
}
