/*
Package session holds the per-browser workspace: the latest generated plan
and the profile it was generated from. Values live server-side behind a
small key/value interface; the browser only carries a signed session id.
*/
package session

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Store is an opaque string key/value store scoped to the session id
// carried by ctx. Calls without a session id see an empty store.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
	Remove(ctx context.Context, key string)
}

type ctxKey struct{}

// WithID returns a copy of ctx carrying the session id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IDFromContext returns the session id carried by ctx, or "".
func IDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// MemoryStore keeps each session's values in an expiring LRU. A session
// that is not written to for ttl is dropped, as is the least recently used
// one once capacity sessions exist.
type MemoryStore struct {
	// mu serialises writers; stored maps are never mutated after Add.
	mu    sync.Mutex
	cache *expirable.LRU[string, map[string]string]
}

func NewMemoryStore(capacity int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: expirable.NewLRU[string, map[string]string](capacity, nil, ttl),
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool) {
	id := IDFromContext(ctx)
	if id == "" {
		return "", false
	}
	values, ok := s.cache.Get(id)
	if !ok {
		return "", false
	}
	v, ok := values[key]
	return v, ok
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) {
	id := IDFromContext(ctx)
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, _ := s.cache.Peek(id)
	next := make(map[string]string, len(current)+1)
	for k, v := range current {
		next[k] = v
	}
	next[key] = value
	s.cache.Add(id, next)
}

func (s *MemoryStore) Remove(ctx context.Context, key string) {
	id := IDFromContext(ctx)
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.cache.Peek(id)
	if !ok {
		return
	}
	if _, present := current[key]; !present {
		return
	}
	if len(current) == 1 {
		s.cache.Remove(id)
		return
	}
	next := make(map[string]string, len(current)-1)
	for k, v := range current {
		if k != key {
			next[k] = v
		}
	}
	s.cache.Add(id, next)
}

// Len reports how many sessions currently hold values.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}
