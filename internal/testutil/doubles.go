package testutil

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/weconnect/whmcs-pricefeed/pkg/cache"
)

// MemoryStore is an in-memory cache.Store double with real TTL semantics.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	// Now overrides the clock (for expiry tests). Nil means time.Now.
	Now func() time.Time
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		return "", cache.ErrCacheMiss
	}
	return entry.value, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{value: value, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			deleted++
		}
	}
	return deleted, nil
}

// Len returns the number of live entries.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// MemoryLocker is an in-memory lock.Locker double with a fixed TTL.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]time.Time

	// TTL bounds a held lock's lifetime.
	TTL time.Duration

	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time
}

// NewMemoryLocker creates a locker with the production 10s TTL.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]time.Time), TTL: 10 * time.Second}
}

func (l *MemoryLocker) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l *MemoryLocker) Acquire(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if expiry, ok := l.held[key]; ok && l.now().Before(expiry) {
		return false, nil
	}
	l.held[key] = l.now().Add(l.TTL)
	return true, nil
}

func (l *MemoryLocker) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}

// Hold marks a lock as held without going through Acquire (to simulate a
// concurrent in-flight fetch).
func (l *MemoryLocker) Hold(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held[key] = l.now().Add(l.TTL)
}

// CountingFetcher is a pricing.Fetcher double that records calls and
// replays a scripted response.
type CountingFetcher struct {
	mu         sync.Mutex
	calls      int
	lastPath   string
	lastParams url.Values

	// Body is returned on success; Err, when set, is returned instead.
	Body string
	Err  error
}

func (f *CountingFetcher) Fetch(_ context.Context, path string, params url.Values) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastPath = path
	f.lastParams = params
	if f.Err != nil {
		return "", f.Err
	}
	return f.Body, nil
}

// Calls returns the number of Fetch invocations.
func (f *CountingFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// LastPath returns the path of the most recent Fetch.
func (f *CountingFetcher) LastPath() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPath
}

// LastParams returns the params of the most recent Fetch.
func (f *CountingFetcher) LastParams() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastParams
}
