package testsupport

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"streamsched/internal/config"
	"streamsched/internal/kvstore"
	"streamsched/internal/schedule"
)

// MustOpenKV opens a kvstore.Store for tests and registers cleanup.
func MustOpenKV(t testing.TB, cfg *config.Config) *kvstore.Store {
	t.Helper()

	store, err := kvstore.Open(cfg)
	if err != nil {
		t.Fatalf("kvstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MemoryPersister is an in-memory schedule.Persister. Set FailPuts to make
// writes fail.
type MemoryPersister struct {
	mu       sync.Mutex
	values   map[string][]byte
	puts     int
	FailPuts bool
}

// NewMemoryPersister returns an empty persister.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{values: make(map[string][]byte)}
}

func (m *MemoryPersister) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (m *MemoryPersister) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPuts {
		return fmt.Errorf("memory persister: put %q refused", key)
	}
	m.values[key] = append([]byte(nil), value...)
	m.puts++
	return nil
}

// Set stores raw bytes without counting as a write.
func (m *MemoryPersister) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
}

// Puts returns the number of successful writes.
func (m *MemoryPersister) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

// SequentialIDs returns a generator yielding id-1, id-2, ...
func SequentialIDs() func() string {
	var mu sync.Mutex
	next := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		next++
		return fmt.Sprintf("id-%d", next)
	}
}

// NewSlotStore builds a loaded schedule.Store over an in-memory persister
// with deterministic slot IDs.
func NewSlotStore(t testing.TB, opts ...schedule.Option) (*schedule.Store, *MemoryPersister) {
	t.Helper()

	persister := NewMemoryPersister()
	opts = append([]schedule.Option{schedule.WithIDGenerator(SequentialIDs())}, opts...)
	store := schedule.NewStore(persister, opts...)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("store.Load: %v", err)
	}
	return store, persister
}

// Recorder is a schedule.Observer that records notifications.
type Recorder struct {
	mu      sync.Mutex
	Display []schedule.Key
	Editor  []schedule.Key
}

func (r *Recorder) DisplayChanged(key schedule.Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Display = append(r.Display, key)
}

func (r *Recorder) EditorChanged(key schedule.Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Editor = append(r.Editor, key)
}

// Reset clears recorded notifications.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Display = nil
	r.Editor = nil
}
