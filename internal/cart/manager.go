package cart

import (
	"sync"
	"time"
)

// Manager hands out one Store per session and hydrates it in the background
// on first use. Stores idle past the eviction window are dropped by
// EvictIdle; persisted items survive and rehydrate on the next Get.
type Manager struct {
	mu      sync.Mutex
	stores  map[string]*managedStore
	persist Persistence
	opts    []Option
	now     func() time.Time
}

type managedStore struct {
	store    *Store
	lastSeen time.Time
}

func NewManager(persist Persistence, hideDelay time.Duration) *Manager {
	var opts []Option
	if hideDelay > 0 {
		opts = append(opts, WithHideDelay(hideDelay))
	}
	return &Manager{
		stores:  make(map[string]*managedStore),
		persist: persist,
		opts:    opts,
		now:     time.Now,
	}
}

// Get returns the session's store, creating and hydrating it on first use.
// Callers racing the hydration get ErrNotReady from mutating calls.
func (m *Manager) Get(sessionID string) *Store {
	m.mu.Lock()
	e, ok := m.stores[sessionID]
	if !ok {
		e = &managedStore{store: NewStore(sessionID, m.persist, m.opts...)}
		m.stores[sessionID] = e
		go func() { _ = e.store.Hydrate() }()
	}
	e.lastSeen = m.now()
	m.mu.Unlock()
	return e.store
}

// Drop forgets the in-memory store for a session (persisted items survive).
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	delete(m.stores, sessionID)
	m.mu.Unlock()
}

// EvictIdle drops every store not touched within maxIdle and reports how
// many were removed.
func (m *Manager) EvictIdle(maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, e := range m.stores {
		if e.lastSeen.Before(cutoff) {
			delete(m.stores, id)
			evicted++
		}
	}
	return evicted
}

// StartEvictor sweeps idle stores every interval until stop is called.
func (m *Manager) StartEvictor(interval, maxIdle time.Duration) (stop func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				m.EvictIdle(maxIdle)
			case <-done:
				return
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
	}
}
