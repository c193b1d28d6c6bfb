package query

import "sync"

// Handle is the live binding between one mounted consumer and a cache
// entry. Any UI framework can adapt a handle to its own reactivity model:
// poll CurrentState, or pass a Listener to Subscribe and re-render on
// notification.
type Handle struct {
	cache *Cache
	key   Key
	skey  string
	id    uint64
	once  sync.Once
}

// Key returns the subscribed query key.
func (h *Handle) Key() Key {
	return h.key.clone()
}

// CurrentState returns the latest snapshot for the subscribed key. After
// the entry has been evicted it reports an idle snapshot.
func (h *Handle) CurrentState() Snapshot {
	h.cache.mu.Lock()
	defer h.cache.mu.Unlock()
	e, ok := h.cache.entries[h.skey]
	if !ok {
		return Snapshot{Key: h.key.clone(), Status: StatusIdle}
	}
	return e.snapshot()
}

// Refetch forces a new fetch for the key regardless of staleness, and
// supersedes any in-flight fetch. This backs the retry affordance views
// offer in their error state.
func (h *Handle) Refetch() {
	h.cache.mu.Lock()
	e, ok := h.cache.entries[h.skey]
	var notify func()
	if ok {
		if _, live := e.subscribers[h.id]; live {
			notify = h.cache.startFetchLocked(e, true)
		}
	}
	h.cache.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// Unsubscribe releases the binding. Safe to call more than once. When the
// last subscriber departs, polling stops immediately and the entry enters
// its eviction grace period.
func (h *Handle) Unsubscribe() {
	h.once.Do(func() {
		h.cache.unsubscribe(h.skey, h.id)
	})
}
