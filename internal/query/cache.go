package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Common cache errors.
var (
	ErrClosed   = errors.New("query cache is closed")
	ErrEmptyKey = errors.New("query key cannot be empty")
	ErrNilFetch = errors.New("fetch function cannot be nil")
)

// FetchFunc loads the data for one query. It is invoked by the cache, never
// by views directly, and must honor context cancellation.
type FetchFunc func(ctx context.Context) (any, error)

// Listener receives a snapshot after every mutation of the subscribed entry.
// Listeners are called outside the cache lock and must not block for long.
type Listener func(Snapshot)

// Cache is the process-wide keyed store for query results plus subscription
// bookkeeping. All entry mutation goes through cache methods; external
// components only ever see immutable Snapshots.
//
// Construct one Cache at application start and Close it on shutdown.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entryState
	nextSub uint64

	now         func() time.Time
	gracePeriod time.Duration
	logger      zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// Option configures a Cache at construction time.
type Option func(*Cache)

// WithClock injects the time source. Tests use this to control staleness
// without sleeping.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithGracePeriod sets how long unsubscribed entries are retained before
// eviction.
func WithGracePeriod(d time.Duration) Option {
	return func(c *Cache) { c.gracePeriod = d }
}

// WithLogger sets the structured logger used for cache diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache{
		entries:     make(map[string]*entryState),
		now:         time.Now,
		gracePeriod: DefaultGracePeriod,
		logger:      zerolog.Nop(),
		ctx:         ctx,
		cancel:      cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close tears the cache down: pending fetch contexts are cancelled, all
// timers stopped and entries dropped. Subsequent Subscribe calls fail with
// ErrClosed.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	for _, e := range c.entries {
		stopTimerLocked(&e.pollTimer)
		stopTimerLocked(&e.evictTimer)
	}
	c.entries = make(map[string]*entryState)
}

// Len returns the number of live entries. Exposed for tests and the status
// view; there is at most one entry per serialized key.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// GetOrCreate returns the current snapshot for the key, creating an idle
// entry if none exists. The created entry is subject to the eviction grace
// period until a subscriber arrives.
func (c *Cache) GetOrCreate(key Key) (Snapshot, error) {
	if len(key) == 0 {
		return Snapshot{}, ErrEmptyKey
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Snapshot{}, ErrClosed
	}
	e := c.getOrCreateLocked(key)
	return e.snapshot(), nil
}

// Subscribe registers a consumer for the key. A fetch is issued immediately
// when the entry is absent, stale under the effective policy, or explicitly
// invalidated, unless an identical fetch is already in flight, in which
// case the subscriber simply shares its resolution (deduplication).
//
// listener may be nil for callers that only poll CurrentState. The returned
// handle must be unsubscribed when the consumer unmounts.
func (c *Cache) Subscribe(key Key, fetch FetchFunc, policy Policy, listener Listener) (*Handle, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}
	if fetch == nil {
		return nil, ErrNilFetch
	}
	policy = policy.normalize()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}

	e := c.getOrCreateLocked(key)
	stopTimerLocked(&e.evictTimer)

	c.nextSub++
	id := c.nextSub
	e.subscribers[id] = &subscription{policy: policy, listener: listener, fetch: fetch}

	var notify func()
	if policy.Enabled && e.stale(c.now(), e.effectiveStaleTime()) {
		notify = c.startFetchLocked(e, false)
	}
	c.reschedulePollLocked(e)

	h := &Handle{cache: c, key: key.clone(), skey: key.String(), id: id}
	c.mu.Unlock()

	if notify != nil {
		notify()
	}
	return h, nil
}

// Invalidate marks every entry whose key starts with prefix as stale.
// Entries with enabled subscribers refetch immediately (forced, so any
// in-flight response from before the invalidation is superseded); the rest
// refetch on next access. An empty prefix invalidates everything.
func (c *Cache) Invalidate(prefix Key) {
	c.mu.Lock()
	var notifies []func()
	for _, e := range c.entries {
		if !e.key.HasPrefix(prefix) {
			continue
		}
		e.invalidated = true
		if len(e.subscribers) > 0 && e.anyEnabled() {
			if n := c.startFetchLocked(e, true); n != nil {
				notifies = append(notifies, n)
				continue
			}
		}
		if e.inflight {
			// A fetch issued before this invalidation must not resolve
			// into the entry and clear the mark. Supersede it; the next
			// access sees the invalidated entry and refetches.
			e.fetchSeq++
			e.inflight = false
		}
	}
	c.mu.Unlock()

	c.logger.Debug().Str("component", "query").Str("prefix", prefix.String()).Msg("cache invalidated")
	for _, n := range notifies {
		n()
	}
}

// NotifyFocus runs a staleness check across all subscribed entries that
// opted in via Policy.RefetchOnFocus. The caller wires this to an external
// signal such as a terminal focus report.
func (c *Cache) NotifyFocus() {
	c.mu.Lock()
	now := c.now()
	var notifies []func()
	for _, e := range c.entries {
		if !c.wantsFocusRefetchLocked(e) {
			continue
		}
		if e.stale(now, e.effectiveStaleTime()) && !e.inflight {
			if n := c.startFetchLocked(e, false); n != nil {
				notifies = append(notifies, n)
			}
		}
	}
	c.mu.Unlock()

	for _, n := range notifies {
		n()
	}
}

// wantsFocusRefetchLocked reports whether any enabled subscriber opted into
// focus-triggered staleness checks. Must be called with c.mu held.
func (c *Cache) wantsFocusRefetchLocked(e *entryState) bool {
	for _, sub := range e.subscribers {
		if sub.policy.Enabled && sub.policy.RefetchOnFocus {
			return true
		}
	}
	return false
}

// getOrCreateLocked returns the entry for key, creating an idle one if
// needed. Freshly created zero-subscriber entries get an eviction timer so
// GetOrCreate probes cannot leak entries. Must be called with c.mu held.
func (c *Cache) getOrCreateLocked(key Key) *entryState {
	skey := key.String()
	if e, ok := c.entries[skey]; ok {
		return e
	}
	e := &entryState{
		key:         key.clone(),
		status:      StatusIdle,
		subscribers: make(map[uint64]*subscription),
	}
	c.entries[skey] = e
	c.armEvictLocked(e)
	return e
}

// startFetchLocked issues a fetch for the entry and returns a notification
// closure to run after the lock is released, or nil when no fetch started.
//
// When forced is false an in-flight fetch deduplicates the request: the
// caller's subscriber will be notified by the existing fetch's resolution.
// When forced is true a new fetch generation is issued and any in-flight
// resolution becomes superseded.
func (c *Cache) startFetchLocked(e *entryState, forced bool) func() {
	if c.closed {
		return nil
	}
	if e.inflight && !forced {
		return nil
	}
	fn := e.fetchFn()
	if fn == nil {
		return nil
	}

	e.fetchSeq++
	gen := e.fetchSeq
	e.inflight = true
	if e.status == StatusIdle {
		e.status = StatusLoading
	}

	skey := e.key.String()
	c.logger.Debug().
		Str("component", "query").
		Str("key", skey).
		Uint64("fetch_id", gen).
		Bool("forced", forced).
		Msg("fetch issued")

	go func() {
		data, err := fn(c.ctx)
		c.resolve(skey, gen, data, err)
	}()

	return c.notifyLocked(e)
}

// resolve applies a fetch result to the entry, unless the entry was evicted
// or the fetch was superseded by a newer generation for the same key.
func (c *Cache) resolve(skey string, gen uint64, data any, err error) {
	c.mu.Lock()
	e, ok := c.entries[skey]
	if !ok || gen != e.fetchSeq {
		c.mu.Unlock()
		c.logger.Debug().
			Str("component", "query").
			Str("key", skey).
			Uint64("fetch_id", gen).
			Msg("stale fetch resolution discarded")
		return
	}

	e.inflight = false
	e.lastFetchedAt = c.now()
	e.invalidated = false
	if err != nil {
		e.status = StatusError
		e.err = err
		e.data = nil
	} else {
		e.status = StatusSuccess
		e.data = data
		e.err = nil
	}

	notify := c.notifyLocked(e)
	c.mu.Unlock()
	notify()
}

// notifyLocked captures the entry snapshot and listener set and returns a
// closure that delivers the notification. The closure must be invoked after
// c.mu is released so listeners can call back into the cache.
func (c *Cache) notifyLocked(e *entryState) func() {
	snap := e.snapshot()
	listeners := make([]Listener, 0, len(e.subscribers))
	for _, sub := range e.subscribers {
		if sub.listener != nil {
			listeners = append(listeners, sub.listener)
		}
	}
	return func() {
		for _, l := range listeners {
			l(snap)
		}
	}
}

// unsubscribe removes one subscription. The last departing subscriber stops
// polling immediately and arms the eviction grace timer; an in-flight fetch
// is allowed to finish and populate the entry for a fast remount.
func (c *Cache) unsubscribe(skey string, id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[skey]
	if !ok {
		return
	}
	delete(e.subscribers, id)
	if len(e.subscribers) == 0 {
		stopTimerLocked(&e.pollTimer)
		c.armEvictLocked(e)
		return
	}
	c.reschedulePollLocked(e)
}

// reschedulePollLocked re-arms the entry's poll timer according to the
// current subscriber set. Must be called with c.mu held.
func (c *Cache) reschedulePollLocked(e *entryState) {
	stopTimerLocked(&e.pollTimer)
	interval := e.effectiveInterval()
	if interval <= 0 {
		return
	}
	skey := e.key.String()
	e.pollTimer = time.AfterFunc(interval, func() {
		c.pollFire(skey)
	})
}

// pollFire runs one scheduled refetch tick for the entry and re-arms the
// timer while subscribers remain.
func (c *Cache) pollFire(skey string) {
	c.mu.Lock()
	e, ok := c.entries[skey]
	if !ok || len(e.subscribers) == 0 || c.closed {
		c.mu.Unlock()
		return
	}
	var notify func()
	if e.anyEnabled() && !e.inflight {
		notify = c.startFetchLocked(e, false)
	}
	c.reschedulePollLocked(e)
	c.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// armEvictLocked starts the grace timer that removes a subscriber-less
// entry. Must be called with c.mu held.
func (c *Cache) armEvictLocked(e *entryState) {
	stopTimerLocked(&e.evictTimer)
	skey := e.key.String()
	e.evictTimer = time.AfterFunc(c.gracePeriod, func() {
		c.evict(skey)
	})
}

// evict drops the entry if it is still subscriber-less when the grace
// period elapses.
func (c *Cache) evict(skey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[skey]
	if !ok || len(e.subscribers) > 0 {
		return
	}
	stopTimerLocked(&e.pollTimer)
	stopTimerLocked(&e.evictTimer)
	delete(c.entries, skey)
}

// stopTimerLocked stops and clears a timer slot in place.
func stopTimerLocked(t **time.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
