package query

import "time"

// Status describes the fetch lifecycle of a cache entry.
type Status int

const (
	// StatusIdle means the entry exists but no fetch has been issued yet.
	StatusIdle Status = iota
	// StatusLoading means the first fetch for the entry is in flight.
	StatusLoading
	// StatusSuccess means the latest resolved fetch succeeded.
	StatusSuccess
	// StatusError means the latest resolved fetch failed.
	StatusError
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of a cache entry handed to consumers.
//
// Invariants maintained by the cache:
//   - Status == StatusSuccess implies Data != nil and Err == nil
//   - Status == StatusError implies Err != nil and Data == nil
type Snapshot struct {
	Key           Key
	Status        Status
	Data          any
	Err           error
	LastFetchedAt time.Time
	// Fetching is true while a background refetch is in flight. The first
	// fetch is reported through StatusLoading instead, so views with data
	// on screen never flip back to a skeleton during a poll.
	Fetching bool
}

// entryState is the cache-internal mutable record behind a Snapshot.
// All fields are guarded by the cache mutex.
type entryState struct {
	key           Key
	status        Status
	data          any
	err           error
	lastFetchedAt time.Time
	// invalidated forces the next access to refetch regardless of age.
	invalidated bool

	subscribers map[uint64]*subscription

	// fetchSeq is the id of the latest issued fetch for this key. A fetch
	// resolution whose id is older is superseded and discarded.
	fetchSeq uint64
	inflight bool

	pollTimer  *time.Timer
	evictTimer *time.Timer
}

// subscription binds one consumer to an entry.
type subscription struct {
	policy   Policy
	listener Listener
	fetch    FetchFunc
}

func (e *entryState) snapshot() Snapshot {
	return Snapshot{
		Key:           e.key.clone(),
		Status:        e.status,
		Data:          e.data,
		Err:           e.err,
		LastFetchedAt: e.lastFetchedAt,
		Fetching:      e.inflight && e.status != StatusLoading,
	}
}

// stale reports whether the entry needs a refetch under the given staleness
// window. Entries that never resolved, resolved with an error, or were
// explicitly invalidated are always stale.
func (e *entryState) stale(now time.Time, staleTime time.Duration) bool {
	if e.invalidated || e.status == StatusError {
		return true
	}
	if e.lastFetchedAt.IsZero() {
		return true
	}
	return now.Sub(e.lastFetchedAt) > staleTime
}

// effectiveStaleTime resolves the policy tie-break rule: when several
// subscribers request the same key with different windows, the minimum
// stale time wins.
func (e *entryState) effectiveStaleTime() time.Duration {
	min := time.Duration(-1)
	for _, sub := range e.subscribers {
		if !sub.policy.Enabled {
			continue
		}
		if min < 0 || sub.policy.StaleTime < min {
			min = sub.policy.StaleTime
		}
	}
	if min < 0 {
		return DefaultStaleTime
	}
	return min
}

// effectiveInterval returns the shortest non-zero refetch interval among
// enabled subscribers, or zero when no subscriber wants polling.
func (e *entryState) effectiveInterval() time.Duration {
	min := time.Duration(0)
	for _, sub := range e.subscribers {
		if !sub.policy.Enabled || sub.policy.RefetchInterval <= 0 {
			continue
		}
		if min == 0 || sub.policy.RefetchInterval < min {
			min = sub.policy.RefetchInterval
		}
	}
	return min
}

// anyEnabled reports whether at least one subscriber may fetch.
func (e *entryState) anyEnabled() bool {
	for _, sub := range e.subscribers {
		if sub.policy.Enabled {
			return true
		}
	}
	return false
}

// fetchFn returns a fetch function from any enabled subscriber.
func (e *entryState) fetchFn() FetchFunc {
	for _, sub := range e.subscribers {
		if sub.policy.Enabled && sub.fetch != nil {
			return sub.fetch
		}
	}
	return nil
}
