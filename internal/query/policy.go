package query

import "time"

// Policy defaults. Staleness mirrors the dashboard's typical refresh
// cadence; the grace period keeps entries warm across quick remounts.
const (
	// DefaultStaleTime is the staleness window applied when a policy does
	// not set one explicitly.
	DefaultStaleTime = 30 * time.Second

	// DefaultGracePeriod is how long an entry survives after its last
	// subscriber departs before it is evicted.
	DefaultGracePeriod = 5 * time.Minute
)

// Policy configures how a single subscription fetches.
//
// Policies attach per subscription, not per key: different views may request
// the same key with different policies. The cache reconciles conflicts with
// a deterministic rule: the minimum StaleTime across enabled subscribers
// wins, and the shortest non-zero RefetchInterval drives polling.
type Policy struct {
	// StaleTime is how long a resolved entry is considered fresh. A stale
	// entry triggers a refetch on the next subscription or focus check.
	StaleTime time.Duration

	// RefetchInterval, when positive, schedules repeated fetches while at
	// least one subscriber is mounted, independent of staleness.
	RefetchInterval time.Duration

	// Enabled gates all fetching. Disabled subscriptions never issue
	// network calls regardless of staleness; use this when a required
	// parameter (e.g. a commodity code) is not yet known.
	Enabled bool

	// RefetchOnFocus opts the subscription into the staleness check run
	// when the cache receives an external focus signal.
	RefetchOnFocus bool
}

// DefaultPolicy returns the policy applied when callers pass a zero value:
// enabled, default staleness, focus refetching on, no polling.
func DefaultPolicy() Policy {
	return Policy{
		StaleTime:      DefaultStaleTime,
		Enabled:        true,
		RefetchOnFocus: true,
	}
}

// normalize fills unset duration fields with defaults. Enabled and
// RefetchOnFocus are left as provided: both are deliberate booleans the
// caller must set (the zero Policy is never used directly, callers go
// through DefaultPolicy and override).
func (p Policy) normalize() Policy {
	if p.StaleTime <= 0 {
		p.StaleTime = DefaultStaleTime
	}
	if p.RefetchInterval < 0 {
		p.RefetchInterval = 0
	}
	return p
}
