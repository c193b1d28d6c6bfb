// Package query provides a subscription-based cache for remote data.
//
// Views declare the data they need as a Key plus a FetchFunc and a Policy;
// the cache owns fetching, staleness tracking, request deduplication and
// background polling. Key features:
//   - One entry per serialized key (single source of truth per query)
//   - Stale-while-subscribed refetching with per-subscriber policies
//   - In-flight deduplication: concurrent subscribers share one network call
//   - Supersession: results from outdated fetches never overwrite newer data
//   - Prefix invalidation after writes to keep dependent views consistent
//
// The cache is framework-agnostic: consumers receive change notifications
// through listeners and adapt them to their own render loop.
package query
