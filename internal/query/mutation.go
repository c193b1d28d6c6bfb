package query

import "context"

// MutationFunc performs a write against the remote API and returns its
// response payload.
type MutationFunc func(ctx context.Context) (any, error)

// MutationResult is the promise-like outcome of a fired mutation. The
// zero value is not usable; results come from Cache.Mutate.
type MutationResult struct {
	done chan struct{}
	data any
	err  error
}

// Done is closed when the mutation has resolved.
func (r *MutationResult) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the mutation resolves or ctx is cancelled.
func (r *MutationResult) Wait(ctx context.Context) (any, error) {
	select {
	case <-r.done:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Mutate fires a write operation. Mutations never populate the cache;
// instead, on success the given key prefixes are invalidated so dependent
// queries refetch. This keeps views consistent without a direct link
// between the mutation and the queries it affects.
func (c *Cache) Mutate(fn MutationFunc, invalidates ...Key) *MutationResult {
	r := &MutationResult{done: make(chan struct{})}
	go func() {
		defer close(r.done)
		r.data, r.err = fn(c.ctx)
		if r.err != nil {
			c.logger.Warn().Str("component", "query").Err(r.err).Msg("mutation failed")
			return
		}
		for _, prefix := range invalidates {
			c.Invalidate(prefix)
		}
	}()
	return r
}
