package query

import "strings"

// keySeparator joins key segments into the serialized form.
// Segments containing the separator are still compared correctly because
// every key is serialized the same way before comparison.
const keySeparator = "/"

// Key identifies a cacheable query as an ordered tuple of segments,
// e.g. {"prices", "ohlc", "UCO", "1M"}. Two keys address the same cache
// slot iff their serialized forms match; identity is irrelevant.
type Key []string

// NewKey builds a Key from the given segments.
func NewKey(segments ...string) Key {
	return Key(segments)
}

// String returns the serialized form used for cache slot lookup.
func (k Key) String() string {
	return strings.Join(k, keySeparator)
}

// Equal reports whether two keys serialize identically.
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether the key starts with the given prefix, compared
// segment-wise. Every key has the empty prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// clone returns a copy so callers cannot mutate cached key state.
func (k Key) clone() Key {
	out := make(Key, len(k))
	copy(out, k)
	return out
}
