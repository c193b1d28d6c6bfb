package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abfi/biolens/internal/query"
)

func TestKeySerialization(t *testing.T) {
	tests := []struct {
		name string
		key  query.Key
		want string
	}{
		{name: "single segment", key: query.NewKey("sentiment"), want: "sentiment"},
		{name: "nested", key: query.NewKey("prices", "ohlc", "UCO", "1M"), want: "prices/ohlc/UCO/1M"},
		{name: "empty", key: query.NewKey(), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.String())
		})
	}
}

func TestKeyEqualityIsValueBased(t *testing.T) {
	a := query.NewKey("prices", "kpis")
	b := query.NewKey("prices", "kpis")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(query.NewKey("prices")))
	assert.False(t, a.Equal(query.NewKey("prices", "ohlc")))
}

func TestKeyHasPrefix(t *testing.T) {
	k := query.NewKey("prices", "ohlc", "UCO")

	assert.True(t, k.HasPrefix(query.NewKey("prices")))
	assert.True(t, k.HasPrefix(query.NewKey("prices", "ohlc")))
	assert.True(t, k.HasPrefix(query.NewKey()), "empty prefix matches everything")
	assert.False(t, k.HasPrefix(query.NewKey("sentiment")))
	assert.False(t, k.HasPrefix(query.NewKey("prices", "ohlc", "UCO", "1M")), "prefix longer than key")
}
