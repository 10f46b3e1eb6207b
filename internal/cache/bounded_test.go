package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBounded_GetSetExpire(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	b, err := NewBounded(100, clock.Now)
	require.NoError(t, err)
	ctx := context.Background()

	_, ok, err := b.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Set(ctx, "k", []byte("v"), time.Second))
	require.Eventually(t, func() bool {
		_, ok, _ := b.Get(ctx, "k")
		return ok
	}, time.Second, 10*time.Millisecond)

	clock.Advance(time.Second)
	_, ok, _ = b.Get(ctx, "k")
	assert.False(t, ok)
}

func TestBounded_DeleteAndClear(t *testing.T) {
	t.Parallel()
	b, err := NewBounded(100, nil)
	require.NoError(t, err)
	ctx := context.Background()

	for _, k := range []string{"schedule:en-US:all", "schedule:fr-FR:all", "live:en-US"} {
		require.NoError(t, b.Set(ctx, k, []byte(k), time.Minute))
	}
	require.Eventually(t, func() bool {
		_, ok, _ := b.Get(ctx, "live:en-US")
		return ok
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, b.Delete(ctx, "schedule:*"))
	_, ok, _ := b.Get(ctx, "schedule:en-US:all")
	assert.False(t, ok)
	_, ok, _ = b.Get(ctx, "schedule:fr-FR:all")
	assert.False(t, ok)
	_, ok, _ = b.Get(ctx, "live:en-US")
	assert.True(t, ok)

	require.NoError(t, b.Clear(ctx))
	_, ok, _ = b.Get(ctx, "live:en-US")
	assert.False(t, ok)
	assert.Equal(t, int64(3), b.Stats().Sets)
}

func TestBounded_RejectsTTLAboveCeiling(t *testing.T) {
	t.Parallel()
	b, err := NewBounded(100, nil)
	require.NoError(t, err)
	ctx := context.Background()

	err = b.Set(ctx, "long", []byte("v"), DefaultTTLCeiling+time.Hour)
	require.ErrorIs(t, err, ErrTTLTooLong)
	_, ok, _ := b.Get(ctx, "long")
	assert.False(t, ok)
	assert.Equal(t, int64(0), b.Stats().Sets)

	require.NoError(t, b.Set(ctx, "edge", []byte("v"), DefaultTTLCeiling))
	assert.Equal(t, int64(1), b.Stats().Sets)
}

func TestBounded_ValuesAreCopied(t *testing.T) {
	t.Parallel()
	b, err := NewBounded(100, nil)
	require.NoError(t, err)
	ctx := context.Background()

	in := []byte(`{"a":1}`)
	require.NoError(t, b.Set(ctx, "k", in, time.Minute))
	in[2] = 'X'

	var got []byte
	require.Eventually(t, func() bool {
		var ok bool
		got, ok, _ = b.Get(ctx, "k")
		return ok
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, `{"a":1}`, string(got))

	got[2] = 'Y'
	again, _, _ := b.Get(ctx, "k")
	assert.Equal(t, `{"a":1}`, string(again))
}
