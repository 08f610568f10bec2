package perf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureSync_Anonymous(t *testing.T) {
	c := newManualClock()
	r := New(WithClock(c))
	r.Start("other", WithAutoDestroy(false))

	n := 0
	res, err := r.MeasureSync(func() {
		for n < 10000 {
			n++
		}
		c.Advance(7 * time.Millisecond)
	})
	require.NoError(t, err)

	assert.Equal(t, 10000, n)
	assert.Equal(t, "", res.Name)
	assert.Equal(t, "0.007 sec.", res.Summary)
	assert.Equal(t, 1, r.Count(), "anonymous measurement must not touch the registry")
}

func TestMeasureSync_NilWork(t *testing.T) {
	r := New()
	_, err := r.MeasureSync(nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestMeasure_NamedIsKept(t *testing.T) {
	c := newManualClock()
	r := New(WithClock(c))

	res, err := r.Measure("sync-op", func() { c.Advance(time.Second) })
	require.NoError(t, err)

	assert.Equal(t, "sync-op", res.Name)
	assert.Equal(t, 1.0, res.Time)

	exists, _ := r.Exists("sync-op")
	assert.True(t, exists)
	stored, err := r.Result("sync-op")
	require.NoError(t, err)
	assert.Same(t, res, stored)
}

func TestMeasure_InvalidArguments(t *testing.T) {
	r := New()

	_, err := r.Measure("", func() {})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = r.Measure("x", nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = r.MeasureAsync("x", nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	assert.Equal(t, 0, r.Count())
}

func TestMeasureAsync_NamedManualDone(t *testing.T) {
	c := newManualClock()
	r := New(WithClock(c))

	var done DoneFunc
	got, err := r.MeasureAsync("op", func(d DoneFunc) { done = d })
	require.NoError(t, err)
	assert.Same(t, r, got)

	exists, _ := r.Exists("op")
	assert.True(t, exists)
	assert.Equal(t, 1, r.Count())
	pending, _ := r.Result("op")
	assert.Nil(t, pending)

	c.Advance(100 * time.Millisecond)
	res, err := done()
	require.NoError(t, err)

	assert.Equal(t, "op", res.Name)
	assert.Equal(t, 100.0, res.FullMilliseconds)
	assert.Equal(t, 1, r.Count())

	stored, _ := r.Result("op")
	assert.Same(t, res, stored)

	again, err := done()
	require.NoError(t, err)
	assert.Same(t, res, again)
}

func TestMeasureAsync_ScheduledDone(t *testing.T) {
	r := New()
	results := make(chan *Result, 1)

	_, err := r.MeasureAsync("async-op", func(done DoneFunc) {
		time.AfterFunc(100*time.Millisecond, func() {
			res, err := done()
			assert.NoError(t, err)
			results <- res
		})
	})
	require.NoError(t, err)

	exists, _ := r.Exists("async-op")
	assert.True(t, exists)

	select {
	case res := <-results:
		assert.Equal(t, "async-op", res.Name)
		assert.GreaterOrEqual(t, res.FullMilliseconds, 100.0)
	case <-time.After(5 * time.Second):
		t.Fatal("done was never called")
	}

	stored, err := r.Result("async-op")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "async-op", stored.Name)
	assert.Equal(t, 1, r.Count())
}

func TestMeasureAsync_Anonymous(t *testing.T) {
	c := newManualClock()
	r := New(WithClock(c))

	var done DoneFunc
	r.DestroyAll().MeasureAsync("", func(d DoneFunc) { done = d })
	assert.Equal(t, 0, r.Count())

	c.Advance(1100 * time.Millisecond)
	res, err := done()
	require.NoError(t, err)

	assert.Equal(t, "", res.Name)
	assert.Greater(t, res.Time, 1.0)
	assert.Equal(t, 0, r.Count())
}

func TestMeasureAsync_RestartedNameIsLeftAlone(t *testing.T) {
	c := newManualClock()
	r := New(WithClock(c))

	var done DoneFunc
	r.MeasureAsync("shared", func(d DoneFunc) { done = d })

	// A plain Start under the same name replaces the async entry.
	r.Start("shared")
	c.Advance(time.Millisecond)

	_, err := done()
	require.NoError(t, err)

	exists, _ := r.Exists("shared")
	assert.True(t, exists, "done must not end or destroy the replacement timer")
	pending, _ := r.Result("shared")
	assert.Nil(t, pending)
}
