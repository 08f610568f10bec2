package perf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	t.Cleanup(func() { DestroyAll() })

	assert.Same(t, Default(), Default())

	_, err := Start("default-timer", WithAutoDestroy(false))
	require.NoError(t, err)
	assert.Contains(t, Names(), "default-timer")

	res, err := End("default-timer")
	require.NoError(t, err)

	stored, err := ResultOf("default-timer")
	require.NoError(t, err)
	assert.Same(t, res, stored)

	exists, err := Exists("default-timer")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = Destroy("default-timer")
	require.NoError(t, err)
	assert.Equal(t, 0, Count())

	anon, err := MeasureSync(func() {})
	require.NoError(t, err)
	assert.Equal(t, "", anon.Name)

	named, err := Measure("default-measure", func() {})
	require.NoError(t, err)
	assert.Equal(t, "default-measure", named.Name)

	var done DoneFunc
	_, err = MeasureAsync("", func(d DoneFunc) { done = d })
	require.NoError(t, err)
	_, err = done()
	require.NoError(t, err)

	assert.Equal(t, 0, DestroyAll().Count())
}
