package project_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutosaver_CoalescesBursts(t *testing.T) {
	var flushes atomic.Int32
	a := project.NewAutosaver(func() error {
		flushes.Add(1)
		return nil
	}, 30*time.Millisecond)
	defer a.Close()

	// A burst of mutations while the user drags.
	for i := 0; i < 20; i++ {
		a.MarkDirty()
		time.Sleep(time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return flushes.Load() == 1
	}, time.Second, 5*time.Millisecond)

	// And stays at one: no trailing extra flush.
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(1), flushes.Load())
}

func TestAutosaver_FlushWhenCleanIsNoop(t *testing.T) {
	var flushes atomic.Int32
	a := project.NewAutosaver(func() error {
		flushes.Add(1)
		return nil
	}, time.Hour)
	defer a.Close()

	require.NoError(t, a.Flush())
	assert.Equal(t, int32(0), flushes.Load())
}

func TestAutosaver_FlushForcesPendingWrite(t *testing.T) {
	var flushes atomic.Int32
	a := project.NewAutosaver(func() error {
		flushes.Add(1)
		return nil
	}, time.Hour) // would never fire on its own
	defer a.Close()

	a.MarkDirty()
	require.NoError(t, a.Flush())
	assert.Equal(t, int32(1), flushes.Load())

	// The pending timer was cancelled; nothing fires later.
	require.NoError(t, a.Flush())
	assert.Equal(t, int32(1), flushes.Load())
}

func TestAutosaver_CloseFlushesDirtyState(t *testing.T) {
	var flushes atomic.Int32
	a := project.NewAutosaver(func() error {
		flushes.Add(1)
		return nil
	}, time.Hour)

	a.MarkDirty()
	require.NoError(t, a.Close())
	assert.Equal(t, int32(1), flushes.Load())

	// Marks after close are ignored.
	a.MarkDirty()
	require.NoError(t, a.Close())
	assert.Equal(t, int32(1), flushes.Load())
}

func TestAutosaver_DefaultDelay(t *testing.T) {
	a := project.NewAutosaver(func() error { return nil }, 0)
	defer a.Close()
	// Non-positive delay falls back to the default window; just
	// verify marking doesn't panic with the fallback timer.
	a.MarkDirty()
}
