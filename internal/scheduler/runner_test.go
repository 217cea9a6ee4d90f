package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCycler struct {
	mu     sync.Mutex
	forced []bool
}

func (f *fakeCycler) RunCycle(_ context.Context, _ string, force bool) Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forced = append(f.forced, force)
	return Outcome{}
}

func (f *fakeCycler) snapshot() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.forced...)
}

func TestRunner_FirstCycleForcedThenPeriodic(t *testing.T) {
	fc := &fakeCycler{}
	r := NewRunner(zap.NewNop(), fc, configured, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return len(fc.snapshot()) >= 2 }, 3*time.Second, 20*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}

	got := fc.snapshot()
	assert.True(t, got[0], "first cycle must be forced")
	for _, f := range got[1:] {
		assert.False(t, f, "periodic cycles must not be forced")
	}
}

func TestNewRunner_ClampsInterval(t *testing.T) {
	r := NewRunner(nil, &fakeCycler{}, configured, 10*time.Millisecond)
	assert.Equal(t, time.Second, r.Interval)
}
