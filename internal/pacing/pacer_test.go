package pacing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedDelay_WaitsFullInterval(t *testing.T) {
	p := NewFixedDelay(50 * time.Millisecond)

	start := time.Now()
	err := p.Wait(context.Background())
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
}

func TestFixedDelay_EachWaitIsIndependent(t *testing.T) {
	// The quiet period restarts from the moment Wait is called, so two calls
	// in a row block for two full intervals.
	p := NewFixedDelay(30 * time.Millisecond)

	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	require.NoError(t, p.Wait(context.Background()))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
}

func TestFixedDelay_CancelledContext(t *testing.T) {
	p := NewFixedDelay(10 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := p.Wait(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
