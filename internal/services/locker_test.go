package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLockerExcludes(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	release, err := l.Acquire(ctx, "order:1", time.Second)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "order:1", 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrLockTimeout)

	other, err := l.Acquire(ctx, "order:2", 20*time.Millisecond)
	require.NoError(t, err)
	other()

	release()
	release()

	again, err := l.Acquire(ctx, "order:1", 20*time.Millisecond)
	require.NoError(t, err)
	again()

	assert.Empty(t, l.(*localLocker).locks)
}

func TestLocalLockerHandsOver(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	release, err := l.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		next, err := l.Acquire(ctx, "k", time.Second)
		if err == nil {
			next()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second holder got the lock early")
	case <-time.After(20 * time.Millisecond):
	}
	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock was not handed over")
	}
}

func TestLocalLockerHonoursContext(t *testing.T) {
	l := NewLocalLocker()
	release, err := l.Acquire(context.Background(), "k", time.Second)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Acquire(ctx, "k", time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalLockerZeroTTLWhenFree(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		release, err := l.Acquire(ctx, "order:x", 0)
		require.NoError(t, err, "attempt %d", i)
		release()
	}

	release, err := l.Acquire(ctx, "order:x", 0)
	require.NoError(t, err)
	defer release()
	_, err = l.Acquire(ctx, "order:x", 0)
	assert.ErrorIs(t, err, ErrLockTimeout)
}
