package notify

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherRunsTasks(t *testing.T) {
	d := New(2, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)
	defer d.Stop()

	var n atomic.Int32
	done := make(chan struct{}, 4)
	for i := 0; i < 4; i++ {
		ok := d.Go("count", func(context.Context) error {
			n.Add(1)
			done <- struct{}{}
			return nil
		})
		require.True(t, ok)
	}
	for i := 0; i < 4; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("task did not run")
		}
	}
	assert.EqualValues(t, 4, n.Load())
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	d := New(1, 1)
	noop := func(context.Context) error { return nil }

	// not started: the single slot fills and the next task is dropped
	assert.True(t, d.Go("first", noop))
	assert.False(t, d.Go("second", noop))
}

func TestDispatcherSurvivesFailuresAndPanics(t *testing.T) {
	d := New(1, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)
	defer d.Stop()

	ran := make(chan struct{})
	require.True(t, d.Go("fails", func(context.Context) error { return errors.New("backend down") }))
	require.True(t, d.Go("panics", func(context.Context) error { panic("boom") }))
	require.True(t, d.Go("after", func(context.Context) error {
		close(ran)
		return nil
	}))

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("worker died after a failing task")
	}
}

func TestDispatcherRejectsAfterStop(t *testing.T) {
	d := New(1, 4)
	d.Start(context.Background())
	d.Stop()

	assert.False(t, d.Go("late", func(context.Context) error { return nil }))
}

func TestDispatcherTaskContextHasDeadline(t *testing.T) {
	d := New(1, 1)
	d.taskTimeout = 50 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)
	defer d.Stop()

	got := make(chan error, 1)
	require.True(t, d.Go("slow", func(ctx context.Context) error {
		<-ctx.Done()
		got <- ctx.Err()
		return ctx.Err()
	}))

	select {
	case err := <-got:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(2 * time.Second):
		t.Fatal("task context never expired")
	}
}
