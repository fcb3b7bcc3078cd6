package loop

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPostedCallbacksRunInOrder(t *testing.T) {
	l := New(time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())

	var got []int
	for i := 0; i < 5; i++ {
		i := i
		l.Post(func() { got = append(got, i) })
	}
	l.Post(cancel)

	err := l.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestTickRuns(t *testing.T) {
	var ticks atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	l := New(time.Millisecond, func() {
		if ticks.Add(1) == 3 {
			cancel()
		}
	})

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
	assert.GreaterOrEqual(t, ticks.Load(), int32(3))
}

func TestPostFromOtherGoroutines(t *testing.T) {
	l := New(time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	count := 0
	for i := 0; i < 10; i++ {
		go l.Post(func() {
			count++
			if count == 10 {
				cancel()
			}
		})
	}

	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
	assert.Equal(t, 10, count)
}
