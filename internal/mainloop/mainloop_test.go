package mainloop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDrainRunsInOrderIncludingReposts(t *testing.T) {
	l := New()
	var got []int
	l.Post(func() { got = append(got, 1) })
	l.Post(func() {
		got = append(got, 2)
		l.Post(func() { got = append(got, 4) })
	})
	l.Post(func() { got = append(got, 3) })

	require.Equal(t, 3, l.Pending())
	require.Equal(t, 4, l.Drain())
	require.Equal(t, []int{1, 2, 3, 4}, got)
	require.Zero(t, l.Pending())
}

func TestRunUntilWakesOnPost(t *testing.T) {
	l := New()
	done := false
	go func() {
		time.Sleep(10 * time.Millisecond)
		l.Post(func() { done = true })
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, l.RunUntil(ctx, func() bool { return done }))
}

func TestRunStopsOnCancel(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, l.Run(ctx), context.Canceled)
}
