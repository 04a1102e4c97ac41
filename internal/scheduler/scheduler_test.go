package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/ontop/internal/logger"
)

func countdown(n int, runs *int) TaskFunc {
	return func(ctx context.Context) bool {
		*runs++
		return *runs < n
	}
}

func TestScheduler_RunReturnsWhenAllTasksRetire(t *testing.T) {
	t.Parallel()

	s := New(logger.NewNoOpLogger())

	var a, b int
	s.Every("a", time.Millisecond, countdown(3, &a))
	s.Every("b", 2*time.Millisecond, countdown(2, &b))

	err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, a)
	assert.Equal(t, 2, b)
	assert.Equal(t, 0, s.Len())
}

func TestScheduler_FirstRunIsImmediateInRegistrationOrder(t *testing.T) {
	t.Parallel()

	s := New(logger.NewNoOpLogger())

	var order []string
	s.Every("enforce", time.Hour, func(ctx context.Context) bool {
		order = append(order, "enforce")
		return false
	})
	s.Every("acquire", time.Hour, func(ctx context.Context) bool {
		order = append(order, "acquire")
		return false
	})

	start := time.Now()
	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, []string{"enforce", "acquire"}, order)
	assert.Less(t, time.Since(start), time.Second)
}

func TestScheduler_TasksNeverOverlap(t *testing.T) {
	t.Parallel()

	s := New(logger.NewNoOpLogger())

	inFlight := 0
	maxInFlight := 0
	runs := 0

	work := func(ctx context.Context) bool {
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}

		time.Sleep(2 * time.Millisecond)
		inFlight--
		runs++

		return runs < 12
	}

	s.Every("one", time.Millisecond, work)
	s.Every("two", time.Millisecond, work)
	s.Every("three", time.Millisecond, work)

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 1, maxInFlight)
}

func TestScheduler_IntervalCountsFromEndOfRun(t *testing.T) {
	t.Parallel()

	s := New(logger.NewNoOpLogger())

	var stamps []time.Time
	s.Every("tick", 20*time.Millisecond, func(ctx context.Context) bool {
		stamps = append(stamps, time.Now())
		return len(stamps) < 3
	})

	require.NoError(t, s.Run(context.Background()))
	require.Len(t, stamps, 3)

	assert.GreaterOrEqual(t, stamps[1].Sub(stamps[0]), 20*time.Millisecond)
	assert.GreaterOrEqual(t, stamps[2].Sub(stamps[1]), 20*time.Millisecond)
}

func TestScheduler_CancelStopsRun(t *testing.T) {
	t.Parallel()

	s := New(logger.NewNoOpLogger())
	ctx, cancel := context.WithCancel(context.Background())

	runs := 0
	s.Every("forever", time.Millisecond, func(ctx context.Context) bool {
		runs++
		if runs == 2 {
			cancel()
		}

		return true
	})

	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, runs)
}

func TestScheduler_CancelWhileWaiting(t *testing.T) {
	t.Parallel()

	s := New(logger.NewNoOpLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	runs := 0
	s.Every("slow", time.Hour, func(ctx context.Context) bool {
		runs++
		return true
	})

	start := time.Now()
	err := s.Run(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, runs)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestScheduler_PanickingTaskIsKept(t *testing.T) {
	t.Parallel()

	s := New(logger.NewNoOpLogger())

	flaky := 0
	s.Every("flaky", time.Millisecond, func(ctx context.Context) bool {
		flaky++
		if flaky == 1 {
			panic("window manager went away")
		}

		return false
	})

	steady := 0
	s.Every("steady", time.Millisecond, countdown(3, &steady))

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 2, flaky)
	assert.Equal(t, 3, steady)
}

func TestScheduler_EveryRejectsNonPositiveInterval(t *testing.T) {
	t.Parallel()

	s := New(logger.NewNoOpLogger())

	assert.Panics(t, func() {
		s.Every("bad", 0, func(ctx context.Context) bool { return false })
	})
}

func TestScheduler_EmptyRunReturnsImmediately(t *testing.T) {
	t.Parallel()

	s := New(logger.NewNoOpLogger())
	assert.NoError(t, s.Run(context.Background()))
}
