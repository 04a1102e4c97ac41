package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/ontop/internal/engine"
	"github.com/Norgate-AV/ontop/internal/logger"
	"github.com/Norgate-AV/ontop/internal/testutil"
	"github.com/Norgate-AV/ontop/internal/windows"
)

func fastOptions() engine.Options {
	return engine.Options{
		EnforceInterval:    time.Millisecond,
		AcquireInterval:    time.Millisecond,
		DiagnosticInterval: time.Millisecond,
	}
}

func TestEngine_NothingToDo(t *testing.T) {
	t.Parallel()

	e := engine.New(logger.NewNoOpLogger(), testutil.NewMockWindowSystem(), nil, engine.Options{})

	assert.Nil(t, e.Enforcer())
	assert.Nil(t, e.Acquirer())
	assert.Nil(t, e.Sampler())
	assert.NoError(t, e.Run(context.Background()))
}

func TestEngine_AcquisitionOnlyFinishesOnItsOwn(t *testing.T) {
	t.Parallel()

	mockWin := testutil.NewMockWindowSystem().
		WithWindow(game, "CITEEZON — Battle").
		WithStyle(game, windows.StyleBasic, windows.WS_POPUP)

	opts := fastOptions()
	opts.TargetTitle = "citeezon"

	e := engine.New(logger.NewNoOpLogger(), mockWin, nil, opts)
	require.NotNil(t, e.Acquirer())
	assert.Nil(t, e.Enforcer())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, e.Run(ctx))
	assert.Equal(t, engine.Done, e.Acquirer().State())
	assert.Equal(t, uint32(0x00CF0000), mockWin.Window(game).Style)
	assert.Equal(t, 1, mockWin.EnumerateCalls)
}

func TestEngine_StopsWhenOverlayCloses(t *testing.T) {
	t.Parallel()

	mockWin := testutil.NewMockWindowSystem().
		WithWindow(overlay, "Timer").
		WithWindow(game, "Notepad").
		WithForeground(game)

	opts := fastOptions()
	opts.Target = overlay
	opts.TargetTitle = "citeezon" // never appears
	opts.Diagnostics = true
	opts.Sink = &closingSink{mockWin: mockWin, after: 3}

	e := engine.New(logger.NewNoOpLogger(), mockWin, testutil.NewMockProcessInspector(), opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, e.Run(ctx))
	assert.True(t, e.TargetGone())
	assert.NoError(t, ctx.Err(), "stopped by the overlay closing, not the timeout")
	assert.Equal(t, engine.Searching, e.Acquirer().State())
	assert.Positive(t, e.Enforcer().Stats().Pins)
	assert.Zero(t, mockWin.Window(game).ExStyle, "only the overlay is restyled")
}

func TestEngine_CancelledByCaller(t *testing.T) {
	t.Parallel()

	mockWin := testutil.NewMockWindowSystem().WithWindow(overlay, "Timer")

	opts := fastOptions()
	opts.Target = overlay

	e := engine.New(logger.NewNoOpLogger(), mockWin, nil, opts)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := e.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, e.TargetGone())
	assert.Positive(t, e.Enforcer().Stats().Pins)
	assert.Equal(t, uint32(0x08000088), mockWin.Window(overlay).ExStyle)
}

func TestEngine_UnsupportedDegradesToNoOp(t *testing.T) {
	t.Parallel()

	mockWin := testutil.NewMockWindowSystem().WithUnsupported()

	opts := fastOptions()
	opts.Target = overlay
	opts.TargetTitle = "game"
	opts.Diagnostics = true
	opts.Sink = testutil.NewMockSampleSink()

	e := engine.New(logger.NewNoOpLogger(), mockWin, nil, opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, e.Run(ctx), "every loop retires instead of failing")
	assert.True(t, e.Enforcer().Unsupported())
	assert.NoError(t, ctx.Err())
}

func TestEngine_DefaultIntervals(t *testing.T) {
	t.Parallel()

	e := engine.New(logger.NewNoOpLogger(), testutil.NewMockWindowSystem(), nil, engine.Options{
		Target:      overlay,
		Diagnostics: true,
	})

	assert.NotNil(t, e.Enforcer())
	assert.NotNil(t, e.Sampler())
	assert.Nil(t, e.Acquirer())
}

// closingSink destroys the overlay after a number of samples
type closingSink struct {
	mockWin *testutil.MockWindowSystem
	after   int
	seen    int
}

func (s *closingSink) Record(engine.Sample) error {
	s.seen++
	if s.seen == s.after {
		s.mockWin.Destroy(overlay)
	}

	return nil
}
