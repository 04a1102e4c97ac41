package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/ontop/internal/config"
	"github.com/Norgate-AV/ontop/internal/logger"
	"github.com/Norgate-AV/ontop/internal/testutil"
	"github.com/Norgate-AV/ontop/internal/windows"
)

// pickIndex returns a picker that chooses records[i], or cancels when i < 0
func pickIndex(i int, seen *[]windows.WindowInfo) windowPicker {
	return func(records []windows.WindowInfo) (windows.WindowInfo, bool, error) {
		*seen = records
		if i < 0 {
			return windows.WindowInfo{}, false, nil
		}

		return records[i], true, nil
	}
}

func TestPickAndApply_ChosenWindowGetsFrame(t *testing.T) {
	t.Parallel()

	mockWin := testutil.NewMockWindowSystem().
		WithWindow(1, "Notepad").
		WithWindow(2, "CITEEZON - Battle").
		WithStyle(2, windows.StyleBasic, windows.WS_POPUP).
		WithWindow(3, "")

	var seen []windows.WindowInfo

	err := pickAndApply(logger.NewNoOpLogger(), mockWin, pickIndex(1, &seen))
	require.NoError(t, err)

	assert.Len(t, seen, 2, "untitled windows are not offered")
	assert.Equal(t, uint32(0x00CF0000), mockWin.Window(2).Style)
	assert.Zero(t, mockWin.Window(1).Style)
}

func TestPickAndApply_Cancel(t *testing.T) {
	t.Parallel()

	mockWin := testutil.NewMockWindowSystem().WithWindow(1, "Notepad")

	var seen []windows.WindowInfo

	err := pickAndApply(logger.NewNoOpLogger(), mockWin, pickIndex(-1, &seen))
	require.NoError(t, err)
	assert.Empty(t, mockWin.SetStyleCalls)
}

func TestPickAndApply_NoWindows(t *testing.T) {
	t.Parallel()

	called := false
	picker := func([]windows.WindowInfo) (windows.WindowInfo, bool, error) {
		called = true
		return windows.WindowInfo{}, false, nil
	}

	err := pickAndApply(logger.NewNoOpLogger(), testutil.NewMockWindowSystem(), picker)
	assert.ErrorIs(t, err, config.ErrNoTarget)
	assert.False(t, called)
}

func TestPickAndApply_PickerError(t *testing.T) {
	t.Parallel()

	mockWin := testutil.NewMockWindowSystem().WithWindow(1, "Notepad")
	pickerErr := errors.New("no terminal")

	err := pickAndApply(logger.NewNoOpLogger(), mockWin, func([]windows.WindowInfo) (windows.WindowInfo, bool, error) {
		return windows.WindowInfo{}, false, pickerErr
	})

	assert.ErrorIs(t, err, pickerErr)
	assert.Empty(t, mockWin.SetStyleCalls)
}

func TestPickAndApply_WriteRejected(t *testing.T) {
	t.Parallel()

	mockWin := testutil.NewMockWindowSystem().
		WithWindow(1, "Elevated Game").
		WithSetStyleError(errors.New("access denied"))

	var seen []windows.WindowInfo

	err := pickAndApply(logger.NewNoOpLogger(), mockWin, pickIndex(0, &seen))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Elevated Game")
}

func TestAcquireByTitle_SwitchesOnceFound(t *testing.T) {
	t.Parallel()

	mockWin := testutil.NewMockWindowSystem().
		WithWindow(7, "CITEEZON - Battle").
		WithStyle(7, windows.StyleBasic, windows.WS_POPUP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := acquireByTitle(ctx, logger.NewNoOpLogger(), mockWin, "citeezon", time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x00CF0000), mockWin.Window(7).Style)
}

func TestAcquireByTitle_InterruptedWhileWaiting(t *testing.T) {
	t.Parallel()

	mockWin := testutil.NewMockWindowSystem().WithWindow(1, "Notepad")

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	err := acquireByTitle(ctx, logger.NewNoOpLogger(), mockWin, "citeezon", time.Millisecond)
	assert.NoError(t, err)
	assert.Greater(t, mockWin.EnumerateCalls, 1)
	assert.Empty(t, mockWin.SetStyleCalls)
}

func TestAcquireByTitle_Unsupported(t *testing.T) {
	t.Parallel()

	mockWin := testutil.NewMockWindowSystem().WithUnsupported()

	err := acquireByTitle(context.Background(), logger.NewNoOpLogger(), mockWin, "game", time.Millisecond)
	assert.ErrorIs(t, err, windows.ErrUnsupported)
}
