package testutil

import (
	"errors"
	"fmt"

	"github.com/Norgate-AV/ontop/internal/engine"
	"github.com/Norgate-AV/ontop/internal/windows"
)

// ErrInvalidHandle is what the mock window manager reports for handles it
// does not know or that were destroyed
var ErrInvalidHandle = errors.New("invalid window handle")

// MockWindow is one fake top-level window
type MockWindow struct {
	Hwnd    uintptr
	Title   string
	Visible bool
	Style   uint32
	ExStyle uint32
	Rect    windows.Rect
	Pid     uint32
}

type StyleCall struct {
	Hwnd  uintptr
	Class windows.StyleClass
	Style uint32
}

type SetWindowPosCall struct {
	Hwnd        uintptr
	InsertAfter uintptr
	Flags       uint32
}

// MockWindowSystem is a stateful fake window manager. Style writes are kept,
// so reading after writing returns the written mask.
type MockWindowSystem struct {
	Windows      []*MockWindow
	Foreground   uintptr
	ScreenWidth  int
	ScreenHeight int
	Roots        map[uintptr]uintptr

	EnumerateErr    error
	GetStyleErr     error
	SetStyleErr     error
	SetWindowPosErr error
	ScreenErr       error

	// SetWindowPosFailures makes the next N SetWindowPos calls fail
	SetWindowPosFailures int

	// AfterEnumerate runs once EnumerateWindows has taken its snapshot, to
	// change windows between enumeration and the per-handle queries.
	AfterEnumerate func(m *MockWindowSystem)

	EnumerateCalls    int
	GetStyleCalls     []StyleCall
	SetStyleCalls     []StyleCall
	SetWindowPosCalls []SetWindowPosCall
}

func NewMockWindowSystem() *MockWindowSystem {
	return &MockWindowSystem{
		Windows:           []*MockWindow{},
		ScreenWidth:       1920,
		ScreenHeight:      1080,
		Roots:             make(map[uintptr]uintptr),
		GetStyleCalls:     []StyleCall{},
		SetStyleCalls:     []StyleCall{},
		SetWindowPosCalls: []SetWindowPosCall{},
	}
}

func (m *MockWindowSystem) find(hwnd uintptr) *MockWindow {
	for _, w := range m.Windows {
		if w.Hwnd == hwnd {
			return w
		}
	}

	return nil
}

func (m *MockWindowSystem) EnumerateWindows() ([]uintptr, error) {
	m.EnumerateCalls++

	if m.EnumerateErr != nil {
		return nil, m.EnumerateErr
	}

	handles := make([]uintptr, 0, len(m.Windows))
	for _, w := range m.Windows {
		handles = append(handles, w.Hwnd)
	}

	if m.AfterEnumerate != nil {
		m.AfterEnumerate(m)
	}

	return handles, nil
}

func (m *MockWindowSystem) IsWindow(hwnd uintptr) bool {
	return m.find(hwnd) != nil
}

func (m *MockWindowSystem) IsWindowVisible(hwnd uintptr) bool {
	w := m.find(hwnd)
	return w != nil && w.Visible
}

func (m *MockWindowSystem) GetWindowText(hwnd uintptr) string {
	if w := m.find(hwnd); w != nil {
		return w.Title
	}

	return ""
}

func (m *MockWindowSystem) GetWindowStyle(hwnd uintptr, class windows.StyleClass) (uint32, error) {
	if m.GetStyleErr != nil {
		return 0, m.GetStyleErr
	}

	w := m.find(hwnd)
	if w == nil {
		return 0, fmt.Errorf("GetWindowLongW(%s): %w", windows.FormatHandle(hwnd), ErrInvalidHandle)
	}

	style := w.Style
	if class == windows.StyleExtended {
		style = w.ExStyle
	}

	m.GetStyleCalls = append(m.GetStyleCalls, StyleCall{Hwnd: hwnd, Class: class, Style: style})

	return style, nil
}

func (m *MockWindowSystem) SetWindowStyle(hwnd uintptr, class windows.StyleClass, style uint32) error {
	m.SetStyleCalls = append(m.SetStyleCalls, StyleCall{Hwnd: hwnd, Class: class, Style: style})

	if m.SetStyleErr != nil {
		return m.SetStyleErr
	}

	w := m.find(hwnd)
	if w == nil {
		return fmt.Errorf("SetWindowLongW(%s): %w", windows.FormatHandle(hwnd), ErrInvalidHandle)
	}

	if class == windows.StyleExtended {
		w.ExStyle = style
	} else {
		w.Style = style
	}

	return nil
}

func (m *MockWindowSystem) SetWindowPos(hwnd, insertAfter uintptr, flags uint32) error {
	m.SetWindowPosCalls = append(m.SetWindowPosCalls, SetWindowPosCall{
		Hwnd:        hwnd,
		InsertAfter: insertAfter,
		Flags:       flags,
	})

	if m.SetWindowPosFailures > 0 {
		m.SetWindowPosFailures--
		return fmt.Errorf("SetWindowPos(%s): access denied", windows.FormatHandle(hwnd))
	}

	if m.SetWindowPosErr != nil {
		return m.SetWindowPosErr
	}

	w := m.find(hwnd)
	if w == nil {
		return fmt.Errorf("SetWindowPos(%s): %w", windows.FormatHandle(hwnd), ErrInvalidHandle)
	}

	if insertAfter == windows.HWND_TOPMOST {
		w.ExStyle |= windows.WS_EX_TOPMOST
	}

	if flags&windows.SWP_SHOWWINDOW != 0 {
		w.Visible = true
	}

	return nil
}

func (m *MockWindowSystem) GetForegroundWindow() uintptr {
	return m.Foreground
}

func (m *MockWindowSystem) GetWindowRect(hwnd uintptr) (windows.Rect, error) {
	w := m.find(hwnd)
	if w == nil {
		return windows.Rect{}, fmt.Errorf("GetWindowRect(%s): %w", windows.FormatHandle(hwnd), ErrInvalidHandle)
	}

	return w.Rect, nil
}

func (m *MockWindowSystem) GetWindowPid(hwnd uintptr) uint32 {
	if w := m.find(hwnd); w != nil {
		return w.Pid
	}

	return 0
}

func (m *MockWindowSystem) GetScreenSize() (int, int, error) {
	if m.ScreenErr != nil {
		return 0, 0, m.ScreenErr
	}

	return m.ScreenWidth, m.ScreenHeight, nil
}

func (m *MockWindowSystem) GetRootWindow(hwnd uintptr) uintptr {
	if root, ok := m.Roots[hwnd]; ok {
		return root
	}

	return hwnd
}

// Destroy removes a window, as if its owner closed it
func (m *MockWindowSystem) Destroy(hwnd uintptr) {
	for i, w := range m.Windows {
		if w.Hwnd == hwnd {
			m.Windows = append(m.Windows[:i], m.Windows[i+1:]...)
			return
		}
	}
}

// SetWindowPosCallsFor returns the SetWindowPos calls made with the given flags
func (m *MockWindowSystem) SetWindowPosCallsFor(flags uint32) []SetWindowPosCall {
	var calls []SetWindowPosCall

	for _, c := range m.SetWindowPosCalls {
		if c.Flags == flags {
			calls = append(calls, c)
		}
	}

	return calls
}

// Window returns the fake window for hwnd, or nil
func (m *MockWindowSystem) Window(hwnd uintptr) *MockWindow {
	return m.find(hwnd)
}

// Helper methods for fluent configuration
func (m *MockWindowSystem) WithWindow(hwnd uintptr, title string) *MockWindowSystem {
	m.Windows = append(m.Windows, &MockWindow{Hwnd: hwnd, Title: title, Visible: true})
	return m
}

func (m *MockWindowSystem) WithHiddenWindow(hwnd uintptr, title string) *MockWindowSystem {
	m.Windows = append(m.Windows, &MockWindow{Hwnd: hwnd, Title: title})
	return m
}

func (m *MockWindowSystem) WithStyle(hwnd uintptr, class windows.StyleClass, style uint32) *MockWindowSystem {
	w := m.ensure(hwnd)

	if class == windows.StyleExtended {
		w.ExStyle = style
	} else {
		w.Style = style
	}

	return m
}

func (m *MockWindowSystem) WithRect(hwnd uintptr, rect windows.Rect) *MockWindowSystem {
	m.ensure(hwnd).Rect = rect
	return m
}

func (m *MockWindowSystem) WithPid(hwnd uintptr, pid uint32) *MockWindowSystem {
	m.ensure(hwnd).Pid = pid
	return m
}

func (m *MockWindowSystem) WithForeground(hwnd uintptr) *MockWindowSystem {
	m.Foreground = hwnd
	return m
}

func (m *MockWindowSystem) WithScreen(width, height int) *MockWindowSystem {
	m.ScreenWidth = width
	m.ScreenHeight = height
	return m
}

func (m *MockWindowSystem) WithRoot(child, root uintptr) *MockWindowSystem {
	m.Roots[child] = root
	return m
}

func (m *MockWindowSystem) WithEnumerateError(err error) *MockWindowSystem {
	m.EnumerateErr = err
	return m
}

func (m *MockWindowSystem) WithGetStyleError(err error) *MockWindowSystem {
	m.GetStyleErr = err
	return m
}

func (m *MockWindowSystem) WithSetStyleError(err error) *MockWindowSystem {
	m.SetStyleErr = err
	return m
}

func (m *MockWindowSystem) WithSetWindowPosError(err error) *MockWindowSystem {
	m.SetWindowPosErr = err
	return m
}

func (m *MockWindowSystem) WithSetWindowPosFailures(n int) *MockWindowSystem {
	m.SetWindowPosFailures = n
	return m
}

func (m *MockWindowSystem) WithScreenError(err error) *MockWindowSystem {
	m.ScreenErr = err
	return m
}

func (m *MockWindowSystem) WithAfterEnumerate(fn func(m *MockWindowSystem)) *MockWindowSystem {
	m.AfterEnumerate = fn
	return m
}

// WithUnsupported makes every call behave like a platform without user32
func (m *MockWindowSystem) WithUnsupported() *MockWindowSystem {
	m.EnumerateErr = windows.ErrUnsupported
	m.GetStyleErr = windows.ErrUnsupported
	m.SetStyleErr = windows.ErrUnsupported
	m.SetWindowPosErr = windows.ErrUnsupported
	m.ScreenErr = windows.ErrUnsupported
	return m
}

func (m *MockWindowSystem) ensure(hwnd uintptr) *MockWindow {
	if w := m.find(hwnd); w != nil {
		return w
	}

	w := &MockWindow{Hwnd: hwnd, Visible: true}
	m.Windows = append(m.Windows, w)

	return w
}

// MockProcessInspector resolves pids from a fixed table
type MockProcessInspector struct {
	Names map[uint32]string
	Err   error
	Calls []uint32
}

func NewMockProcessInspector() *MockProcessInspector {
	return &MockProcessInspector{Names: make(map[uint32]string)}
}

func (m *MockProcessInspector) ProcessName(pid uint32) (string, error) {
	m.Calls = append(m.Calls, pid)

	if m.Err != nil {
		return "", m.Err
	}

	name, ok := m.Names[pid]
	if !ok {
		return "", fmt.Errorf("process %d not found", pid)
	}

	return name, nil
}

func (m *MockProcessInspector) WithProcess(pid uint32, name string) *MockProcessInspector {
	m.Names[pid] = name
	return m
}

func (m *MockProcessInspector) WithError(err error) *MockProcessInspector {
	m.Err = err
	return m
}

// MockSampleSink keeps every recorded sample
type MockSampleSink struct {
	Samples []engine.Sample
	Err     error
}

func NewMockSampleSink() *MockSampleSink {
	return &MockSampleSink{Samples: []engine.Sample{}}
}

func (m *MockSampleSink) Record(s engine.Sample) error {
	if m.Err != nil {
		return m.Err
	}

	m.Samples = append(m.Samples, s)

	return nil
}

func (m *MockSampleSink) WithError(err error) *MockSampleSink {
	m.Err = err
	return m
}
