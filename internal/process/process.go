// Package process resolves window-owning process IDs to executable names.
package process

import (
	"errors"
	"fmt"
	"math"
	"sync"

	gops "github.com/shirou/gopsutil/v4/process"
)

// ErrInvalidPid is returned for pids that cannot name a process
var ErrInvalidPid = errors.New("invalid process id")

// Inspector looks up process names. Names are cached per pid because the
// diagnostic sampler asks about the same foreground process over and over.
type Inspector struct {
	mu    sync.Mutex
	names map[uint32]string
}

// NewInspector creates an inspector with an empty cache
func NewInspector() *Inspector {
	return &Inspector{names: make(map[uint32]string)}
}

// ProcessName returns the executable name of pid, e.g. "notepad.exe"
func (i *Inspector) ProcessName(pid uint32) (string, error) {
	if pid == 0 || pid > math.MaxInt32 {
		return "", fmt.Errorf("%w: %d", ErrInvalidPid, pid)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if name, ok := i.names[pid]; ok {
		return name, nil
	}

	p, err := gops.NewProcess(int32(pid))
	if err != nil {
		return "", fmt.Errorf("process %d: %w", pid, err)
	}

	name, err := p.Name()
	if err != nil {
		return "", fmt.Errorf("name of process %d: %w", pid, err)
	}

	i.names[pid] = name

	return name, nil
}

// Forget drops a cached name, for when a pid may have been reused
func (i *Inspector) Forget(pid uint32) {
	i.mu.Lock()
	defer i.mu.Unlock()

	delete(i.names, pid)
}
