package windows

import (
	"errors"
	"syscall"
)

// ErrCallFailed stands in for the errno of a call that reported failure
// without setting one.
var ErrCallFailed = errors.New("call failed without an error code")

// lastError turns the errno captured by LazyProc.Call into an error, treating
// ERROR_SUCCESS as no error at all.
func lastError(err error) error {
	var errno syscall.Errno
	if errors.As(err, &errno) && errno == 0 {
		return nil
	}

	return err
}

// callError is lastError for calls whose return value already said they
// failed, so it never yields nil.
func callError(err error) error {
	if err := lastError(err); err != nil {
		return err
	}

	return ErrCallFailed
}
