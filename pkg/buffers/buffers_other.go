//go:build !unix

package buffers

import (
	"errors"
)

var errLockUnsupported = errors.New("memory locking is not supported on this platform")

func lock(b []byte) error {
	return errLockUnsupported
}

func unlock(b []byte) error {
	return errLockUnsupported
}
