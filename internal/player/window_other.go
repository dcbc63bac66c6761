//go:build !linux && !windows

package player

import "errors"

// WindowHandle is not supported on this platform; mpv opens its own window.
func WindowHandle() (int64, error) {
	return 0, errors.New("embedding not supported on this platform")
}
