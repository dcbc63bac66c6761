//go:build windows

package player

import (
	"errors"
	"syscall"
)

var procForegroundWindow = syscall.NewLazyDLL("user32.dll").NewProc("GetForegroundWindow")

// WindowHandle returns the HWND of the foreground window.
func WindowHandle() (int64, error) {
	if hwnd, _, _ := procForegroundWindow.Call(); hwnd != 0 {
		return int64(hwnd), nil
	}
	return 0, errors.New("no foreground window")
}
