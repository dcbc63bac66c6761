//go:build linux

package player

/*
#cgo LDFLAGS: -lX11
#include <X11/Xlib.h>

long focusedWindowX11() {
    Display *d = XOpenDisplay(NULL);
    if (!d) return 0;
    Window w;
    int revert;
    XGetInputFocus(d, &w, &revert);
    XCloseDisplay(d);
    return (long)w;
}
*/
import "C"

import "errors"

// WindowHandle returns the X11 id of the focused window, which is the game
// window right after it opens.
func WindowHandle() (int64, error) {
	if wid := int64(C.focusedWindowX11()); wid != 0 {
		return wid, nil
	}
	return 0, errors.New("no focused X11 window")
}
