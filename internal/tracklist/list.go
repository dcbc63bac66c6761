// Package tracklist mirrors the platform's native text track list so that
// control surfaces can observe which subtitle track is showing.
package tracklist

import "sync"

// Mode is the display mode of a text track.
type Mode string

const (
	ModeDisabled Mode = "disabled"
	ModeHidden   Mode = "hidden"
	ModeShowing  Mode = "showing"
)

// Entry is one text track.
type Entry struct {
	ID       string
	Label    string
	Language string
	Mode     Mode
}

// List is a text track list with change listeners. It is safe for
// concurrent use; listeners run on the goroutine that calls DispatchChange.
type List struct {
	mu        sync.RWMutex
	entries   []Entry
	listeners []func()
}

// New returns an empty list.
func New() *List {
	return &List{}
}

// Add appends a track in disabled mode. Adding an existing ID is a no-op.
func (l *List) Add(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, existing := range l.entries {
		if existing.ID == e.ID {
			return
		}
	}
	if e.Mode == "" {
		e.Mode = ModeDisabled
	}
	l.entries = append(l.entries, e)
}

// IDs returns the track IDs in insertion order.
func (l *List) IDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]string, len(l.entries))
	for i, e := range l.entries {
		ids[i] = e.ID
	}
	return ids
}

// Entries returns a copy of the tracks.
func (l *List) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// SetMode changes a track's mode and reports whether it changed.
func (l *List) SetMode(id string, mode Mode) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.entries {
		if l.entries[i].ID != id {
			continue
		}
		if l.entries[i].Mode == mode {
			return false
		}
		l.entries[i].Mode = mode
		return true
	}
	return false
}

// Showing returns the ID of the first showing track.
func (l *List) Showing() (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, e := range l.entries {
		if e.Mode == ModeShowing {
			return e.ID, true
		}
	}
	return "", false
}

// OnChange registers a listener called by DispatchChange.
func (l *List) OnChange(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

// DispatchChange notifies all listeners.
func (l *List) DispatchChange() {
	l.mu.RLock()
	listeners := make([]func(), len(l.listeners))
	copy(listeners, l.listeners)
	l.mu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}
