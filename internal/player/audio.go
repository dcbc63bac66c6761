package player

import (
	"strconv"

	"github.com/rs/zerolog/log"
)

// AudioTracks exposes mpv's audio tracks under manifest track numbers. The
// n-th manifest audio track maps to the n-th audio entry of mpv's
// track-list. Enable flags are staged and applied by DispatchChange.
type AudioTracks struct {
	b         Backend
	numbers   []string
	mpvIDs    []string
	enabled   map[string]bool
	listeners []func()
}

// NewAudioTracks maps the manifest track numbers onto mpv's track list.
func NewAudioTracks(b Backend, numbers []int) *AudioTracks {
	a := &AudioTracks{b: b, enabled: make(map[string]bool)}
	for _, n := range numbers {
		a.numbers = append(a.numbers, strconv.Itoa(n))
	}
	a.Refresh()
	return a
}

// Refresh rereads mpv's audio tracks and the active one. Call it after a
// file is loaded.
func (a *AudioTracks) Refresh() {
	a.mpvIDs = a.mpvIDs[:0]
	count, _ := strconv.Atoi(a.b.Property("track-list/count"))
	for i := 0; i < count; i++ {
		prefix := "track-list/" + strconv.Itoa(i) + "/"
		if a.b.Property(prefix+"type") != "audio" {
			continue
		}
		a.mpvIDs = append(a.mpvIDs, a.b.Property(prefix+"id"))
	}

	aid := a.b.Property("aid")
	clear(a.enabled)
	for i, id := range a.IDs() {
		a.enabled[id] = a.mpvIDs[i] == aid
	}
}

// IDs returns the manifest numbers that have a matching mpv track.
func (a *AudioTracks) IDs() []string {
	n := min(len(a.numbers), len(a.mpvIDs))
	return a.numbers[:n]
}

func (a *AudioTracks) Enabled(id string) bool {
	return a.enabled[id]
}

func (a *AudioTracks) SetEnabled(id string, enabled bool) {
	a.enabled[id] = enabled
}

// DispatchChange applies the enabled track to mpv and notifies listeners.
func (a *AudioTracks) DispatchChange() {
	aid := "no"
	for i, id := range a.IDs() {
		if a.enabled[id] {
			aid = a.mpvIDs[i]
			break
		}
	}
	if err := a.b.SetProperty("aid", aid); err != nil {
		log.Warn().Err(err).Str("aid", aid).Msg("Failed to switch audio track")
	}
	for _, fn := range a.listeners {
		fn()
	}
}

// OnChange registers a listener called by DispatchChange.
func (a *AudioTracks) OnChange(fn func()) {
	a.listeners = append(a.listeners, fn)
}
