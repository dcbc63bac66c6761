package subtitles

import (
	"github.com/depeter/cuesync/internal/media"
	"github.com/depeter/cuesync/internal/tracklist"
)

// Renderer is the external subtitle compositor bound to the video surface.
// A Manager owns its renderer exclusively and calls Init at most once per
// successful construction and Destroy exactly once after a successful Init.
type Renderer interface {
	// Init builds the engine with an initial header and registers fonts.
	Init(header string, fonts []string) error
	// SetTrack replaces the loaded script header and clears all events.
	SetTrack(header string)
	CreateEvent(ev RenderEvent)
	Resize()
	Destroy()
}

// StyleOverrider is implemented by renderers that can replace the default
// style of the loaded track.
type StyleOverrider interface {
	StyleOverride(c media.Customization)
	DisableStyleOverride()
}

// TextTrackList is the platform's native subtitle track list attached to
// the video surface.
type TextTrackList interface {
	IDs() []string
	SetMode(id string, mode tracklist.Mode) bool
	DispatchChange()
}

type textTrackAdder interface {
	Add(e tracklist.Entry)
}

// Stats receives engine counters.
type Stats interface {
	EventRecorded(track int, isNew bool)
	EventRendered(track int)
	TrackReplayed(track int, events int)
	TrackSelected(track int)
}

type noopStats struct{}

func (noopStats) EventRecorded(int, bool) {}
func (noopStats) EventRendered(int)       {}
func (noopStats) TrackReplayed(int, int)  {}
func (noopStats) TrackSelected(int)       {}
