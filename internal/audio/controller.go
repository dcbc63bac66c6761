// Package audio keeps exactly one platform audio track enabled.
package audio

import (
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/depeter/cuesync/internal/media"
	"github.com/depeter/cuesync/internal/tracks"
)

// TrackList is the platform's audio track list. IDs are the manifest track
// numbers rendered as decimal strings.
type TrackList interface {
	IDs() []string
	Enabled(id string) bool
	SetEnabled(id string, enabled bool)
	// DispatchChange notifies observers of the list; platforms do not
	// reliably do so for programmatic changes.
	DispatchChange()
}

// Controller selects audio tracks by number or label.
type Controller struct {
	tracks []media.Track
	list   TrackList
}

// NewController returns a controller over the manifest's audio tracks. list
// may be nil, in which case selection is a no-op.
func NewController(audioTracks []media.Track, list TrackList) *Controller {
	return &Controller{tracks: audioTracks, list: list}
}

// SelectDefault enables the preferred audio track. When no track matches
// the platform default stays engaged.
func (c *Controller) SelectDefault(preferredLanguage string) {
	n, ok := tracks.PickDefaultAudioTrack(c.tracks, preferredLanguage)
	if !ok {
		log.Debug().Str("language", preferredLanguage).Msg("No preferred audio track, keeping platform default")
		return
	}
	c.SelectTrack(n)
}

// SelectTrack enables the audio track whose ID matches n and disables all
// others.
func (c *Controller) SelectTrack(n int) {
	if c.list == nil {
		return
	}
	want := strconv.Itoa(n)
	changed := false
	for _, id := range c.list.IDs() {
		enable := id == want
		if c.list.Enabled(id) == enable {
			continue
		}
		c.list.SetEnabled(id, enable)
		changed = true
	}
	if changed {
		log.Debug().Int("track", n).Msg("Selected audio track")
		c.list.DispatchChange()
	}
}

// SelectTrackByLabel selects the first manifest track named label. Unknown
// labels are logged and ignored.
func (c *Controller) SelectTrackByLabel(label string) {
	for _, t := range c.tracks {
		if t.Name == label {
			c.SelectTrack(t.Number)
			return
		}
	}
	log.Warn().Str("label", label).Msg("Audio track label not found")
}

// SelectedTrack returns the enabled track number.
func (c *Controller) SelectedTrack() (int, bool) {
	if c.list == nil {
		return media.NoTrack, false
	}
	for _, id := range c.list.IDs() {
		if !c.list.Enabled(id) {
			continue
		}
		if n, err := strconv.Atoi(id); err == nil {
			return n, true
		}
	}
	return media.NoTrack, false
}

// NextTrackNumber returns the manifest track after n, wrapping to the first.
func (c *Controller) NextTrackNumber(n int) int {
	if len(c.tracks) == 0 {
		return media.NoTrack
	}
	for i, t := range c.tracks {
		if t.Number == n {
			return c.tracks[(i+1)%len(c.tracks)].Number
		}
	}
	return c.tracks[0].Number
}

// Tracks returns the manifest audio tracks.
func (c *Controller) Tracks() []media.Track {
	return c.tracks
}
