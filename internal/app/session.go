package app

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/depeter/cuesync/internal/audio"
	"github.com/depeter/cuesync/internal/media"
	"github.com/depeter/cuesync/internal/stream"
	"github.com/depeter/cuesync/internal/subtitles"
	"github.com/depeter/cuesync/internal/tracklist"
)

// Session is one playback: the subtitle manager, the audio controller and
// the text track list of a single manifest.
type Session struct {
	ID         string
	Subtitles  *subtitles.Manager
	Audio      *audio.Controller
	TextTracks *tracklist.List

	audioList audio.TrackList
}

// changeNotifier is a track list that reports its DispatchChange calls.
type changeNotifier interface {
	OnChange(fn func())
}

// NewSession builds the session for meta and selects the default tracks.
// The error wraps subtitles.ErrRendererInit when the renderer cannot start.
func NewSession(id string, meta media.Metadata, settings media.Settings, r subtitles.Renderer, audioList audio.TrackList, opts ...subtitles.Option) (*Session, error) {
	textTracks := tracklist.New()
	for _, t := range meta.SubtitleTracks {
		textTracks.Add(tracklist.Entry{
			ID:       strconv.Itoa(t.Number),
			Label:    t.Name,
			Language: t.Language,
		})
	}

	opts = append([]subtitles.Option{subtitles.WithTextTracks(textTracks)}, opts...)
	mgr, err := subtitles.NewManager(meta, settings, r, opts...)
	if err != nil {
		return nil, fmt.Errorf("start session %s: %w", id, err)
	}

	s := &Session{
		ID:         id,
		Subtitles:  mgr,
		Audio:      audio.NewController(meta.AudioTracks, audioList),
		TextTracks: textTracks,
		audioList:  audioList,
	}
	s.Audio.SelectDefault(settings.PreferredAudioLanguage)
	return s, nil
}

// WatchTracks observes the platform track lists. onSubtitles is called with
// the label of the showing text track whenever the text track list changes,
// and once immediately. onAudio is called with the label of the enabled
// audio track when the audio list dispatches a change; it is never called
// when the audio list cannot notify.
func (s *Session) WatchTracks(onSubtitles, onAudio func(label string)) {
	s.TextTracks.OnChange(func() { onSubtitles(s.ShowingSubtitleLabel()) })
	onSubtitles(s.ShowingSubtitleLabel())

	if n, ok := s.audioList.(changeNotifier); ok {
		n.OnChange(func() {
			cur, _ := s.Audio.SelectedTrack()
			onAudio(s.AudioLabel(cur))
		})
	}
}

// ShowingSubtitleLabel describes the text track the platform list shows.
func (s *Session) ShowingSubtitleLabel() string {
	id, ok := s.TextTracks.Showing()
	if !ok {
		return s.SubtitleLabel(media.NoTrack)
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return s.SubtitleLabel(media.NoTrack)
	}
	return s.SubtitleLabel(n)
}

// Handle applies an in-session stream message.
func (s *Session) Handle(msg stream.Message) error {
	switch m := msg.(type) {
	case stream.SubtitleEvent:
		s.Subtitles.OnSubtitleEvent(m.SubtitleEvent)
	case stream.AddSubtitleTrack:
		return s.Subtitles.AddTrack(m.Track)
	default:
		log.Trace().Str("type", string(msg.Type())).Msg("Message not handled by session")
	}
	return nil
}

// CycleSubtitles selects the next subtitle track, wrapping through
// "off" after the last one, and returns the new selection.
func (s *Session) CycleSubtitles() (int, error) {
	cur, _ := s.Subtitles.SelectedTrack()
	next := s.Subtitles.NextTrackNumber(cur)
	if err := s.Subtitles.SelectTrack(next); err != nil {
		return media.NoTrack, err
	}
	n, _ := s.Subtitles.SelectedTrack()
	return n, nil
}

// CycleAudio selects the next audio track and returns it.
func (s *Session) CycleAudio() int {
	cur, _ := s.Audio.SelectedTrack()
	next := s.Audio.NextTrackNumber(cur)
	if next != media.NoTrack {
		s.Audio.SelectTrack(next)
	}
	return next
}

// SubtitleLabel describes track n for the OSD.
func (s *Session) SubtitleLabel(n int) string {
	if n == media.NoTrack {
		return "Subtitles: off"
	}
	for _, t := range s.Subtitles.Tracks() {
		if t.Number == n {
			label := "Subtitles: " + t.DisplayName()
			if !s.Subtitles.IsTrackSupported(n) {
				label += " (unsupported)"
			}
			return label
		}
	}
	return "Subtitles: off"
}

// AudioLabel describes audio track n for the OSD.
func (s *Session) AudioLabel(n int) string {
	for _, t := range s.Audio.Tracks() {
		if t.Number == n {
			return "Audio: " + t.DisplayName()
		}
	}
	return "Audio: default"
}

// Close releases the renderer. It is safe to call more than once.
func (s *Session) Close() {
	s.Subtitles.Terminate()
}
