package subtitles

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/depeter/cuesync/internal/media"
	"github.com/depeter/cuesync/internal/tracklist"
	"github.com/depeter/cuesync/internal/tracks"
)

// ErrRendererInit is returned when the renderer cannot be constructed. It is
// the only fatal condition of the manager.
var ErrRendererInit = errors.New("subtitle renderer init failed")

// State is the renderer-facing state of a Manager.
type State int

const (
	StateUninitialized State = iota
	StateNoTrack
	StateTrackActive
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateNoTrack:
		return "no-track"
	case StateTrackActive:
		return "track-active"
	case StateDisposed:
		return "disposed"
	}
	return "unknown"
}

// Manager keeps the selected subtitle track rendered while events are pushed
// in from the demuxer. Every event is recorded in a per-track ledger so that
// switching to a track replays its full history exactly once.
//
// A Manager is owned by the UI goroutine and is not safe for concurrent use.
type Manager struct {
	renderer   Renderer
	textTracks TextTrackList
	stats      Stats
	fonts      []string
	settings   media.Settings

	tracks map[int]media.Track
	styles map[int]StyleMap
	ledger *Ledger

	current     int
	initialized bool
	disposed    bool

	onTrackChanged func(track int)
}

// Option configures a Manager.
type Option func(*Manager)

// WithTextTracks mirrors the selection onto the platform text track list.
func WithTextTracks(l TextTrackList) Option {
	return func(m *Manager) { m.textTracks = l }
}

// WithFonts sets the font URLs registered with the renderer at init.
func WithFonts(urls []string) Option {
	return func(m *Manager) { m.fonts = urls }
}

// WithStats reports engine counters to s.
func WithStats(s Stats) Option {
	return func(m *Manager) { m.stats = s }
}

// NewManager loads the manifest, precomputes every track's style map and
// selects the default track. A renderer init failure is returned wrapped in
// ErrRendererInit.
func NewManager(meta media.Metadata, settings media.Settings, r Renderer, opts ...Option) (*Manager, error) {
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("load subtitle tracks: %w", err)
	}

	m := &Manager{
		renderer: r,
		stats:    noopStats{},
		settings: settings,
		tracks:   make(map[int]media.Track, len(meta.SubtitleTracks)),
		styles:   make(map[int]StyleMap, len(meta.SubtitleTracks)),
		ledger:   NewLedger(),
		current:  media.NoTrack,
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, t := range meta.SubtitleTracks {
		m.addTrack(t)
	}

	log.Debug().Int("tracks", len(m.tracks)).Msg("Loaded subtitle tracks")

	if len(m.tracks) == 0 {
		return m, nil
	}
	if err := m.selectDefaultTrack(meta.SubtitleTracks); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) addTrack(t media.Track) {
	styles := ParseStyles(trackHeader(t))
	m.tracks[t.Number] = t
	m.styles[t.Number] = styles
	m.ledger.AddTrack(t.Number, styles)
}

func (m *Manager) selectDefaultTrack(list []media.Track) error {
	if m.current != media.NoTrack {
		return nil
	}
	if len(list) == 1 {
		return m.SelectTrack(list[0].Number)
	}
	n := tracks.PickDefaultSubtitleTrack(list, m.settings.PreferredSubtitleLanguage, m.settings.SubtitleBlacklist)
	return m.SelectTrack(n)
}

// OnTrackChanged registers the selection listener. It is called with the
// newly selected track number, or media.NoTrack.
func (m *Manager) OnTrackChanged(fn func(track int)) {
	m.onTrackChanged = fn
}

// State returns the current state.
func (m *Manager) State() State {
	switch {
	case m.disposed:
		return StateDisposed
	case !m.initialized:
		return StateUninitialized
	case m.current == media.NoTrack:
		return StateNoTrack
	default:
		return StateTrackActive
	}
}

// SelectedTrack returns the active track number.
func (m *Manager) SelectedTrack() (int, bool) {
	if m.current == media.NoTrack {
		return media.NoTrack, false
	}
	return m.current, true
}

// SelectTrack makes n the active track and replays its recorded events.
// Selecting media.NoTrack, or a track missing from the manifest, clears the
// renderer. Selecting the active track is a no-op. The only error is a
// failed renderer construction.
func (m *Manager) SelectTrack(n int) error {
	if m.disposed {
		return nil
	}
	if err := m.init(); err != nil {
		return err
	}
	if n == m.current {
		return nil
	}

	if n == media.NoTrack {
		m.syncTextTracks(media.NoTrack)
		m.setNoTrack()
		return nil
	}

	track, ok := m.tracks[n]
	m.syncTextTracks(n)
	if !ok {
		log.Warn().Int("track", n).Msg("Subtitle track not found, clearing subtitles")
		m.setNoTrack()
		return nil
	}

	m.current = track.Number
	m.renderer.SetTrack(trackHeader(track))
	m.applyCustomization()

	events := m.ledger.Events(track.Number)
	for _, ev := range events {
		m.renderer.CreateEvent(ev)
	}
	m.renderer.Resize()

	log.Debug().
		Int("track", track.Number).
		Str("name", track.Name).
		Int("events", len(events)).
		Msg("Selected subtitle track")

	m.stats.TrackSelected(track.Number)
	m.stats.TrackReplayed(track.Number, len(events))
	m.notify(track.Number)
	return nil
}

// SelectTrackByLabel selects the first track whose name equals label.
// Unknown labels clear the renderer.
func (m *Manager) SelectTrackByLabel(label string) error {
	for _, t := range m.Tracks() {
		if t.Name == label {
			return m.SelectTrack(t.Number)
		}
	}
	log.Warn().Str("label", label).Msg("Subtitle track label not found, clearing subtitles")
	return m.SelectTrack(media.NoTrack)
}

// SetNoTrack clears the active track.
func (m *Manager) SetNoTrack() error {
	return m.SelectTrack(media.NoTrack)
}

// OnSubtitleEvent records ev and, when it is new and belongs to the active
// track, pushes it to the renderer. Safe to call in any state.
func (m *Manager) OnSubtitleEvent(ev media.SubtitleEvent) {
	if m.disposed {
		return
	}
	if !m.ledger.HasTrack(ev.TrackNumber) {
		log.Trace().Int("track", ev.TrackNumber).Msg("Dropping subtitle event for unknown track")
		return
	}

	re, isNew := m.ledger.Record(ev)
	m.stats.EventRecorded(ev.TrackNumber, isNew)

	if isNew && m.initialized && m.current != media.NoTrack && ev.TrackNumber == m.current {
		m.renderer.CreateEvent(re)
		m.stats.EventRendered(ev.TrackNumber)
	}
}

// AddTrack registers a track announced after construction and selects it.
func (m *Manager) AddTrack(t media.Track) error {
	if m.disposed {
		return nil
	}
	if t.Number < 0 {
		return fmt.Errorf("add subtitle track %d: %w", t.Number, media.ErrInvalidTrackNumber)
	}
	if _, ok := m.tracks[t.Number]; !ok {
		m.addTrack(t)
		if adder, ok := m.textTracks.(textTrackAdder); ok {
			adder.Add(tracklist.Entry{
				ID:       strconv.Itoa(t.Number),
				Label:    t.Name,
				Language: t.Language,
			})
		}
		log.Info().Int("track", t.Number).Str("name", t.Name).Msg("Subtitle track added")
	}
	return m.SelectTrack(t.Number)
}

// Tracks returns the known tracks ordered by number.
func (m *Manager) Tracks() []media.Track {
	out := make([]media.Track, 0, len(m.tracks))
	for _, t := range m.tracks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// NextTrackNumber returns the track after n in number order, or
// media.NoTrack after the last one.
func (m *Manager) NextTrackNumber(n int) int {
	for _, t := range m.Tracks() {
		if t.Number > n {
			return t.Number
		}
	}
	return media.NoTrack
}

// IsTrackSupported reports whether the renderer can draw track n. Unknown
// tracks and media.NoTrack are reported as supported.
func (m *Manager) IsTrackSupported(n int) bool {
	t, ok := m.tracks[n]
	if !ok {
		return true
	}
	return !t.IsImageBased()
}

// Styles returns the style map of track n.
func (m *Manager) Styles(n int) StyleMap {
	return m.styles[n]
}

// EventCount returns the number of events recorded for track n.
func (m *Manager) EventCount(n int) int {
	return m.ledger.Len(n)
}

// UpdateSettings replaces the preferences and reapplies customization to the
// active track.
func (m *Manager) UpdateSettings(s media.Settings) {
	m.settings = s
	if m.disposed || !m.initialized || m.current == media.NoTrack {
		return
	}
	m.applyCustomization()
	m.renderer.Resize()
}

// Resize tells the renderer that the video surface changed size.
func (m *Manager) Resize() {
	if m.disposed || !m.initialized {
		return
	}
	m.renderer.Resize()
}

// Terminate destroys the renderer and drops all recorded state. Further
// calls on the manager are no-ops.
func (m *Manager) Terminate() {
	if m.disposed {
		return
	}
	log.Debug().Msg("Terminating subtitle manager")
	m.disposed = true
	if m.initialized {
		m.renderer.Destroy()
	}
	m.initialized = false
	m.ledger.Reset()
	m.tracks = map[int]media.Track{}
	m.styles = map[int]StyleMap{}
	m.current = media.NoTrack
}

func (m *Manager) init() error {
	if m.initialized {
		return nil
	}
	m.initialized = true

	log.Debug().Int("fonts", len(m.fonts)).Msg("Initializing subtitle renderer")
	if err := m.renderer.Init(DefaultHeader, m.fonts); err != nil {
		m.initialized = false
		log.Error().Err(err).Msg("Subtitle renderer init failed")
		return fmt.Errorf("%w: %w", ErrRendererInit, err)
	}
	return nil
}

func (m *Manager) setNoTrack() {
	m.current = media.NoTrack
	m.renderer.SetTrack(DefaultHeader)
	m.renderer.Resize()
	m.stats.TrackSelected(media.NoTrack)
	m.notify(media.NoTrack)
}

func (m *Manager) notify(n int) {
	if m.onTrackChanged != nil {
		m.onTrackChanged(n)
	}
}

// syncTextTracks shows the text track for n and disables the rest.
func (m *Manager) syncTextTracks(n int) {
	if m.textTracks == nil {
		return
	}
	_, known := m.tracks[n]
	want := strconv.Itoa(n)
	changed := false
	for _, id := range m.textTracks.IDs() {
		mode := tracklist.ModeDisabled
		if known && id == want {
			mode = tracklist.ModeShowing
		}
		if m.textTracks.SetMode(id, mode) {
			changed = true
		}
	}
	if changed {
		m.textTracks.DispatchChange()
	}
}

// applyCustomization overrides the default style of single-style tracks
// when customization is enabled.
func (m *Manager) applyCustomization() {
	o, ok := m.renderer.(StyleOverrider)
	if !ok {
		return
	}
	c := m.settings.Customization
	if !c.Enabled || len(m.styles[m.current]) > 1 {
		o.DisableStyleOverride()
		return
	}
	o.StyleOverride(c)
}
