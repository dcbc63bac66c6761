package subtitles

import (
	"strconv"
	"strings"

	"github.com/depeter/cuesync/internal/media"
)

// RenderEvent is the fully defaulted form of a SubtitleEvent that the
// renderer consumes.
type RenderEvent struct {
	Start     float64
	Duration  float64
	Style     int
	Name      string
	MarginL   int
	MarginR   int
	MarginV   int
	Effect    string
	Text      string
	ReadOrder int
	Layer     int
	// Index is the event's insertion position in its track's ledger.
	Index int
}

// absent stands in for missing extra data fields in event keys.
const absent = "\x00"

type ledgerEntry struct {
	event  media.SubtitleEvent
	render RenderEvent
}

type trackLedger struct {
	styles  StyleMap
	keys    map[string]int
	entries []ledgerEntry
}

// Ledger records every subtitle event once per track and assigns dense,
// zero-based insertion indices. Entries are never removed until Reset.
type Ledger struct {
	tracks map[int]*trackLedger
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{tracks: make(map[int]*trackLedger)}
}

// AddTrack registers a track and its style map. Registering a known track
// keeps its recorded events.
func (l *Ledger) AddTrack(number int, styles StyleMap) {
	if _, ok := l.tracks[number]; ok {
		return
	}
	l.tracks[number] = &trackLedger{
		styles: styles,
		keys:   make(map[string]int),
	}
}

// HasTrack reports whether the track is registered.
func (l *Ledger) HasTrack(number int) bool {
	_, ok := l.tracks[number]
	return ok
}

// Record stores ev if its key has not been seen on its track and reports
// whether it was new. For a repeated event the stored render event is
// returned. Events for unregistered tracks return a zero RenderEvent and
// false.
func (l *Ledger) Record(ev media.SubtitleEvent) (RenderEvent, bool) {
	t, ok := l.tracks[ev.TrackNumber]
	if !ok {
		return RenderEvent{}, false
	}

	key := EventKey(ev)
	if pos, ok := t.keys[key]; ok {
		return t.entries[pos].render, false
	}

	re := newRenderEvent(ev, t.styles, len(t.entries))
	t.keys[key] = len(t.entries)
	t.entries = append(t.entries, ledgerEntry{event: ev, render: re})
	return re, true
}

// Events returns the render events of a track in insertion order.
func (l *Ledger) Events(number int) []RenderEvent {
	t, ok := l.tracks[number]
	if !ok {
		return nil
	}
	out := make([]RenderEvent, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.render
	}
	return out
}

// Len returns the number of events recorded for a track.
func (l *Ledger) Len(number int) int {
	if t, ok := l.tracks[number]; ok {
		return len(t.entries)
	}
	return 0
}

// Reset drops every track and event.
func (l *Ledger) Reset() {
	l.tracks = make(map[int]*trackLedger)
}

// EventKey builds the identity of an event from its track, timing, text and
// every extra data field.
func EventKey(ev media.SubtitleEvent) string {
	x := ev.Extra()
	parts := []string{
		strconv.Itoa(ev.TrackNumber),
		strconv.FormatFloat(ev.StartTime, 'f', -1, 64),
		strconv.FormatFloat(ev.Duration, 'f', -1, 64),
		orAbsent(x.Style),
		orAbsent(x.Name),
		orAbsent(x.MarginL),
		orAbsent(x.MarginR),
		orAbsent(x.MarginV),
		orAbsent(x.Effect),
		orAbsent(x.ReadOrder),
		orAbsent(x.Layer),
		ev.Text,
	}
	return strings.Join(parts, "\x1f")
}

func orAbsent(s string) string {
	if s == "" {
		return absent
	}
	return s
}

func newRenderEvent(ev media.SubtitleEvent, styles StyleMap, index int) RenderEvent {
	x := ev.Extra()
	style := x.Style
	if style == "" {
		style = DefaultStyle
	}
	return RenderEvent{
		Start:     ev.StartTime,
		Duration:  ev.Duration,
		Style:     styles.Index(style),
		Name:      x.Name,
		MarginL:   atoiOr(x.MarginL, 0),
		MarginR:   atoiOr(x.MarginR, 0),
		MarginV:   atoiOr(x.MarginV, 0),
		Effect:    x.Effect,
		Text:      ev.Text,
		ReadOrder: atoiOr(x.ReadOrder, 1),
		Layer:     atoiOr(x.Layer, 0),
		Index:     index,
	}
}

func atoiOr(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			return int(f)
		}
		return def
	}
	return n
}
