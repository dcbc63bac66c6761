package subtitles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depeter/cuesync/internal/media"
)

func event(track int, start float64, text string) media.SubtitleEvent {
	return media.SubtitleEvent{
		TrackNumber: track,
		StartTime:   start,
		Duration:    1000,
		Text:        text,
		ExtraData:   &media.ExtraData{Style: "Sign", ReadOrder: "3", Layer: "2", MarginL: "10"},
	}
}

func TestLedgerRecordIsIdempotent(t *testing.T) {
	l := NewLedger()
	l.AddTrack(1, ParseStyles(twoStyleHeader))

	first, isNew := l.Record(event(1, 100, "a"))
	require.True(t, isNew)
	assert.Equal(t, 0, first.Index)

	again, isNew := l.Record(event(1, 100, "a"))
	assert.False(t, isNew)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, l.Len(1))
}

func TestLedgerIndicesAreDense(t *testing.T) {
	l := NewLedger()
	l.AddTrack(1, nil)

	for i, text := range []string{"a", "b", "a", "c", "b"} {
		l.Record(event(1, float64(i%3)*100, text))
	}

	events := l.Events(1)
	for i, ev := range events {
		assert.Equal(t, i, ev.Index)
	}
}

func TestLedgerKeyIncludesText(t *testing.T) {
	l := NewLedger()
	l.AddTrack(1, nil)

	_, firstNew := l.Record(event(1, 100, "top line"))
	_, secondNew := l.Record(event(1, 100, "bottom line"))
	assert.True(t, firstNew)
	assert.True(t, secondNew)
	assert.Equal(t, 2, l.Len(1))
}

func TestLedgerTracksAreIndependent(t *testing.T) {
	l := NewLedger()
	l.AddTrack(1, nil)
	l.AddTrack(2, nil)

	_, new1 := l.Record(event(1, 100, "a"))
	_, new2 := l.Record(event(2, 100, "a"))
	assert.True(t, new1)
	assert.True(t, new2)
	assert.Equal(t, 1, l.Len(1))
	assert.Equal(t, 1, l.Len(2))
}

func TestLedgerUnknownTrack(t *testing.T) {
	l := NewLedger()
	re, isNew := l.Record(event(5, 0, "x"))
	assert.False(t, isNew)
	assert.Equal(t, RenderEvent{}, re)
	assert.Nil(t, l.Events(5))
	assert.Zero(t, l.Len(5))
}

func TestLedgerAddTrackKeepsEvents(t *testing.T) {
	l := NewLedger()
	l.AddTrack(1, nil)
	l.Record(event(1, 0, "x"))
	l.AddTrack(1, StyleMap{"Sign": 1})
	assert.Equal(t, 1, l.Len(1))
}

func TestLedgerReset(t *testing.T) {
	l := NewLedger()
	l.AddTrack(1, nil)
	l.Record(event(1, 0, "x"))
	l.Reset()
	assert.False(t, l.HasTrack(1))
	assert.Zero(t, l.Len(1))
}

func TestRenderEventDefaults(t *testing.T) {
	l := NewLedger()
	l.AddTrack(1, ParseStyles(twoStyleHeader))

	re, _ := l.Record(media.SubtitleEvent{TrackNumber: 1, StartTime: 10, Duration: 20, Text: "plain"})
	assert.Equal(t, RenderEvent{
		Start:     10,
		Duration:  20,
		Style:     1,
		Text:      "plain",
		ReadOrder: 1,
	}, re)

	re, _ = l.Record(event(1, 50, "styled"))
	assert.Equal(t, 2, re.Style)
	assert.Equal(t, 3, re.ReadOrder)
	assert.Equal(t, 2, re.Layer)
	assert.Equal(t, 10, re.MarginL)
	assert.Equal(t, 1, re.Index)
}

func TestRenderEventUnknownStyle(t *testing.T) {
	l := NewLedger()
	l.AddTrack(1, ParseStyles(twoStyleHeader))

	ev := event(1, 0, "x")
	ev.ExtraData.Style = "Karaoke"
	re, _ := l.Record(ev)
	assert.Equal(t, 0, re.Style)
}

func TestRenderEventMalformedNumbers(t *testing.T) {
	l := NewLedger()
	l.AddTrack(1, nil)

	re, _ := l.Record(media.SubtitleEvent{
		TrackNumber: 1,
		ExtraData:   &media.ExtraData{ReadOrder: "abc", Layer: "2.0", MarginV: " 15 "},
	})
	assert.Equal(t, 1, re.ReadOrder)
	assert.Equal(t, 2, re.Layer)
	assert.Equal(t, 15, re.MarginV)
}

func TestEventKeyDistinguishesAbsentFromEmpty(t *testing.T) {
	withExtra := media.SubtitleEvent{TrackNumber: 1, ExtraData: &media.ExtraData{Layer: "0"}}
	without := media.SubtitleEvent{TrackNumber: 1}
	assert.NotEqual(t, EventKey(withExtra), EventKey(without))
	assert.Equal(t, EventKey(without), EventKey(media.SubtitleEvent{TrackNumber: 1, ExtraData: &media.ExtraData{}}))
}
