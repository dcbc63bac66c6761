package assdoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depeter/cuesync/internal/media"
	"github.com/depeter/cuesync/internal/subtitles"
)

const header = "[Script Info]\r\nTitle: Test\r\n\r\n[V4+ Styles]\r\nStyle: Default,Arial,20\r\nStyle: Sign,Arial,18\r\n\r\n[Events]\r\nFormat: Layer, Start, End, Style, Text\r\n"

func TestFormatTime(t *testing.T) {
	tests := []struct {
		ms   float64
		want string
	}{
		{0, "0:00:00.00"},
		{1234, "0:00:01.23"},
		{1235, "0:00:01.24"},
		{61000, "0:01:01.00"},
		{3723450, "1:02:03.45"},
		{-5, "0:00:00.00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTime(tt.ms))
		})
	}
}

func TestDialogue(t *testing.T) {
	ev := subtitles.RenderEvent{
		Start:    1000,
		Duration: 2500,
		Layer:    1,
		Name:     "Bob",
		MarginL:  10,
		Effect:   "fade",
		Text:     "Hello\nworld",
	}
	got := Dialogue(ev, "Sign")
	assert.Equal(t, `Dialogue: 1,0:00:01.00,0:00:03.50,Sign,Bob,0010,0000,0000,fade,Hello\Nworld`, got)
}

func TestBuildReplacesEventsSection(t *testing.T) {
	events := []subtitles.RenderEvent{
		{Start: 0, Duration: 1000, Style: 2, Text: "first"},
		{Start: 1000, Duration: 1000, Style: 0, Text: "second"},
	}
	script := Build(header, events)

	assert.NotContains(t, script, "\r")
	assert.Equal(t, 1, strings.Count(script, "[Events]"))
	assert.NotContains(t, script, "Format: Layer, Start, End, Style, Text\n")
	assert.Contains(t, script, "Style: Sign,Arial,18")

	lines := strings.Split(strings.TrimRight(script, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "Dialogue: 0,0:00:00.00,0:00:01.00,Sign,,0000,0000,0000,,first", lines[len(lines)-2])
	assert.Equal(t, "Dialogue: 0,0:00:01.00,0:00:02.00,Default,,0000,0000,0000,,second", lines[len(lines)-1])
}

func TestBuildWithoutEvents(t *testing.T) {
	script := Build(subtitles.DefaultHeader, nil)
	assert.True(t, strings.HasSuffix(script, "[Events]\n"+eventsFormat+"\n"))
}

const script = `[Script Info]
Title: Sample

[V4+ Styles]
Style: Default,Arial,20

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Comment: 0,0:00:00.00,0:00:01.00,Default,,0,0,0,,ignored
Dialogue: 0,0:00:01.00,0:00:03.50,Default,,0,0,0,,Hello, world\Nsecond line
Dialogue: 2,0:00:05.00,0:00:04.00,Sign,Bob,10,0,0,,{\an8}Sign
Dialogue: 0,bad,0:00:04.00,Default,,0,0,0,,broken
Dialogue: short

[Fonts]
Dialogue: 0,0:00:09.00,0:00:10.00,Default,,0,0,0,,not an event
`

func TestParseEvents(t *testing.T) {
	events := ParseEvents(script, 3)
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, 3, first.TrackNumber)
	assert.Equal(t, media.CodecASS, first.CodecID)
	assert.Equal(t, 1000.0, first.StartTime)
	assert.Equal(t, 2500.0, first.Duration)
	assert.Equal(t, "Hello, world\nsecond line", first.Text)
	require.NotNil(t, first.ExtraData)
	assert.Equal(t, "0", first.ExtraData.ReadOrder)
	assert.Equal(t, "Default", first.ExtraData.Style)

	second := events[1]
	assert.Equal(t, 5000.0, second.StartTime)
	assert.Zero(t, second.Duration)
	assert.Equal(t, `{\an8}Sign`, second.Text)
	assert.Equal(t, "1", second.ExtraData.ReadOrder)
	assert.Equal(t, "2", second.ExtraData.Layer)
	assert.Equal(t, "Bob", second.ExtraData.Name)
	assert.Equal(t, "10", second.ExtraData.MarginL)
}

func TestParseEventsWithoutEventsSection(t *testing.T) {
	assert.Nil(t, ParseEvents("[Script Info]\nTitle: x\n", 0))
}

func TestParseTime(t *testing.T) {
	ms, ok := ParseTime("1:02:03.45")
	require.True(t, ok)
	assert.Equal(t, 3723450.0, ms)

	_, ok = ParseTime("02:03.45")
	assert.False(t, ok)
	_, ok = ParseTime("a:00:00.00")
	assert.False(t, ok)
}

func TestParseEventsRoundTripsBuild(t *testing.T) {
	events := ParseEvents(script, 0)
	styles := subtitles.ParseStyles(script)

	ledger := subtitles.NewLedger()
	ledger.AddTrack(0, styles)
	for _, ev := range events {
		ledger.Record(ev)
	}
	rebuilt := ParseEvents(Build(script, ledger.Events(0)), 0)

	require.Len(t, rebuilt, len(events))
	for i := range events {
		assert.Equal(t, events[i].StartTime, rebuilt[i].StartTime)
		assert.Equal(t, events[i].Text, rebuilt[i].Text)
	}
}
