// Package assdoc assembles complete ASS scripts from a track header and the
// render events recorded for it.
package assdoc

import (
	"fmt"
	"math"
	"strings"

	"github.com/depeter/cuesync/internal/subtitles"
)

const (
	eventsSection = "[Events]"
	eventsFormat  = "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text"
)

// Build returns a script containing header's sections up to [Events],
// followed by one Dialogue line per event in the given order.
func Build(header string, events []subtitles.RenderEvent) string {
	header = strings.ReplaceAll(header, "\r\n", "\n")
	if i := strings.Index(header, eventsSection); i >= 0 {
		header = header[:i]
	}
	styles := subtitles.ParseStyles(header)

	var b strings.Builder
	b.WriteString(strings.TrimRight(header, "\n"))
	b.WriteString("\n\n")
	b.WriteString(eventsSection)
	b.WriteString("\n")
	b.WriteString(eventsFormat)
	b.WriteString("\n")
	for _, ev := range events {
		b.WriteString(Dialogue(ev, styles.Name(ev.Style)))
		b.WriteString("\n")
	}
	return b.String()
}

// Dialogue formats a single event line.
func Dialogue(ev subtitles.RenderEvent, style string) string {
	return fmt.Sprintf("Dialogue: %d,%s,%s,%s,%s,%04d,%04d,%04d,%s,%s",
		ev.Layer,
		FormatTime(ev.Start),
		FormatTime(ev.Start+ev.Duration),
		style,
		ev.Name,
		ev.MarginL,
		ev.MarginR,
		ev.MarginV,
		ev.Effect,
		escapeText(ev.Text),
	)
}

// FormatTime renders milliseconds as an ASS timestamp (H:MM:SS.cc).
func FormatTime(ms float64) string {
	if ms < 0 || math.IsNaN(ms) {
		ms = 0
	}
	cs := int64(math.Round(ms / 10))
	h := cs / 360000
	cs -= h * 360000
	m := cs / 6000
	cs -= m * 6000
	s := cs / 100
	cs -= s * 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", `\N`)
}
