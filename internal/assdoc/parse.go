package assdoc

import (
	"math"
	"strconv"
	"strings"

	"github.com/depeter/cuesync/internal/media"
)

var defaultFormat = []string{"layer", "start", "end", "style", "name", "marginl", "marginr", "marginv", "effect", "text"}

// ParseEvents extracts the Dialogue lines of a complete ASS script as
// subtitle events for track. ReadOrder follows the line order. Malformed
// lines are skipped.
func ParseEvents(script string, track int) []media.SubtitleEvent {
	script = strings.ReplaceAll(script, "\r\n", "\n")
	i := strings.Index(script, eventsSection)
	if i < 0 {
		return nil
	}

	format := defaultFormat
	var events []media.SubtitleEvent
	for _, line := range strings.Split(script[i+len(eventsSection):], "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "["):
			return events
		case strings.HasPrefix(line, "Format:"):
			format = parseFormat(strings.TrimPrefix(line, "Format:"))
		case strings.HasPrefix(line, "Dialogue:"):
			fields := strings.SplitN(strings.TrimPrefix(line, "Dialogue:"), ",", len(format))
			if len(fields) != len(format) {
				continue
			}
			ev, ok := eventFromFields(format, fields, track, len(events))
			if ok {
				events = append(events, ev)
			}
		}
	}
	return events
}

func parseFormat(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.ToLower(strings.TrimSpace(p)))
	}
	return out
}

func eventFromFields(format, fields []string, track, readOrder int) (media.SubtitleEvent, bool) {
	ev := media.SubtitleEvent{
		TrackNumber: track,
		CodecID:     media.CodecASS,
		ExtraData:   &media.ExtraData{ReadOrder: strconv.Itoa(readOrder)},
	}
	var start, end float64
	var ok bool
	for i, key := range format {
		v := fields[i]
		if key != "text" {
			v = strings.TrimSpace(v)
		}
		switch key {
		case "start":
			if start, ok = ParseTime(v); !ok {
				return ev, false
			}
		case "end":
			if end, ok = ParseTime(v); !ok {
				return ev, false
			}
		case "text":
			ev.Text = strings.ReplaceAll(v, `\N`, "\n")
		case "layer":
			ev.ExtraData.Layer = v
		case "style":
			ev.ExtraData.Style = v
		case "name":
			ev.ExtraData.Name = v
		case "marginl":
			ev.ExtraData.MarginL = v
		case "marginr":
			ev.ExtraData.MarginR = v
		case "marginv":
			ev.ExtraData.MarginV = v
		case "effect":
			ev.ExtraData.Effect = v
		}
	}
	ev.StartTime = start
	ev.Duration = max(end-start, 0)
	return ev, true
}

// ParseTime converts an ASS timestamp (H:MM:SS.cc) to milliseconds.
func ParseTime(s string) (float64, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	sec, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, false
	}
	return float64(h*3600000+m*60000) + math.Round(sec*1000), true
}
