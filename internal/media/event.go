package media

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SubtitleEvent is one decoded cue pushed by the remote demuxer.
// StartTime and Duration are in milliseconds.
type SubtitleEvent struct {
	TrackNumber int        `json:"trackNumber"`
	StartTime   float64    `json:"startTime"`
	Duration    float64    `json:"duration"`
	Text        string     `json:"text"`
	CodecID     string     `json:"codecID,omitempty"`
	ExtraData   *ExtraData `json:"extraData,omitempty"`
}

// ExtraData holds the optional ASS dialogue fields of an event. An empty
// field means the demuxer did not send it.
type ExtraData struct {
	Style     string
	Name      string
	MarginL   string
	MarginR   string
	MarginV   string
	Effect    string
	ReadOrder string
	Layer     string
}

// Extra returns the event's extra data, or an empty value when absent.
func (e SubtitleEvent) Extra() ExtraData {
	if e.ExtraData == nil {
		return ExtraData{}
	}
	return *e.ExtraData
}

func (x *ExtraData) fields() map[string]*string {
	return map[string]*string{
		"style":     &x.Style,
		"name":      &x.Name,
		"marginl":   &x.MarginL,
		"marginr":   &x.MarginR,
		"marginv":   &x.MarginV,
		"effect":    &x.Effect,
		"readorder": &x.ReadOrder,
		"layer":     &x.Layer,
	}
}

// UnmarshalJSON accepts the demuxer's flat map. Keys are matched without
// regard to case and values may be strings or numbers.
func (x *ExtraData) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode extra data: %w", err)
	}
	fields := x.fields()
	for k, v := range raw {
		dst, ok := fields[strings.ToLower(k)]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			*dst = val
		case float64:
			*dst = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			*dst = strconv.FormatBool(val)
		}
	}
	return nil
}

// MarshalJSON writes the same flat lowercase map the demuxer sends.
func (x ExtraData) MarshalJSON() ([]byte, error) {
	out := make(map[string]string)
	for k, v := range x.fields() {
		if *v != "" {
			out[k] = *v
		}
	}
	return json.Marshal(out)
}
