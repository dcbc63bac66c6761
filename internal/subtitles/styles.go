package subtitles

import (
	"strings"

	"github.com/depeter/cuesync/internal/media"
)

// DefaultStyle is the style name assumed for events that do not carry one.
const DefaultStyle = "Default"

// DefaultHeader is loaded into the renderer when no track is active and
// substituted for tracks that ship without a header.
const DefaultHeader = `[Script Info]
Title: English (US)
ScriptType: v4.00+
WrapStyle: 0
PlayResX: 640
PlayResY: 360
ScaledBorderAndShadow: yes

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default, Roboto Medium,24,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,1.3,0,2,20,20,23,0

[Events]
`

const styleMarker = "Style:"

// StyleMap maps a style name to the renderer's numeric style index.
// Declared styles are numbered from 1; index 0 is the renderer's implicit
// default style.
type StyleMap map[string]int

// ParseStyles scans a script header for style declarations. Styles are
// numbered in declaration order; blank and repeated names are skipped.
func ParseStyles(header string) StyleMap {
	styles := make(StyleMap)
	next := 1
	for _, line := range strings.Split(strings.ReplaceAll(header, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, styleMarker) {
			continue
		}
		name, _, _ := strings.Cut(strings.TrimPrefix(line, styleMarker), ",")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := styles[name]; ok {
			continue
		}
		styles[name] = next
		next++
	}
	return styles
}

// Index resolves a style name. Unknown names resolve to 0.
func (s StyleMap) Index(name string) int {
	return s[name]
}

// Name is the inverse of Index. Index 0 and unknown indices map to
// DefaultStyle.
func (s StyleMap) Name(index int) string {
	for name, i := range s {
		if i == index {
			return name
		}
	}
	return DefaultStyle
}

// trackHeader returns the header the renderer should load for a track.
func trackHeader(t media.Track) string {
	if h := t.Header(); strings.TrimSpace(h) != "" {
		return h
	}
	return DefaultHeader
}
