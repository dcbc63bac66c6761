package media

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// NoTrack is the reserved track number meaning "no subtitle track selected".
// Manifest track numbers are non-negative, so it never collides with one.
const NoTrack = -1

// ErrInvalidTrackNumber is returned by Metadata.Validate.
var ErrInvalidTrackNumber = errors.New("invalid track number")

// Codec IDs the demuxer reports for subtitle tracks.
const (
	CodecASS = "S_TEXT/ASS"
	CodecSSA = "S_TEXT/SSA"
	CodecSRT = "S_TEXT/UTF8"
	CodecPGS = "S_HDMV/PGS"
)

// Track is a subtitle or audio track from the static manifest.
type Track struct {
	Number       int    `json:"number"`
	Name         string `json:"name,omitempty"`
	Language     string `json:"language,omitempty"`
	LanguageIETF string `json:"languageIETF,omitempty"`
	CodecID      string `json:"codecID,omitempty"`
	Forced       bool   `json:"forced"`
	Default      bool   `json:"default"`
	CodecPrivate string `json:"codecPrivate,omitempty"`
}

// Header returns the track's script header with the demuxer's trailing NUL
// removed. Empty when the track carries no codec-private data.
func (t Track) Header() string {
	return strings.TrimRight(t.CodecPrivate, "\x00")
}

// IsImageBased reports whether the track is a bitmap subtitle format.
func (t Track) IsImageBased() bool {
	return strings.EqualFold(t.CodecID, CodecPGS)
}

// DisplayName returns a human-readable label for the track.
func (t Track) DisplayName() string {
	var parts []string

	name := t.Name
	if name == "" {
		name = LanguageName(t.Language)
	} else if lang := LanguageName(t.Language); lang != "" && lang != t.Name {
		name = t.Name + " - " + lang
	}
	if name == "" {
		name = fmt.Sprintf("Track %d", t.Number)
	}
	parts = append(parts, name)

	var flags []string
	if t.Default {
		flags = append(flags, "default")
	}
	if t.Forced {
		flags = append(flags, "forced")
	}
	if len(flags) > 0 {
		parts = append(parts, "("+strings.Join(flags, ", ")+")")
	}

	return strings.Join(parts, " ")
}

// AttachmentType classifies a container attachment.
type AttachmentType string

const (
	AttachmentTypeFont     AttachmentType = "font"
	AttachmentTypeSubtitle AttachmentType = "subtitle"
	AttachmentTypeOther    AttachmentType = "other"
)

// Attachment is a file embedded in the container, usually a font.
type Attachment struct {
	Filename string         `json:"filename"`
	Mimetype string         `json:"mimetype,omitempty"`
	Type     AttachmentType `json:"type"`
}

// Metadata is the static track manifest of a playback session.
type Metadata struct {
	SubtitleTracks []Track      `json:"subtitleTracks"`
	AudioTracks    []Track      `json:"audioTracks"`
	Attachments    []Attachment `json:"attachments"`
}

// Validate checks that every track number is non-negative and that subtitle
// track numbers are unique.
func (m *Metadata) Validate() error {
	seen := make(map[int]struct{}, len(m.SubtitleTracks))
	for _, t := range m.SubtitleTracks {
		if t.Number < 0 {
			return fmt.Errorf("subtitle track %d: %w", t.Number, ErrInvalidTrackNumber)
		}
		if _, dup := seen[t.Number]; dup {
			return fmt.Errorf("duplicate subtitle track %d: %w", t.Number, ErrInvalidTrackNumber)
		}
		seen[t.Number] = struct{}{}
	}
	for _, t := range m.AudioTracks {
		if t.Number < 0 {
			return fmt.Errorf("audio track %d: %w", t.Number, ErrInvalidTrackNumber)
		}
	}
	return nil
}

// FontURLs returns the download URLs of all font attachments, served by the
// server's attachment endpoint.
func (m *Metadata) FontURLs(serverURL string) []string {
	base := strings.TrimRight(serverURL, "/")
	var urls []string
	for _, a := range m.Attachments {
		if a.Type != AttachmentTypeFont || a.Filename == "" {
			continue
		}
		urls = append(urls, base+"/api/v1/directstream/att/"+url.PathEscape(a.Filename))
	}
	return urls
}

// LanguageName converts ISO 639-2 language codes to human-readable names.
func LanguageName(code string) string {
	if code == "" {
		return ""
	}
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}

var languageNames = map[string]string{
	"eng": "English",
	"fre": "French",
	"fra": "French",
	"spa": "Spanish",
	"ger": "German",
	"deu": "German",
	"ita": "Italian",
	"por": "Portuguese",
	"rus": "Russian",
	"jpn": "Japanese",
	"kor": "Korean",
	"chi": "Chinese",
	"zho": "Chinese",
	"ara": "Arabic",
	"hin": "Hindi",
	"tur": "Turkish",
	"pol": "Polish",
	"dut": "Dutch",
	"nld": "Dutch",
	"swe": "Swedish",
	"nor": "Norwegian",
	"dan": "Danish",
	"fin": "Finnish",
	"hun": "Hungarian",
	"ces": "Czech",
	"cze": "Czech",
	"gre": "Greek",
	"ell": "Greek",
	"heb": "Hebrew",
	"tha": "Thai",
	"vie": "Vietnamese",
	"ind": "Indonesian",
	"ukr": "Ukrainian",
	"und": "Unknown",
}
