package subtitles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/depeter/cuesync/internal/media"
)

const twoStyleHeader = "[Script Info]\r\nTitle: test\r\n\r\n[V4+ Styles]\r\n" +
	"Format: Name, Fontname, Fontsize\r\n" +
	"Style: Default,Arial,20\r\n" +
	"Style: Sign,Arial,18\r\n" +
	"Style: Default,Arial,30\r\n" +
	"Style: ,Arial,10\r\n"

func TestParseStyles(t *testing.T) {
	styles := ParseStyles(twoStyleHeader)
	assert.Equal(t, StyleMap{"Default": 1, "Sign": 2}, styles)
}

func TestParseStylesDefaultHeader(t *testing.T) {
	assert.Equal(t, StyleMap{"Default": 1}, ParseStyles(DefaultHeader))
}

func TestParseStylesNoStyles(t *testing.T) {
	assert.Empty(t, ParseStyles("[Script Info]\nTitle: x\n"))
}

func TestStyleMapLookups(t *testing.T) {
	styles := ParseStyles(twoStyleHeader)

	assert.Equal(t, 2, styles.Index("Sign"))
	assert.Equal(t, 0, styles.Index("Missing"))
	assert.Equal(t, "Sign", styles.Name(2))
	assert.Equal(t, DefaultStyle, styles.Name(0))
	assert.Equal(t, DefaultStyle, styles.Name(99))
}

func TestTrackHeaderFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultHeader, trackHeader(media.Track{}))
	assert.Equal(t, DefaultHeader, trackHeader(media.Track{CodecPrivate: "  \n\x00"}))
	assert.Equal(t, twoStyleHeader, trackHeader(media.Track{CodecPrivate: twoStyleHeader + "\x00"}))
}
