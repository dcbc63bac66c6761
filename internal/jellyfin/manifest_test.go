package jellyfin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	jellyfin "github.com/sj14/jellyfin-go/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depeter/cuesync/internal/media"
)

func mediaStream(kind jellyfin.MediaStreamType, index int32, title, lang, codec string, forced, def bool) jellyfin.MediaStream {
	var s jellyfin.MediaStream
	s.SetType(kind)
	s.SetIndex(index)
	if title != "" {
		s.SetTitle(title)
	}
	s.SetLanguage(lang)
	s.SetCodec(codec)
	s.SetIsForced(forced)
	s.SetIsDefault(def)
	return s
}

func attachment(index int32, name, mimetype string) jellyfin.MediaAttachment {
	var a jellyfin.MediaAttachment
	a.SetIndex(index)
	a.SetFileName(name)
	a.SetMimeType(mimetype)
	return a
}

func TestConvertMediaSource(t *testing.T) {
	var src jellyfin.MediaSourceInfo
	src.SetMediaStreams([]jellyfin.MediaStream{
		mediaStream(jellyfin.MEDIASTREAMTYPE_VIDEO, 0, "", "", "hevc", false, true),
		mediaStream(jellyfin.MEDIASTREAMTYPE_AUDIO, 1, "Stereo", "jpn", "aac", false, true),
		mediaStream(jellyfin.MEDIASTREAMTYPE_SUBTITLE, 2, "Full", "eng", "ass", false, true),
		mediaStream(jellyfin.MEDIASTREAMTYPE_SUBTITLE, 3, "Signs", "eng", "subrip", true, false),
		mediaStream(jellyfin.MEDIASTREAMTYPE_SUBTITLE, 4, "", "ger", "PGSSUB", false, false),
	})
	src.SetMediaAttachments([]jellyfin.MediaAttachment{
		attachment(0, "OpenSans.ttf", "application/x-truetype-font"),
		attachment(1, "cover.jpg", "image/jpeg"),
	})

	meta := ConvertMediaSource(src)

	require.Len(t, meta.AudioTracks, 1)
	assert.Equal(t, media.Track{Number: 1, Name: "Stereo", Language: "jpn", CodecID: "AAC", Default: true}, meta.AudioTracks[0])

	require.Len(t, meta.SubtitleTracks, 3)
	assert.Equal(t, media.Track{Number: 2, Name: "Full", Language: "eng", CodecID: media.CodecASS, Default: true}, meta.SubtitleTracks[0])
	assert.Equal(t, media.CodecSRT, meta.SubtitleTracks[1].CodecID)
	assert.True(t, meta.SubtitleTracks[1].Forced)
	assert.True(t, meta.SubtitleTracks[2].IsImageBased())
	require.NoError(t, meta.Validate())

	assert.Equal(t, []media.Attachment{
		{Filename: "OpenSans.ttf", Mimetype: "application/x-truetype-font", Type: media.AttachmentTypeFont},
		{Filename: "cover.jpg", Mimetype: "image/jpeg", Type: media.AttachmentTypeOther},
	}, meta.Attachments)
}

func TestSubtitleCodec(t *testing.T) {
	tests := map[string]string{
		"ass":    media.CodecASS,
		"SSA":    media.CodecSSA,
		"subrip": media.CodecSRT,
		"srt":    media.CodecSRT,
		"pgssub": media.CodecPGS,
		"webvtt": "S_TEXT/WEBVTT",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, subtitleCodec(in))
		})
	}
}

func TestAttachmentType(t *testing.T) {
	tests := []struct {
		mimetype, filename string
		want               media.AttachmentType
	}{
		{"font/otf", "x.bin", media.AttachmentTypeFont},
		{"application/octet-stream", "Arial.TTF", media.AttachmentTypeFont},
		{"", "font.otf", media.AttachmentTypeFont},
		{"text/x-ssa", "signs", media.AttachmentTypeSubtitle},
		{"", "extra.srt", media.AttachmentTypeSubtitle},
		{"image/png", "cover.png", media.AttachmentTypeOther},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, attachmentType(tt.mimetype, tt.filename))
		})
	}
}

func TestScriptHeader(t *testing.T) {
	script := "[Script Info]\nTitle: x\n\n[Events]\nDialogue: 0,0:00:00.00,0:00:01.00,Default,,0,0,0,,hi\n"
	assert.Equal(t, "[Script Info]\nTitle: x\n\n", scriptHeader(script))
	assert.Equal(t, "[Script Info]\n", scriptHeader("[Script Info]\n"))
}

func TestURLs(t *testing.T) {
	c := NewClient("jellyfin.local:8096/")
	c.SetToken("tok", "user")

	assert.Equal(t, "https://jellyfin.local:8096", c.ServerURL())
	assert.Equal(t, "https://jellyfin.local:8096/Videos/item1/stream?MediaSourceId=src1&Static=true&api_key=tok",
		c.StreamURL("item1", "src1"))
	assert.Equal(t, "https://jellyfin.local:8096/Videos/item1/src1/Subtitles/3/0/Stream.ass?api_key=tok",
		c.SubtitleURL("item1", "src1", 3))
	assert.Equal(t, "https://jellyfin.local:8096/Videos/item1/src1/Attachments/0?api_key=tok",
		c.AttachmentURL("item1", "src1", 0))
}

func TestSubtitleScript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Videos/item1/src1/Subtitles/2/0/Stream.ass" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "tok", r.URL.Query().Get("api_key"))
		_, _ = w.Write([]byte("[Script Info]\n"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetToken("tok", "user")

	script, err := c.SubtitleScript(context.Background(), "item1", "src1", 2)
	require.NoError(t, err)
	assert.Equal(t, "[Script Info]\n", script)

	_, err = c.SubtitleScript(context.Background(), "item1", "src1", 9)
	assert.ErrorContains(t, err, "404")
}

func TestToTicks(t *testing.T) {
	assert.Equal(t, int64(15_000_000), toTicks(1.5))
}
