package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depeter/cuesync/internal/media"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  Message
	}{
		{
			name:  "watch",
			frame: `{"type":"watch","payload":{"id":"abc","streamUrl":"http://host/stream.mkv","mkvMetadata":{"subtitleTracks":[{"number":1,"language":"eng","default":true,"forced":false}]}}}`,
			want: Watch{
				ID:        "abc",
				StreamURL: "http://host/stream.mkv",
				Metadata: media.Metadata{SubtitleTracks: []media.Track{
					{Number: 1, Language: "eng", Default: true},
				}},
			},
		},
		{
			name:  "subtitle event",
			frame: `{"type":"subtitle-event","payload":{"trackNumber":2,"startTime":1000,"duration":500,"text":"Hi","extraData":{"Style":"Sign","readOrder":3}}}`,
			want: SubtitleEvent{media.SubtitleEvent{
				TrackNumber: 2,
				StartTime:   1000,
				Duration:    500,
				Text:        "Hi",
				ExtraData:   &media.ExtraData{Style: "Sign", ReadOrder: "3"},
			}},
		},
		{
			name:  "add subtitle track",
			frame: `{"type":"add-subtitle-track","payload":{"number":4,"name":"Commentary"}}`,
			want:  AddSubtitleTrack{media.Track{Number: 4, Name: "Commentary"}},
		},
		{
			name:  "terminate",
			frame: `{"type":"terminate"}`,
			want:  Terminate{},
		},
		{
			name:  "error",
			frame: `{"type":"error","payload":{"error":"transcode failed"}}`,
			want:  Error{Message: "transcode failed"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.frame))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte(`{"type":"seek","payload":{}}`))
	assert.ErrorIs(t, err, ErrUnknownEvent)

	_, err = Decode([]byte(`{"type":"subtitle-event"}`))
	assert.ErrorContains(t, err, "missing payload")

	_, err = Decode([]byte(`{"type":"watch","payload":null}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestEncodeDecode(t *testing.T) {
	msgs := []Message{
		Watch{ID: "x", StreamURL: "http://host/s.mkv", FontURLs: []string{"http://host/f.ttf"}},
		SubtitleEvent{media.SubtitleEvent{TrackNumber: 1, StartTime: 5, Duration: 10, Text: "a"}},
		Terminate{},
	}
	for _, msg := range msgs {
		t.Run(string(msg.Type()), func(t *testing.T) {
			data, err := Encode(msg)
			require.NoError(t, err)
			got, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, msg, got)
		})
	}
}
