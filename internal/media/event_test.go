package media

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubtitleEventDecode(t *testing.T) {
	data := []byte(`{
		"trackNumber": 3,
		"startTime": 1500,
		"duration": 2250.5,
		"text": "Hello",
		"codecID": "S_TEXT/ASS",
		"extraData": {"ReadOrder": 7, "layer": "1", "Style": "Sign", "name": "", "marginV": 20, "unknown": "x"}
	}`)

	var ev SubtitleEvent
	require.NoError(t, json.Unmarshal(data, &ev))

	assert.Equal(t, 3, ev.TrackNumber)
	assert.Equal(t, 1500.0, ev.StartTime)
	assert.Equal(t, 2250.5, ev.Duration)
	assert.Equal(t, "Hello", ev.Text)
	assert.Equal(t, ExtraData{ReadOrder: "7", Layer: "1", Style: "Sign", MarginV: "20"}, ev.Extra())
}

func TestSubtitleEventWithoutExtraData(t *testing.T) {
	var ev SubtitleEvent
	require.NoError(t, json.Unmarshal([]byte(`{"trackNumber":1,"startTime":0,"duration":10,"text":"x"}`), &ev))
	assert.Nil(t, ev.ExtraData)
	assert.Equal(t, ExtraData{}, ev.Extra())
}

func TestExtraDataMarshalOmitsEmpty(t *testing.T) {
	out, err := json.Marshal(ExtraData{Style: "Default", Layer: "0"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"style":"Default","layer":"0"}`, string(out))
}

func TestExtraDataRejectsNonObject(t *testing.T) {
	var x ExtraData
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &x))
}
