// Package stream receives playback and subtitle events pushed by the
// streaming server over a websocket.
package stream

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/depeter/cuesync/internal/media"
)

// ErrUnknownEvent is returned by Decode for event types the client does not
// handle.
var ErrUnknownEvent = errors.New("unknown stream event")

// EventType names a server event.
type EventType string

const (
	EventWatch            EventType = "watch"
	EventSubtitleEvent    EventType = "subtitle-event"
	EventAddSubtitleTrack EventType = "add-subtitle-track"
	EventTerminate        EventType = "terminate"
	EventError            EventType = "error"
)

// Message is a decoded server event.
type Message interface {
	Type() EventType
}

// Watch starts a playback session.
type Watch struct {
	ID        string         `json:"id"`
	StreamURL string         `json:"streamUrl"`
	Metadata  media.Metadata `json:"mkvMetadata"`
	// FontURLs overrides the font URLs derived from the manifest's
	// attachments.
	FontURLs  []string       `json:"fontUrls,omitempty"`
}

// SubtitleEvent carries one demuxed cue.
type SubtitleEvent struct {
	media.SubtitleEvent
}

// AddSubtitleTrack announces a track that was not in the manifest.
type AddSubtitleTrack struct {
	media.Track
}

// Terminate ends the current session.
type Terminate struct{}

// Error reports a server-side playback failure. The session ends.
type Error struct {
	Message string `json:"error"`
}

func (Watch) Type() EventType            { return EventWatch }
func (SubtitleEvent) Type() EventType    { return EventSubtitleEvent }
func (AddSubtitleTrack) Type() EventType { return EventAddSubtitleTrack }
func (Terminate) Type() EventType        { return EventTerminate }
func (Error) Type() EventType            { return EventError }

type envelope struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Decode parses a raw websocket frame.
func Decode(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	var (
		msg Message
		err error
	)
	switch env.Type {
	case EventWatch:
		var w Watch
		err = unmarshalPayload(env.Payload, &w)
		msg = w
	case EventSubtitleEvent:
		var ev SubtitleEvent
		err = unmarshalPayload(env.Payload, &ev.SubtitleEvent)
		msg = ev
	case EventAddSubtitleTrack:
		var t AddSubtitleTrack
		err = unmarshalPayload(env.Payload, &t.Track)
		msg = t
	case EventTerminate:
		msg = Terminate{}
	case EventError:
		var e Error
		err = unmarshalPayload(env.Payload, &e)
		msg = e
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Type, err)
	}
	return msg, nil
}

// Encode wraps a message in its envelope.
func Encode(msg Message) ([]byte, error) {
	env := envelope{Type: msg.Type()}
	var payload any
	switch m := msg.(type) {
	case SubtitleEvent:
		payload = m.SubtitleEvent
	case AddSubtitleTrack:
		payload = m.Track
	case Terminate:
	default:
		payload = m
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Payload = raw
	}
	return json.Marshal(env)
}

func unmarshalPayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return errors.New("missing payload")
	}
	return json.Unmarshal(raw, v)
}
