package jellyfin

import (
	"context"
	"fmt"

	"github.com/depeter/cuesync/internal/assdoc"
	"github.com/depeter/cuesync/internal/stream"
)

// Feed loads the item's manifest and sends it on out as a watch message,
// followed by every dialogue line of its text subtitle tracks as subtitle
// events. It stands in for the push stream when playing straight from
// Jellyfin.
func (c *Client) Feed(ctx context.Context, itemID string, out chan<- stream.Message) error {
	m, err := c.PlaybackManifest(ctx, itemID)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}

	msgs := []stream.Message{stream.Watch{
		ID:        m.ItemID,
		StreamURL: c.StreamURL(m.ItemID, m.MediaSourceID),
		Metadata:  m.Metadata,
		FontURLs:  m.FontURLs,
	}}
	for _, t := range m.Metadata.SubtitleTracks {
		script, ok := m.Scripts[t.Number]
		if !ok {
			continue
		}
		for _, ev := range assdoc.ParseEvents(script, t.Number) {
			msgs = append(msgs, stream.SubtitleEvent{SubtitleEvent: ev})
		}
	}

	for _, msg := range msgs {
		select {
		case out <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
