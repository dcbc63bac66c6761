package jellyfin

import (
	"context"
	"fmt"

	jellyfin "github.com/sj14/jellyfin-go/api"
)

// ticksPerSecond converts seconds to Jellyfin's 100ns ticks.
const ticksPerSecond = 10_000_000

// ReportPlaybackStart notifies the server that playback has started.
func (c *Client) ReportPlaybackStart(ctx context.Context, itemID string, positionSeconds float64) error {
	body := *jellyfin.NewPlaybackStartInfo()
	body.SetItemId(itemID)
	body.SetPositionTicks(toTicks(positionSeconds))
	body.SetCanSeek(true)
	body.SetPlayMethod(jellyfin.PLAYMETHOD_DIRECT_PLAY)

	_, err := c.api.PlaystateAPI.ReportPlaybackStart(ctx).PlaybackStartInfo(body).Execute()
	if err != nil {
		return fmt.Errorf("report playback start: %w", err)
	}
	return nil
}

// ReportPlaybackStopped notifies the server that playback has stopped.
func (c *Client) ReportPlaybackStopped(ctx context.Context, itemID string, positionSeconds float64) error {
	body := *jellyfin.NewPlaybackStopInfo()
	body.SetItemId(itemID)
	body.SetPositionTicks(toTicks(positionSeconds))

	_, err := c.api.PlaystateAPI.ReportPlaybackStopped(ctx).PlaybackStopInfo(body).Execute()
	if err != nil {
		return fmt.Errorf("report playback stopped: %w", err)
	}
	return nil
}

func toTicks(seconds float64) int64 {
	return int64(seconds * ticksPerSecond)
}
