package jellyfin

import (
	"fmt"
	"net/url"
)

// StreamURL returns a direct-play streaming URL for an item's media source.
func (c *Client) StreamURL(itemID, mediaSourceID string) string {
	params := url.Values{}
	params.Set("Static", "true")
	params.Set("api_key", c.token)
	if mediaSourceID != "" {
		params.Set("MediaSourceId", mediaSourceID)
	}
	return fmt.Sprintf("%s/Videos/%s/stream?%s",
		c.serverURL, url.PathEscape(itemID), params.Encode())
}

// SubtitleURL returns the URL of a subtitle stream converted to ASS.
func (c *Client) SubtitleURL(itemID, mediaSourceID string, index int) string {
	params := url.Values{}
	params.Set("api_key", c.token)
	return fmt.Sprintf("%s/Videos/%s/%s/Subtitles/%d/0/Stream.ass?%s",
		c.serverURL, url.PathEscape(itemID), url.PathEscape(mediaSourceID), index, params.Encode())
}

// AttachmentURL returns the URL of a container attachment such as a font.
func (c *Client) AttachmentURL(itemID, mediaSourceID string, index int) string {
	params := url.Values{}
	params.Set("api_key", c.token)
	return fmt.Sprintf("%s/Videos/%s/%s/Attachments/%d?%s",
		c.serverURL, url.PathEscape(itemID), url.PathEscape(mediaSourceID), index, params.Encode())
}
