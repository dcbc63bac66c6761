package jellyfin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	jellyfin "github.com/sj14/jellyfin-go/api"

	"github.com/depeter/cuesync/internal/media"
)

// Manifest is the playback manifest of one media source of an item.
type Manifest struct {
	ItemID        string
	MediaSourceID string
	Name          string
	Metadata      media.Metadata
	// FontURLs lists the download URLs of the source's font attachments.
	FontURLs []string
	// Scripts holds the full ASS script of each text subtitle track, keyed by
	// track number.
	Scripts map[int]string
}

// PlaybackManifest loads the item and converts its first media source into
// a manifest. Text subtitle tracks are fetched as ASS so every track carries
// a header.
func (c *Client) PlaybackManifest(ctx context.Context, itemID string) (*Manifest, error) {
	item, _, err := c.api.UserLibraryAPI.GetItem(ctx, itemID).
		UserId(c.userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	sources := item.GetMediaSources()
	if len(sources) == 0 {
		return nil, fmt.Errorf("item %s has no media sources", itemID)
	}
	src := sources[0]

	m := &Manifest{
		ItemID:        itemID,
		MediaSourceID: src.GetId(),
		Name:          item.GetName(),
		Metadata:      ConvertMediaSource(src),
		Scripts:       make(map[int]string),
	}

	for _, a := range src.GetMediaAttachments() {
		if attachmentType(a.GetMimeType(), a.GetFileName()) == media.AttachmentTypeFont {
			m.FontURLs = append(m.FontURLs, c.AttachmentURL(itemID, m.MediaSourceID, int(a.GetIndex())))
		}
	}

	for i, t := range m.Metadata.SubtitleTracks {
		if t.IsImageBased() {
			continue
		}
		script, err := c.SubtitleScript(ctx, itemID, m.MediaSourceID, t.Number)
		if err != nil {
			log.Warn().Err(err).Int("track", t.Number).Msg("Failed to fetch subtitle script")
			continue
		}
		m.Scripts[t.Number] = script
		m.Metadata.SubtitleTracks[i].CodecPrivate = scriptHeader(script)
	}

	return m, nil
}

// SubtitleScript downloads a subtitle stream converted to ASS.
func (c *Client) SubtitleScript(ctx context.Context, itemID, mediaSourceID string, index int) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SubtitleURL(itemID, mediaSourceID, index), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch subtitle %d: %w", index, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch subtitle %d: %s", index, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read subtitle %d: %w", index, err)
	}
	return string(data), nil
}

// ConvertMediaSource maps a media source's streams and attachments onto the
// track manifest. Stream indices become track numbers.
func ConvertMediaSource(src jellyfin.MediaSourceInfo) media.Metadata {
	var meta media.Metadata
	for _, s := range src.GetMediaStreams() {
		switch s.GetType() {
		case jellyfin.MEDIASTREAMTYPE_SUBTITLE:
			meta.SubtitleTracks = append(meta.SubtitleTracks, convertStream(s, subtitleCodec(s.GetCodec())))
		case jellyfin.MEDIASTREAMTYPE_AUDIO:
			meta.AudioTracks = append(meta.AudioTracks, convertStream(s, strings.ToUpper(s.GetCodec())))
		}
	}
	for _, a := range src.GetMediaAttachments() {
		meta.Attachments = append(meta.Attachments, media.Attachment{
			Filename: a.GetFileName(),
			Mimetype: a.GetMimeType(),
			Type:     attachmentType(a.GetMimeType(), a.GetFileName()),
		})
	}
	return meta
}

func convertStream(s jellyfin.MediaStream, codecID string) media.Track {
	name := s.GetTitle()
	if name == "" {
		name = s.GetDisplayTitle()
	}
	return media.Track{
		Number:   int(s.GetIndex()),
		Name:     name,
		Language: s.GetLanguage(),
		CodecID:  codecID,
		Forced:   s.GetIsForced(),
		Default:  s.GetIsDefault(),
	}
}

func subtitleCodec(codec string) string {
	switch strings.ToLower(codec) {
	case "ass":
		return media.CodecASS
	case "ssa":
		return media.CodecSSA
	case "subrip", "srt":
		return media.CodecSRT
	case "pgssub", "pgs":
		return media.CodecPGS
	}
	return "S_TEXT/" + strings.ToUpper(codec)
}

func attachmentType(mimetype, filename string) media.AttachmentType {
	mt := strings.ToLower(mimetype)
	fn := strings.ToLower(filename)
	switch {
	case strings.Contains(mt, "font"), strings.HasSuffix(fn, ".ttf"), strings.HasSuffix(fn, ".otf"):
		return media.AttachmentTypeFont
	case strings.HasPrefix(mt, "text/"), strings.HasSuffix(fn, ".ass"), strings.HasSuffix(fn, ".srt"):
		return media.AttachmentTypeSubtitle
	}
	return media.AttachmentTypeOther
}

// scriptHeader returns the part of an ASS script before [Events].
func scriptHeader(script string) string {
	if i := strings.Index(script, "[Events]"); i >= 0 {
		return script[:i]
	}
	return script
}
