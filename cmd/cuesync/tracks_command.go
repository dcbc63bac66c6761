package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/depeter/cuesync/internal/jellyfin"
	"github.com/depeter/cuesync/internal/media"
	"github.com/depeter/cuesync/internal/tracks"
)

func newTracksCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tracks <itemID>",
		Short: "List an item's tracks and the ones that would be selected",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cfg.Server.URL == "" || cfg.Server.Token == "" {
				return errors.New("listing tracks needs [server] url and token")
			}
			client := jellyfin.NewClient(cfg.Server.URL)
			client.SetToken(cfg.Server.Token, cfg.Server.UserID)

			m, err := client.PlaybackManifest(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			settings := cfg.Settings()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderManifest(m.Name, m.Metadata, settings))
			return nil
		},
	}
}

func renderManifest(name string, meta media.Metadata, settings media.Settings) string {
	sub := tracks.PickDefaultSubtitleTrack(meta.SubtitleTracks, settings.PreferredSubtitleLanguage, settings.SubtitleBlacklist)
	if len(meta.SubtitleTracks) == 1 {
		sub = meta.SubtitleTracks[0].Number
	}
	aud, audOK := tracks.PickDefaultAudioTrack(meta.AudioTracks, settings.PreferredAudioLanguage)

	headers := []string{"#", "Name", "Language", "Codec", "Flags", "Selected"}
	subRows := make([][]string, 0, len(meta.SubtitleTracks))
	for _, t := range meta.SubtitleTracks {
		subRows = append(subRows, trackRow(t, t.Number == sub))
	}
	audRows := make([][]string, 0, len(meta.AudioTracks))
	for _, t := range meta.AudioTracks {
		audRows = append(audRows, trackRow(t, audOK && t.Number == aud))
	}

	out := renderTable(name+" - subtitles", headers, subRows, 1) + "\n"
	out += renderTable(name+" - audio", headers, audRows, 1)
	if len(meta.Attachments) > 0 {
		attRows := make([][]string, 0, len(meta.Attachments))
		for _, a := range meta.Attachments {
			attRows = append(attRows, []string{a.Filename, a.Mimetype, string(a.Type)})
		}
		out += "\n" + renderTable(name+" - attachments", []string{"File", "Mimetype", "Type"}, attRows)
	}
	return out
}

func trackRow(t media.Track, selected bool) []string {
	var flags []string
	if t.Default {
		flags = append(flags, "default")
	}
	if t.Forced {
		flags = append(flags, "forced")
	}
	mark := ""
	if selected {
		mark = "*"
	}
	return []string{
		strconv.Itoa(t.Number),
		t.Name,
		media.LanguageName(t.Language),
		t.CodecID,
		strings.Join(flags, ","),
		mark,
	}
}
