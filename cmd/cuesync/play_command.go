package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/depeter/cuesync/assets/icon"
	"github.com/depeter/cuesync/internal/app"
	"github.com/depeter/cuesync/internal/cache"
	"github.com/depeter/cuesync/internal/config"
	"github.com/depeter/cuesync/internal/jellyfin"
	"github.com/depeter/cuesync/internal/metrics"
	"github.com/depeter/cuesync/internal/stream"
)

func newPlayCommand(opts *options) *cobra.Command {
	var streamURL string
	var itemID string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Open the player and follow the playback stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if streamURL != "" {
				cfg.Stream.URL = streamURL
			}
			if cfg.Stream.URL == "" && itemID == "" {
				return errors.New("no stream url configured; set [stream] url or pass --stream or --item")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runPlayer(ctx, cfg, opts.configPath, itemID)
		},
	}

	cmd.Flags().StringVar(&streamURL, "stream", "", "Websocket URL of the playback stream")
	cmd.Flags().StringVar(&itemID, "item", "", "Play a Jellyfin item directly instead of following the stream")
	return cmd
}

func runPlayer(ctx context.Context, cfg *config.Config, configPath, itemID string) error {
	fonts, err := cache.NewFontCache(filepath.Join(filepath.Dir(configPath), "cache", "fonts"))
	if err != nil {
		return fmt.Errorf("init font cache: %w", err)
	}

	reloads, err := config.Watch(ctx, configPath)
	if err != nil {
		log.Warn().Err(err).Msg("Config reload disabled")
		reloads = nil
	}

	var messages <-chan stream.Message
	var reporter app.Reporter
	serverURL := cfg.Server.URL

	if itemID != "" {
		if cfg.Server.URL == "" || cfg.Server.Token == "" {
			return errors.New("playing an item needs [server] url and token")
		}
		client := jellyfin.NewClient(cfg.Server.URL)
		client.SetToken(cfg.Server.Token, cfg.Server.UserID)
		reporter = client
		serverURL = client.ServerURL()

		ch := make(chan stream.Message, 256)
		messages = ch
		go func() {
			if err := client.Feed(ctx, itemID, ch); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Str("item", itemID).Msg("Failed to load item")
				select {
				case ch <- stream.Error{Message: err.Error()}:
				case <-ctx.Done():
				}
			}
		}()
	} else {
		client := stream.NewClient(cfg.Stream.URL, cfg.Stream.ClientID)
		messages = client.Messages()
		go func() {
			if err := client.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("Stream stopped")
			}
		}()
	}

	game := app.NewGame(ctx, cfg, fonts, messages, reloads)
	game.Reporter = reporter
	game.ServerURL = serverURL

	if cfg.Metrics.Listen != "" {
		m := metrics.New()
		game.Stats = m
		srv := &http.Server{
			Addr:              cfg.Metrics.Listen,
			Handler:           m.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info().Str("listen", cfg.Metrics.Listen).Msg("Serving metrics")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("Metrics server failed")
			}
		}()
		defer srv.Close()
	}

	ebiten.SetWindowSize(cfg.UI.Width, cfg.UI.Height)
	ebiten.SetWindowTitle(app.WindowTitle)
	ebiten.SetWindowIcon(icon.Generate())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.UI.Fullscreen)

	go func() {
		<-ctx.Done()
		game.RequestQuit()
	}()

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	if game.Player != nil {
		game.Player.Destroy()
	}
	return nil
}
