package app

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/rs/zerolog/log"

	"github.com/depeter/cuesync/internal/cache"
	"github.com/depeter/cuesync/internal/config"
	"github.com/depeter/cuesync/internal/player"
	"github.com/depeter/cuesync/internal/stream"
	"github.com/depeter/cuesync/internal/subtitles"
)

// maxMessagesPerFrame bounds the work done per Update so a burst of
// subtitle events cannot stall the frame.
const maxMessagesPerFrame = 2048

// WindowTitle is the title of the player window between sessions.
const WindowTitle = "cuesync"

// Reporter receives playback start and stop notifications.
type Reporter interface {
	ReportPlaybackStart(ctx context.Context, itemID string, positionSeconds float64) error
	ReportPlaybackStopped(ctx context.Context, itemID string, positionSeconds float64) error
}

// Game implements ebiten.Game. Update is the only goroutine that touches a
// session.
type Game struct {
	Config   *config.Config
	Player   *player.Player
	Fonts    *cache.FontCache
	Stats    subtitles.Stats
	Reporter Reporter
	// ServerURL is the base of the font attachment URLs.
	ServerURL string

	ctx      context.Context
	messages <-chan stream.Message
	reloads  <-chan *config.Config
	keymap   *player.Keymap

	session     *Session
	renderer    *player.SubtitleRenderer
	audioTracks *player.AudioTracks

	Width, Height int
	status        string
	quit          atomic.Bool
}

// NewGame creates the game. reloads may be nil.
func NewGame(ctx context.Context, cfg *config.Config, fonts *cache.FontCache, messages <-chan stream.Message, reloads <-chan *config.Config) *Game {
	return &Game{
		Config:   cfg,
		Fonts:    fonts,
		ctx:      ctx,
		messages: messages,
		reloads:  reloads,
		keymap:   player.NewKeymap(cfg.Keybinds),
		Width:    cfg.UI.Width,
		Height:   cfg.UI.Height,
		status:   "Waiting for playback...",
	}
}

// InitPlayer creates the mpv player and embeds it in the game window. Call
// after the window is visible.
func (g *Game) InitPlayer() error {
	fontsDir := ""
	if g.Fonts != nil {
		fontsDir = g.Fonts.Dir()
	}
	p, err := player.New(g.Config, fontsDir)
	if err != nil {
		return err
	}
	if wid, err := player.WindowHandle(); err != nil {
		log.Warn().Err(err).Msg("Failed to get window handle, mpv opens its own window")
	} else if err := p.SetWindowID(wid); err != nil {
		log.Warn().Err(err).Msg("Failed to set window ID")
	}
	g.Player = p
	return nil
}

// RequestQuit makes the next Update end the game. Safe to call from any
// goroutine.
func (g *Game) RequestQuit() {
	g.quit.Store(true)
}

func (g *Game) Update() error {
	if g.quit.Load() {
		g.endSession()
		return ebiten.Termination
	}

	g.applyReloads()
	g.drainMessages()

	if g.Player != nil {
		select {
		case <-g.Player.FileLoaded():
			g.onFileLoaded()
		default:
		}
		select {
		case <-g.Player.Ended():
			log.Info().Msg("Playback ended")
			g.endSession()
		default:
		}
	}

	g.handleInput()

	if g.renderer != nil {
		if err := g.renderer.Flush(); err != nil {
			log.Warn().Err(err).Msg("Subtitle flush failed")
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	// mpv owns the window surface during playback.
	if g.session == nil {
		ebitenutil.DebugPrint(screen, g.status)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.Width || outsideHeight != g.Height {
		g.Width, g.Height = outsideWidth, outsideHeight
		if g.session != nil {
			g.session.Subtitles.Resize()
		}
	}
	return g.Width, g.Height
}

func (g *Game) applyReloads() {
	if g.reloads == nil {
		return
	}
	select {
	case cfg, ok := <-g.reloads:
		if !ok {
			g.reloads = nil
			return
		}
		g.Config = cfg
		g.keymap = player.NewKeymap(cfg.Keybinds)
		if g.session != nil {
			g.session.Subtitles.UpdateSettings(cfg.Settings())
		}
	default:
	}
}

func (g *Game) drainMessages() {
	for i := 0; i < maxMessagesPerFrame; i++ {
		select {
		case msg := <-g.messages:
			g.handleMessage(msg)
		default:
			return
		}
	}
}

func (g *Game) handleMessage(msg stream.Message) {
	switch m := msg.(type) {
	case stream.Watch:
		if g.session != nil && m.ID != "" && g.session.ID == m.ID {
			log.Debug().Str("id", m.ID).Msg("Ignoring repeated watch for the current session")
			return
		}
		g.startSession(m)
	case stream.Terminate:
		log.Info().Msg("Playback terminated by server")
		g.endSession()
	case stream.Error:
		log.Error().Str("error", m.Message).Msg("Playback error")
		g.endSession()
		g.status = "Playback error: " + m.Message
	default:
		if g.session == nil {
			return
		}
		if err := g.session.Handle(msg); err != nil {
			g.failSession(err)
		}
	}
}

func (g *Game) startSession(w stream.Watch) {
	g.endSession()

	if g.Player == nil {
		if err := g.InitPlayer(); err != nil {
			log.Error().Err(err).Msg("Failed to init player")
			g.status = "Player error: " + err.Error()
			return
		}
	}

	fonts := w.FontURLs
	if len(fonts) == 0 {
		fonts = w.Metadata.FontURLs(g.ServerURL)
	}

	audioNumbers := make([]int, 0, len(w.Metadata.AudioTracks))
	for _, t := range w.Metadata.AudioTracks {
		audioNumbers = append(audioNumbers, t.Number)
	}

	renderer := player.NewSubtitleRenderer(g.ctx, g.Player, g.Fonts)
	audioTracks := player.NewAudioTracks(g.Player, audioNumbers)

	opts := []subtitles.Option{subtitles.WithFonts(fonts)}
	if g.Stats != nil {
		opts = append(opts, subtitles.WithStats(g.Stats))
	}
	s, err := NewSession(w.ID, w.Metadata, g.Config.Settings(), renderer, audioTracks, opts...)
	if err != nil {
		g.failSession(err)
		return
	}
	s.Subtitles.OnTrackChanged(func(n int) {
		g.Player.ShowText(s.SubtitleLabel(n))
	})
	s.WatchTracks(
		func(label string) { ebiten.SetWindowTitle(WindowTitle + " - " + label) },
		func(label string) { g.Player.ShowText(label) },
	)

	g.session = s
	g.renderer = renderer
	g.audioTracks = audioTracks

	if err := g.Player.LoadFile(w.StreamURL); err != nil {
		g.failSession(err)
		return
	}
	log.Info().
		Str("id", w.ID).
		Int("subtitle_tracks", len(w.Metadata.SubtitleTracks)).
		Int("audio_tracks", len(w.Metadata.AudioTracks)).
		Int("fonts", len(fonts)).
		Msg("Playback started")

	if g.Reporter != nil && w.ID != "" {
		go func() {
			if err := g.Reporter.ReportPlaybackStart(g.ctx, w.ID, 0); err != nil {
				log.Warn().Err(err).Msg("Failed to report playback start")
			}
		}()
	}
}

func (g *Game) onFileLoaded() {
	if g.session == nil || g.audioTracks == nil {
		return
	}
	g.audioTracks.Refresh()
	g.session.Audio.SelectDefault(g.Config.Playback.AudioLanguage)
}

// failSession ends the session after a fatal error.
func (g *Game) failSession(err error) {
	if errors.Is(err, subtitles.ErrRendererInit) {
		log.Error().Err(err).Msg("Subtitle renderer unavailable, stopping playback")
	} else {
		log.Error().Err(err).Msg("Playback failed")
	}
	g.endSession()
	g.status = "Playback error: " + err.Error()
}

func (g *Game) endSession() {
	if g.session == nil {
		return
	}
	id := g.session.ID
	position := 0.0
	if g.Player != nil {
		position = g.Player.Position()
		if g.Player.Playing() {
			g.Player.Stop()
		}
	}
	g.session.Close()
	g.session = nil
	g.renderer = nil
	g.audioTracks = nil
	g.status = "Waiting for playback..."
	ebiten.SetWindowTitle(WindowTitle)

	if g.Reporter != nil && id != "" {
		go func() {
			if err := g.Reporter.ReportPlaybackStopped(g.ctx, id, position); err != nil {
				log.Warn().Err(err).Msg("Failed to report playback stopped")
			}
		}()
	}
}

func (g *Game) handleInput() {
	switch g.keymap.Poll() {
	case player.ActionQuit:
		g.quit.Store(true)
	case player.ActionFullscreen:
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	case player.ActionPlayPause:
		if g.Player != nil {
			g.Player.TogglePause()
		}
	case player.ActionSubCycle:
		if g.session == nil {
			return
		}
		if _, err := g.session.CycleSubtitles(); err != nil {
			g.failSession(err)
		}
	case player.ActionSubOff:
		if g.session == nil {
			return
		}
		if err := g.session.Subtitles.SetNoTrack(); err != nil {
			g.failSession(err)
		}
	case player.ActionAudioCycle:
		if g.session == nil {
			return
		}
		// The audio list's change listener shows the OSD label.
		g.session.CycleAudio()
	}
}
