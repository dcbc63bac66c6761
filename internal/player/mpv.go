package player

import (
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/gen2brain/go-mpv"
	"github.com/rs/zerolog/log"

	"github.com/depeter/cuesync/internal/config"
)

// Backend is the part of mpv the subtitle and audio adapters drive.
type Backend interface {
	Command(args ...string) error
	SetProperty(name, value string) error
	Property(name string) string
	// Loaded reports whether a file is loaded and accepts tracks.
	Loaded() bool
}

// Player wraps libmpv for video playback.
type Player struct {
	m        *mpv.Mpv
	mu       sync.Mutex
	playing  bool
	loaded   bool
	position float64

	fileLoaded chan struct{}
	ended      chan struct{}
}

// New creates and initializes an mpv instance. Fonts for subtitle scripts
// are looked up in fontsDir.
func New(cfg *config.Config, fontsDir string) (*Player, error) {
	m := mpv.New()

	must(m.SetOptionString("hwdec", cfg.Playback.HWAccel))
	must(m.SetOptionString("vo", "gpu"))
	must(m.SetOptionString("keep-open", "yes"))
	must(m.SetOptionString("idle", "yes"))

	// Subtitles are loaded by the subtitle renderer only.
	must(m.SetOptionString("sub-auto", "no"))
	must(m.SetOptionString("sid", "no"))
	if fontsDir != "" {
		must(m.SetOptionString("sub-fonts-dir", fontsDir))
	}
	if cfg.Subtitles.Delay != 0 {
		must(m.SetOptionString("sub-delay", fmt.Sprintf("%.3f", cfg.Subtitles.Delay)))
	}

	must(m.SetOptionString("volume", strconv.Itoa(cfg.Playback.Volume)))

	if err := m.Initialize(); err != nil {
		return nil, fmt.Errorf("mpv init: %w", err)
	}

	p := &Player{
		m:          m,
		fileLoaded: make(chan struct{}, 1),
		ended:      make(chan struct{}, 1),
	}

	m.ObserveProperty(0, "time-pos", mpv.FormatDouble)

	go p.eventLoop()

	return p, nil
}

func must(err error) {
	if err != nil {
		log.Warn().Err(err).Msg("mpv option")
	}
}

// do runs fn with the mpv handle under the player lock.
func (p *Player) do(fn func(m *mpv.Mpv) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fn(p.m)
}

// SetWindowID sets the native window handle for embedded playback.
func (p *Player) SetWindowID(wid int64) error {
	return p.do(func(m *mpv.Mpv) error {
		return m.SetOptionString("wid", strconv.FormatInt(wid, 10))
	})
}

// LoadFile starts playback of a URL.
func (p *Player) LoadFile(url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = true
	p.loaded = false
	return p.m.Command([]string{"loadfile", url})
}

func (p *Player) Command(args ...string) error {
	return p.do(func(m *mpv.Mpv) error {
		return m.Command(args)
	})
}

func (p *Player) SetProperty(name, value string) error {
	return p.do(func(m *mpv.Mpv) error {
		return m.SetPropertyString(name, value)
	})
}

func (p *Player) Property(name string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.m.GetPropertyString(name)
}

func (p *Player) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// ShowText displays a message on the OSD for two seconds.
func (p *Player) ShowText(text string) error {
	return p.Command("show-text", text, "2000")
}

// TogglePause toggles pause state.
func (p *Player) TogglePause() error {
	return p.Command("cycle", "pause")
}

// Stop stops playback.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
	p.loaded = false
	return p.m.Command([]string{"stop"})
}

// Destroy cleans up the mpv instance.
func (p *Player) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m.TerminateDestroy()
}

// Playing returns whether media is currently loaded.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Position returns the current playback position in seconds.
func (p *Player) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

// FileLoaded receives once per loaded file.
func (p *Player) FileLoaded() <-chan struct{} { return p.fileLoaded }

// Ended receives when playback of the current file ends.
func (p *Player) Ended() <-chan struct{} { return p.ended }

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (p *Player) eventLoop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	for {
		ev := p.m.WaitEvent(1.0)
		if ev == nil {
			continue
		}

		switch ev.EventID {
		case mpv.EventPropertyChange:
			if ev.Data == nil {
				continue
			}
			prop := ev.Property()
			if v, ok := prop.Data.(float64); ok && prop.Name == "time-pos" {
				p.mu.Lock()
				p.position = v
				p.mu.Unlock()
			}

		case mpv.EventFileLoaded:
			p.mu.Lock()
			p.loaded = true
			p.mu.Unlock()
			log.Debug().Msg("mpv file loaded")
			signal(p.fileLoaded)

		case mpv.EventEnd:
			p.mu.Lock()
			wasPlaying := p.playing
			p.playing = false
			p.loaded = false
			p.mu.Unlock()
			if ev.Data != nil {
				log.Debug().Interface("reason", ev.EndFile().Reason).Bool("was_playing", wasPlaying).Msg("mpv end-file")
			}
			// Stop() clears playing first, so stops we asked for are not
			// reported as playback end.
			if wasPlaying {
				signal(p.ended)
			}

		case mpv.EventShutdown:
			return
		}
	}
}
