package player

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/depeter/cuesync/internal/assdoc"
	"github.com/depeter/cuesync/internal/media"
	"github.com/depeter/cuesync/internal/subtitles"
)

const (
	scriptTitle       = "cuesync"
	flushInterval     = 250 * time.Millisecond
	assOverrideForce  = "force"
	assOverrideNormal = "yes"
)

// FontSource downloads font attachments for the renderer.
type FontSource interface {
	Prefetch(ctx context.Context, urls []string, done func(paths []string))
}

// SubtitleRenderer renders the active track by loading it into mpv as an
// in-memory ASS script. Changes are batched and applied by Flush, which
// the UI loop calls once per frame.
type SubtitleRenderer struct {
	b     Backend
	fonts FontSource
	ctx   context.Context
	now   func() time.Time

	mu         sync.Mutex
	fontsReady bool

	header      string
	events      []subtitles.RenderEvent
	dirty       bool
	force       bool
	lastFlush   time.Time
	sid         string
	initialized bool
	destroyed   bool
}

// NewSubtitleRenderer creates a renderer on b. fonts may be nil.
func NewSubtitleRenderer(ctx context.Context, b Backend, fonts FontSource) *SubtitleRenderer {
	return &SubtitleRenderer{
		b:     b,
		fonts: fonts,
		ctx:   ctx,
		now:   time.Now,
	}
}

func (r *SubtitleRenderer) Init(header string, fonts []string) error {
	if r.destroyed {
		return errors.New("renderer already destroyed")
	}
	if r.b == nil {
		return errors.New("no video surface")
	}
	r.header = header
	r.initialized = true
	r.dirty = true

	if r.fonts != nil && len(fonts) > 0 {
		r.fonts.Prefetch(r.ctx, fonts, func(paths []string) {
			log.Debug().Int("fonts", len(paths)).Msg("Subtitle fonts ready")
			r.mu.Lock()
			r.fontsReady = true
			r.mu.Unlock()
		})
	}
	return nil
}

func (r *SubtitleRenderer) SetTrack(header string) {
	r.header = header
	r.events = nil
	r.dirty = true
	r.force = true
}

func (r *SubtitleRenderer) CreateEvent(ev subtitles.RenderEvent) {
	r.events = append(r.events, ev)
	r.dirty = true
}

// Resize makes the next Flush reload the script without waiting for the
// batching interval.
func (r *SubtitleRenderer) Resize() {
	r.dirty = true
	r.force = true
}

func (r *SubtitleRenderer) Destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true
	r.removeScript()
	r.events = nil
	r.header = ""
}

func (r *SubtitleRenderer) StyleOverride(c media.Customization) {
	type prop struct{ name, value string }
	props := []prop{
		{"sub-ass-override", assOverrideForce},
		{"sub-font", c.FontName},
		{"sub-color", c.PrimaryColor},
		{"sub-border-color", c.OutlineColor},
		{"sub-back-color", c.BackColor},
		{"sub-border-size", fmt.Sprintf("%.1f", c.Outline)},
		{"sub-shadow-offset", fmt.Sprintf("%.1f", c.Shadow)},
	}
	if c.FontSize > 0 {
		props = append(props, prop{"sub-font-size", strconv.Itoa(c.FontSize)})
	}
	if c.MarginV > 0 {
		props = append(props, prop{"sub-margin-y", strconv.Itoa(c.MarginV)})
	}
	for _, p := range props {
		if p.value == "" {
			continue
		}
		if err := r.b.SetProperty(p.name, p.value); err != nil {
			log.Warn().Err(err).Str("property", p.name).Msg("Failed to set subtitle style")
		}
	}
}

func (r *SubtitleRenderer) DisableStyleOverride() {
	if err := r.b.SetProperty("sub-ass-override", assOverrideNormal); err != nil {
		log.Warn().Err(err).Msg("Failed to reset subtitle style override")
	}
}

// Events returns the number of events in the loaded script.
func (r *SubtitleRenderer) Events() int {
	return len(r.events)
}

// Flush loads pending changes into mpv. Live events are batched to one
// reload per interval; track changes and resizes apply immediately.
func (r *SubtitleRenderer) Flush() error {
	r.mu.Lock()
	if r.fontsReady {
		r.fontsReady = false
		r.dirty = true
		r.force = true
	}
	r.mu.Unlock()

	if !r.dirty || !r.initialized || r.destroyed {
		return nil
	}
	if !r.b.Loaded() {
		return nil
	}
	now := r.now()
	if !r.force && now.Sub(r.lastFlush) < flushInterval {
		return nil
	}

	r.removeScript()
	r.dirty = false
	r.force = false
	r.lastFlush = now

	if r.header == subtitles.DefaultHeader && len(r.events) == 0 {
		return r.b.SetProperty("sid", "no")
	}

	script := assdoc.Build(r.header, r.events)
	if err := r.b.Command("sub-add", "memory://"+script, "select", scriptTitle); err != nil {
		return fmt.Errorf("load subtitle script: %w", err)
	}
	r.sid = r.b.Property("sid")
	return nil
}

func (r *SubtitleRenderer) removeScript() {
	if r.sid == "" || r.sid == "no" {
		r.sid = ""
		return
	}
	if err := r.b.Command("sub-remove", r.sid); err != nil {
		log.Debug().Err(err).Str("sid", r.sid).Msg("Failed to remove subtitle script")
	}
	r.sid = ""
}
