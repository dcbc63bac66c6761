package player

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog/log"

	"github.com/depeter/cuesync/internal/config"
)

// Action is a player action triggered by a key.
type Action int

const (
	ActionNone Action = iota
	ActionPlayPause
	ActionSubCycle
	ActionSubOff
	ActionAudioCycle
	ActionFullscreen
	ActionQuit
)

// keyNames maps config key names to ebiten keys.
var keyNames = map[string]ebiten.Key{
	"space":  ebiten.KeySpace,
	"enter":  ebiten.KeyEnter,
	"return": ebiten.KeyEnter,
	"tab":    ebiten.KeyTab,
	"escape": ebiten.KeyEscape,
	"left":   ebiten.KeyArrowLeft,
	"right":  ebiten.KeyArrowRight,
	"up":     ebiten.KeyArrowUp,
	"down":   ebiten.KeyArrowDown,
	"a":      ebiten.KeyA,
	"b":      ebiten.KeyB,
	"c":      ebiten.KeyC,
	"d":      ebiten.KeyD,
	"e":      ebiten.KeyE,
	"f":      ebiten.KeyF,
	"g":      ebiten.KeyG,
	"h":      ebiten.KeyH,
	"i":      ebiten.KeyI,
	"j":      ebiten.KeyJ,
	"k":      ebiten.KeyK,
	"l":      ebiten.KeyL,
	"m":      ebiten.KeyM,
	"n":      ebiten.KeyN,
	"o":      ebiten.KeyO,
	"p":      ebiten.KeyP,
	"q":      ebiten.KeyQ,
	"r":      ebiten.KeyR,
	"s":      ebiten.KeyS,
	"t":      ebiten.KeyT,
	"u":      ebiten.KeyU,
	"v":      ebiten.KeyV,
	"w":      ebiten.KeyW,
	"x":      ebiten.KeyX,
	"y":      ebiten.KeyY,
	"z":      ebiten.KeyZ,
	"0":      ebiten.KeyDigit0,
	"1":      ebiten.KeyDigit1,
	"2":      ebiten.KeyDigit2,
	"3":      ebiten.KeyDigit3,
	"4":      ebiten.KeyDigit4,
	"5":      ebiten.KeyDigit5,
	"6":      ebiten.KeyDigit6,
	"7":      ebiten.KeyDigit7,
	"8":      ebiten.KeyDigit8,
	"9":      ebiten.KeyDigit9,
}

// ParseKey converts a config key name to an ebiten.Key.
func ParseKey(name string) (ebiten.Key, bool) {
	k, ok := keyNames[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

type binding struct {
	key    ebiten.Key
	action Action
}

// Keymap resolves key presses to actions.
type Keymap struct {
	bindings []binding
}

// NewKeymap builds a keymap from the configured key names. Unknown names
// are logged and left unbound.
func NewKeymap(cfg config.KeybindConfig) *Keymap {
	km := &Keymap{}
	for _, b := range []struct {
		name   string
		action Action
	}{
		{cfg.PlayPause, ActionPlayPause},
		{cfg.SubCycle, ActionSubCycle},
		{cfg.SubOff, ActionSubOff},
		{cfg.AudioCycle, ActionAudioCycle},
		{cfg.Fullscreen, ActionFullscreen},
		{cfg.Quit, ActionQuit},
	} {
		k, ok := ParseKey(b.name)
		if !ok {
			log.Warn().Str("key", b.name).Msg("Unknown keybind")
			continue
		}
		km.bindings = append(km.bindings, binding{key: k, action: b.action})
	}
	return km
}

// Resolve returns the first action whose key was just pressed.
func (km *Keymap) Resolve(justPressed func(ebiten.Key) bool) Action {
	for _, b := range km.bindings {
		if justPressed(b.key) {
			return b.action
		}
	}
	return ActionNone
}

// Poll resolves the keys pressed this frame.
func (km *Keymap) Poll() Action {
	return km.Resolve(inpututil.IsKeyJustPressed)
}
