package sprite

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/titan/audio"
	"github.com/lixenwraith/titan/display"
	"github.com/lixenwraith/titan/event"
	"github.com/lixenwraith/titan/vmath"
)

// Sprite is a game object living in the game's sprite list
// All methods are called with the game's sprite lock held
type Sprite interface {
	// CheckCollision reacts to overlap with other, changes to the list go through events
	CheckCollision(other Sprite)
	Draw(c display.Canvas)
	Bounds() vmath.Rect
	// Update advances one simulation step
	Update()
	HandleKey(k display.Key)
}

// Hostile marks sprites that must be cleared to finish a level
type Hostile interface {
	Sprite
	hostile()
}

// Env carries the collaborators shared by all sprites
type Env struct {
	Dispatcher *event.Dispatcher
	// Field returns the current playing field
	Field func() vmath.Rect
	Audio audio.Player
	// Rand is only used under the sprite lock
	Rand *vmath.FastRand
}

func (e *Env) emit(source any, kind event.Kind, attachment any) {
	e.Dispatcher.Emit(source, kind, attachment)
}

func (e *Env) play(s audio.SoundType) {
	if e.Audio != nil {
		e.Audio.Play(s)
	}
}

// Shared styles
var (
	stylePlayer    = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleMissile   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleExplosion = tcell.StyleDefault.Foreground(tcell.ColorOrangeRed)
	styleAsteroid  = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleEnemy     = tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true)
	styleHUD       = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleShield    = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleBanner    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
)

// drawBlock draws rows of text with the top-left corner at r, spaces are transparent
func drawBlock(c display.Canvas, r vmath.Rect, rows []string, style tcell.Style) {
	x0, y0 := int(r.X), int(r.Y)
	for dy, row := range rows {
		dx := 0
		for _, ch := range row {
			if ch != ' ' {
				c.SetCell(x0+dx, y0+dy, ch, style)
			}
			dx++
		}
	}
}

// gauge renders value/max as a fixed width bar
func gauge(value, max, width int) string {
	if max <= 0 {
		max = 1
	}
	if value < 0 {
		value = 0
	}
	filled := value * width / max
	if filled > width {
		filled = width
	}
	out := make([]rune, width)
	for i := range out {
		if i < filled {
			out[i] = '█'
		} else {
			out[i] = '░'
		}
	}
	return string(out)
}
