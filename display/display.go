package display

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/titan/vmath"
)

// HUDRows is the number of rows reserved at the top for the score line
const HUDRows = 1

// Canvas is the drawing surface handed to sprites
type Canvas interface {
	SetCell(x, y int, r rune, style tcell.Style)
	DrawText(x, y int, text string, style tcell.Style)
	Bounds() vmath.Rect
}

// Display owns the terminal screen
// Draw calls come from the frame goroutine, resize from the input goroutine
type Display struct {
	mu            sync.RWMutex
	screen        tcell.Screen
	width, height int
	finiOnce      sync.Once
	log           zerolog.Logger
}

// New wraps an existing screen, tests pass a simulation screen
func New(screen tcell.Screen, log zerolog.Logger) *Display {
	return &Display{
		screen: screen,
		log:    log.With().Str("component", "display").Logger(),
	}
}

// NewTerminal creates a display on the controlling terminal
func NewTerminal(log zerolog.Logger) (*Display, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return New(screen, log), nil
}

// Init switches the terminal into full screen mode
func (d *Display) Init() error {
	if err := d.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	d.screen.HideCursor()
	d.screen.Clear()

	d.mu.Lock()
	d.width, d.height = d.screen.Size()
	d.mu.Unlock()

	d.log.Debug().Int("width", d.width).Int("height", d.height).Msg("screen initialized")
	return nil
}

// Fini restores the terminal, safe to call more than once
func (d *Display) Fini() {
	d.finiOnce.Do(d.screen.Fini)
}

func (d *Display) Size() (int, int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.width, d.height
}

// Bounds returns the playing field below the HUD
func (d *Display) Bounds() vmath.Rect {
	w, h := d.Size()
	fh := h - HUDRows
	if fh < 0 {
		fh = 0
	}
	return vmath.Rect{X: 0, Y: HUDRows, W: float64(w), H: float64(fh)}
}

func (d *Display) Clear() {
	d.screen.Clear()
}

// SetCell draws one rune, out of screen coordinates are ignored
func (d *Display) SetCell(x, y int, r rune, style tcell.Style) {
	w, h := d.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	d.screen.SetContent(x, y, r, nil, style)
}

// DrawText writes text left to right, clipped at the screen edge
func (d *Display) DrawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		d.SetCell(x, y, r, style)
		x++
	}
}

// DrawCentered writes text centered on row y
func (d *Display) DrawCentered(y int, text string, style tcell.Style) {
	w, _ := d.Size()
	d.DrawText((w-len([]rune(text)))/2, y, text, style)
}

// Show presents the back buffer
func (d *Display) Show() {
	d.screen.Show()
}

// resize picks up a new terminal size
func (d *Display) resize() {
	d.screen.Sync()
	w, h := d.screen.Size()
	d.mu.Lock()
	d.width, d.height = w, h
	d.mu.Unlock()
	d.log.Debug().Int("width", w).Int("height", h).Msg("screen resized")
}
