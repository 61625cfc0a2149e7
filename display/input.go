package display

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Key is a translated key press, Name is set for special keys and Rune for characters
type Key struct {
	Rune rune
	Name string
}

// Binding returns the name used in key binding tables
func (k Key) Binding() string {
	if k.Name != "" {
		return k.Name
	}
	if k.Rune == ' ' {
		return "space"
	}
	return string(k.Rune)
}

// TranslateKey converts a tcell key event
func TranslateKey(ev *tcell.EventKey) Key {
	if isCtrlC(ev) {
		return Key{Name: "ctrl-c"}
	}
	if ev.Key() == tcell.KeyRune {
		return Key{Rune: ev.Rune()}
	}
	name, ok := tcell.KeyNames[ev.Key()]
	if !ok {
		return Key{Name: "unknown"}
	}
	return Key{Name: strings.ToLower(name)}
}

// isCtrlC matches both the control code and a ctrl-modified rune
func isCtrlC(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return true
	}
	return ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0 &&
		(ev.Rune() == 'c' || ev.Rune() == 'C')
}

// Poll reads input until the screen is finalized
// Keys go to handler, resizes update the cached size
func (d *Display) Poll(handler func(Key)) {
	for {
		ev := d.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			handler(TranslateKey(ev))
		case *tcell.EventResize:
			d.resize()
		}
	}
}
