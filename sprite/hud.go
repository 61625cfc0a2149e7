package sprite

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/titan/display"
	"github.com/lixenwraith/titan/vmath"
)

// Score is the HUD score line, mutated only by the game's event handler
type Score struct {
	points int
	level  int
}

func NewScore() *Score { return &Score{} }

// Add adds n points and returns the new total
func (s *Score) Add(n int) int {
	s.points += n
	return s.points
}

func (s *Score) Points() int        { return s.points }
func (s *Score) SetLevel(l int)     { s.level = l }
func (s *Score) Level() int         { return s.level }
func (s *Score) Reset()             { s.points, s.level = 0, 0 }
func (s *Score) Bounds() vmath.Rect { return vmath.Rect{} }

func (s *Score) CheckCollision(Sprite) {}
func (s *Score) Update()               {}
func (s *Score) HandleKey(display.Key) {}

func (s *Score) Draw(c display.Canvas) {
	c.DrawText(1, 0, fmt.Sprintf("SCORE %06d  LEVEL %d", s.points, s.level+1), styleHUD)
}

// Banner is a centered text screen such as splash, help or game over
type Banner struct {
	lines []string
}

func NewBanner(lines ...string) *Banner {
	return &Banner{lines: lines}
}

// SetLines replaces the banner text
func (b *Banner) SetLines(lines ...string) { b.lines = lines }

func (b *Banner) Lines() []string { return b.lines }

// Banners are never collidable
func (b *Banner) Bounds() vmath.Rect { return vmath.Rect{} }

func (b *Banner) CheckCollision(Sprite) {}
func (b *Banner) Update()               {}
func (b *Banner) HandleKey(display.Key) {}

func (b *Banner) Draw(c display.Canvas) {
	f := c.Bounds()
	top := int(f.Y + (f.H-float64(len(b.lines)))/2)
	for i, line := range b.lines {
		x := int(f.X + (f.W-float64(len([]rune(line))))/2)
		c.DrawText(x, top+i, line, styleBanner)
	}
}

// Stock banner texts
func SplashLines(best string) []string {
	lines := []string{
		"M I S S I O N   T O   T I T A N",
		"",
		"S  start      H  help      ESC  quit",
	}
	if best != "" {
		lines = append(lines, "", "best: "+best)
	}
	return lines
}

func HelpLines() []string {
	return []string{
		"HOW TO FLY",
		"",
		"A / D    rotate",
		"W        thrust (uses fuel)",
		"SPACE    fire",
		"P        pause        F3  stats",
		"",
		"clear every asteroid and chaser to finish a level",
		"H  back",
	}
}

func GameOverLines(score int) []string {
	return []string{"G A M E   O V E R", "", fmt.Sprintf("score %d", score), "", "R  restart      ESC  quit"}
}

func LevelCompleteLines(level int) []string {
	return []string{fmt.Sprintf("LEVEL %d COMPLETE", level+1), "", "N  next level"}
}

func WinLines(score int) []string {
	return []string{"MISSION COMPLETE", "", "you reached Titan", fmt.Sprintf("score %d", score), "", "R  restart      ESC  quit"}
}

func PausedLines() []string {
	return []string{"PAUSED", "", "P  resume"}
}

// Overlay renders metric lines in the top-left corner of the field
type Overlay struct {
	Lines func() []string
}

func (o *Overlay) Draw(c display.Canvas) {
	f := c.Bounds()
	for i, line := range o.Lines() {
		c.DrawText(int(f.X)+1, int(f.Y)+i, strings.TrimSpace(line), styleShield)
	}
}
