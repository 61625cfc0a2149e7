package vmath

import "math"

// Rect is an axis aligned box, X/Y is the top-left corner
type Rect struct {
	X, Y, W, H float64
}

// RectAround builds a w×h rect centered on c
func RectAround(c Vec2, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.W/2, r.Y + r.H/2}
}

func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersects reports overlap with positive area, touching edges do not count
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Contains checks if point is within the rect, right and bottom edges excluded
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Wrap folds p into the rect as a torus
func (r Rect) Wrap(p Vec2) Vec2 {
	if r.Empty() {
		return p
	}
	return Vec2{
		X: r.X + wrap1(p.X-r.X, r.W),
		Y: r.Y + wrap1(p.Y-r.Y, r.H),
	}
}

// RandomPoint returns a uniformly distributed point inside the rect
func (r Rect) RandomPoint(rng *FastRand) Vec2 {
	return Vec2{r.X + rng.Float64()*r.W, r.Y + rng.Float64()*r.H}
}

// Corners returns the four corners clockwise from top-left, inset by margin
func (r Rect) Corners(margin float64) [4]Vec2 {
	return [4]Vec2{
		{r.X + margin, r.Y + margin},
		{r.Right() - margin, r.Y + margin},
		{r.Right() - margin, r.Bottom() - margin},
		{r.X + margin, r.Bottom() - margin},
	}
}

func wrap1(v, size float64) float64 {
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	return v
}
