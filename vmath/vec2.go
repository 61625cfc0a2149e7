package vmath

import "math"

// Vec2 is a float64 2D vector in cell units, Y grows downward
type Vec2 struct {
	X, Y float64
}

func V2Add(a, b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

func V2Sub(a, b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

func V2Scale(v Vec2, s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

func V2MagSq(v Vec2) float64 {
	return v.X*v.X + v.Y*v.Y
}

func V2Mag(v Vec2) float64 {
	return math.Sqrt(V2MagSq(v))
}

func V2Normalize(v Vec2) Vec2 {
	mag := V2Mag(v)
	if mag == 0 {
		return Vec2{}
	}
	inv := 1.0 / mag
	return Vec2{v.X * inv, v.Y * inv}
}

// V2FromAngle returns the unit vector for angle radians, 0 points up
func V2FromAngle(angle float64) Vec2 {
	return Vec2{math.Sin(angle), -math.Cos(angle)}
}

// NormalizeAngle maps an angle into [0, 2π)
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// Heading8 quantizes an angle into one of eight compass sectors, 0 is up, clockwise
func Heading8(angle float64) int {
	a := NormalizeAngle(angle + math.Pi/8)
	return int(a/(math.Pi/4)) % 8
}
