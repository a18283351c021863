package world

import "math"

// Vec2 is a 2D float vector in grid or screen space
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3D float vector in world space
type Vec3 struct {
	X, Y, Z float64
}

// Rect is an axis-aligned rectangle
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

// Len returns the euclidean length
func (a Vec2) Len() float64 {
	return math.Hypot(a.X, a.Y)
}

// Polar returns distance and bearing (radians, atan2 convention) of the vector
func (a Vec2) Polar() (distance, angle float64) {
	return a.Len(), math.Atan2(a.Y, a.X)
}

// Center returns the rectangle's midpoint
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}
