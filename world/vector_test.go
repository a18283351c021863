package world

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestVec2Polar verifies distance and bearing of axis-aligned offsets
func TestVec2Polar(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec2
		distance float64
		angle    float64
	}{
		{"east", Vec2{10, 0}, 10, 0},
		{"north", Vec2{0, 5}, 5, math.Pi / 2},
		{"west", Vec2{-3, 0}, 3, math.Pi},
		{"diagonal", Vec2{3, 4}, 5, math.Atan2(4, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, a := tt.v.Polar()
			assert.InDelta(t, tt.distance, d, 1e-9)
			assert.InDelta(t, tt.angle, a, 1e-9)
		})
	}
}

// TestRectCenter verifies window center calculation
func TestRectCenter(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}
	assert.Equal(t, Vec2{60, 45}, r.Center())
}

// TestEntityCountable verifies the live monster predicate
func TestEntityCountable(t *testing.T) {
	e := Entity{Type: TypeMonster, Valid: true, Alive: true}
	assert.True(t, e.Countable())

	e.Alive = false
	assert.False(t, e.Countable())

	e = Entity{Type: TypeChest, Valid: true, Alive: true}
	assert.False(t, e.Countable())
}
