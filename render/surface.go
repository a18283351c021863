package render

import (
	"errors"

	"github.com/DaxxTrias/ProximityAlert/core"
	"github.com/DaxxTrias/ProximityAlert/world"
)

// ErrImageMissing is returned when a surface cannot draw a named image
var ErrImageMissing = errors.New("render: image missing")

// Measurer reports the drawn size of text at a nominal font size
type Measurer interface {
	MeasureText(text string, size int) world.Vec2
}

// Surface is the external drawing collaborator
type Surface interface {
	Measurer
	DrawLine(a, b world.Vec2, thickness float64, color core.RGBA)
	DrawBox(min, max world.Vec2, color core.RGBA)
	DrawText(text string, pos world.Vec2, color core.RGBA, align Align)
	DrawImage(name string, rect world.Rect, uv UV, color core.RGBA) error
	HasImage(name string) bool
}
