package render

import (
	"github.com/DaxxTrias/ProximityAlert/core"
	"github.com/DaxxTrias/ProximityAlert/world"
)

// Kind of draw directive
type Kind uint8

const (
	KindLine Kind = iota
	KindBox
	KindText
	KindImage
)

// String returns the kind name for logs and dumps
func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindBox:
		return "box"
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Align of text relative to its anchor
type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
)

// Directive is one drawing instruction for the external surface
// Field use by kind:
//   - Line: Pos to End, Thickness
//   - Box: Pos (min) to End (max)
//   - Text: Text at Pos with Align
//   - Image: Image drawn into Rect sampling UV
type Directive struct {
	Kind      Kind
	Layer     Layer
	Pos       world.Vec2
	End       world.Vec2
	Rect      world.Rect
	Color     core.RGBA
	Thickness float64
	Text      string
	Align     Align
	Image     string
	UV        UV
}
