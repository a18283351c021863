package render

import (
	"go.uber.org/multierr"

	"github.com/DaxxTrias/ProximityAlert/core"
	"github.com/DaxxTrias/ProximityAlert/world"
)

// Frame collects one render pass worth of directives, bucketed by layer
// Reset and refill across frames to keep storage
type Frame struct {
	layers [layerCount][]Directive
}

// NewFrame creates a frame with capacity reserved per layer
func NewFrame(capacity int) *Frame {
	f := &Frame{}
	for i := range f.layers {
		f.layers[i] = make([]Directive, 0, capacity)
	}
	return f
}

// Reset empties all layers
func (f *Frame) Reset() {
	for i := range f.layers {
		clear(f.layers[i])
		f.layers[i] = f.layers[i][:0]
	}
}

// Len returns total directive count
func (f *Frame) Len() int {
	n := 0
	for i := range f.layers {
		n += len(f.layers[i])
	}
	return n
}

// LayerLen returns the directive count of one layer
func (f *Frame) LayerLen(l Layer) int {
	return len(f.layers[l])
}

func (f *Frame) add(d Directive) {
	f.layers[d.Layer] = append(f.layers[d.Layer], d)
}

// Line queues a border-layer line
func (f *Frame) Line(a, b world.Vec2, thickness float64, color core.RGBA) {
	f.add(Directive{Kind: KindLine, Layer: LayerBorder, Pos: a, End: b, Thickness: thickness, Color: color})
}

// Image queues an indicator-layer image
func (f *Frame) Image(name string, rect world.Rect, uv UV, color core.RGBA) {
	f.add(Directive{Kind: KindImage, Layer: LayerIndicator, Image: name, Rect: rect, UV: uv, Color: color})
}

// Box queues a text-layer background; pair with a following Text call
func (f *Frame) Box(min, max world.Vec2, color core.RGBA) {
	f.add(Directive{Kind: KindBox, Layer: LayerText, Pos: min, End: max, Color: color})
}

// Text queues a text-layer string
func (f *Frame) Text(text string, pos world.Vec2, color core.RGBA, align Align) {
	f.add(Directive{Kind: KindText, Layer: LayerText, Text: text, Pos: pos, Color: color, Align: align})
}

// Directives appends all directives to dst in flush order
func (f *Frame) Directives(dst []Directive) []Directive {
	for i := range f.layers {
		dst = append(dst, f.layers[i]...)
	}
	return dst
}

// Flush draws borders, then indicators, then text with backgrounds
// Image failures are collected; drawing continues
func (f *Frame) Flush(s Surface) error {
	var errs error
	for i := range f.layers {
		for j := range f.layers[i] {
			d := &f.layers[i][j]
			switch d.Kind {
			case KindLine:
				s.DrawLine(d.Pos, d.End, d.Thickness, d.Color)
			case KindBox:
				s.DrawBox(d.Pos, d.End, d.Color)
			case KindText:
				s.DrawText(d.Text, d.Pos, d.Color, d.Align)
			case KindImage:
				errs = multierr.Append(errs, s.DrawImage(d.Image, d.Rect, d.UV, d.Color))
			}
		}
	}
	return errs
}
