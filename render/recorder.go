package render

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/DaxxTrias/ProximityAlert/core"
	"github.com/DaxxTrias/ProximityAlert/world"
)

// Recorder is a headless Surface that keeps every draw call in order
// Text measures a fixed advance per rune scaled by font size
type Recorder struct {
	Calls   []Directive
	Advance float64
	images  map[string]struct{}
}

// NewRecorder creates a recorder that accepts the named images
func NewRecorder(images ...string) *Recorder {
	r := &Recorder{Advance: 0.5, images: make(map[string]struct{}, len(images))}
	for _, name := range images {
		r.images[name] = struct{}{}
	}
	return r
}

func (r *Recorder) MeasureText(text string, size int) world.Vec2 {
	return world.Vec2{X: float64(utf8.RuneCountInString(text)) * float64(size) * r.Advance, Y: float64(size)}
}

func (r *Recorder) HasImage(name string) bool {
	_, ok := r.images[name]
	return ok
}

func (r *Recorder) DrawLine(a, b world.Vec2, thickness float64, color core.RGBA) {
	r.Calls = append(r.Calls, Directive{Kind: KindLine, Layer: LayerBorder, Pos: a, End: b, Thickness: thickness, Color: color})
}

func (r *Recorder) DrawBox(min, max world.Vec2, color core.RGBA) {
	r.Calls = append(r.Calls, Directive{Kind: KindBox, Layer: LayerText, Pos: min, End: max, Color: color})
}

func (r *Recorder) DrawText(text string, pos world.Vec2, color core.RGBA, align Align) {
	r.Calls = append(r.Calls, Directive{Kind: KindText, Layer: LayerText, Text: text, Pos: pos, Color: color, Align: align})
}

func (r *Recorder) DrawImage(name string, rect world.Rect, uv UV, color core.RGBA) error {
	if !r.HasImage(name) {
		return fmt.Errorf("%w: %s", ErrImageMissing, name)
	}
	r.Calls = append(r.Calls, Directive{Kind: KindImage, Layer: LayerIndicator, Image: name, Rect: rect, UV: uv, Color: color})
	return nil
}

// Reset drops recorded calls
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
}

// Dump writes one line per recorded call
func (r *Recorder) Dump(w io.Writer) error {
	for i := range r.Calls {
		if _, err := fmt.Fprintln(w, FormatDirective(&r.Calls[i])); err != nil {
			return err
		}
	}
	return nil
}

// FormatDirective renders a directive as a single diagnostic line
func FormatDirective(d *Directive) string {
	c := d.Color
	switch d.Kind {
	case KindLine:
		return fmt.Sprintf("line (%.1f,%.1f)-(%.1f,%.1f) w=%.0f argb=%02x%02x%02x%02x", d.Pos.X, d.Pos.Y, d.End.X, d.End.Y, d.Thickness, c.A, c.R, c.G, c.B)
	case KindBox:
		return fmt.Sprintf("box (%.1f,%.1f)-(%.1f,%.1f) argb=%02x%02x%02x%02x", d.Pos.X, d.Pos.Y, d.End.X, d.End.Y, c.A, c.R, c.G, c.B)
	case KindText:
		return fmt.Sprintf("text %q at (%.1f,%.1f) argb=%02x%02x%02x%02x", d.Text, d.Pos.X, d.Pos.Y, c.A, c.R, c.G, c.B)
	case KindImage:
		return fmt.Sprintf("image %s col=%d row=%d at (%.1f,%.1f)", d.Image, d.UV.Col, d.UV.Row, d.Rect.X, d.Rect.Y)
	default:
		return "unknown"
	}
}
