package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/DaxxTrias/ProximityAlert/core"
	"github.com/DaxxTrias/ProximityAlert/world"
)

// Default pixel size of one terminal cell
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// arrowGlyphs covers the 64 sprite columns in eight 45 degree sectors, counter-clockwise from east
var arrowGlyphs = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

// TerminalSurface draws directives onto a tcell screen
// Pixel coordinates are divided down to cells; font size is ignored since terminal glyphs are fixed
type TerminalSurface struct {
	screen     tcell.Screen
	cellWidth  float64
	cellHeight float64
	background core.RGBA
	images     map[string]struct{}
}

// NewTerminalSurface creates a surface over screen with the given cell pixel size
// Images named here are drawn as arrow glyphs; any other name is missing
func NewTerminalSurface(screen tcell.Screen, cellWidth, cellHeight int, images ...string) *TerminalSurface {
	if cellWidth <= 0 {
		cellWidth = DefaultCellWidth
	}
	if cellHeight <= 0 {
		cellHeight = DefaultCellHeight
	}
	s := &TerminalSurface{
		screen:     screen,
		cellWidth:  float64(cellWidth),
		cellHeight: float64(cellHeight),
		background: core.RGBA{A: 255},
		images:     make(map[string]struct{}, len(images)),
	}
	for _, name := range images {
		s.images[name] = struct{}{}
	}
	return s
}

// Window returns the screen size in pixels
func (s *TerminalSurface) Window() world.Rect {
	w, h := s.screen.Size()
	return world.Rect{Width: float64(w) * s.cellWidth, Height: float64(h) * s.cellHeight}
}

// ToCell converts a pixel position to a cell position
func (s *TerminalSurface) ToCell(p world.Vec2) (int, int) {
	return int(math.Floor(p.X / s.cellWidth)), int(math.Floor(p.Y / s.cellHeight))
}

// MeasureText reports pixel width from display cell width and one cell of height
func (s *TerminalSurface) MeasureText(text string, size int) world.Vec2 {
	return world.Vec2{
		X: float64(runewidth.StringWidth(text)) * s.cellWidth,
		Y: s.cellHeight,
	}
}

func (s *TerminalSurface) HasImage(name string) bool {
	_, ok := s.images[name]
	return ok
}

// DrawLine draws the part of the segment that falls on screen
func (s *TerminalSurface) DrawLine(a, b world.Vec2, thickness float64, color core.RGBA) {
	cx0, cy0 := s.ToCell(a)
	cx1, cy1 := s.ToCell(b)
	glyph := '·'
	switch {
	case cy0 == cy1:
		glyph = '─'
	case cx0 == cx1:
		glyph = '│'
	}

	w, h := s.screen.Size()
	fx0, fy0, fx1, fy1, ok := clipSegment(
		a.X/s.cellWidth, a.Y/s.cellHeight, b.X/s.cellWidth, b.Y/s.cellHeight,
		float64(w), float64(h),
	)
	if !ok {
		return
	}
	x0, y0 := clampCell(fx0, w), clampCell(fy0, h)
	x1, y1 := clampCell(fx1, w), clampCell(fy1, h)

	// Bresenham across cells
	dx := max(x1-x0, x0-x1)
	dy := -max(y1-y0, y0-y1)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		s.setFg(x0, y0, glyph, color)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (s *TerminalSurface) DrawBox(lo, hi world.Vec2, color core.RGBA) {
	x0, y0 := s.ToCell(lo)
	x1, y1 := s.ToCell(world.Vec2{X: hi.X - 1, Y: hi.Y - 1})
	bg := toColor(s.background.Blend(color))
	style := tcell.StyleDefault.Background(bg)
	w, h := s.screen.Size()
	for y := max(y0, 0); y <= y1 && y < h; y++ {
		for x := max(x0, 0); x <= x1 && x < w; x++ {
			s.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

func (s *TerminalSurface) DrawText(text string, pos world.Vec2, color core.RGBA, align Align) {
	x, y := s.ToCell(pos)
	if align == AlignCenter {
		x -= runewidth.StringWidth(text) / 2
	}
	for _, r := range text {
		s.setFg(x, y, r, color)
		x += runewidth.RuneWidth(r)
	}
}

// DrawImage renders a sprite cell as the arrow glyph of its direction sector
func (s *TerminalSurface) DrawImage(name string, rect world.Rect, uv UV, color core.RGBA) error {
	if !s.HasImage(name) {
		return ErrImageMissing
	}
	x, y := s.ToCell(rect.Center())
	s.setFg(x, y, ArrowGlyph(uv), color)
	return nil
}

// ArrowGlyph picks the eight-way arrow nearest the sprite column's bearing
func ArrowGlyph(uv UV) rune {
	sector := ((uv.Col + DirectionColumns/16) / (DirectionColumns / 8)) % 8
	return arrowGlyphs[sector]
}

// setFg writes a rune keeping the cell's existing background
func (s *TerminalSurface) setFg(x, y int, r rune, color core.RGBA) {
	w, h := s.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	_, _, style, _ := s.screen.GetContent(x, y)
	s.screen.SetContent(x, y, r, nil, style.Foreground(toColor(s.background.Blend(color))))
}

func toColor(c core.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// clipSegment clips a segment to [0,w]x[0,h] (Liang-Barsky); ok is false when nothing remains
func clipSegment(x0, y0, x1, y1, w, h float64) (cx0, cy0, cx1, cy1 float64, ok bool) {
	for _, v := range [4]float64{x0, y0, x1, y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, 0, 0, false
		}
	}

	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{{-dx, x0}, {dx, w - x0}, {-dy, y0}, {dy, h - y0}}
	for _, edge := range edges {
		p, q := edge[0], edge[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, r)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

// clampCell floors a clipped cell coordinate into [0, n)
func clampCell(v float64, n int) int {
	return min(max(int(math.Floor(v)), 0), n-1)
}
