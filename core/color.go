package core

import (
	"strconv"
	"strings"
)

// RGBA stores explicit 8-bit color channels, decoupled from any drawing backend
type RGBA struct {
	R, G, B, A uint8
}

// Predefined colors
var (
	RGBAWhite      = RGBA{255, 255, 255, 255}
	RGBABackground = RGBA{0, 0, 0, 200}
	RGBAMagenta    = RGBA{255, 0, 255, 255}
	RGBAFlare      = RGBA{0, 200, 255, 255}
	RGBAExplosive  = RGBA{255, 50, 50, 255}
	RGBATether     = RGBA{255, 0, 255, 140}
)

// ARGB builds a color from alpha-first channel order as used by rule files
func ARGB(a, r, g, b uint8) RGBA {
	return RGBA{R: r, G: g, B: b, A: a}
}

// ParseHex parses AARRGGBB or RRGGBB, optionally '#'-prefixed
// Six-digit values are fully opaque. Anything else yields opaque white
func ParseHex(s string) RGBA {
	c, ok := parseHex(s)
	if !ok {
		return RGBAWhite
	}
	return c
}

func parseHex(s string) (RGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 6:
		s = "ff" + s
	case 8:
	default:
		return RGBA{}, false
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGBA{}, false
	}
	return ARGB(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), true
}

// Blend performs alpha blending of src over c using src alpha
func (c RGBA) Blend(src RGBA) RGBA {
	if src.A == 255 {
		return src
	}
	if src.A == 0 {
		return c
	}
	alpha := float64(src.A) / 255
	inv := 1.0 - alpha
	return RGBA{
		R: uint8(float64(src.R)*alpha + float64(c.R)*inv),
		G: uint8(float64(src.G)*alpha + float64(c.G)*inv),
		B: uint8(float64(src.B)*alpha + float64(c.B)*inv),
		A: 255,
	}
}
