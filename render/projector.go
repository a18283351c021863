package render

import "math"

const (
	// DirectionColumns is the sprite sheet column count, one per angular slice
	DirectionColumns = 64
	// DistanceRows is the sprite sheet row count, one per distance band
	DistanceRows = 3

	nearBand = 60
	farBand  = 120

	// isoCorrection rotates grid bearings into the isometric camera frame
	isoCorrection = math.Pi / 4

	sliceGrid = 1e9
)

// UV is a normalized sprite sheet sub-rectangle and the cell it covers
type UV struct {
	X, Y, W, H float64
	Col, Row   int
}

// Project maps a bearing (radians) and distance to the arrow sprite cell
// Total over all inputs: non-finite angles map to column 0, non-positive or NaN distances to row 0
func Project(angle, distance float64) UV {
	phi := math.Mod(angle+isoCorrection, 2*math.Pi)
	if math.IsNaN(phi) {
		phi = 0
	}
	if phi < 0 {
		phi += 2 * math.Pi
	}

	// Snap to a fixed grid first so bearings a full turn apart land on the same column
	slice := math.Round(phi/math.Pi*(DirectionColumns/2)*sliceGrid) / sliceGrid
	col := int(math.Round(slice)) % DirectionColumns
	row := distanceBand(distance)

	return UV{
		X:   float64(col) / DirectionColumns,
		Y:   float64(row) / DistanceRows,
		W:   1.0 / DirectionColumns,
		H:   1.0 / DistanceRows,
		Col: col,
		Row: row,
	}
}

func distanceBand(distance float64) int {
	switch {
	case distance > farBand:
		return 2
	case distance > nearBand:
		return 1
	default:
		return 0
	}
}
