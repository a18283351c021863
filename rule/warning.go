package rule

import "github.com/DaxxTrias/ProximityAlert/core"

// Distance trigger sentinels
const (
	DistanceAlways     = -1 // Match regardless of measured distance
	DistanceWhileValid = -2 // Match only while the entity handle is valid
)

// Warning is the immutable payload of a matched rule
// Shared by pointer between every entity that matches the same rule
type Warning struct {
	Text            string
	Color           core.RGBA
	TriggerDistance int
	SoundRef        string
}

// Triggered applies the distance-trigger semantics to a measurement
func (w *Warning) Triggered(distance float64, valid bool) bool {
	switch {
	case w.TriggerDistance == DistanceAlways:
		return true
	case w.TriggerDistance == DistanceWhileValid:
		return valid
	default:
		return distance < float64(w.TriggerDistance)
	}
}
