package render

// Layer determines flush order. Lower values draw first
// The order is a contract: nothing drawn later may be hidden by an earlier layer
type Layer int

const (
	LayerBorder    Layer = iota // Panel borders and tether lines
	LayerIndicator              // Direction arrows
	LayerText                   // Text backgrounds immediately followed by their text
	layerCount
)

// String returns the layer name for logs
func (l Layer) String() string {
	switch l {
	case LayerBorder:
		return "border"
	case LayerIndicator:
		return "indicator"
	case LayerText:
		return "text"
	default:
		return "unknown"
	}
}
