package scene

import (
	"fmt"
	"strconv"
)

// DetectedObject is one aggregated detection class within an observation window.
type DetectedObject struct {
	Label      string     `json:"label"`
	Count      int        `json:"count"`
	Confidence float64    `json:"confidence"`
	Positions  []Position `json:"positions"`
}

// Position is an (x, y) coordinate pair. Values may be whole or fractional.
type Position [2]float64

func (p Position) X() float64 { return p[0] }
func (p Position) Y() float64 { return p[1] }

func (p Position) String() string {
	return "(" + formatCoordinate(p[0]) + ", " + formatCoordinate(p[1]) + ")"
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatPercent(confidence float64) string {
	return fmt.Sprintf("%.1f%%", confidence*100)
}
