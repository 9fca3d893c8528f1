package visualization

import (
	"math"

	"github.com/dd0wney/mazewalk/pkg/maze"
)

// innerRing is the radius of the unvisited ring relative to the visited one.
const innerRing = 0.55

// CircularLayout puts visited vertices on an outer ring, starting with the
// root at twelve o'clock and continuing clockwise in ID order. Vertices that
// were only seen as neighbors sit on an inner ring.
type CircularLayout struct {
	config *LayoutConfig
}

// NewCircularLayout creates a circular layout.
func NewCircularLayout(config *LayoutConfig) *CircularLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &CircularLayout{config: config}
}

// ComputeLayout places ids on the two rings.
func (cl *CircularLayout) ComputeLayout(g *maze.KnownGraph, ids []maze.VertexID) (map[maze.VertexID]Position, error) {
	positions := make(map[maze.VertexID]Position, len(ids))
	if len(ids) == 0 {
		return positions, nil
	}

	var outer, inner []maze.VertexID
	for _, id := range sortedIDs(ids) {
		if g.IsVisited(id) {
			outer = append(outer, id)
		} else {
			inner = append(inner, id)
		}
	}
	outer = rotateTo(outer, cl.config.Root)

	cx, cy := cl.config.Width/2, cl.config.Height/2
	radius := math.Max(math.Min(cx, cy)-cl.config.Padding, 0)
	placeRing(positions, outer, cx, cy, radius)
	placeRing(positions, inner, cx, cy, radius*innerRing)
	return positions, nil
}

func placeRing(positions map[maze.VertexID]Position, ring []maze.VertexID, cx, cy, radius float64) {
	step := 2 * math.Pi / float64(len(ring))
	for i, id := range ring {
		angle := float64(i)*step - math.Pi/2
		positions[id] = Position{X: cx + radius*math.Cos(angle), Y: cy + radius*math.Sin(angle)}
	}
}

// rotateTo moves root, if present, to the front while keeping cyclic order.
func rotateTo(ring []maze.VertexID, root maze.VertexID) []maze.VertexID {
	for i, id := range ring {
		if id == root {
			return append(append([]maze.VertexID{}, ring[i:]...), ring[:i]...)
		}
	}
	return ring
}
