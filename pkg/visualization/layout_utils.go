package visualization

import (
	"math"
	"sort"

	"github.com/dd0wney/mazewalk/pkg/maze"
)

func sortedIDs(ids []maze.VertexID) []maze.VertexID {
	out := append([]maze.VertexID(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// fitToCanvas scales positions uniformly into the padded canvas and centres
// them, so corridor lengths keep their proportions.
func fitToCanvas(positions map[maze.VertexID]Position, width, height, padding float64) map[maze.VertexID]Position {
	if len(positions) == 0 {
		return positions
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range positions {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	availW, availH := width-2*padding, height-2*padding
	spanX, spanY := maxX-minX, maxY-minY
	scale := math.Inf(1)
	if spanX > 1e-9 {
		scale = availW / spanX
	}
	if spanY > 1e-9 {
		scale = math.Min(scale, availH/spanY)
	}
	if math.IsInf(scale, 1) {
		scale = 0
	}

	offX := padding + (availW-spanX*scale)/2
	offY := padding + (availH-spanY*scale)/2
	fitted := make(map[maze.VertexID]Position, len(positions))
	for id, p := range positions {
		fitted[id] = Position{X: offX + (p.X-minX)*scale, Y: offY + (p.Y-minY)*scale}
	}
	return fitted
}
