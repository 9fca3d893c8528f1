// Package visualization places known-graph vertices on a canvas and exports the
// result for rendering.
package visualization

import (
	"encoding/json"

	"github.com/dd0wney/mazewalk/pkg/maze"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Iterations int     // Number of iterations for iterative algorithms
	Padding    float64 // Padding from edges
	Seed       uint64  // Seed for layouts with random starting positions
	Root       maze.VertexID
}

// Layout interface for different layout algorithms
type Layout interface {
	ComputeLayout(g *maze.KnownGraph, ids []maze.VertexID) (map[maze.VertexID]Position, error)
}

// Node is a vertex as drawn.
type Node struct {
	ID    maze.VertexID `json:"id"`
	Label string        `json:"label"`
	Role  maze.Role     `json:"role"`
	// Known is false for vertices seen only as someone's neighbor.
	Known bool    `json:"known"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Edge is a known corridor as drawn.
type Edge struct {
	From   maze.VertexID `json:"from"`
	To     maze.VertexID `json:"to"`
	Weight float64       `json:"weight"`
	OnPath bool          `json:"onPath"`
}

// Visualization represents a graph visualization with layout
type Visualization struct {
	Nodes     []Node                     `json:"nodes"`
	Edges     []Edge                     `json:"edges"`
	Positions map[maze.VertexID]Position `json:"-"`
}

// ExportJSON exports visualization as JSON
func (v *Visualization) ExportJSON() ([]byte, error) {
	return json.Marshal(v)
}
