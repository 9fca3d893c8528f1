package visualization

import (
	"errors"
	"fmt"

	"github.com/dd0wney/mazewalk/pkg/maze"
)

// Layout names accepted by NewLayout.
const (
	LayoutHierarchical = "hierarchical"
	LayoutCircular     = "circular"
	LayoutForce        = "force"
)

// ErrUnknownLayout is returned by NewLayout for names it does not know.
var ErrUnknownLayout = errors.New("unknown layout")

// NewLayout returns the layout called name. An empty name selects the
// hierarchical layout.
func NewLayout(name string, config *LayoutConfig) (Layout, error) {
	switch name {
	case "", LayoutHierarchical:
		return NewHierarchicalLayout(config), nil
	case LayoutCircular:
		return NewCircularLayout(config), nil
	case LayoutForce:
		return NewForceDirectedLayout(config), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}
}

// Build lays out every vertex the known graph mentions, visited or not, and
// marks the corridors of path.
func Build(g *maze.KnownGraph, path []maze.VertexID, layout Layout) (*Visualization, error) {
	ids := g.Vertices()
	known := make(map[maze.VertexID]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}

	// Neighbors that were never visited still get drawn.
	for _, id := range g.Vertices() {
		adjacency, err := g.Adjacency(id)
		if err != nil {
			return nil, err
		}
		for _, n := range adjacency {
			if _, seen := known[n.ID]; !seen {
				known[n.ID] = false
				ids = append(ids, n.ID)
			}
		}
	}

	positions, err := layout.ComputeLayout(g, ids)
	if err != nil {
		return nil, fmt.Errorf("computing layout: %w", err)
	}

	onPath := make(map[[2]maze.VertexID]bool, len(path))
	for i := 1; i < len(path); i++ {
		onPath[[2]maze.VertexID{path[i-1], path[i]}] = true
	}

	v := &Visualization{Positions: positions}
	for _, id := range ids {
		role, _ := g.Role(id)
		pos := positions[id]
		v.Nodes = append(v.Nodes, Node{
			ID:    id,
			Label: fmt.Sprint(id),
			Role:  role,
			Known: known[id],
			X:     pos.X,
			Y:     pos.Y,
		})
		if !known[id] {
			continue
		}
		adjacency, _ := g.Adjacency(id)
		for _, n := range adjacency {
			v.Edges = append(v.Edges, Edge{
				From:   id,
				To:     n.ID,
				Weight: n.Weight,
				OnPath: onPath[[2]maze.VertexID{id, n.ID}],
			})
		}
	}
	return v, nil
}
