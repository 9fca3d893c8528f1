package visualization

import (
	"github.com/dd0wney/mazewalk/pkg/maze"
)

// HierarchicalLayout arranges nodes in rows by hop distance from the root
type HierarchicalLayout struct {
	config *LayoutConfig
}

// NewHierarchicalLayout creates a new hierarchical layout
func NewHierarchicalLayout(config *LayoutConfig) *HierarchicalLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &HierarchicalLayout{config: config}
}

// ComputeLayout arranges nodes hierarchically, the root on the first row
func (hl *HierarchicalLayout) ComputeLayout(g *maze.KnownGraph, ids []maze.VertexID) (map[maze.VertexID]Position, error) {
	positions := make(map[maze.VertexID]Position)

	if len(ids) == 0 {
		return positions, nil
	}

	wanted := make(map[maze.VertexID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	root := hl.config.Root
	if !wanted[root] {
		root = ids[0]
	}

	// Build levels using BFS
	levels := make([][]maze.VertexID, 0)
	visited := map[maze.VertexID]bool{root: true}
	currentLevel := []maze.VertexID{root}

	for len(currentLevel) > 0 {
		levels = append(levels, currentLevel)
		nextLevel := make([]maze.VertexID, 0)

		for _, id := range currentLevel {
			adjacency, err := g.Adjacency(id)
			if err != nil {
				continue
			}
			for _, n := range adjacency {
				if wanted[n.ID] && !visited[n.ID] {
					nextLevel = append(nextLevel, n.ID)
					visited[n.ID] = true
				}
			}
		}

		currentLevel = nextLevel
	}

	// Add unreached nodes to last level
	for _, id := range ids {
		if !visited[id] {
			levels[len(levels)-1] = append(levels[len(levels)-1], id)
		}
	}

	// Position nodes
	levelHeight := (hl.config.Height - 2*hl.config.Padding) / float64(len(levels))

	for levelIdx, level := range levels {
		y := hl.config.Padding + float64(levelIdx)*levelHeight + levelHeight/2
		levelWidth := hl.config.Width - 2*hl.config.Padding
		spacing := levelWidth / float64(len(level)+1)

		for idx, id := range level {
			x := hl.config.Padding + spacing*float64(idx+1)
			positions[id] = Position{X: x, Y: y}
		}
	}

	return positions, nil
}
