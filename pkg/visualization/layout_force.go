package visualization

import (
	"math"
	"math/rand/v2"

	"github.com/dd0wney/mazewalk/pkg/maze"
)

// ForceDirectedLayout implements force-directed graph layout
type ForceDirectedLayout struct {
	config *LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config *LayoutConfig) *ForceDirectedLayout {
	if config.Iterations == 0 {
		config.Iterations = 50
	}
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &ForceDirectedLayout{config: config}
}

// ComputeLayout computes positions using force-directed algorithm. The same
// seed always yields the same picture.
func (fdl *ForceDirectedLayout) ComputeLayout(g *maze.KnownGraph, ids []maze.VertexID) (map[maze.VertexID]Position, error) {
	if len(ids) == 0 {
		return make(map[maze.VertexID]Position), nil
	}

	// Single node - center it
	if len(ids) == 1 {
		return map[maze.VertexID]Position{
			ids[0]: {
				X: fdl.config.Width / 2,
				Y: fdl.config.Height / 2,
			},
		}, nil
	}

	rng := rand.New(rand.NewPCG(fdl.config.Seed, uint64(len(ids))))

	// Initialize random positions
	positions := make(map[maze.VertexID]Position, len(ids))
	for _, id := range ids {
		positions[id] = Position{
			X: rng.Float64()*(fdl.config.Width-2*fdl.config.Padding) + fdl.config.Padding,
			Y: rng.Float64()*(fdl.config.Height-2*fdl.config.Padding) + fdl.config.Padding,
		}
	}

	// Corridors attract in both directions
	neighbors := make(map[maze.VertexID]map[maze.VertexID]bool, len(ids))
	for _, id := range ids {
		neighbors[id] = make(map[maze.VertexID]bool)
	}
	for _, id := range ids {
		adjacency, err := g.Adjacency(id)
		if err != nil {
			continue
		}
		for _, n := range adjacency {
			if _, ok := neighbors[n.ID]; !ok {
				continue
			}
			neighbors[id][n.ID] = true
			neighbors[n.ID][id] = true
		}
	}

	// Force-directed iterations
	k := math.Sqrt((fdl.config.Width * fdl.config.Height) / float64(len(ids))) // Optimal distance
	temperature := fdl.config.Width / 10.0

	for iter := 0; iter < fdl.config.Iterations; iter++ {
		forces := make(map[maze.VertexID]Position, len(ids))

		// Repulsion between all nodes
		for i, a := range ids {
			for _, b := range ids[i+1:] {
				dx := positions[a].X - positions[b].X
				dy := positions[a].Y - positions[b].Y
				dist := math.Max(math.Sqrt(dx*dx+dy*dy), 0.01)

				force := (k * k) / dist
				fx := (dx / dist) * force
				fy := (dy / dist) * force

				forces[a] = Position{X: forces[a].X + fx, Y: forces[a].Y + fy}
				forces[b] = Position{X: forces[b].X - fx, Y: forces[b].Y - fy}
			}
		}

		// Attraction between connected nodes
		for _, a := range ids {
			for b := range neighbors[a] {
				dx := positions[a].X - positions[b].X
				dy := positions[a].Y - positions[b].Y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist < 0.01 {
					continue
				}

				force := (dist * dist) / k
				forces[a] = Position{
					X: forces[a].X - (dx/dist)*force,
					Y: forces[a].Y - (dy/dist)*force,
				}
			}
		}

		// Apply forces with cooling
		cool := 1.0 - float64(iter)/float64(fdl.config.Iterations)
		for _, id := range ids {
			fx, fy := forces[id].X, forces[id].Y
			force := math.Sqrt(fx*fx + fy*fy)
			if force > 0 {
				step := math.Min(force, temperature) * cool
				positions[id] = Position{
					X: positions[id].X + (fx/force)*step,
					Y: positions[id].Y + (fy/force)*step,
				}
			}
		}

		temperature *= 0.95
	}

	return fitToCanvas(positions, fdl.config.Width, fdl.config.Height, fdl.config.Padding), nil
}
