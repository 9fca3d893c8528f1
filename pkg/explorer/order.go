package explorer

import (
	"fmt"
	"sort"

	"github.com/dd0wney/mazewalk/pkg/maze"
)

// NeighborOrder decides in which order the neighbors of the current vertex are
// tried. It receives a copy and may reorder it in place.
type NeighborOrder func([]maze.Neighbor) []maze.Neighbor

// Order names accepted by ParseOrder.
const (
	OrderAsReported = "as-reported"
	OrderLowestID   = "lowest-id"
	OrderLightest   = "lightest"
)

// AsReported keeps the authority's order.
func AsReported(n []maze.Neighbor) []maze.Neighbor { return n }

// LowestIDFirst tries neighbors by ascending vertex ID.
func LowestIDFirst(n []maze.Neighbor) []maze.Neighbor {
	sort.SliceStable(n, func(i, j int) bool { return n[i].ID < n[j].ID })
	return n
}

// LightestFirst tries the cheapest corridor first, breaking ties by vertex ID.
func LightestFirst(n []maze.Neighbor) []maze.Neighbor {
	sort.SliceStable(n, func(i, j int) bool {
		if n[i].Weight != n[j].Weight {
			return n[i].Weight < n[j].Weight
		}
		return n[i].ID < n[j].ID
	})
	return n
}

// ParseOrder maps a configuration name to a NeighborOrder.
func ParseOrder(name string) (NeighborOrder, error) {
	switch name {
	case "", OrderAsReported:
		return AsReported, nil
	case OrderLowestID:
		return LowestIDFirst, nil
	case OrderLightest:
		return LightestFirst, nil
	default:
		return nil, fmt.Errorf("unknown neighbor order %q", name)
	}
}
