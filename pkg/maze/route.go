package maze

import (
	"container/list"
)

// Route finds the hop-shortest sequence of vertices from `from` to the nearest
// vertex satisfying isGoal, following known out-edges only. It is a pure lookup
// and never moves the agent.
//
// Only visited vertices are expanded, so every hop of the returned route is a
// known edge. Vertices for which blocked returns true are never entered; from
// itself is exempt. The first element of the route is from. A nil result means
// no goal is reachable.
func (g *KnownGraph) Route(from VertexID, isGoal func(VertexID) bool, blocked func(VertexID) bool) []VertexID {
	if isGoal(from) {
		return []VertexID{from}
	}

	parent := map[VertexID]VertexID{from: from}
	queue := list.New()
	queue.PushBack(from)

	for queue.Len() > 0 {
		current := queue.Remove(queue.Front()).(VertexID)

		e, ok := g.vertices[current]
		if !ok {
			continue
		}

		for _, n := range e.adjacency {
			if _, seen := parent[n.ID]; seen {
				continue
			}
			if blocked != nil && blocked(n.ID) {
				continue
			}
			parent[n.ID] = current
			if isGoal(n.ID) {
				return unwind(parent, from, n.ID)
			}
			queue.PushBack(n.ID)
		}
	}

	return nil
}

func unwind(parent map[VertexID]VertexID, from, to VertexID) []VertexID {
	path := []VertexID{to}
	for node := to; node != from; {
		node = parent[node]
		path = append(path, node)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
