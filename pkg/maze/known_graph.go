package maze

import (
	"fmt"
	"sort"
)

type entry struct {
	role      Role
	adjacency []Neighbor
}

// KnownGraph is the part of the remote graph the agent has seen so far. A vertex
// is present only after the agent has stood on it; edges may still point at
// vertices that are not present yet.
//
// KnownGraph is owned by a single session and is not safe for concurrent use.
type KnownGraph struct {
	vertices map[VertexID]*entry
}

// NewKnownGraph creates an empty graph.
func NewKnownGraph() *KnownGraph {
	return &KnownGraph{vertices: make(map[VertexID]*entry)}
}

// Record stores what was observed at v, replacing any previous observation.
// Parallel edges are reduced to their minimum weight before storage.
func (g *KnownGraph) Record(v VertexID, role Role, adjacency []Neighbor) {
	g.vertices[v] = &entry{role: role, adjacency: Dedup(adjacency)}
}

// IsVisited reports whether v has been the agent's position at least once.
func (g *KnownGraph) IsVisited(v VertexID) bool {
	_, ok := g.vertices[v]
	return ok
}

// IsExit reports whether v is a visited exit. Unvisited vertices are never exits.
func (g *KnownGraph) IsExit(v VertexID) bool {
	e, ok := g.vertices[v]
	return ok && e.role == RoleExit
}

// Role returns the role of a visited vertex.
func (g *KnownGraph) Role(v VertexID) (Role, bool) {
	e, ok := g.vertices[v]
	if !ok {
		return 0, false
	}
	return e.role, true
}

// Adjacency returns a copy of the out-edges of v.
func (g *KnownGraph) Adjacency(v VertexID) ([]Neighbor, error) {
	e, ok := g.vertices[v]
	if !ok {
		return nil, &UnknownVertexError{Vertex: v}
	}
	out := make([]Neighbor, len(e.adjacency))
	copy(out, e.adjacency)
	return out, nil
}

// Vertex returns the full record of a visited vertex.
func (g *KnownGraph) Vertex(v VertexID) (Vertex, error) {
	adj, err := g.Adjacency(v)
	if err != nil {
		return Vertex{}, err
	}
	return Vertex{ID: v, Role: g.vertices[v].role, Adjacency: adj}, nil
}

// EdgeWeight returns the weight of the known edge from -> to.
func (g *KnownGraph) EdgeWeight(from, to VertexID) (float64, bool) {
	e, ok := g.vertices[from]
	if !ok {
		return 0, false
	}
	for _, n := range e.adjacency {
		if n.ID == to {
			return n.Weight, true
		}
	}
	return 0, false
}

// PathWeight sums the edge weights along path.
func (g *KnownGraph) PathWeight(path []VertexID) (float64, error) {
	var total float64
	for i := 0; i+1 < len(path); i++ {
		w, ok := g.EdgeWeight(path[i], path[i+1])
		if !ok {
			return 0, fmt.Errorf("%w: %d -> %d", ErrBrokenPath, path[i], path[i+1])
		}
		total += w
	}
	return total, nil
}

// Vertices returns the visited vertex IDs in ascending order.
func (g *KnownGraph) Vertices() []VertexID {
	ids := make([]VertexID, 0, len(g.vertices))
	for id := range g.vertices {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Exits returns the visited exits in ascending order.
func (g *KnownGraph) Exits() []VertexID {
	var exits []VertexID
	for _, id := range g.Vertices() {
		if g.vertices[id].role == RoleExit {
			exits = append(exits, id)
		}
	}
	return exits
}

// Len returns the number of visited vertices.
func (g *KnownGraph) Len() int {
	return len(g.vertices)
}

// EdgeCount returns the number of stored (deduplicated) edges.
func (g *KnownGraph) EdgeCount() int {
	n := 0
	for _, e := range g.vertices {
		n += len(e.adjacency)
	}
	return n
}
