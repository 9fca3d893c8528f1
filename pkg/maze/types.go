package maze

// VertexID identifies a vertex. IDs are assigned by the authority, never by the agent.
type VertexID uint64

// Neighbor is a weighted out-edge to ID.
type Neighbor struct {
	ID     VertexID `json:"id" yaml:"id"`
	Weight float64  `json:"weight" yaml:"weight"`
}

// Vertex is everything known about a visited vertex.
type Vertex struct {
	ID        VertexID   `json:"id"`
	Role      Role       `json:"role"`
	Adjacency []Neighbor `json:"adjacency"`
}

// Dedup collapses parallel edges to the same destination, keeping the minimum
// weight. The order of first appearance is preserved.
func Dedup(adjacency []Neighbor) []Neighbor {
	out := make([]Neighbor, 0, len(adjacency))
	index := make(map[VertexID]int, len(adjacency))
	for _, n := range adjacency {
		if i, seen := index[n.ID]; seen {
			if n.Weight < out[i].Weight {
				out[i].Weight = n.Weight
			}
			continue
		}
		index[n.ID] = len(out)
		out = append(out, n)
	}
	return out
}
