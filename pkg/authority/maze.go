// Package authority simulates the remote maze authority: it owns the ground-truth
// graph, accepts move commands and answers with position reports or rejections.
package authority

import (
	"container/heap"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/mazewalk/pkg/maze"
	"github.com/dd0wney/mazewalk/pkg/protocol"
)

// Sentinel errors
var (
	ErrNoEntry       = errors.New("maze has no entry vertex")
	ErrManyEntries   = errors.New("maze has more than one entry vertex")
	ErrDanglingEdge  = errors.New("edge points to an unknown vertex")
	ErrNegativeEdge  = errors.New("edge weight is negative")
	ErrUnknownVertex = errors.New("unknown vertex")
)

// Spec is the ground truth about one vertex. Edges may contain duplicates; they
// are reported verbatim.
type Spec struct {
	Role  maze.Role       `yaml:"role"`
	Edges []maze.Neighbor `yaml:"edges"`
}

// Maze is a complete weighted directed graph with roles.
type Maze struct {
	Vertices map[maze.VertexID]Spec `yaml:"vertices"`
}

// Load decodes a YAML maze and validates it.
func Load(r io.Reader) (*Maze, error) {
	var m Maze
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding maze: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadFile reads a YAML maze from path.
func LoadFile(path string) (*Maze, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Validate checks that there is exactly one entry and every edge is sound.
func (m *Maze) Validate() error {
	entries := 0
	for id, spec := range m.Vertices {
		if spec.Role == maze.RoleEntry {
			entries++
		}
		for _, e := range spec.Edges {
			if _, ok := m.Vertices[e.ID]; !ok {
				return fmt.Errorf("%w: %d -> %d", ErrDanglingEdge, id, e.ID)
			}
			if e.Weight < 0 || math.IsNaN(e.Weight) {
				return fmt.Errorf("%w: %d -> %d (%v)", ErrNegativeEdge, id, e.ID, e.Weight)
			}
		}
	}
	switch {
	case entries == 0:
		return ErrNoEntry
	case entries > 1:
		return ErrManyEntries
	}
	return nil
}

// Entry returns the entry vertex.
func (m *Maze) Entry() (maze.VertexID, error) {
	for _, id := range m.ids() {
		if m.Vertices[id].Role == maze.RoleEntry {
			return id, nil
		}
	}
	return 0, ErrNoEntry
}

// Message builds the position report for v.
func (m *Maze) Message(v maze.VertexID) (protocol.Message, error) {
	spec, ok := m.Vertices[v]
	if !ok {
		return protocol.Message{}, fmt.Errorf("%w: %d", ErrUnknownVertex, v)
	}
	adj := make([]maze.Neighbor, len(spec.Edges))
	copy(adj, spec.Edges)
	return protocol.Message{Vertex: v, Role: spec.Role, Adjacency: adj}, nil
}

// Adjacent reports whether the maze has an edge from -> to.
func (m *Maze) Adjacent(from, to maze.VertexID) bool {
	for _, e := range m.Vertices[from].Edges {
		if e.ID == to {
			if _, ok := m.Vertices[to]; ok {
				return true
			}
		}
	}
	return false
}

func (m *Maze) ids() []maze.VertexID {
	ids := make([]maze.VertexID, 0, len(m.Vertices))
	for id := range m.Vertices {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Reachable returns every vertex reachable from the entry.
func (m *Maze) Reachable() map[maze.VertexID]bool {
	entry, err := m.Entry()
	if err != nil {
		return nil
	}
	seen := map[maze.VertexID]bool{entry: true}
	stack := []maze.VertexID{entry}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range m.Vertices[v].Edges {
			if !seen[e.ID] {
				seen[e.ID] = true
				stack = append(stack, e.ID)
			}
		}
	}
	return seen
}

// ShortestExit computes, with full knowledge of the maze, the weight of the
// cheapest route from the entry to any exit. ok is false when no exit is
// reachable.
func (m *Maze) ShortestExit() (weight float64, ok bool) {
	entry, err := m.Entry()
	if err != nil {
		return 0, false
	}

	dist := map[maze.VertexID]float64{entry: 0}
	done := make(map[maze.VertexID]bool)
	pq := &distanceQueue{{vertex: entry}}

	for pq.Len() > 0 {
		item := heap.Pop(pq).(distanceItem)
		if done[item.vertex] {
			continue
		}
		done[item.vertex] = true
		if m.Vertices[item.vertex].Role == maze.RoleExit {
			return item.distance, true
		}
		for _, e := range m.Vertices[item.vertex].Edges {
			d := item.distance + e.Weight
			if old, seen := dist[e.ID]; !seen || d < old {
				dist[e.ID] = d
				heap.Push(pq, distanceItem{vertex: e.ID, distance: d})
			}
		}
	}
	return 0, false
}

type distanceItem struct {
	vertex   maze.VertexID
	distance float64
}

type distanceQueue []distanceItem

func (q distanceQueue) Len() int           { return len(q) }
func (q distanceQueue) Less(i, j int) bool { return q[i].distance < q[j].distance }
func (q distanceQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *distanceQueue) Push(x any)        { *q = append(*q, x.(distanceItem)) }
func (q *distanceQueue) Pop() any {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]
	return item
}
