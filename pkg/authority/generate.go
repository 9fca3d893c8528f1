package authority

import (
	"errors"
	"math/rand/v2"

	"github.com/dd0wney/mazewalk/pkg/maze"
	"github.com/dd0wney/mazewalk/pkg/validation"
)

// GenerateOptions shapes a random maze.
type GenerateOptions struct {
	Vertices int `validate:"min=2"`
	Exits    int `validate:"min=0"`
	// MaxWeight is the largest integer corridor weight; weights are in [1, MaxWeight].
	MaxWeight int `validate:"min=1"`
	// ExtraCorridors adds loops on top of the spanning tree.
	ExtraCorridors int `validate:"min=0"`
	// DuplicateEdges re-reports existing edges with a different weight.
	DuplicateEdges int `validate:"min=0"`
	Seed           uint64
}

// DefaultGenerateOptions returns a small but loopy maze.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Vertices:       36,
		Exits:          2,
		MaxWeight:      9,
		ExtraCorridors: 12,
		DuplicateEdges: 4,
		Seed:           1,
	}
}

// Generate builds a random connected maze. Every corridor can be walked both
// ways with the same weight, so every vertex is reachable from the entry. The
// same options always produce the same maze.
func Generate(opts GenerateOptions) (*Maze, error) {
	if err := validation.Struct(opts); err != nil {
		return nil, err
	}
	if opts.Exits >= opts.Vertices {
		return nil, errors.New("too many exits for the number of vertices")
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	weight := func() float64 { return float64(1 + rng.IntN(opts.MaxWeight)) }

	m := &Maze{Vertices: make(map[maze.VertexID]Spec, opts.Vertices)}
	for i := 0; i < opts.Vertices; i++ {
		m.Vertices[maze.VertexID(i)] = Spec{Role: maze.RoleNormal}
	}

	link := func(a, b maze.VertexID, w float64) {
		sa, sb := m.Vertices[a], m.Vertices[b]
		sa.Edges = append(sa.Edges, maze.Neighbor{ID: b, Weight: w})
		sb.Edges = append(sb.Edges, maze.Neighbor{ID: a, Weight: w})
		m.Vertices[a], m.Vertices[b] = sa, sb
	}

	// Random spanning tree: attach every vertex to one placed before it.
	order := rng.Perm(opts.Vertices)
	for i := 1; i < len(order); i++ {
		parent := order[rng.IntN(i)]
		link(maze.VertexID(order[i]), maze.VertexID(parent), weight())
	}

	for i := 0; i < opts.ExtraCorridors; i++ {
		a, b := rng.IntN(opts.Vertices), rng.IntN(opts.Vertices)
		if a == b || m.Adjacent(maze.VertexID(a), maze.VertexID(b)) {
			continue
		}
		link(maze.VertexID(a), maze.VertexID(b), weight())
	}

	for i := 0; i < opts.DuplicateEdges; i++ {
		v := maze.VertexID(rng.IntN(opts.Vertices))
		spec := m.Vertices[v]
		if len(spec.Edges) == 0 {
			continue
		}
		e := spec.Edges[rng.IntN(len(spec.Edges))]
		spec.Edges = append(spec.Edges, maze.Neighbor{ID: e.ID, Weight: e.Weight + weight()})
		m.Vertices[v] = spec
	}

	roles := rng.Perm(opts.Vertices)
	setRole := func(v int, r maze.Role) {
		spec := m.Vertices[maze.VertexID(v)]
		spec.Role = r
		m.Vertices[maze.VertexID(v)] = spec
	}
	setRole(roles[0], maze.RoleEntry)
	for i := 1; i <= opts.Exits; i++ {
		setRole(roles[i], maze.RoleExit)
	}

	return m, nil
}
