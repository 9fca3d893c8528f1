package pathfinder

import (
	"context"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/mazewalk/pkg/authority"
	"github.com/dd0wney/mazewalk/pkg/explorer"
	"github.com/dd0wney/mazewalk/pkg/maze"
	"github.com/dd0wney/mazewalk/pkg/navigator"
	"github.com/dd0wney/mazewalk/pkg/protocol"
)

// A(1) -> B(2) weight 1, A -> C(3) weight 4, B -> C weight 2; C is the exit.
const detourYAML = `
vertices:
  1:
    role: entrada
    edges: [{id: 2, weight: 1}, {id: 3, weight: 4}]
  2:
    role: normal
    edges: [{id: 3, weight: 2}]
  3:
    role: saida
    edges: []
`

func navigate(t *testing.T, m *authority.Maze, opts ...authority.SessionOption) *navigator.Navigator {
	t.Helper()
	s, err := authority.NewSession(m, opts...)
	require.NoError(t, err)
	nav, err := navigator.New(context.Background(), s, maze.NewKnownGraph(), navigator.Options{})
	require.NoError(t, err)
	return nav
}

func load(t *testing.T, doc string) *authority.Maze {
	t.Helper()
	m, err := authority.Load(strings.NewReader(doc))
	require.NoError(t, err)
	return m
}

func TestFind_PrefersCheaperDetour(t *testing.T) {
	nav := navigate(t, load(t, detourYAML))

	result, err := Find(context.Background(), nav, nav.Entry(), Options{})
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, []maze.VertexID{1, 2, 3}, result.Path)
	assert.Equal(t, 3.0, result.Weight)
	assert.Equal(t, 2, result.Approached)
	assert.True(t, nav.Graph().IsVisited(2), "B is discovered during the search")
}

func TestFind_NoExit(t *testing.T) {
	const closed = `
vertices:
  1:
    role: entrada
    edges: [{id: 2, weight: 1}]
  2:
    role: normal
    edges: [{id: 1, weight: 1}]
`
	nav := navigate(t, load(t, closed))

	result, err := Find(context.Background(), nav, nav.Entry(), Options{})
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Empty(t, result.Path)
	assert.NotNil(t, result.Path)
	assert.Zero(t, result.Weight)
}

func TestFind_RejectedVertexIsSkipped(t *testing.T) {
	nav := navigate(t, load(t, detourYAML),
		authority.WithFaults(authority.Faults{Reject: map[maze.VertexID]bool{2: true}}))

	result, err := Find(context.Background(), nav, nav.Entry(), Options{})
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, []maze.VertexID{1, 3}, result.Path)
	assert.Equal(t, 4.0, result.Weight)
	assert.Equal(t, []maze.VertexID{2}, result.Skipped)
}

// refusingMover walks a known graph and refuses the first refusals[v] moves
// onto v. Unvisited vertices are recorded from hidden when first entered.
type refusingMover struct {
	graph    *maze.KnownGraph
	current  maze.VertexID
	hidden   map[maze.VertexID]maze.Vertex
	refusals map[maze.VertexID]int
}

func (m *refusingMover) Current() maze.VertexID  { return m.current }
func (m *refusingMover) Graph() *maze.KnownGraph { return m.graph }

func (m *refusingMover) MoveTo(_ context.Context, v maze.VertexID) (maze.Vertex, error) {
	if _, ok := m.graph.EdgeWeight(m.current, v); !ok || m.refusals[v] > 0 {
		m.refusals[v]--
		return maze.Vertex{}, &navigator.InvalidMoveError{From: m.current, To: v, Response: protocol.InvalidVertexMarker}
	}
	if h, ok := m.hidden[v]; ok && !m.graph.IsVisited(v) {
		m.graph.Record(v, h.Role, h.Adjacency)
	}
	m.current = v
	return m.graph.Vertex(v)
}

func (m *refusingMover) Walk(ctx context.Context, route []maze.VertexID) error {
	for _, v := range route[1:] {
		if _, err := m.MoveTo(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

func TestFind_RefusedHopOntoVisitedVertexKeepsIt(t *testing.T) {
	g := maze.NewKnownGraph()
	g.Record(1, maze.RoleEntry, []maze.Neighbor{{ID: 2, Weight: 1}, {ID: 4, Weight: 3}})
	g.Record(2, maze.RoleNormal, []maze.Neighbor{{ID: 3, Weight: 1}})
	g.Record(4, maze.RoleNormal, []maze.Neighbor{{ID: 5, Weight: 1}, {ID: 1, Weight: 1}})
	g.Record(6, maze.RoleNormal, []maze.Neighbor{{ID: 4, Weight: 1}})

	m := &refusingMover{
		graph:   g,
		current: 6,
		hidden: map[maze.VertexID]maze.Vertex{
			3: {ID: 3, Role: maze.RoleNormal},
			5: {ID: 5, Role: maze.RoleExit},
		},
		// The walk towards 3 goes 6 -> 4 -> 1 -> 2 and is refused at 4 once.
		refusals: map[maze.VertexID]int{4: 1},
	}

	result, err := Find(context.Background(), m, 1, Options{})
	require.NoError(t, err)

	assert.Equal(t, []maze.VertexID{3}, result.Skipped)
	require.True(t, result.Found, "4 is still usable after one refused hop")
	assert.Equal(t, []maze.VertexID{1, 4, 5}, result.Path)
	assert.Equal(t, 4.0, result.Weight)
}

func TestFind_ProtocolErrorAborts(t *testing.T) {
	nav := navigate(t, load(t, detourYAML),
		authority.WithFaults(authority.Faults{GarbleAfter: 1}))

	result, err := Find(context.Background(), nav, nav.Entry(), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, protocol.ErrProtocol)
	assert.False(t, result.Found)
	assert.Nil(t, result.Path)
}

func TestFind_StartOnExit(t *testing.T) {
	m := load(t, detourYAML)
	nav := navigate(t, m)
	require.NoError(t, nav.Walk(context.Background(), []maze.VertexID{1, 3}))

	result, err := Find(context.Background(), nav, nav.Current(), Options{})
	require.NoError(t, err)
	assert.Equal(t, []maze.VertexID{3}, result.Path)
	assert.Zero(t, result.Weight)
	assert.True(t, result.Found)
}

func TestFrontier_TiesPopInInsertionOrder(t *testing.T) {
	var f frontier
	f.push(2, 10, nil)
	f.push(1, 20, nil)
	f.push(2, 30, nil)
	f.push(1, 40, nil)

	var order []maze.VertexID
	for f.Len() > 0 {
		order = append(order, f.pop().vertex)
	}
	assert.Equal(t, []maze.VertexID{20, 40, 10, 30}, order)
}

// TestSearchProperties compares the search with a full-knowledge oracle.
func TestSearchProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	generate := func(seed uint64, size int) (*authority.Maze, *navigator.Navigator, error) {
		opts := authority.DefaultGenerateOptions()
		opts.Seed = seed
		opts.Vertices = size
		m, err := authority.Generate(opts)
		if err != nil {
			return nil, nil, err
		}
		s, err := authority.NewSession(m)
		if err != nil {
			return nil, nil, err
		}
		nav, err := navigator.New(context.Background(), s, maze.NewKnownGraph(), navigator.Options{})
		return m, nav, err
	}

	check := func(m *authority.Maze, nav *navigator.Navigator, result Result) bool {
		want, ok := m.ShortestExit()
		if ok != result.Found || want != result.Weight {
			return false
		}
		if !result.Found {
			return len(result.Path) == 0
		}
		weight, err := nav.Graph().PathWeight(result.Path)
		if err != nil || weight != result.Weight {
			return false
		}
		if result.Path[0] != nav.Entry() || !nav.Graph().IsExit(result.Path[len(result.Path)-1]) {
			return false
		}
		for i := 1; i < len(result.Candidates); i++ {
			if result.Candidates[i].Weight >= result.Candidates[i-1].Weight {
				return false
			}
		}
		return true
	}

	properties.Property("search alone finds the optimal exit", prop.ForAll(
		func(seed uint64, size int) bool {
			m, nav, err := generate(seed, size)
			if err != nil {
				return false
			}
			result, err := Find(context.Background(), nav, nav.Entry(), Options{})
			return err == nil && check(m, nav, result)
		},
		gen.UInt64(),
		gen.IntRange(3, 60),
	))

	properties.Property("search after exploration finds the optimal exit", prop.ForAll(
		func(seed uint64, size int) bool {
			m, nav, err := generate(seed, size)
			if err != nil {
				return false
			}
			if _, err := explorer.New(nav, explorer.Options{}).Run(context.Background()); err != nil {
				return false
			}
			result, err := Find(context.Background(), nav, nav.Entry(), Options{})
			return err == nil && check(m, nav, result) && result.Approached == 0
		},
		gen.UInt64(),
		gen.IntRange(3, 60),
	))

	properties.TestingRun(t)
}
