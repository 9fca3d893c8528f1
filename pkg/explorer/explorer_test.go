package explorer

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
	"github.com/dd0wney/mazewalk/pkg/maze"
	"github.com/dd0wney/mazewalk/pkg/metrics"
	"github.com/dd0wney/mazewalk/pkg/navigator"
	"github.com/dd0wney/mazewalk/pkg/protocol"
)

func start(t *testing.T, m *authority.Maze, opts ...authority.SessionOption) (*navigator.Navigator, *authority.Session) {
	t.Helper()
	s, err := authority.NewSession(m, opts...)
	require.NoError(t, err)
	nav, err := navigator.New(context.Background(), s, maze.NewKnownGraph(), navigator.Options{})
	require.NoError(t, err)
	return nav, s
}

// reachableAvoiding is the set of vertices reachable from the entry without
// entering any rejected vertex.
func reachableAvoiding(m *authority.Maze, rejected map[maze.VertexID]bool) map[maze.VertexID]bool {
	entry, _ := m.Entry()
	seen := map[maze.VertexID]bool{entry: true}
	stack := []maze.VertexID{entry}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range m.Vertices[v].Edges {
			if seen[e.ID] || rejected[e.ID] {
				continue
			}
			seen[e.ID] = true
			stack = append(stack, e.ID)
		}
	}
	return seen
}

func TestRun_VisitsEveryVertex(t *testing.T) {
	m, err := authority.Generate(authority.DefaultGenerateOptions())
	require.NoError(t, err)

	for _, order := range []string{OrderAsReported, OrderLowestID, OrderLightest} {
		t.Run(order, func(t *testing.T) {
			nav, _ := start(t, m)
			o, err := ParseOrder(order)
			require.NoError(t, err)

			stats, err := New(nav, Options{Order: o}).Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, len(m.Vertices), stats.Visited)
			assert.Equal(t, len(m.Vertices), len(nav.FirstVisits()))
			assert.Zero(t, stats.Invalid)
			assert.Equal(t, nav.Moves(), stats.Moves)
		})
	}
}

func TestRun_RelocatesOutOfDeadEnds(t *testing.T) {
	// 1 is a hub with three dead-end spokes.
	const star = `
vertices:
  1:
    role: entrada
    edges: [{id: 2, weight: 1}, {id: 3, weight: 1}, {id: 4, weight: 1}]
  2:
    role: normal
    edges: [{id: 1, weight: 1}]
  3:
    role: normal
    edges: [{id: 1, weight: 1}]
  4:
    role: saida
    edges: [{id: 1, weight: 1}]
`
	m, err := authority.Load(strings.NewReader(star))
	require.NoError(t, err)
	nav, _ := start(t, m)

	reg := metrics.NewRegistry()
	stats, err := New(nav, Options{Metrics: reg}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Visited)
	assert.Equal(t, 2, stats.Relocations)
	assert.Equal(t, []maze.VertexID{1, 2, 1, 3, 1, 4}, nav.Trace())
	assert.Equal(t, []maze.VertexID{1, 2, 3, 4}, nav.FirstVisits())
}

func TestRun_RejectedVertexIsSkipped(t *testing.T) {
	m, err := authority.Generate(authority.DefaultGenerateOptions())
	require.NoError(t, err)

	entry, err := m.Entry()
	require.NoError(t, err)
	rejected := map[maze.VertexID]bool{}
	for _, e := range m.Vertices[entry].Edges {
		rejected[e.ID] = true
		break
	}

	nav, session := start(t, m, authority.WithFaults(authority.Faults{Reject: rejected}))
	ex := New(nav, Options{Order: LowestIDFirst})
	stats, err := ex.Run(context.Background())
	require.NoError(t, err)

	want := reachableAvoiding(m, rejected)
	assert.Equal(t, len(want), stats.Visited)
	for v := range rejected {
		assert.False(t, nav.Graph().IsVisited(v))
		assert.Contains(t, ex.Invalid(), v)
	}
	assert.Equal(t, session.Visited(), nav.Trace())
}

func TestRun_InvalidIsSorted(t *testing.T) {
	// The hub reports its spokes in descending order; 4 and 3 are refused.
	const hub = `
vertices:
  1:
    role: entrada
    edges: [{id: 4, weight: 1}, {id: 3, weight: 1}, {id: 2, weight: 1}]
  2:
    role: normal
    edges: [{id: 1, weight: 1}]
  3:
    role: normal
    edges: [{id: 1, weight: 1}]
  4:
    role: saida
    edges: [{id: 1, weight: 1}]
`
	m, err := authority.Load(strings.NewReader(hub))
	require.NoError(t, err)
	nav, _ := start(t, m, authority.WithFaults(authority.Faults{Reject: map[maze.VertexID]bool{3: true, 4: true}}))

	ex := New(nav, Options{})
	stats, err := ex.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Invalid)
	assert.Equal(t, []maze.VertexID{3, 4}, ex.Invalid())
	assert.Equal(t, 2, nav.InvalidMoves())
}

func TestRun_ProtocolErrorAborts(t *testing.T) {
	m, err := authority.Generate(authority.DefaultGenerateOptions())
	require.NoError(t, err)
	nav, _ := start(t, m, authority.WithFaults(authority.Faults{GarbleAfter: 3}))

	stats, err := New(nav, Options{}).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, protocol.ErrProtocol)
	assert.LessOrEqual(t, stats.Visited, 4)
}

func TestRun_CancelledContext(t *testing.T) {
	m, err := authority.Generate(authority.DefaultGenerateOptions())
	require.NoError(t, err)
	nav, _ := start(t, m)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New(nav, Options{}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseOrder(t *testing.T) {
	_, err := ParseOrder("random")
	assert.Error(t, err)

	o, err := ParseOrder("")
	require.NoError(t, err)
	in := []maze.Neighbor{{ID: 5, Weight: 1}, {ID: 2, Weight: 3}}
	assert.Equal(t, maze.VertexID(5), o(in)[0].ID)

	assert.Equal(t, maze.VertexID(2), LowestIDFirst([]maze.Neighbor{{ID: 5, Weight: 1}, {ID: 2, Weight: 3}})[0].ID)
	assert.Equal(t, maze.VertexID(5), LightestFirst([]maze.Neighbor{{ID: 2, Weight: 3}, {ID: 5, Weight: 1}})[0].ID)
}

// TestExplorationProperties runs the explorer over random mazes.
func TestExplorationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	explore := func(seed uint64, size int) (*authority.Maze, *navigator.Navigator, Stats, error) {
		opts := authority.DefaultGenerateOptions()
		opts.Seed = seed
		opts.Vertices = size
		m, err := authority.Generate(opts)
		if err != nil {
			return nil, nil, Stats{}, err
		}
		s, err := authority.NewSession(m)
		if err != nil {
			return nil, nil, Stats{}, err
		}
		nav, err := navigator.New(context.Background(), s, maze.NewKnownGraph(), navigator.Options{})
		if err != nil {
			return nil, nil, Stats{}, err
		}
		stats, err := New(nav, Options{}).Run(context.Background())
		return m, nav, stats, err
	}

	properties.Property("every vertex is first-visited exactly once", prop.ForAll(
		func(seed uint64, size int) bool {
			m, nav, _, err := explore(seed, size)
			if err != nil {
				return false
			}
			seen := make(map[maze.VertexID]bool)
			for _, v := range nav.FirstVisits() {
				if seen[v] {
					return false
				}
				seen[v] = true
			}
			return len(seen) == len(m.Vertices)
		},
		gen.UInt64(),
		gen.IntRange(3, 60),
	))

	properties.Property("every hop of the trace is a real corridor", prop.ForAll(
		func(seed uint64, size int) bool {
			m, nav, _, err := explore(seed, size)
			if err != nil {
				return false
			}
			trace := nav.Trace()
			for i := 1; i < len(trace); i++ {
				if !m.Adjacent(trace[i-1], trace[i]) {
					return false
				}
			}
			return true
		},
		gen.UInt64(),
		gen.IntRange(3, 60),
	))

	properties.TestingRun(t)
}
