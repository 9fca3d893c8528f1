package authority

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/mazewalk/pkg/maze"
	"github.com/dd0wney/mazewalk/pkg/metrics"
	"github.com/dd0wney/mazewalk/pkg/protocol"
	"github.com/dd0wney/mazewalk/pkg/transport"
	"github.com/dd0wney/mazewalk/pkg/validation"
)

const triangleYAML = `
vertices:
  1:
    role: entrada
    edges:
      - {id: 2, weight: 1}
      - {id: 3, weight: 4}
  2:
    role: "0"
    edges:
      - {id: 3, weight: 2}
      - {id: 1, weight: 1}
  3:
    role: saida
    edges:
      - {id: 1, weight: 4}
`

func loadTriangle(t *testing.T) *Maze {
	t.Helper()
	m, err := Load(strings.NewReader(triangleYAML))
	require.NoError(t, err)
	return m
}

func TestLoad(t *testing.T) {
	m := loadTriangle(t)

	entry, err := m.Entry()
	require.NoError(t, err)
	assert.Equal(t, maze.VertexID(1), entry)
	assert.Equal(t, maze.RoleExit, m.Vertices[3].Role)
	assert.True(t, m.Adjacent(1, 3))
	assert.False(t, m.Adjacent(3, 2))

	weight, ok := m.ShortestExit()
	require.True(t, ok)
	assert.Equal(t, 3.0, weight)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		maze Maze
		want error
	}{
		{
			name: "no entry",
			maze: Maze{Vertices: map[maze.VertexID]Spec{1: {Role: maze.RoleNormal}}},
			want: ErrNoEntry,
		},
		{
			name: "two entries",
			maze: Maze{Vertices: map[maze.VertexID]Spec{1: {Role: maze.RoleEntry}, 2: {Role: maze.RoleEntry}}},
			want: ErrManyEntries,
		},
		{
			name: "dangling edge",
			maze: Maze{Vertices: map[maze.VertexID]Spec{1: {Role: maze.RoleEntry, Edges: []maze.Neighbor{{ID: 9, Weight: 1}}}}},
			want: ErrDanglingEdge,
		},
		{
			name: "negative weight",
			maze: Maze{Vertices: map[maze.VertexID]Spec{1: {Role: maze.RoleEntry, Edges: []maze.Neighbor{{ID: 1, Weight: -1}}}}},
			want: ErrNegativeEdge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.maze.Validate(), tt.want)
		})
	}
}

func TestLoad_RejectsUnknownRole(t *testing.T) {
	_, err := Load(strings.NewReader("vertices:\n  1:\n    role: portal\n"))
	assert.ErrorIs(t, err, maze.ErrInvalidRole)
}

func TestGenerate(t *testing.T) {
	opts := DefaultGenerateOptions()
	m, err := Generate(opts)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.Len(t, m.Vertices, opts.Vertices)
	assert.Len(t, m.Reachable(), opts.Vertices, "every vertex must be reachable from the entry")

	exits := 0
	for _, spec := range m.Vertices {
		if spec.Role == maze.RoleExit {
			exits++
		}
	}
	assert.Equal(t, opts.Exits, exits)

	again, err := Generate(opts)
	require.NoError(t, err)
	assert.Equal(t, m, again, "generation must be deterministic for a seed")

	_, ok := m.ShortestExit()
	assert.True(t, ok)
}

func TestGenerate_RejectsBadOptions(t *testing.T) {
	_, err := Generate(GenerateOptions{Vertices: 1, MaxWeight: 1})
	assert.ErrorIs(t, err, validation.ErrInvalid)

	_, err = Generate(GenerateOptions{Vertices: 3, Exits: 3, MaxWeight: 1})
	assert.Error(t, err)
}

func TestSession_Moves(t *testing.T) {
	ctx := context.Background()
	registry := metrics.NewRegistry()
	s, err := NewSession(loadTriangle(t), WithMetrics(registry))
	require.NoError(t, err)

	initial, err := s.Receive(ctx)
	require.NoError(t, err)
	msg, err := protocol.ParseMessage(initial)
	require.NoError(t, err)
	assert.Equal(t, maze.VertexID(1), msg.Vertex)
	assert.Equal(t, maze.RoleEntry, msg.Role)

	_, err = s.Receive(ctx)
	assert.ErrorIs(t, err, ErrNoResponse)

	require.NoError(t, s.Send(ctx, "ir: 2"))
	reply, err := s.Receive(ctx)
	require.NoError(t, err)
	msg, err = protocol.ParseMessage(reply)
	require.NoError(t, err)
	assert.Equal(t, maze.VertexID(2), msg.Vertex)
	assert.Equal(t, maze.VertexID(2), s.Position())

	// 2 -> 2 is not a corridor
	require.NoError(t, s.Send(ctx, "ir: 2"))
	reply, err = s.Receive(ctx)
	require.NoError(t, err)
	assert.True(t, protocol.IsInvalidMove(reply))
	assert.Equal(t, maze.VertexID(2), s.Position())

	require.NoError(t, s.Send(ctx, "walk to 3"))
	reply, err = s.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, InvalidCommandResponse, reply)

	assert.Equal(t, []maze.VertexID{1, 2}, s.Visited())

	require.NoError(t, s.Close())
	err = s.Send(ctx, "ir: 3")
	assert.ErrorIs(t, err, transport.ErrClosed)
}

func TestSession_Faults(t *testing.T) {
	ctx := context.Background()
	s, err := NewSession(loadTriangle(t), WithFaults(Faults{
		Reject:      map[maze.VertexID]bool{3: true},
		GarbleAfter: 1,
	}))
	require.NoError(t, err)
	_, _ = s.Receive(ctx)

	require.NoError(t, s.Send(ctx, "ir: 3"))
	reply, _ := s.Receive(ctx)
	assert.Equal(t, InvalidVertexResponse, reply, "rejected vertex must be refused although adjacent")

	require.NoError(t, s.Send(ctx, "ir: 2"))
	reply, _ = s.Receive(ctx)
	_, err = protocol.ParseMessage(reply)
	assert.ErrorIs(t, err, protocol.ErrProtocol)
}

func TestServer(t *testing.T) {
	registry := metrics.NewRegistry()
	triangle := loadTriangle(t)
	authority := NewServer(func(group, mazeID string) (*Maze, error) {
		if mazeID != "triangle" {
			return nil, ErrMazeNotFound
		}
		return triangle, nil
	}, ServerOptions{Metrics: registry})
	server := httptest.NewServer(authority)
	defer server.Close()

	base := "ws" + strings.TrimPrefix(server.URL, "http")
	ctx := context.Background()

	ws, err := transport.Dial(ctx, base+"/g1/triangle", transport.DialOptions{})
	require.NoError(t, err)
	defer ws.Close()

	initial, err := ws.Receive(ctx)
	require.NoError(t, err)
	assert.Contains(t, initial, "Vértice atual: 1")
	assert.Equal(t, 1, authority.Active())

	require.NoError(t, ws.Send(ctx, protocol.MoveCommand(3)))
	reply, err := ws.Receive(ctx)
	require.NoError(t, err)
	msg, err := protocol.ParseMessage(reply)
	require.NoError(t, err)
	assert.Equal(t, maze.RoleExit, msg.Role)

	_, err = transport.Dial(ctx, base+"/g1/missing", transport.DialOptions{})
	var tErr *transport.Error
	require.True(t, errors.As(err, &tErr))

	resp, err := http.Get(server.URL + "/only-one-part")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSplitSessionPath(t *testing.T) {
	group, mazeID, err := splitSessionPath("/ws/labirinto/g7/42")
	require.NoError(t, err)
	assert.Equal(t, "g7", group)
	assert.Equal(t, "42", mazeID)

	_, _, err = splitSessionPath("/")
	assert.Error(t, err)
}
