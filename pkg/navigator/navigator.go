// Package navigator owns the agent's position. Moving is the only way new facts
// about the maze enter the known graph.
package navigator

import (
	"context"
	"fmt"
	"time"

	"github.com/dd0wney/mazewalk/pkg/logging"
	"github.com/dd0wney/mazewalk/pkg/maze"
	"github.com/dd0wney/mazewalk/pkg/metrics"
	"github.com/dd0wney/mazewalk/pkg/protocol"
	"github.com/dd0wney/mazewalk/pkg/transport"
)

// Options configures a Navigator.
type Options struct {
	Logger  logging.Logger
	Metrics *metrics.Registry
}

// Navigator moves the agent one hop at a time and records what it sees.
//
// A Navigator is not safe for concurrent use: the agent has exactly one position
// and the authority expects one command in flight.
type Navigator struct {
	transport transport.Transport
	graph     *maze.KnownGraph
	logger    logging.Logger
	metrics   *metrics.Registry

	current     maze.VertexID
	entry       maze.VertexID
	trace       []maze.VertexID
	firstVisits []maze.VertexID
	moves       int
	rejected    int
}

// New reads the authority's first position report and places the agent there.
func New(ctx context.Context, t transport.Transport, g *maze.KnownGraph, opts Options) (*Navigator, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	n := &Navigator{
		transport: t,
		graph:     g,
		logger:    logger.With(logging.Component("navigator")),
		metrics:   opts.Metrics,
	}

	text, err := t.Receive(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading initial position: %w", err)
	}
	msg, err := protocol.ParseMessage(text)
	if err != nil {
		return nil, fmt.Errorf("reading initial position: %w", err)
	}

	if msg.Role != maze.RoleEntry {
		n.logger.Warn("initial vertex is not marked as entry",
			logging.Vertex(msg.Vertex), logging.String("role", msg.Role.String()))
	}

	n.entry = msg.Vertex
	n.observe(msg)
	n.logger.Info("placed at entry", logging.Vertex(msg.Vertex), logging.Count(len(msg.Adjacency)))

	return n, nil
}

// MoveTo asks the authority to move the agent to v.
//
// A rejection returns *InvalidMoveError and leaves the position unchanged. An
// unparsable response returns *protocol.ProtocolError and a broken connection
// *transport.Error; both are fatal to the session.
func (n *Navigator) MoveTo(ctx context.Context, v maze.VertexID) (maze.Vertex, error) {
	start := time.Now()

	response, err := n.roundTrip(ctx, protocol.MoveCommand(v))
	if err != nil {
		n.record(metrics.OutcomeError, start)
		n.logger.Error("move failed", logging.Vertex(n.current), logging.Target(v), logging.Error(err))
		return maze.Vertex{}, err
	}
	n.moves++

	if protocol.IsInvalidMove(response) {
		n.rejected++
		n.record(metrics.OutcomeInvalid, start)
		n.logger.Warn("move rejected", logging.Vertex(n.current), logging.Target(v), logging.String("response", response))
		return maze.Vertex{}, &InvalidMoveError{From: n.current, To: v, Response: response}
	}

	msg, err := protocol.ParseMessage(response)
	if err != nil {
		n.record(metrics.OutcomeError, start)
		n.logger.Error("unreadable move response", logging.Target(v), logging.Error(err))
		return maze.Vertex{}, err
	}

	if msg.Vertex != v {
		n.logger.Warn("authority placed agent elsewhere", logging.Target(v), logging.Vertex(msg.Vertex))
	}

	from := n.current
	n.observe(msg)
	n.record(metrics.OutcomeOK, start)
	n.logger.Debug("moved", logging.Uint64("from", uint64(from)), logging.Vertex(msg.Vertex),
		logging.String("role", msg.Role.String()), logging.Latency(time.Since(start)))

	return n.graph.Vertex(msg.Vertex)
}

// Walk replays a planned route hop by hop. A leading element equal to the
// current position is skipped. Walking stops at the first failing hop and its
// error is returned unchanged.
func (n *Navigator) Walk(ctx context.Context, route []maze.VertexID) error {
	if len(route) > 0 && route[0] == n.current {
		route = route[1:]
	}
	for _, v := range route {
		if _, err := n.MoveTo(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

func (n *Navigator) roundTrip(ctx context.Context, command string) (string, error) {
	if err := n.transport.Send(ctx, command); err != nil {
		return "", err
	}
	return n.transport.Receive(ctx)
}

func (n *Navigator) observe(msg protocol.Message) {
	if !n.graph.IsVisited(msg.Vertex) {
		n.firstVisits = append(n.firstVisits, msg.Vertex)
	}
	n.graph.Record(msg.Vertex, msg.Role, msg.Adjacency)
	n.current = msg.Vertex
	n.trace = append(n.trace, msg.Vertex)

	if n.metrics != nil {
		n.metrics.SetDiscovered(n.graph.Len(), n.graph.EdgeCount())
	}
}

func (n *Navigator) record(outcome string, start time.Time) {
	if n.metrics != nil {
		n.metrics.RecordMove(outcome, time.Since(start))
	}
}

// Current returns the agent's position.
func (n *Navigator) Current() maze.VertexID { return n.current }

// Entry returns the vertex the session started on.
func (n *Navigator) Entry() maze.VertexID { return n.entry }

// Graph returns the known graph the navigator records into.
func (n *Navigator) Graph() *maze.KnownGraph { return n.graph }

// Moves returns the number of answered move commands, rejected ones included.
func (n *Navigator) Moves() int { return n.moves }

// InvalidMoves returns the number of moves the authority refused.
func (n *Navigator) InvalidMoves() int { return n.rejected }

// Trace returns every position the agent has occupied, in order, revisits
// included, starting with the entry.
func (n *Navigator) Trace() []maze.VertexID {
	out := make([]maze.VertexID, len(n.trace))
	copy(out, n.trace)
	return out
}

// FirstVisits returns each visited vertex once, in the order it was first reached.
func (n *Navigator) FirstVisits() []maze.VertexID {
	out := make([]maze.VertexID, len(n.firstVisits))
	copy(out, n.firstVisits)
	return out
}
