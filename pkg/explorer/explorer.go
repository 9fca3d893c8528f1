// Package explorer walks the agent over every vertex it can reach.
//
// The strategy is a depth-first descent: from the current vertex the agent steps
// to the first neighbor it has neither visited nor seen rejected. When none is
// left it plans, over the known graph only, the shortest walk back to the
// nearest visited vertex that still has such a neighbor, and replays it hop by
// hop. Exploration ends when no such vertex remains.
package explorer

import (
	"context"
	"sort"

	"github.com/dd0wney/mazewalk/pkg/logging"
	"github.com/dd0wney/mazewalk/pkg/maze"
	"github.com/dd0wney/mazewalk/pkg/metrics"
	"github.com/dd0wney/mazewalk/pkg/navigator"
)

// Mover is the part of the navigator the explorer drives.
type Mover interface {
	Current() maze.VertexID
	Graph() *maze.KnownGraph
	MoveTo(ctx context.Context, v maze.VertexID) (maze.Vertex, error)
	Walk(ctx context.Context, route []maze.VertexID) error
}

// Options configures an Explorer.
type Options struct {
	Order   NeighborOrder
	Logger  logging.Logger
	Metrics *metrics.Registry
}

// Stats summarises a run.
type Stats struct {
	Visited     int
	Invalid     int
	Moves       int
	Relocations int
}

// Explorer holds the exclusion set of one exploration run.
type Explorer struct {
	mover   Mover
	graph   *maze.KnownGraph
	order   NeighborOrder
	logger  logging.Logger
	metrics *metrics.Registry

	invalid map[maze.VertexID]bool
	stats   Stats
}

// New creates an explorer driving m.
func New(m Mover, opts Options) *Explorer {
	order := opts.Order
	if order == nil {
		order = AsReported
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Explorer{
		mover:   m,
		graph:   m.Graph(),
		order:   order,
		logger:  logger.With(logging.Component("explorer")),
		metrics: opts.Metrics,
		invalid: make(map[maze.VertexID]bool),
	}
}

// Run explores until no reachable unvisited vertex is left. Rejected moves are
// absorbed; any other error aborts the run and is returned.
func (e *Explorer) Run(ctx context.Context) (Stats, error) {
	timer := logging.StartTimer(e.logger, "exploration finished")

	for {
		if err := ctx.Err(); err != nil {
			return e.finish(), err
		}

		moved, err := e.descend(ctx)
		if err != nil {
			timer.EndError(err)
			return e.finish(), err
		}
		if moved {
			continue
		}

		route := e.graph.Route(e.mover.Current(), e.hasEligibleNeighbor, e.isInvalid)
		if route == nil {
			break
		}

		e.stats.Relocations++
		if e.metrics != nil {
			e.metrics.RecordRelocation()
		}
		e.logger.Debug("relocating", logging.Vertex(e.mover.Current()), logging.Route(route))

		if err := e.relocate(ctx, route); err != nil {
			timer.EndError(err)
			return e.finish(), err
		}
	}

	stats := e.finish()
	timer.End(logging.Int("visited", stats.Visited), logging.Int("invalid", stats.Invalid),
		logging.Int("relocations", stats.Relocations))
	return stats, nil
}

// descend tries the eligible neighbors of the current vertex in order and moves
// to the first one the authority accepts. It reports whether the agent moved.
func (e *Explorer) descend(ctx context.Context) (bool, error) {
	adjacency, err := e.graph.Adjacency(e.mover.Current())
	if err != nil {
		return false, err
	}

	for _, n := range e.order(adjacency) {
		if !e.eligible(n.ID) {
			continue
		}
		e.stats.Moves++
		if _, err := e.mover.MoveTo(ctx, n.ID); err != nil {
			if navigator.IsInvalidMove(err) {
				e.invalid[n.ID] = true
				continue
			}
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// relocate replays a planned route. A rejected hop marks that vertex invalid and
// abandons the rest of the route.
func (e *Explorer) relocate(ctx context.Context, route []maze.VertexID) error {
	for _, v := range route[1:] {
		e.stats.Moves++
		if _, err := e.mover.MoveTo(ctx, v); err != nil {
			if navigator.IsInvalidMove(err) {
				e.invalid[v] = true
				e.logger.Debug("relocation abandoned", logging.Target(v))
				return nil
			}
			return err
		}
	}
	return nil
}

func (e *Explorer) eligible(v maze.VertexID) bool {
	return !e.graph.IsVisited(v) && !e.invalid[v]
}

func (e *Explorer) isInvalid(v maze.VertexID) bool {
	return e.invalid[v]
}

func (e *Explorer) hasEligibleNeighbor(v maze.VertexID) bool {
	if e.invalid[v] {
		return false
	}
	adjacency, err := e.graph.Adjacency(v)
	if err != nil {
		return false
	}
	for _, n := range adjacency {
		if e.eligible(n.ID) {
			return true
		}
	}
	return false
}

// Invalid returns the vertices the authority refused during the run in
// ascending order.
func (e *Explorer) Invalid() []maze.VertexID {
	out := make([]maze.VertexID, 0, len(e.invalid))
	for v := range e.invalid {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (e *Explorer) finish() Stats {
	e.stats.Visited = e.graph.Len()
	e.stats.Invalid = len(e.invalid)
	return e.stats
}
