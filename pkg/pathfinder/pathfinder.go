// Package pathfinder finds the cheapest known route from the entry to any exit.
//
// The search is Dijkstra-style label correction over the known graph. When a
// popped vertex has never been visited its adjacency is unknown, so the agent is
// walked there first; a refused walk drops the vertex from the search.
package pathfinder

import (
	"context"
	"errors"
	"math"

	"github.com/dd0wney/mazewalk/pkg/logging"
	"github.com/dd0wney/mazewalk/pkg/maze"
	"github.com/dd0wney/mazewalk/pkg/navigator"
)

// Mover is the part of the navigator the search drives.
type Mover interface {
	Current() maze.VertexID
	Graph() *maze.KnownGraph
	MoveTo(ctx context.Context, v maze.VertexID) (maze.Vertex, error)
	Walk(ctx context.Context, route []maze.VertexID) error
}

// Options configures a search.
type Options struct {
	Logger logging.Logger
}

// Candidate is an exit reached at a new best distance.
type Candidate struct {
	Exit   maze.VertexID
	Weight float64
}

// Result is the outcome of a search. When Found is false Path is empty and
// Weight is zero.
type Result struct {
	Path   []maze.VertexID
	Weight float64
	Found  bool

	// Candidates lists every improvement of the best exit distance in order.
	Candidates []Candidate
	// Approached counts vertices the agent had to walk to during the search.
	Approached int
	// Skipped lists vertices dropped because the authority refused the walk.
	Skipped []maze.VertexID
}

type search struct {
	mover  Mover
	graph  *maze.KnownGraph
	logger logging.Logger

	dist     map[maze.VertexID]float64
	closed   map[maze.VertexID]bool
	invalid  map[maze.VertexID]bool
	frontier frontier

	best     float64
	bestPath []maze.VertexID
	result   Result
}

// Find searches for the cheapest path from start to an exit. Rejected moves are
// absorbed; protocol and transport errors abort the search and are returned.
func Find(ctx context.Context, m Mover, start maze.VertexID, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	s := &search{
		mover:   m,
		graph:   m.Graph(),
		logger:  logger.With(logging.Component("pathfinder")),
		dist:    map[maze.VertexID]float64{start: 0},
		closed:  make(map[maze.VertexID]bool),
		invalid: make(map[maze.VertexID]bool),
		best:    math.Inf(1),
	}
	return s.run(ctx, start)
}

func (s *search) run(ctx context.Context, start maze.VertexID) (Result, error) {
	timer := logging.StartTimer(s.logger, "search finished", logging.Vertex(start))
	s.frontier.push(0, start, []maze.VertexID{start})

	for s.frontier.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		e := s.frontier.pop()
		if e.distance > s.best {
			break
		}
		if s.closed[e.vertex] {
			continue
		}
		s.closed[e.vertex] = true

		if !s.graph.IsVisited(e.vertex) {
			reached, err := s.approach(ctx, e.vertex)
			if err != nil {
				timer.EndError(err)
				return Result{}, err
			}
			if !reached {
				continue
			}
		}

		if s.graph.IsExit(e.vertex) && e.distance < s.best {
			s.best = e.distance
			s.bestPath = e.path
			s.result.Candidates = append(s.result.Candidates, Candidate{Exit: e.vertex, Weight: e.distance})
			s.logger.Debug("exit candidate", logging.Vertex(e.vertex), logging.Weight(e.distance))
		}

		if err := s.relax(e); err != nil {
			timer.EndError(err)
			return Result{}, err
		}
	}

	if s.bestPath != nil {
		s.result.Path = s.bestPath
		s.result.Weight = s.best
		s.result.Found = true
	} else {
		s.result.Path = []maze.VertexID{}
	}

	timer.End(logging.Bool("found", s.result.Found), logging.Weight(s.result.Weight),
		logging.Route(s.result.Path), logging.Int("approached", s.result.Approached))
	return s.result, nil
}

func (s *search) relax(e *entry) error {
	adjacency, err := s.graph.Adjacency(e.vertex)
	if err != nil {
		return err
	}
	for _, n := range adjacency {
		if s.closed[n.ID] || s.invalid[n.ID] {
			continue
		}
		candidate := e.distance + n.Weight
		if current, ok := s.dist[n.ID]; ok && candidate >= current {
			continue
		}
		if candidate >= s.best {
			continue
		}
		s.dist[n.ID] = candidate
		s.frontier.push(candidate, n.ID, extend(e.path, n.ID))
	}
	return nil
}

// approach walks the agent onto v, an unvisited vertex some visited vertex has a
// known corridor to. It reports false when the authority refuses any hop or no
// such corridor is reachable.
func (s *search) approach(ctx context.Context, v maze.VertexID) (bool, error) {
	hasCorridor := func(u maze.VertexID) bool {
		if !s.graph.IsVisited(u) {
			return false
		}
		_, ok := s.graph.EdgeWeight(u, v)
		return ok
	}
	blocked := func(u maze.VertexID) bool { return s.invalid[u] || u == v }

	route := s.graph.Route(s.mover.Current(), hasCorridor, blocked)
	if route == nil {
		s.skip(v)
		return false, nil
	}

	s.logger.Debug("approaching unvisited vertex", logging.Target(v), logging.Route(route))
	s.result.Approached++

	err := s.mover.Walk(ctx, route)
	if err == nil {
		_, err = s.mover.MoveTo(ctx, v)
	}
	if err != nil {
		if navigator.IsInvalidMove(err) {
			var invalid *navigator.InvalidMoveError
			// A refused hop onto a visited vertex only breaks this walk; its
			// corridors are still known.
			if errors.As(err, &invalid) && invalid.To != v && !s.graph.IsVisited(invalid.To) {
				s.invalid[invalid.To] = true
			}
			s.skip(v)
			return false, nil
		}
		return false, err
	}
	if !s.graph.IsVisited(v) {
		s.skip(v)
		return false, nil
	}
	return true, nil
}

func (s *search) skip(v maze.VertexID) {
	s.invalid[v] = true
	s.result.Skipped = append(s.result.Skipped, v)
	s.logger.Debug("vertex skipped", logging.Target(v))
}
