// Package session runs one complete attempt at a maze: connect, explore, search
// for the cheapest exit, and hand the findings to the caller.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/mazewalk/pkg/config"
	"github.com/dd0wney/mazewalk/pkg/explorer"
	"github.com/dd0wney/mazewalk/pkg/logging"
	"github.com/dd0wney/mazewalk/pkg/maze"
	"github.com/dd0wney/mazewalk/pkg/metrics"
	"github.com/dd0wney/mazewalk/pkg/navigator"
	"github.com/dd0wney/mazewalk/pkg/pathfinder"
	"github.com/dd0wney/mazewalk/pkg/transport"
)

// Session statuses, used as metric labels alongside the failure categories.
const (
	StatusSolved = "solved"
	StatusNoExit = "no_exit"
)

// Dialer opens the connection to the authority.
type Dialer func(ctx context.Context, url string) (transport.Transport, error)

// WebSocketDialer dials the authority over websocket.
func WebSocketDialer(opts transport.DialOptions) Dialer {
	return func(ctx context.Context, url string) (transport.Transport, error) {
		return transport.Dial(ctx, url, opts)
	}
}

// Options configures Run.
type Options struct {
	Logger  logging.Logger
	Metrics *metrics.Registry
	// Dialer defaults to WebSocketDialer with the configured handshake timeout.
	Dialer Dialer
}

// Result is everything a finished session learned.
type Result struct {
	SessionID string
	GroupID   string
	MazeID    string

	Entry  maze.VertexID
	Path   []maze.VertexID
	Weight float64
	Found  bool

	Graph       *maze.KnownGraph
	Trace       []maze.VertexID
	FirstVisits []maze.VertexID

	Stats      explorer.Stats
	Approached int
	Rejected   int
	Duration   time.Duration
}

// Run solves the maze selected by cfg. It either returns a complete Result or a
// *Error; a failed session never yields a partial result.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	started := time.Now()
	id := uuid.NewString()

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.With(logging.SessionID(id), logging.MazeID(cfg.MazeID))

	result, err := run(ctx, cfg, opts, logger)
	duration := time.Since(started)

	if err != nil {
		logger.Error("session failed", logging.Error(err), logging.String("category", string(Classify(err))))
		if opts.Metrics != nil {
			opts.Metrics.RecordSession(string(Classify(err)), duration)
		}
		return nil, err
	}

	result.SessionID = id
	result.Duration = duration

	status := StatusSolved
	if !result.Found {
		status = StatusNoExit
	}
	if opts.Metrics != nil {
		opts.Metrics.RecordSession(status, duration)
		opts.Metrics.SetPath(len(result.Path), result.Weight)
	}
	logger.Info("session finished", logging.String("status", status), logging.Weight(result.Weight),
		logging.Route(result.Path), logging.Duration("duration", duration))

	return result, nil
}

func run(ctx context.Context, cfg *config.Config, opts Options, logger logging.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fail("configure", err)
	}
	order, err := cfg.Order()
	if err != nil {
		return nil, fail("configure", configError(err))
	}

	dial := opts.Dialer
	if dial == nil {
		dial = WebSocketDialer(transport.DialOptions{HandshakeTimeout: cfg.HandshakeTimeout})
	}

	url := cfg.SessionURL()
	logger.Info("connecting", logging.String("url", url))
	conn, err := dial(ctx, url)
	if err != nil {
		return nil, fail("connect", err)
	}
	defer conn.Close()

	graph := maze.NewKnownGraph()
	nav, err := navigator.New(ctx, conn, graph, navigator.Options{Logger: logger, Metrics: opts.Metrics})
	if err != nil {
		return nil, fail("start", err)
	}

	stats, err := explorer.New(nav, explorer.Options{Order: order, Logger: logger, Metrics: opts.Metrics}).Run(ctx)
	if err != nil {
		return nil, fail("explore", err)
	}

	found, err := pathfinder.Find(ctx, nav, nav.Entry(), pathfinder.Options{Logger: logger})
	if err != nil {
		return nil, fail("search", err)
	}

	return &Result{
		GroupID:     cfg.GroupID,
		MazeID:      cfg.MazeID,
		Entry:       nav.Entry(),
		Path:        found.Path,
		Weight:      found.Weight,
		Found:       found.Found,
		Graph:       graph,
		Trace:       nav.Trace(),
		FirstVisits: nav.FirstVisits(),
		Stats:       stats,
		Approached:  found.Approached,
		Rejected:    nav.InvalidMoves(),
	}, nil
}
