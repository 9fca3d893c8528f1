package main

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dd0wney/mazewalk/pkg/authority"
	"github.com/dd0wney/mazewalk/pkg/health"
	"github.com/dd0wney/mazewalk/pkg/logging"
	"github.com/dd0wney/mazewalk/pkg/maze"
	"github.com/dd0wney/mazewalk/pkg/metrics"
	"github.com/dd0wney/mazewalk/pkg/validation"
)

type authorityOptions struct {
	addr        string
	mazeFile    string
	generate    authority.GenerateOptions
	reject      []uint
	garbleAfter int
	maxAgents   int
}

func newAuthorityCmd(root *rootOptions) *cobra.Command {
	opts := &authorityOptions{generate: authority.DefaultGenerateOptions()}

	cmd := &cobra.Command{
		Use:   "authority",
		Short: "Serve a maze over websocket for local runs",
		Long: `authority serves one maze at ws://<addr>/ws/<group>/<maze> using the same
text protocol as the real authority. The maze is read from --maze-file or
generated from the generation flags; every group and maze identifier gets the
same maze. Prometheus metrics are served at /metrics, liveness at /livez and
readiness at /readyz.`,
		Example: `  mazewalk authority --addr :8000 --vertices 64 --exits 3 --seed 42
  mazewalk authority --maze-file maze.yaml --reject 5,9`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthority(cmd, root, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.addr, "addr", ":8000", "listen address")
	flags.StringVar(&opts.mazeFile, "maze-file", "", "YAML maze definition; generated when empty")
	flags.IntVar(&opts.generate.Vertices, "vertices", opts.generate.Vertices, "generated maze size")
	flags.IntVar(&opts.generate.Exits, "exits", opts.generate.Exits, "number of exits in a generated maze")
	flags.IntVar(&opts.generate.MaxWeight, "max-weight", opts.generate.MaxWeight, "largest corridor weight in a generated maze")
	flags.IntVar(&opts.generate.ExtraCorridors, "extra-corridors", opts.generate.ExtraCorridors, "corridors added on top of the spanning tree")
	flags.IntVar(&opts.generate.DuplicateEdges, "duplicate-edges", opts.generate.DuplicateEdges, "edges reported twice with a heavier weight")
	flags.Uint64Var(&opts.generate.Seed, "seed", opts.generate.Seed, "generation seed")
	flags.UintSliceVar(&opts.reject, "reject", nil, "vertices the authority refuses to move agents into")
	flags.IntVar(&opts.garbleAfter, "garble-after", 0, "answer with garbage after this many commands (0 disables)")
	flags.IntVar(&opts.maxAgents, "max-agents", 0, "connected agents above which readiness degrades (0 disables)")

	return cmd
}

func (o *authorityOptions) load() (*authority.Maze, error) {
	if o.mazeFile != "" {
		return authority.LoadFile(o.mazeFile)
	}
	return authority.Generate(o.generate)
}

func (o *authorityOptions) faults() authority.Faults {
	f := authority.Faults{GarbleAfter: o.garbleAfter}
	if len(o.reject) > 0 {
		f.Reject = make(map[maze.VertexID]bool, len(o.reject))
		for _, v := range o.reject {
			f.Reject[maze.VertexID(v)] = true
		}
	}
	return f
}

func runAuthority(cmd *cobra.Command, root *rootOptions, opts *authorityOptions) error {
	if err := validation.NewConfigValidator("authority").
		Required("addr", opts.addr).
		NonNegative("garble-after", opts.garbleAfter).
		NonNegative("max-agents", opts.maxAgents).
		When(root.logFormat != "", func(v *validation.ConfigValidator) {
			v.OneOf("log-format", root.logFormat, []string{"json", "text"})
		}).
		Validate(); err != nil {
		return err
	}

	logger := logging.New(cmd.ErrOrStderr(),
		validation.DefaultOr(root.logFormat, "text"), validation.DefaultOr(root.logLevel, "info"))

	m, err := opts.load()
	if err != nil {
		return fmt.Errorf("loading maze: %w", err)
	}
	entry, _ := m.Entry()
	weight, reachable := m.ShortestExit()
	logger.Info("maze ready",
		logging.Count(len(m.Vertices)),
		logging.Vertex(entry),
		logging.Bool("exit_reachable", reachable),
		logging.Weight(weight))

	registry := metrics.NewRegistry()
	server := authority.NewServer(authority.Static(m), authority.ServerOptions{
		Logger:  logger,
		Metrics: registry,
		Faults:  opts.faults(),
	})

	mux := http.NewServeMux()
	mux.Handle("/ws/", server)
	mux.Handle("/metrics", registry.Handler())
	newChecker(m, server, opts.maxAgents).Mount(mux)

	ln, err := net.Listen("tcp", opts.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", opts.addr, err)
	}
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error { return serve(gctx, srv, ln, logger) })
	g.Go(func() error { return refreshSystemMetrics(gctx, registry, 15*time.Second) })
	return g.Wait()
}

func newChecker(m *authority.Maze, server *authority.Server, maxAgents int) *health.Checker {
	checker := health.NewChecker()
	checker.Register(health.Liveness, "process", health.Alive)
	checker.Register(health.Liveness, "memory", health.MemoryProbe(0.9))
	checker.Register(health.Readiness, "maze", health.MazeProbe(func() (int, bool, bool) {
		_, err := m.Entry()
		_, reachable := m.ShortestExit()
		return len(m.Vertices), err == nil, reachable
	}))
	checker.Register(health.Readiness, "sessions", health.SessionsProbe(server.Active, maxAgents))
	return checker
}
