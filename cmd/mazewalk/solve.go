package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dd0wney/mazewalk/pkg/config"
	"github.com/dd0wney/mazewalk/pkg/logging"
	"github.com/dd0wney/mazewalk/pkg/metrics"
	"github.com/dd0wney/mazewalk/pkg/report"
	"github.com/dd0wney/mazewalk/pkg/session"
)

type solveOptions struct {
	group       string
	mazeID      string
	url         string
	resultsDir  string
	order       string
	layout      string
	metricsAddr string
	noFiles     bool
	noColor     bool
}

func newSolveCmd(root *rootOptions) *cobra.Command {
	opts := &solveOptions{}

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Explore a maze on the authority and report the cheapest exit",
		Long: `solve opens a session on the authority, explores every reachable vertex,
searches the known graph for the minimum-weight route to an exit and prints the
analysis. Results are written to <results>/maze_<id>/ unless --no-files is set.

Settings come from --config, then MAZE_* environment variables, then flags.`,
		Example: `  MAZE_GRUPO_ID=g7 MAZE_LABIRINTO_ID=3 mazewalk solve
  mazewalk solve --group g7 --maze 3 --url ws://localhost:8000/ws/ --order lowest-id`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, root, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.group, "group", "g", "", "group identifier (MAZE_GRUPO_ID)")
	flags.StringVarP(&opts.mazeID, "maze", "m", "", "maze identifier (MAZE_LABIRINTO_ID)")
	flags.StringVar(&opts.url, "url", "", "authority websocket base URL (MAZE_WEBSOCKET_URL)")
	flags.StringVar(&opts.resultsDir, "results", "", "directory for result files (MAZE_RESULTS_DIR)")
	flags.StringVar(&opts.order, "order", "", "neighbor order: as-reported, lowest-id or lightest")
	flags.StringVar(&opts.layout, "layout", "", "HTML visualization layout: hierarchical, circular or force (MAZE_LAYOUT)")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while solving")
	flags.BoolVar(&opts.noFiles, "no-files", false, "do not write result files")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable coloured output")

	return cmd
}

func (o *solveOptions) apply(root *rootOptions) config.Override {
	return func(c *config.Config) {
		set := func(dst *string, v string) {
			if v != "" {
				*dst = v
			}
		}
		set(&c.GroupID, o.group)
		set(&c.MazeID, o.mazeID)
		set(&c.WebSocketURL, o.url)
		set(&c.ResultsDir, o.resultsDir)
		set(&c.NeighborOrder, o.order)
		set(&c.Layout, o.layout)
		set(&c.MetricsAddr, o.metricsAddr)
		set(&c.LogLevel, root.logLevel)
		set(&c.LogFormat, root.logFormat)
	}
}

func runSolve(cmd *cobra.Command, root *rootOptions, opts *solveOptions) error {
	cfg, err := config.Load(root.configPath, opts.apply(root))
	if err != nil {
		return &session.Error{Category: session.CategoryConfig, Stage: "configure", Err: err}
	}

	logger := logging.New(cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel)
	registry := metrics.NewRegistry()

	g, gctx := errgroup.WithContext(cmd.Context())
	sessionCtx, sessionDone := context.WithCancel(gctx)
	defer sessionDone()

	if cfg.MetricsAddr != "" {
		ln, err := net.Listen("tcp", cfg.MetricsAddr)
		if err != nil {
			return fmt.Errorf("metrics listener: %w", err)
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", registry.Handler())
		srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			return serve(sessionCtx, srv, ln, logger.With(logging.Component("metrics")))
		})
	}

	var result *session.Result
	g.Go(func() error {
		defer sessionDone()
		var err error
		result, err = session.Run(sessionCtx, cfg, session.Options{Logger: logger, Metrics: registry})
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	analysis := report.Analysis{
		MazeID: cfg.MazeID,
		Graph:  result.Graph,
		Entry:  result.Entry,
		Trace:  result.Trace,
		Path:   result.Path,
		Weight: result.Weight,
		Found:  result.Found,
		Layout: cfg.Layout,
	}

	out := cmd.OutOrStdout()
	if err := report.PrintSummary(out, analysis, !opts.noColor); err != nil {
		return err
	}

	if opts.noFiles {
		return nil
	}
	files, err := report.WriteResults(cfg.ResultsDir, analysis)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nResults saved in: %s\n", files.Dir)
	fmt.Fprintf(out, "- Text output: %s\n", files.Text)
	fmt.Fprintf(out, "- HTML visualization: %s\n", files.HTML)
	fmt.Fprintf(out, "- Layout data: %s\n", files.Layout)
	fmt.Fprintf(out, "- Known graph snapshot: %s\n", files.Snapshot)
	return nil
}
