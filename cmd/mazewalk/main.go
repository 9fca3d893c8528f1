package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dd0wney/mazewalk/pkg/session"
)

// Exit codes by failure category.
const (
	exitInternal  = 1
	exitConfig    = 2
	exitProtocol  = 3
	exitTransport = 4
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var sessionErr *session.Error
	if !errors.As(err, &sessionErr) {
		return exitInternal
	}
	switch sessionErr.Category {
	case session.CategoryConfig:
		return exitConfig
	case session.CategoryProtocol:
		return exitProtocol
	case session.CategoryTransport:
		return exitTransport
	default:
		return exitInternal
	}
}

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "mazewalk",
		Short: "Explore an unknown weighted maze and find the cheapest way out",
		Long: `mazewalk connects to a maze authority over websocket, explores every
reachable vertex one move at a time, and reports the minimum-weight route from
the entry to an exit.

The authority subcommand serves a generated or YAML-defined maze speaking the
same protocol, for local runs and testing.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(newSolveCmd(opts), newAuthorityCmd(opts))
	return root
}
