package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dd0wney/mazewalk/pkg/logging"
	"github.com/dd0wney/mazewalk/pkg/metrics"
)

const shutdownTimeout = 5 * time.Second

// serve runs srv on ln until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, logger logging.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	logger.Info("listening", logging.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// refreshSystemMetrics updates uptime and goroutine gauges until ctx is done.
func refreshSystemMetrics(ctx context.Context, registry *metrics.Registry, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		registry.UpdateSystemMetrics()
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
