package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// RunOptions controls the lifetime of a running server.
type RunOptions struct {
	ShutdownTimeout time.Duration
	PurgeInterval   time.Duration
}

func DefaultRunOptions() RunOptions {
	return RunOptions{
		ShutdownTimeout: 5 * time.Second,
		PurgeInterval:   time.Hour,
	}
}

// Purger removes expired credentials.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Run serves handler on ln until ctx is cancelled, then shuts down
// gracefully. Expired tokens are purged periodically while running.
func Run(ctx context.Context, ln net.Listener, handler http.Handler, purger Purger, logger *slog.Logger, opts RunOptions) error {
	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening", "addr", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})

	if purger != nil && opts.PurgeInterval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(opts.PurgeInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					n, err := purger.PurgeExpired(gctx)
					if err != nil {
						logger.Warn("purging expired tokens", "error", err)
						continue
					}
					if n > 0 {
						logger.Debug("purged expired tokens", "count", n)
					}
				}
			}
		})
	}

	return g.Wait()
}
