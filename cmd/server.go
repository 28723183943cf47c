package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"movies-api/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// APIServer listens on the configured port and serves handler until ctx
// is cancelled.
func APIServer(ctx context.Context, handler http.Handler, config *utils.Config, logger *zap.Logger) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%s", config.App.Port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	return Serve(ctx, ln, handler, config, logger)
}

// Serve runs handler on ln. Cancelling ctx stops accepting new
// connections and waits for in-flight requests, bounded by the shutdown
// timeout. Request contexts are not derived from ctx, so a shutdown
// signal does not abort requests that are already being handled.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, config *utils.Config, logger *zap.Logger) error {
	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
		IdleTimeout:  config.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
		defer cancel()

		logger.Info("Shutting down server", zap.Duration("timeout", config.Server.ShutdownTimeout))
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
