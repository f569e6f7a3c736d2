package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ericogr/monster-arena/internal/constants"
	"github.com/ericogr/monster-arena/internal/logging"
	"github.com/ericogr/monster-arena/internal/session"
)

const shutdownTimeout = 10 * time.Second

// serve runs the HTTP server and the session sweeper until ctx is cancelled
// or one of them fails.
func serve(ctx context.Context, addr string, handler http.Handler, sessions *session.Manager) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return sessions.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logging.Info("Server shutting down", logging.Fields{constants.LogFieldAddr: addr})
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
