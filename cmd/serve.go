package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"procurement-dashboard/handlers"
	"procurement-dashboard/session"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Long: `Serve the dashboard page, its JSON API, /healthz and /metrics.

If the dataset cannot be loaded the server still starts and answers every
dashboard route with the load failure.

Examples:
  dashboard serve
  dashboard serve --addr :9000 --storage redis --redis-url redis://localhost:6379/0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (default :8090)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := newServer(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting dashboard server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down dashboard server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServer wires storage, the dataset and the router into an http.Server.
// A dataset failure is served, not returned.
func newServer(ctx context.Context) (*http.Server, func(), error) {
	store, closer, err := openLikes()
	if err != nil {
		return nil, nil, fmt.Errorf("opening like storage: %w", err)
	}
	cleanup := func() {
		if err := closer.Close(); err != nil {
			logger.Warn("closing like storage", "error", err)
		}
	}

	var sess *session.Session
	ds, loadErr := loadDataset(ctx)
	if loadErr != nil {
		logger.Error("dataset load failed", "error", loadErr)
	} else {
		sess = session.New(ds, store,
			session.WithThreshold(cfg.Filter.RecommendThreshold),
			session.WithLogger(logger),
		)
	}

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(handlers.New(sess, loadErr, logger))

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
	})

	return &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}, cleanup, nil
}
