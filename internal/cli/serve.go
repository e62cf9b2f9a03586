package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"llmsvc/internal/config"
	"llmsvc/internal/httpapi"
	"llmsvc/internal/manager"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Short:   "Serve the HTTP API (default)",
		Example: "  llmsvc serve --addr :8083 --backend server",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func configureHTTP(ctx context.Context, cfg config.Config, mgr *manager.Manager) http.Handler {
	httpapi.SetBaseContext(ctx)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetRequestTimeout(cfg.RequestTimeout())
	httpapi.SetRequestLogLevel(cfg.LogLevel)
	httpapi.SetCORSOptions(cfg.CORSOn(), cfg.CORSOrigins, nil, nil)
	return httpapi.NewMux(mgr)
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	log := newLogger(cfg, cmd.ErrOrStderr())
	httpapi.SetLogger(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mgr := newManager(ctx, cfg, log)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           configureHTTP(ctx, cfg, mgr),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.PreloadEnabled() {
		go mgr.Preload(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Addr).
			Str("repo_id", cfg.RepoID).
			Str("model_file", cfg.ModelFile).
			Str("backend", cfg.Backend).
			Msg("llmsvc listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			_ = mgr.Close()
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	if err := mgr.Close(); err != nil {
		log.Warn().Err(err).Msg("engine close error")
	}
	return nil
}
