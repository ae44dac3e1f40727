package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	api "github.com/mind-engage/permah/internal/api/http"
	authmw "github.com/mind-engage/permah/internal/auth/middleware"
	"github.com/mind-engage/permah/internal/config"
	"github.com/mind-engage/permah/internal/db"
	"github.com/mind-engage/permah/internal/logging"
	"github.com/mind-engage/permah/internal/metrics"
	"github.com/mind-engage/permah/internal/session"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the survey web service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}

func serve(parent context.Context, cfg config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, dbh, err := openSessionStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	if dbh != nil {
		defer dbh.Close()
	}

	d := api.Deps{
		Sessions: session.NewService(store, session.WithLogger(log)),
		Tokens:   authmw.NewTokens(cfg.SessionSecret, cfg.SessionTTL, cfg.Mode == config.ModeOnline),
		Metrics:  metrics.New(),
		Log:      log,
	}
	opts := api.RouterOptions{CORSOrigins: cfg.CORSOrigins()}
	if dbh != nil {
		opts.Ready = func(r *http.Request) error { return dbh.PingContext(r.Context()) }
	}

	s := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(d, opts),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe() }()
	log.Info("listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("mode", string(cfg.Mode)),
		zap.String("sessions", string(cfg.SessionStore)))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// openSessionStore returns the configured store, plus the database handle
// when the store is SQL-backed.
func openSessionStore(ctx context.Context, cfg config.Config, log *zap.Logger) (session.Store, *sql.DB, error) {
	if cfg.SessionStore != config.SessionSQL {
		return session.NewMemoryStore(cfg.SessionCapacity, cfg.SessionTTL), nil, nil
	}
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return nil, nil, err
	}
	store := session.NewSQLStore(dbh, cfg.SessionTTL)
	go purgeLoop(ctx, store, cfg.PurgeInterval, log)
	return store, dbh, nil
}

func purgeLoop(ctx context.Context, store *session.SQLStore, every time.Duration, log *zap.Logger) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				log.Warn("purge expired sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Debug("purged expired sessions", zap.Int64("count", n))
			}
		}
	}
}
