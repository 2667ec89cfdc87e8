package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aperrin/fitledger/internal/api"
	"github.com/aperrin/fitledger/internal/config"
	"github.com/aperrin/fitledger/internal/metrics"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the FitLedger API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()
	slog.Info("store opened", "driver", cfg.Database.Driver)

	m := metrics.New()
	if b.pool != nil {
		pool := b.pool
		m.RegisterDBPool(func() (total, idle, acquired int32) {
			st := pool.Stat()
			return st.TotalConns(), st.IdleConns(), st.AcquiredConns()
		})
	}

	svcs := newServices(b, cfg, m)

	var pinger api.Pinger
	if b.pool != nil {
		pinger = b.pool
	}

	router := api.NewRouter(api.RouterDeps{
		Users:          svcs.users,
		Teams:          svcs.teams,
		Activities:     svcs.activities,
		Workouts:       svcs.workouts,
		Leaderboard:    svcs.board,
		Metrics:        m,
		DB:             pinger,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}
