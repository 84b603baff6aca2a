package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"helpdesk/internal/config"
	"helpdesk/internal/database"
	"helpdesk/internal/repository"
	"helpdesk/internal/repository/memory"
	"helpdesk/internal/repository/postgres"
	"helpdesk/internal/router"
	"helpdesk/internal/service"
	"helpdesk/pkg/logger"
)

func main() {
	// config + logger
	cfg := config.Load()
	l := logger.New(cfg.Env)

	// store: postgres when a DSN is configured, memory otherwise
	var store repository.Store
	seed := cfg.SeedDemo
	if cfg.DBURL != "" {
		if err := database.Migrate(cfg.DBURL); err != nil {
			l.Fatal().Err(err).Msg("db migration failed")
		}
		pool, err := database.Open(context.Background(), cfg)
		if err != nil {
			l.Fatal().Err(err).Msg("db connect failed")
		}
		defer pool.Close()
		store = postgres.NewStore(pool)
		l.Info().Msg("using postgres store")
	} else {
		store = memory.New()
		seed = true
		l.Warn().Msg("DB_DSN not set, using in-memory store; data is lost on restart")
	}

	svc := service.New(store, cfg.SessionSecret, cfg.SessionTTL, l)
	if seed {
		if err := svc.SeedDemo(context.Background()); err != nil {
			l.Fatal().Err(err).Msg("seeding demo data failed")
		}
	}

	// http
	r := router.New(l, cfg, store, svc)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		l.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	l.Info().Msg("shutdown complete")
}
