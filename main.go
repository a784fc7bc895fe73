package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/config"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/database"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/logger"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/mail"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/revocation"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/router"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: ./config.yaml when present)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.JWT.Secret == "" {
		return errors.New("jwt.secret must be set (EMS_JWT_SECRET)")
	}

	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closer.Close()
	slog.SetDefault(log)

	db, err := database.Init(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	if err := database.SeedAccounts(db, cfg.Security); err != nil {
		return fmt.Errorf("seed accounts: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, cleanup, err := newSessionStore(ctx, cfg, db, log)
	if err != nil {
		return err
	}
	defer cleanup()

	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	r := router.SetupRouter(cfg, db, router.Deps{
		Sessions: sessions,
		Mailer:   mail.New(cfg.Mail, log),
		Logger:   log,
		Registry: registry,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("run server: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

// newSessionStore picks the revocation backend from config.
func newSessionStore(ctx context.Context, cfg *config.Config, db *gorm.DB, log *slog.Logger) (revocation.Store, func(), error) {
	switch cfg.Revocation.Backend {
	case "", "db":
		store := revocation.NewDBStore(db)
		go purgeSessions(ctx, store, log)
		return store, func() {}, nil
	case "redis":
		client, err := revocation.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		log.Info("session revocation backed by redis", "addr", cfg.Redis.Addr)
		return revocation.NewRedisStore(client), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown revocation backend %q", cfg.Revocation.Backend)
	}
}

// purgeSessions deletes expired sessions every hour until ctx ends.
func purgeSessions(ctx context.Context, store *revocation.DBStore, log *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Purge(ctx)
			if err != nil {
				log.Error("purge sessions", "error", err)
				continue
			}
			if n > 0 {
				log.Info("purged expired sessions", "count", n)
			}
		}
	}
}
