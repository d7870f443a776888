package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/api/dashboard"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/cache"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/config"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/repository"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/service/badges"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/service/scheduler"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/service/sessions"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/service/streaks"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log := logger.Get()

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	loc, err := cfg.Streaks.GetLocation()
	if err != nil {
		return fmt.Errorf("invalid streak timezone: %w", err)
	}

	db, err := repository.NewDB(&cfg.Database.Postgres, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return err
	}

	sessionRepo := repository.NewSessionRepository(db)
	streakRepo := repository.NewStreakRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	userRepo := repository.NewUserRepository(db)

	if err := badges.SeedCatalog(badgeRepo, log); err != nil {
		return err
	}
	if _, err := userRepo.EnsureDefaultUser("student"); err != nil {
		return err
	}

	// Redis is optional; an empty host runs the service without caching.
	var statusCache streaks.Cache
	if cfg.Database.Redis.Host != "" {
		redisCache, err := cache.NewRedis(&cfg.Database.Redis, log)
		if err != nil {
			return err
		}
		defer redisCache.Close()
		statusCache = redisCache
	} else {
		log.Info().Msg("Redis not configured, streak status caching disabled")
	}

	sessionSvc := sessions.NewService(sessionRepo, log, loc)
	streakSvc := streaks.NewService(
		sessionRepo,
		streakRepo,
		statusCache,
		log,
		loc,
		cfg.Streaks.MinStudyMinutes,
		time.Duration(cfg.Streaks.StatusCacheTTL)*time.Second,
	)
	badgeSvc := badges.NewService(badgeRepo, sessionRepo, streakRepo, userRepo, log, loc)

	sched, err := scheduler.NewService(&cfg.Scheduler, streakSvc, badgeSvc, userRepo, log)
	if err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	handler := dashboard.NewHandler(sessionSvc, streakSvc, badgeSvc, log)
	handler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	if cfg.Metrics.Prometheus.Enabled {
		go serveMetrics(&cfg.Metrics.Prometheus, log)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	log.Info().Msg("Server stopped")
	return nil
}

// serveMetrics exposes the Prometheus endpoint on its own port so metrics
// scraping stays off the public API.
func serveMetrics(cfg *config.PrometheusConfig, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info().Str("addr", addr).Str("path", cfg.Path).Msg("Metrics endpoint listening")

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
