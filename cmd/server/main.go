package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/eduhub/examcore/internal/config"
	"github.com/eduhub/examcore/internal/database"
	"github.com/eduhub/examcore/internal/grading"
	"github.com/eduhub/examcore/internal/handler"
	"github.com/eduhub/examcore/internal/lock"
	"github.com/eduhub/examcore/internal/logger"
	"github.com/eduhub/examcore/internal/metrics"
	"github.com/eduhub/examcore/internal/middleware"
	"github.com/eduhub/examcore/internal/repository"
	"github.com/eduhub/examcore/internal/router"
	"github.com/eduhub/examcore/internal/service"
	"github.com/eduhub/examcore/internal/validator"
	"github.com/eduhub/examcore/internal/worker"
	"github.com/rs/zerolog"
)

// startLockWait bounds how long a start request waits for a concurrent start to finish.
const startLockWait = 3 * time.Second

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("option_policy", string(cfg.OptionPolicy)).
		Msg("Starting examcore")

	// ─── Initialize Validator & Metrics ────────────────────────────────
	validator.Setup()
	metrics.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	examRepo := repository.NewExamRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	authService := service.NewAuthService(cfg)
	submissionService := service.NewSubmissionService(
		submissionRepo,
		examRepo,
		questionRepo,
		lock.NewRedisLocker(rdb, startLockWait),
		worker.NewRedisEventQueue(rdb),
		grading.NewLockedRand(seed),
		cfg,
		log,
	)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Submission: handler.NewSubmissionHandler(submissionService, log),
		System: handler.NewSystemHandler(map[string]handler.HealthCheck{
			"postgres": pool.Ping,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	eventWorker := worker.NewEventWorker(pool, rdb, log)
	workers.Add(1)
	go func() {
		defer workers.Done()
		eventWorker.Start(workerCtx)
	}()

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(workerCtx.Done())

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, limiter, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers; the event worker flushes what it holds.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
