package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/Dosada05/team-league/config"
	"github.com/Dosada05/team-league/db"
	"github.com/Dosada05/team-league/db/migrations"
	"github.com/Dosada05/team-league/handlers"
	"github.com/Dosada05/team-league/middleware"
	"github.com/Dosada05/team-league/pairing"
	"github.com/Dosada05/team-league/realtime"
	"github.com/Dosada05/team-league/repositories"
	api "github.com/Dosada05/team-league/routes"
	"github.com/Dosada05/team-league/services"
	"github.com/Dosada05/team-league/storage"
)

const shutdownTimeout = 15 * time.Second

// @title Team League API
// @version 1.0
// @description Командная лига: недели, пары, результаты, таблица и power score.
// @BasePath /api/v1
func main() {
	if err := run(); err != nil {
		slog.Error("application exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("log_level", cfg.LogLevel.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, cfg.DBConnectTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(ctx, dbConn, migrations.FS, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	logger.Info("database migrations applied")

	// Экспорт таблицы в Cloudflare R2 (опционально)
	var exporter *services.StandingsExporter
	r2Cfg := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if r2Cfg.Enabled() {
		uploader, err := storage.NewCloudflareR2Uploader(ctx, r2Cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		exporter = services.NewStandingsExporter(uploader)
		logger.Info("Cloudflare R2 standings export enabled", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Info("Cloudflare R2 not configured, standings export disabled")
	}

	// Инициализация WebSocket Hub
	wsHub := realtime.NewHub(logger)
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	leagueRepo := repositories.NewPostgresLeagueRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	weekRepo := repositories.NewPostgresWeekRepository(dbConn)
	matchupRepo := repositories.NewPostgresMatchupRepository(dbConn)
	selectionRepo := repositories.NewPostgresSelectionRepository(dbConn)
	transactor := repositories.NewTransactor(dbConn, logger)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	loader := services.NewSnapshotLoader(leagueRepo, teamRepo, weekRepo, matchupRepo, selectionRepo)
	standingsService := services.NewStandingsService(loader, logger)
	leagueService := services.NewLeagueService(leagueRepo, teamRepo, transactor, loader, logger)
	weekService := services.NewWeekService(
		leagueRepo,
		teamRepo,
		weekRepo,
		matchupRepo,
		selectionRepo,
		transactor,
		loader,
		pairing.NewRoundRobinPairer(),
		standingsService,
		exporter,
		wsHub,
		logger,
	)
	logger.Info("Services initialized")

	// Планировщик: завершение опубликованных недель, где все матчи решены
	go runCompletionSweep(ctx, weekService, cfg.CompletionSweepInterval, logger)

	// Инициализация обработчиков HTTP
	leagueHandler := handlers.NewLeagueHandler(leagueService)
	weekHandler := handlers.NewWeekHandler(weekService)
	standingsHandler := handlers.NewStandingsHandler(standingsService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, leagueService, cfg.CORSAllowedOrigins, logger)

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			RequestLogger:  middleware.RequestLogger(logger),
			RateLimiter:    middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger),
		},
		leagueHandler,
		weekHandler,
		standingsHandler,
		webSocketHandler,
	)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped")
	case <-ctx.Done():
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
	return nil
}

func runCompletionSweep(ctx context.Context, weeks services.WeekService, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Info("Week completion scheduler started", slog.Duration("interval", interval))

	sweep := func() {
		n, err := weeks.SweepCompletion(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("Scheduler: completion sweep failed", slog.Any("error", err))
			}
			return
		}
		if n > 0 {
			logger.Info("Scheduler: weeks completed", slog.Int("count", n))
		}
	}

	// Первый запуск сразу, дальше по тикеру
	sweep()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Week completion scheduler stopped")
			return
		case <-ticker.C:
			sweep()
		}
	}
}
