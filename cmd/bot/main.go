package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gradebot/internal/config"
	"gradebot/internal/handler"
	"gradebot/internal/portal"
	"gradebot/internal/repository"
	"gradebot/internal/repository/memory"
	"gradebot/internal/repository/postgres"
	"gradebot/internal/router"
	"gradebot/internal/server"
	"gradebot/internal/service"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Gradebot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully",
		zap.String("mode", cfg.BotMode),
		zap.Bool("audit", cfg.AuditEnabled()),
	)

	// Fetch audit log: PostgreSQL when configured, memory otherwise
	var fetchLog repository.FetchLogRepository
	if cfg.AuditEnabled() {
		db, err := connectDatabase(cfg.DSN(), logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		logger.Info("Database connection established")

		if err := runMigrations(db, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}

		logger.Info("Database migrations completed")
		fetchLog = postgres.NewFetchLogRepo(db)
	} else {
		fetchLog = memory.NewFetchLogRepo()
	}

	// Initialize repositories
	userRepo := memory.NewUserRepo()
	stageRepo := memory.NewStageRepo()

	// Initialize portal client
	portalClient := portal.NewClient(portal.Options{
		BaseURL:     cfg.Portal.BaseURL,
		Timeout:     cfg.Portal.Timeout,
		GradesTable: cfg.Portal.GradesTable,
	}, logger)

	// Initialize services
	conversationService := service.NewConversationService(userRepo, stageRepo, logger)
	gradeService := service.NewGradeService(userRepo, portalClient, fetchLog, logger)
	statsService := service.NewStatsService(fetchLog, cfg.AuditRetentionDays, logger)

	r := router.NewRouter(userRepo, conversationService, gradeService, logger)

	// Initialize Telegram bot
	settings := tele.Settings{Token: cfg.BotToken}
	if cfg.BotMode == config.ModePolling {
		settings.Poller = &tele.LongPoller{Timeout: 10 * time.Second}
	} else {
		// Webhook updates are handled inside the HTTP request
		settings.Synchronous = true
	}

	bot, err := tele.NewBot(settings)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	// Initialize handler
	h := handler.NewHandler(bot, r, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Start cleanup job in background
	g.Go(func() error {
		runCleanupJob(ctx, statsService, logger)
		return nil
	})

	if cfg.BotMode == config.ModePolling {
		g.Go(func() error {
			logger.Info("Bot started successfully", zap.String("mode", cfg.BotMode))
			bot.Start()
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			logger.Info("Shutdown signal received, stopping bot...")
			bot.Stop()
			return nil
		})
	} else {
		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           server.NewServer(bot, r, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			logger.Info("Webhook server started", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("webhook server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			logger.Info("Shutdown signal received, stopping server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
		return
	}

	logger.Info("Bot stopped gracefully")
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		// Test connection
		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		// Connection successful
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}

// runCleanupJob prunes the fetch audit log once a day
func runCleanupJob(ctx context.Context, statsService *service.StatsService, logger *zap.Logger) {
	// Run cleanup once at startup
	if err := statsService.CleanupOldData(); err != nil {
		logger.Error("Failed to run initial cleanup", zap.Error(err))
	}

	// Then run every 24 hours
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup job stopped")
			return
		case <-ticker.C:
			logger.Info("Running scheduled cleanup")
			if err := statsService.CleanupOldData(); err != nil {
				logger.Error("Failed to run scheduled cleanup", zap.Error(err))
			}
		}
	}
}

