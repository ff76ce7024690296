package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/franky15/billed-portal/internal/application/port"
	"github.com/franky15/billed-portal/internal/application/service"
	"github.com/franky15/billed-portal/internal/config"
	"github.com/franky15/billed-portal/internal/domain/entity"
	"github.com/franky15/billed-portal/internal/infrastructure/external/lark"
	"github.com/franky15/billed-portal/internal/infrastructure/persistence/repository"
	"github.com/franky15/billed-portal/internal/infrastructure/persistence/sqlite"
	"github.com/franky15/billed-portal/internal/infrastructure/session"
	httpserver "github.com/franky15/billed-portal/internal/interfaces/http"
	"github.com/franky15/billed-portal/pkg/database"
	"github.com/franky15/billed-portal/pkg/utils"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Billed portal",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	if dir := filepath.Dir(cfg.Export.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal("Failed to create export directory", zap.Error(err))
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	sessions := session.NewRedisStore(redisClient, cfg.Redis.SessionTTL, logger)

	billRepo := repository.NewBillRepository(db.DB, logger)
	txManager := sqlite.NewDB(db.DB, logger)

	var notifier port.DecisionNotifier
	if cfg.Lark.Enabled() {
		larkClient := lark.NewClient(lark.Config{
			AppID:     cfg.Lark.AppID,
			AppSecret: cfg.Lark.AppSecret,
		}, logger)
		notifier = lark.NewDecisionNotifier(larkClient, logger)
	} else {
		logger.Info("Decision notifications disabled, no Lark credentials configured")
	}

	appLogger := utils.NewSugarAdapter(logger)

	navigator := port.NavigatorFunc(func(route entity.Route) {
		appLogger.Info("Navigation requested", "route", string(route))
	})

	billsService := service.NewBillsService(billRepo, appLogger)
	dashboardService := service.NewDashboardService(billRepo, cfg.Review.ExcludedEmails, appLogger)
	reviewService := service.NewReviewService(billRepo, txManager, navigator, notifier, appLogger)
	exportService := service.NewExportService(billRepo, cfg.Review.ExcludedEmails, appLogger)

	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			ExportPath:   cfg.Export.OutputPath,
		},
		billsService,
		dashboardService,
		reviewService,
		exportService,
		billRepo,
		sessions,
		appLogger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down server...")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
