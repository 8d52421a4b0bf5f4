package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"task-manager/internal/config"
	"task-manager/internal/logging"
	"task-manager/internal/repository"
	"task-manager/internal/service"
	"task-manager/internal/web"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel)

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	accountSvc := service.NewAccountService(userRepo, cfg.PasswordMinLength)
	categorySvc := service.NewCategoryService(categoryRepo, taskRepo)
	taskSvc := service.NewTaskService(taskRepo, categoryRepo, nil)

	if cfg.PasswordMinLength == 0 {
		logger.Warn(ctx, "password length check disabled", "setting", "PASSWORD_MIN_LENGTH")
	}

	srv := web.NewServer(logger, accountSvc, categorySvc, taskSvc, web.Options{
		SecretKey:    cfg.SecretKey,
		SessionTTL:   cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
	})

	logger.Info(ctx, "task manager started", "version", web.Version, "database", cfg.DatabaseURL)
	if err := srv.Run(ctx, cfg.HTTPAddr); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	logger.Info(context.Background(), "shutdown complete")
	return nil
}
