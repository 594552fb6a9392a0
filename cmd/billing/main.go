// Package main runs one wallet billing sweep and exits. Intended to be
// scheduled daily (cron or a Kubernetes CronJob); charging is
// idempotent per calendar month, so overlapping runs are safe.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"sweetflow/internal/core/clock"
	"sweetflow/internal/domain/platform"
	"sweetflow/internal/infrastructure/storage/postgres"
	"sweetflow/internal/infrastructure/storage/postgres/platform_repo"
	"sweetflow/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	log.Info("starting billing sweep")

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(mustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	tenantRepo := platform_repo.NewTenantRepo(txManager)
	planRepo := platform_repo.NewPlanRepo(txManager)
	service := platform.NewService(tenantRepo, planRepo, txManager, clock.System{})

	result, err := service.ChargeDueTenants(ctx)
	if err != nil {
		log.Fatalw("billing sweep failed", "error", err)
	}

	log.Infow("billing sweep complete",
		"charged", result.Charged,
		"suspended", result.Suspended,
		"skipped", result.Skipped,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}
