// Sweep runs the scheduled billing jobs once: recurring invoicing and the
// usage counter reset. Intended to be invoked from cron or a scheduler pod.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"allnimall-store-be/internal/bootstrap"
	"allnimall-store-be/internal/config"
	"allnimall-store-be/pkg/database"
	"allnimall-store-be/pkg/lock"

	"github.com/redis/go-redis/v9"
)

const sweepLockName = "billing_sweep"

func main() {
	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// The lock keeps overlapping scheduler runs from double-invoicing.
	opts, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Panicf("Invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(opts)
	sweepLock := lock.NewRedisLock(rdb)

	acquired, err := sweepLock.Acquire(ctx, sweepLockName, cfg.Billing.SweepLockTTL)
	if err != nil {
		log.Panicf("Failed to acquire sweep lock: %v", err)
	}
	if !acquired {
		log.Println("Another sweep is already running, exiting")
		return
	}
	defer func() {
		if err := sweepLock.Release(context.Background(), sweepLockName); err != nil {
			log.Printf("[WARN] Failed to release sweep lock: %v", err)
		}
	}()

	now := time.Now()
	failed := false

	billing, err := container.BillingService.ProcessRecurringBilling(ctx, now)
	if err != nil {
		log.Printf("[ERROR] Recurring billing sweep failed: %v", err)
		failed = true
	} else {
		log.Printf("Recurring billing: processed=%d succeeded=%d failed=%d",
			billing.Processed, billing.Succeeded, billing.Failed)
	}

	reset, err := container.BillingService.ResetUsageCounters(ctx, now)
	if err != nil {
		log.Printf("[ERROR] Usage reset sweep failed: %v", err)
		failed = true
	} else {
		log.Printf("Usage reset: %d counters zeroed", reset.ResetCount)
	}

	// Schedulers alert on exit status, so a failed sweep must not exit 0.
	// os.Exit skips the deferred release, so drop the lock here first.
	if failed {
		_ = sweepLock.Release(context.Background(), sweepLockName)
		os.Exit(1)
	}
}
