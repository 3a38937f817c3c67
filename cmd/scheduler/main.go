package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"brokerage_backend/internal/ai"
	"brokerage_backend/internal/email"
	"brokerage_backend/internal/leads"
	"brokerage_backend/internal/prospecting"
	"brokerage_backend/internal/prospecting/portal"
	"brokerage_backend/internal/prospecting/sources"
	"brokerage_backend/internal/scheduler"
	"brokerage_backend/platform/config"
	"brokerage_backend/platform/db"
	"brokerage_backend/platform/events"
	"brokerage_backend/platform/logger"
	"brokerage_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	var mailer email.Sender = email.NoopSender{}
	if smtp := email.NewSMTPSender(cfg); smtp != nil {
		mailer = smtp
	} else {
		log.Warn("SMTP not configured; reminder emails disabled")
	}

	val := validator.New()

	// Lead capture for scanner-sourced opportunities. Follow-up scheduling
	// stays on the API side, so no scheduler client here.
	leadsModule := leads.NewModule(pool, eventBus, nil, val, log)
	if cfg.IsAIEnabled() {
		if aiClient, err := ai.NewClient(cfg); err != nil {
			log.Error("scoring agent initialisation failed; enquiry scoring disabled", "error", err)
		} else {
			leadsModule.SetEnquiryScorer(ai.NewScorer(aiClient, log), eventBus, log)
		}
	}

	if cfg.PortalBaseURL != "" {
		portalClient := portal.NewClient(cfg)
		aggregator := prospecting.NewAggregator(leadsModule.Service(), log)
		runner := prospecting.NewRunner(sources.All(portalClient, pool, cfg.GetPortalArea()), aggregator, cfg.GetScanDeadline(), log)
		go runner.Start(ctx)
		log.Info("prospecting scanners started", "area", cfg.GetPortalArea())
	} else {
		log.Warn("PORTAL_BASE_URL not configured; prospecting scanners disabled")
	}

	cleanupInterval := getDurationEnv("CONTACT_HISTORY_CLEANUP_INTERVAL", 24*time.Hour)
	retention := time.Duration(getPositiveIntEnv("CONTACT_HISTORY_RETENTION_DAYS", 730)) * 24 * time.Hour
	contactCleanup := scheduler.NewContactHistoryCleanup(pool, log, cleanupInterval, retention)
	go contactCleanup.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, cfg.NotificationsEmail, pool, mailer, eventBus, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}

func getPositiveIntEnv(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}

	return parsed
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}

	return parsed
}
