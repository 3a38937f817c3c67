package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brokerage_backend/internal/ai"
	"brokerage_backend/internal/appointments"
	"brokerage_backend/internal/automation"
	"brokerage_backend/internal/documents"
	"brokerage_backend/internal/email"
	apphttp "brokerage_backend/internal/http"
	"brokerage_backend/internal/http/router"
	"brokerage_backend/internal/leads"
	leadservice "brokerage_backend/internal/leads/service"
	"brokerage_backend/internal/scheduler"
	"brokerage_backend/internal/sms"
	"brokerage_backend/internal/webhook"
	"brokerage_backend/internal/whatsapp"
	"brokerage_backend/internal/workflows"
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

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	schedClient, closeScheduler := initScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	var mailer email.Sender = email.NoopSender{}
	if smtp := email.NewSMTPSender(cfg); smtp != nil {
		mailer = smtp
		log.Info("email sender initialized", "host", cfg.SMTPHost)
	} else {
		log.Warn("SMTP not configured; outbound email disabled")
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Automation Channels
	// ========================================================================

	dispatcher := automation.New(automation.NewTemplateRepository(pool), log)
	dispatcher.SetEmailSender(mailer)
	if waClient := whatsapp.NewClient(cfg, log); waClient != nil {
		dispatcher.SetWhatsAppSender(waClient)
	} else {
		log.Warn("WhatsApp gateway not configured; WhatsApp automations disabled")
	}
	if smsClient := sms.NewClient(cfg, log); smsClient != nil {
		dispatcher.SetSMSSender(smsClient)
	} else {
		log.Warn("SMS credentials not configured; SMS automations disabled")
	}

	appointmentsModule := appointments.NewModule(pool)
	dispatcher.SetAppointmentScheduler(appointments.NewScheduler(appointmentsModule.Repository(), log))

	docStore, err := documents.NewStore(cfg, pool, log)
	if err != nil {
		log.Warn("document storage not configured; document automations disabled", "error", err)
	} else {
		if err := withRetry(ctx, log, "ensure documents bucket", 5, 2*time.Second, func() error {
			return docStore.EnsureBucket(ctx)
		}); err != nil {
			log.Error("failed to ensure documents bucket", "error", err)
			panic("failed to ensure documents bucket: " + err.Error())
		}
		dispatcher.SetDocumentGenerator(docStore)
		log.Info("document storage initialized", "bucket", cfg.GetMinioBucketDocuments())
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	var followUps leadservice.FollowUpScheduler
	if schedClient != nil {
		followUps = schedClient
	}

	leadsModule := leads.NewModule(pool, eventBus, followUps, val, log)

	var aiModule *ai.Module
	if cfg.IsAIEnabled() {
		aiClient, err := ai.NewClient(cfg)
		if err != nil {
			log.Error("scoring agent initialisation failed; enquiry scoring disabled", "error", err)
		} else {
			scorer := ai.NewScorer(aiClient, log)
			leadsModule.SetEnquiryScorer(scorer, eventBus, log)
			aiModule = ai.NewModule(scorer, val)
			log.Info("enquiry scoring enabled", "model", cfg.AIModel)
		}
	} else {
		log.Warn("AI_API_KEY not configured; enquiry scoring disabled")
	}

	workflowsModule := workflows.NewModule(pool, eventBus, dispatcher, val)
	webhookModule := webhook.NewModule(leadsModule.Service(), cfg, val, log)

	if schedClient != nil {
		scheduler.SubscribeStageReminders(eventBus, schedClient, log)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	modules := []apphttp.Module{
		leadsModule,
		workflowsModule,
		webhookModule,
		appointmentsModule,
	}
	if docStore != nil {
		modules = append(modules, documents.NewModule(docStore))
	}
	if aiModule != nil {
		modules = append(modules, aiModule)
	}

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules:  modules,
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; follow-up and stall reminders disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
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
