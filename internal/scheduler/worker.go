package scheduler

import (
	"context"
	"fmt"
	"time"

	"brokerage_backend/internal/email"
	"brokerage_backend/internal/events"
	leadsrepo "brokerage_backend/internal/leads/repository"
	workflowsrepo "brokerage_backend/internal/workflows/repository"
	"brokerage_backend/platform/config"
	"brokerage_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Worker struct {
	server      *asynq.Server
	mux         *asynq.ServeMux
	leads       *leadsrepo.Repository
	workflows   *workflowsrepo.Repository
	mailer      email.Sender
	notifyEmail string
	bus         events.Bus
	log         *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, notifyEmail string, pool *pgxpool.Pool, mailer email.Sender, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:      server,
		mux:         mux,
		leads:       leadsrepo.New(pool),
		workflows:   workflowsrepo.New(pool),
		mailer:      mailer,
		notifyEmail: notifyEmail,
		bus:         bus,
		log:         log,
	}

	mux.HandleFunc(TaskLeadFollowUp, w.handleLeadFollowUp)
	mux.HandleFunc(TaskWorkflowStageReminder, w.handleWorkflowStageReminder)

	return w, nil
}

// handleLeadFollowUp fires when an unanswered outreach attempt's reminder
// comes due. Leads that resolved in the meantime are skipped silently.
func (w *Worker) handleLeadFollowUp(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadFollowUpPayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	lead, err := w.leads.GetByID(ctx, leadID)
	if err != nil {
		return err
	}
	if lead.Status.Terminal() {
		return nil
	}

	lastOutcome := ""
	if history, err := w.leads.ListContactHistory(ctx, leadID); err == nil && len(history) > 0 {
		lastOutcome = history[len(history)-1].Outcome
	}

	if w.bus != nil {
		event := events.LeadFollowUpDue{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			Name:      lead.Name,
		}
		if lead.Email != nil {
			event.Email = *lead.Email
		}
		if lead.Phone != nil {
			event.Phone = *lead.Phone
		}
		w.bus.Publish(ctx, event)
	}

	if w.mailer != nil && w.notifyEmail != "" {
		name := lead.Name
		if name == "" {
			name = lead.SourceIdentifier
		}
		if err := w.mailer.SendFollowUpReminder(ctx, w.notifyEmail, name, lastOutcome); err != nil {
			w.log.Error("follow-up reminder email failed", "error", err, "leadId", leadID)
		}
	}

	return nil
}

// handleWorkflowStageReminder compares the stage recorded at scheduling
// time with the current stage; an unchanged stage means the workflow has
// stalled.
func (w *Worker) handleWorkflowStageReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseWorkflowStageReminderPayload(task)
	if err != nil {
		return err
	}

	workflowID, err := uuid.Parse(payload.WorkflowID)
	if err != nil {
		return err
	}

	workflow, err := w.workflows.GetByID(ctx, workflowID)
	if err != nil {
		return err
	}
	if string(workflow.Stage) != payload.Stage {
		return nil
	}

	staleSince := workflow.UpdatedAt
	if history, err := w.workflows.StageHistory(ctx, workflowID); err == nil && len(history) > 0 {
		staleSince = history[len(history)-1].EnteredAt
	}
	daysInStage := int(time.Since(staleSince).Hours() / 24)

	if w.bus != nil {
		w.bus.Publish(ctx, events.WorkflowStalled{
			BaseEvent:  events.NewBaseEvent(),
			WorkflowID: workflowID,
			Stage:      payload.Stage,
			StaleSince: staleSince.Format(time.RFC3339),
		})
	}

	if w.mailer != nil && w.notifyEmail != "" {
		if err := w.mailer.SendStageReminder(ctx, w.notifyEmail, workflow.PropertyAddress, payload.Stage, daysInStage); err != nil {
			w.log.Error("stage reminder email failed", "error", err, "workflowId", workflowID)
		}
	}

	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
