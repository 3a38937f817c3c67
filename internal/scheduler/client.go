package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"brokerage_backend/internal/events"
	workflowdomain "brokerage_backend/internal/workflows/domain"
	"brokerage_backend/platform/config"
	"brokerage_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// stageReminderDelay is how long a workflow may sit in one stage before
// the stall check fires.
const stageReminderDelay = 7 * 24 * time.Hour

type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
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

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleLeadFollowUp enqueues the follow-up reminder for a lead.
func (c *Client) ScheduleLeadFollowUp(ctx context.Context, leadID uuid.UUID, runAt time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewLeadFollowUpTask(LeadFollowUpPayload{LeadID: leadID.String()})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.ProcessAt(runAt), asynq.Queue(c.queue))
	return err
}

// ScheduleStageReminder enqueues the stall check for a workflow stage.
func (c *Client) ScheduleStageReminder(ctx context.Context, workflowID uuid.UUID, stage string, runAt time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewWorkflowStageReminderTask(WorkflowStageReminderPayload{
		WorkflowID: workflowID.String(),
		Stage:      stage,
	})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.ProcessAt(runAt), asynq.Queue(c.queue))
	return err
}

// SubscribeStageReminders schedules a stall check whenever a workflow
// changes stage. Terminal stages get no reminder.
func SubscribeStageReminders(bus events.Bus, client *Client, log *logger.Logger) {
	bus.Subscribe(events.WorkflowStageChanged{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.WorkflowStageChanged)
		if !ok || !reminderNeeded(e.Stage) {
			return nil
		}
		if err := client.ScheduleStageReminder(ctx, e.WorkflowID, e.Stage, time.Now().Add(stageReminderDelay)); err != nil {
			log.Error("stage reminder scheduling failed", "error", err, "workflowId", e.WorkflowID)
		}
		return nil
	}))
}

// reminderNeeded reports whether a stage change should schedule a stall
// check. Terminal stages end the workflow and get no reminder.
func reminderNeeded(stage string) bool {
	return !workflowdomain.Stage(stage).Terminal()
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
