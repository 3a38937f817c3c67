// Package scheduler runs delayed work over asynq: lead follow-up
// reminders and workflow stage-stall checks.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskLeadFollowUp = "leads.followup.due"

const TaskWorkflowStageReminder = "workflows.stage.reminder"

type LeadFollowUpPayload struct {
	LeadID string `json:"leadId"`
}

// WorkflowStageReminderPayload carries the stage the workflow was in when
// the reminder was scheduled; the handler compares it to the current
// stage to detect a stall.
type WorkflowStageReminderPayload struct {
	WorkflowID string `json:"workflowId"`
	Stage      string `json:"stage"`
}

func NewLeadFollowUpTask(payload LeadFollowUpPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadFollowUp, data), nil
}

func ParseLeadFollowUpPayload(task *asynq.Task) (LeadFollowUpPayload, error) {
	var payload LeadFollowUpPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadFollowUpPayload{}, err
	}
	return payload, nil
}

func NewWorkflowStageReminderTask(payload WorkflowStageReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWorkflowStageReminder, data), nil
}

func ParseWorkflowStageReminderPayload(task *asynq.Task) (WorkflowStageReminderPayload, error) {
	var payload WorkflowStageReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return WorkflowStageReminderPayload{}, err
	}
	return payload, nil
}
