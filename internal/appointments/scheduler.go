package appointments

import (
	"context"
	"time"

	"brokerage_backend/internal/automation"
	"brokerage_backend/platform/logger"

	"github.com/google/uuid"
)

// Scheduler books appointments on behalf of workflow automations.
type Scheduler struct {
	repo *Repository
	log  *logger.Logger
}

func NewScheduler(repo *Repository, log *logger.Logger) *Scheduler {
	return &Scheduler{repo: repo, log: log}
}

// ScheduleAppointment books the slot. Automations pass a date offset, not
// a time of day; bookings default to 10:00 local and the negotiator
// rearranges with the client.
func (s *Scheduler) ScheduleAppointment(ctx context.Context, workflowID uuid.UUID, appointmentType string, at time.Time) error {
	slot := time.Date(at.Year(), at.Month(), at.Day(), 10, 0, 0, 0, at.Location())
	appointment, err := s.repo.Create(ctx, workflowID, appointmentType, slot)
	if err != nil {
		return err
	}
	s.log.Info("appointment scheduled",
		"workflowId", workflowID,
		"type", appointmentType,
		"at", appointment.ScheduledAt,
	)
	return nil
}

var _ automation.AppointmentScheduler = (*Scheduler)(nil)
