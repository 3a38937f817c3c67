package scheduler

import (
	"testing"

	workflowdomain "brokerage_backend/internal/workflows/domain"
)

// The reminder predicate must track the workflow stage machine: every
// non-terminal stage gets a stall check, terminal stages end the workflow.
func TestReminderNeededFollowsStageMachine(t *testing.T) {
	for _, stage := range workflowdomain.StageOrder {
		got := reminderNeeded(string(stage))
		want := !stage.Terminal()
		if got != want {
			t.Errorf("reminderNeeded(%q) = %v, want %v", stage, got, want)
		}
	}
	if reminderNeeded(string(workflowdomain.StageCompletion)) {
		t.Error("completed workflows must not schedule stall checks")
	}
}
