package prospecting

import (
	"context"
	"errors"
	"testing"
	"time"

	"brokerage_backend/internal/leads/domain"
)

type stubSource struct {
	name          string
	opportunities []Opportunity
	err           error
	scans         int
}

func (s *stubSource) Name() string            { return s.name }
func (s *stubSource) Interval() time.Duration { return time.Hour }
func (s *stubSource) Scan(context.Context) ([]Opportunity, error) {
	s.scans++
	return s.opportunities, s.err
}

func TestRunCycleIsolatesFailingSource(t *testing.T) {
	creator := newFakeLeadCreator()
	agg := NewAggregator(creator, testLogger())

	broken := &stubSource{name: "planning_permission", err: errors.New("portal timeout")}
	healthy := &stubSource{
		name: "expired_listing",
		opportunities: []Opportunity{{
			Source:           domain.SourceExpiredListing,
			SourceIdentifier: "portal-321",
			Score:            75,
		}},
	}

	runner := NewRunner([]Source{broken, healthy}, agg, time.Minute, testLogger())
	runner.RunCycle(context.Background())

	if broken.scans != 1 || healthy.scans != 1 {
		t.Fatalf("scans = %d/%d, want 1/1", broken.scans, healthy.scans)
	}
	if creator.calls != 1 {
		t.Errorf("capture calls = %d, want 1 (healthy source must still land)", creator.calls)
	}
}

func TestScanOnceHonorsDeadline(t *testing.T) {
	slow := &slowSource{}
	runner := NewRunner([]Source{slow}, NewAggregator(newFakeLeadCreator(), testLogger()), 10*time.Millisecond, testLogger())

	done := make(chan struct{})
	go func() {
		runner.RunCycle(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cycle did not finish; scan deadline not applied")
	}
}

// slowSource blocks until its context expires.
type slowSource struct{}

func (s *slowSource) Name() string            { return "land_registry" }
func (s *slowSource) Interval() time.Duration { return time.Hour }
func (s *slowSource) Scan(ctx context.Context) ([]Opportunity, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
