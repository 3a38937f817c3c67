package prospecting

import (
	"context"
	"errors"
	"sync"
	"testing"

	"brokerage_backend/internal/leads/domain"
	"brokerage_backend/internal/leads/transport"
	"brokerage_backend/platform/logger"
)

// fakeLeadCreator mimics the storage dedup: the first capture of a
// (source, sourceIdentifier) pair reports Created=true, replays report the
// existing lead.
type fakeLeadCreator struct {
	mu       sync.Mutex
	calls    int
	existing map[string]struct{}
	failOn   string
}

func newFakeLeadCreator() *fakeLeadCreator {
	return &fakeLeadCreator{existing: make(map[string]struct{})}
}

func (f *fakeLeadCreator) Create(_ context.Context, req transport.CreateLeadRequest) (transport.CreateLeadResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if req.SourceIdentifier == f.failOn {
		return transport.CreateLeadResponse{}, errors.New("capture failed")
	}
	key := req.Source + "|" + req.SourceIdentifier
	if _, ok := f.existing[key]; ok {
		return transport.CreateLeadResponse{Created: false}, nil
	}
	f.existing[key] = struct{}{}
	return transport.CreateLeadResponse{Created: true}, nil
}

func testLogger() *logger.Logger {
	return logger.New("test")
}

func TestIngestDedupesWithinRun(t *testing.T) {
	creator := newFakeLeadCreator()
	agg := NewAggregator(creator, testLogger())

	same := Opportunity{
		Source:           domain.SourceExpiredListing,
		SourceIdentifier: "portal-999",
		Name:             "Expired vendor",
		Score:            75,
	}
	created := agg.Ingest(context.Background(), []Opportunity{same, same})

	if created != 1 {
		t.Errorf("created = %d, want 1", created)
	}
	if creator.calls != 1 {
		t.Errorf("capture calls = %d, want 1 (second occurrence skipped before storage)", creator.calls)
	}
}

func TestIngestCountsOnlyNewLeads(t *testing.T) {
	creator := newFakeLeadCreator()
	agg := NewAggregator(creator, testLogger())
	ctx := context.Background()

	batch := []Opportunity{{
		Source:           domain.SourcePriceReduction,
		SourceIdentifier: "listing-1",
		Score:            85,
	}}
	if created := agg.Ingest(ctx, batch); created != 1 {
		t.Fatalf("first run created = %d, want 1", created)
	}
	// Second cycle sees the same listing; the storage layer reports the
	// existing row and the count stays at zero.
	if created := agg.Ingest(ctx, batch); created != 0 {
		t.Errorf("second run created = %d, want 0", created)
	}
}

func TestIngestSkipsFailedCaptures(t *testing.T) {
	creator := newFakeLeadCreator()
	creator.failOn = "bad-one"
	agg := NewAggregator(creator, testLogger())

	created := agg.Ingest(context.Background(), []Opportunity{
		{Source: domain.SourceAuction, SourceIdentifier: "bad-one", Score: 70},
		{Source: domain.SourceAuction, SourceIdentifier: "good-one", Score: 70},
	})
	if created != 1 {
		t.Errorf("created = %d, want 1 (failure must not stop the batch)", created)
	}
}

func TestIngestDropsInboundSources(t *testing.T) {
	creator := newFakeLeadCreator()
	agg := NewAggregator(creator, testLogger())

	created := agg.Ingest(context.Background(), []Opportunity{
		{Source: domain.SourceWhatsApp, SourceIdentifier: "wa-1", Score: 50},
	})
	if created != 0 || creator.calls != 0 {
		t.Errorf("inbound-channel opportunity should be dropped, created=%d calls=%d", created, creator.calls)
	}
}
