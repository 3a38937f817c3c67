package prospecting

import (
	"context"

	"brokerage_backend/internal/leads/domain"
	"brokerage_backend/internal/leads/transport"
	"brokerage_backend/platform/logger"
)

// LeadCreator is the slice of the lead service the aggregator feeds.
// Create is idempotent on (source, sourceIdentifier), so replayed
// opportunities collapse onto the existing lead.
type LeadCreator interface {
	Create(ctx context.Context, req transport.CreateLeadRequest) (transport.CreateLeadResponse, error)
}

// Aggregator funnels scanned opportunities into lead capture. It keeps a
// per-run seen set so a source that reports the same opportunity twice in
// one cycle performs a single insert; cross-run dedup is the storage
// constraint's job.
type Aggregator struct {
	leads LeadCreator
	log   *logger.Logger
}

func NewAggregator(leads LeadCreator, log *logger.Logger) *Aggregator {
	return &Aggregator{leads: leads, log: log}
}

// Ingest captures the batch and returns how many leads were newly created.
// A failed capture is logged and skipped so the rest of the batch lands.
func (a *Aggregator) Ingest(ctx context.Context, opportunities []Opportunity) int {
	seen := make(map[string]struct{}, len(opportunities))
	created := 0

	for _, opp := range opportunities {
		if !knownOpportunitySource(opp.Source) {
			a.log.Error("opportunity with invalid source dropped", "source", opp.Source)
			continue
		}
		key := string(opp.Source) + "|" + opp.SourceIdentifier
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		score := opp.Score
		resp, err := a.leads.Create(ctx, transport.CreateLeadRequest{
			Source:           string(opp.Source),
			SourceIdentifier: opp.SourceIdentifier,
			Name:             opp.Name,
			Email:            opp.Email,
			Phone:            opp.Phone,
			Score:            &score,
			Notes:            opp.Notes,
		})
		if err != nil {
			a.log.Error("opportunity capture failed",
				"source", opp.Source,
				"sourceIdentifier", opp.SourceIdentifier,
				"error", err,
			)
			continue
		}
		if resp.Created {
			created++
		}
	}

	return created
}

// knownOpportunitySource guards monitors against emitting an inbound
// channel source by mistake.
func knownOpportunitySource(s domain.Source) bool {
	switch s {
	case domain.SourcePhone, domain.SourceWhatsApp, domain.SourceEmail:
		return false
	}
	return domain.IsKnownSource(s)
}
