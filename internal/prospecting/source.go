// Package prospecting aggregates seller/landlord opportunities from the
// monitor sources into the lead pipeline.
package prospecting

import (
	"context"
	"time"

	"brokerage_backend/internal/leads/domain"
)

// Opportunity is one prospect found by a monitor scan, normalized to the
// fields lead capture needs. SourceIdentifier must be stable across scans:
// it is the dedup key, so a listing seen every hour creates one lead.
type Opportunity struct {
	Source           domain.Source
	SourceIdentifier string
	Name             string
	Email            string
	Phone            string
	Score            int
	Notes            string
}

// Source is one monitor job. Scan returns every opportunity currently
// visible to the source; dedup against previous scans is not the source's
// concern, the aggregator and the storage constraint handle it.
type Source interface {
	Name() string
	Interval() time.Duration
	Scan(ctx context.Context) ([]Opportunity, error)
}
