package sources

import (
	"context"
	"fmt"
	"time"

	"brokerage_backend/internal/leads/domain"
	"brokerage_backend/internal/prospecting"
)

const (
	// staleWeeksOnMarket is how long a competitor listing sits before its
	// vendor is worth approaching about switching agent.
	staleWeeksOnMarket = 12
	competitorScore    = 65
)

// CompetitorListings watches rival agents' stock for listings going stale.
type CompetitorListings struct {
	portal PortalFetcher
	area   string
}

func NewCompetitorListings(portal PortalFetcher, area string) *CompetitorListings {
	return &CompetitorListings{portal: portal, area: area}
}

func (s *CompetitorListings) Name() string            { return string(domain.SourceCompetitorListing) }
func (s *CompetitorListings) Interval() time.Duration { return 6 * time.Hour }

func (s *CompetitorListings) Scan(ctx context.Context) ([]prospecting.Opportunity, error) {
	var payload struct {
		Listings []struct {
			ID            string `json:"id"`
			Address       string `json:"address"`
			AgentName     string `json:"agentName"`
			WeeksOnMarket int    `json:"weeksOnMarket"`
		} `json:"listings"`
	}
	if err := s.portal.GetJSON(ctx, "/listings/competitors", areaQuery(s.area), &payload); err != nil {
		return nil, err
	}

	var opportunities []prospecting.Opportunity
	for _, l := range payload.Listings {
		if l.WeeksOnMarket < staleWeeksOnMarket {
			continue
		}
		opportunities = append(opportunities, prospecting.Opportunity{
			Source:           domain.SourceCompetitorListing,
			SourceIdentifier: l.ID,
			Name:             fmt.Sprintf("Vendor at %s", l.Address),
			Score:            competitorScore,
			Notes:            fmt.Sprintf("%d weeks unsold with %s", l.WeeksOnMarket, l.AgentName),
		})
	}
	return opportunities, nil
}
