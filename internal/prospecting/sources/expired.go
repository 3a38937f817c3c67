package sources

import (
	"context"
	"fmt"
	"time"

	"brokerage_backend/internal/leads/domain"
	"brokerage_backend/internal/prospecting"
)

// ExpiredListings finds listings whose agency agreement has lapsed without
// a sale. Every hit is a hot lead: the vendor wants out and their current
// agent has failed to deliver.
type ExpiredListings struct {
	portal PortalFetcher
	area   string
}

func NewExpiredListings(portal PortalFetcher, area string) *ExpiredListings {
	return &ExpiredListings{portal: portal, area: area}
}

func (s *ExpiredListings) Name() string            { return string(domain.SourceExpiredListing) }
func (s *ExpiredListings) Interval() time.Duration { return time.Hour }

func (s *ExpiredListings) Scan(ctx context.Context) ([]prospecting.Opportunity, error) {
	var payload struct {
		Listings []struct {
			ID         string `json:"id"`
			Address    string `json:"address"`
			PricePence int64  `json:"pricePence"`
			AgentName  string `json:"agentName"`
			ExpiredAt  string `json:"expiredAt"`
		} `json:"listings"`
	}
	if err := s.portal.GetJSON(ctx, "/listings/expired", areaQuery(s.area), &payload); err != nil {
		return nil, err
	}

	opportunities := make([]prospecting.Opportunity, 0, len(payload.Listings))
	for _, l := range payload.Listings {
		opportunities = append(opportunities, prospecting.Opportunity{
			Source:           domain.SourceExpiredListing,
			SourceIdentifier: l.ID,
			Name:             fmt.Sprintf("Vendor at %s", l.Address),
			Score:            prospecting.ScoreExpiredListing(),
			Notes: fmt.Sprintf("Listing expired with %s on %s, asking £%d",
				l.AgentName, l.ExpiredAt, l.PricePence/100),
		})
	}
	return opportunities, nil
}
