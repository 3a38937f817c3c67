package sources

import (
	"context"
	"fmt"
	"time"

	"brokerage_backend/internal/leads/domain"
	"brokerage_backend/internal/prospecting"
)

// LandRegistry scans completed-sale extracts for owners whose purchase is
// old enough that a move is statistically due.
type LandRegistry struct {
	portal PortalFetcher
	area   string
	now    func() time.Time
}

func NewLandRegistry(portal PortalFetcher, area string) *LandRegistry {
	return &LandRegistry{portal: portal, area: area, now: time.Now}
}

func (s *LandRegistry) Name() string            { return string(domain.SourceLandRegistry) }
func (s *LandRegistry) Interval() time.Duration { return 24 * time.Hour }

func (s *LandRegistry) Scan(ctx context.Context) ([]prospecting.Opportunity, error) {
	var payload struct {
		Sales []struct {
			TitleNumber string    `json:"titleNumber"`
			Address     string    `json:"address"`
			PricePence  int64     `json:"pricePence"`
			CompletedAt time.Time `json:"completedAt"`
		} `json:"sales"`
	}
	if err := s.portal.GetJSON(ctx, "/data/land-registry/sales", areaQuery(s.area), &payload); err != nil {
		return nil, err
	}

	now := s.now()
	opportunities := make([]prospecting.Opportunity, 0, len(payload.Sales))
	for _, sale := range payload.Sales {
		opportunities = append(opportunities, prospecting.Opportunity{
			Source:           domain.SourceLandRegistry,
			SourceIdentifier: sale.TitleNumber,
			Name:             fmt.Sprintf("Owner of %s", sale.Address),
			Score:            prospecting.ScoreLandRegistrySale(sale.CompletedAt, sale.PricePence, now),
			Notes: fmt.Sprintf("Purchased %s for £%d",
				sale.CompletedAt.Format("Jan 2006"), sale.PricePence/100),
		})
	}
	return opportunities, nil
}
