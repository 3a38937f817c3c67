package sources

import (
	"context"
	"fmt"
	"time"

	"brokerage_backend/internal/leads/domain"
	"brokerage_backend/internal/prospecting"
)

const (
	// minGrossYieldPercent is the arbitrage threshold: sale listings whose
	// local rent would gross at least this yield interest investor clients.
	minGrossYieldPercent = 6.5
	rentalYieldScore     = 70
)

// RentalYieldArbitrage cross-references sale listings with achieved local
// rents and flags high-yield stock.
type RentalYieldArbitrage struct {
	portal PortalFetcher
	area   string
}

func NewRentalYieldArbitrage(portal PortalFetcher, area string) *RentalYieldArbitrage {
	return &RentalYieldArbitrage{portal: portal, area: area}
}

func (s *RentalYieldArbitrage) Name() string            { return string(domain.SourceRentalYield) }
func (s *RentalYieldArbitrage) Interval() time.Duration { return 24 * time.Hour }

func (s *RentalYieldArbitrage) Scan(ctx context.Context) ([]prospecting.Opportunity, error) {
	var payload struct {
		Listings []struct {
			ID                   string `json:"id"`
			Address              string `json:"address"`
			PricePence           int64  `json:"pricePence"`
			EstAnnualRentPence   int64  `json:"estimatedAnnualRentPence"`
		} `json:"listings"`
	}
	if err := s.portal.GetJSON(ctx, "/listings/yield-candidates", areaQuery(s.area), &payload); err != nil {
		return nil, err
	}

	var opportunities []prospecting.Opportunity
	for _, l := range payload.Listings {
		yield := prospecting.GrossYieldPercent(l.EstAnnualRentPence, l.PricePence)
		if yield < minGrossYieldPercent {
			continue
		}
		opportunities = append(opportunities, prospecting.Opportunity{
			Source:           domain.SourceRentalYield,
			SourceIdentifier: l.ID,
			Name:             fmt.Sprintf("Vendor at %s", l.Address),
			Score:            rentalYieldScore,
			Notes:            fmt.Sprintf("Gross yield %.1f%% at £%d asking", yield, l.PricePence/100),
		})
	}
	return opportunities, nil
}
