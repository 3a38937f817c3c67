package sources

import (
	"context"
	"fmt"
	"time"

	"brokerage_backend/internal/leads/domain"
	"brokerage_backend/internal/prospecting"
)

// PriceReductions finds listings whose asking price dropped. The size of
// the cut drives the score; drops under five percent are routine
// repositioning and produce no lead at all.
type PriceReductions struct {
	portal PortalFetcher
	area   string
}

func NewPriceReductions(portal PortalFetcher, area string) *PriceReductions {
	return &PriceReductions{portal: portal, area: area}
}

func (s *PriceReductions) Name() string            { return string(domain.SourcePriceReduction) }
func (s *PriceReductions) Interval() time.Duration { return time.Hour }

func (s *PriceReductions) Scan(ctx context.Context) ([]prospecting.Opportunity, error) {
	var payload struct {
		Listings []struct {
			ID            string `json:"id"`
			Address       string `json:"address"`
			PricePence    int64  `json:"pricePence"`
			PreviousPence int64  `json:"previousPricePence"`
		} `json:"listings"`
	}
	if err := s.portal.GetJSON(ctx, "/listings/reduced", areaQuery(s.area), &payload); err != nil {
		return nil, err
	}

	var opportunities []prospecting.Opportunity
	for _, l := range payload.Listings {
		score, keep := prospecting.ScorePriceReduction(l.PreviousPence, l.PricePence)
		if !keep {
			continue
		}
		opportunities = append(opportunities, prospecting.Opportunity{
			Source:           domain.SourcePriceReduction,
			SourceIdentifier: l.ID,
			Name:             fmt.Sprintf("Vendor at %s", l.Address),
			Score:            score,
			Notes: fmt.Sprintf("Asking price cut from £%d to £%d",
				l.PreviousPence/100, l.PricePence/100),
		})
	}
	return opportunities, nil
}
