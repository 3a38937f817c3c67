package sources

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"brokerage_backend/internal/leads/domain"
	"brokerage_backend/internal/prospecting"
)

const (
	// minPortfolioSize is how many titles an owner needs before they count
	// as a portfolio landlord worth a lettings pitch.
	minPortfolioSize = 3
	portfolioScore   = 80
)

// PortfolioLandlords finds owners holding multiple titles in the patch
// from the land-registry ownership extract.
type PortfolioLandlords struct {
	portal PortalFetcher
	area   string
}

func NewPortfolioLandlords(portal PortalFetcher, area string) *PortfolioLandlords {
	return &PortfolioLandlords{portal: portal, area: area}
}

func (s *PortfolioLandlords) Name() string            { return string(domain.SourcePortfolioLandlord) }
func (s *PortfolioLandlords) Interval() time.Duration { return 7 * 24 * time.Hour }

func (s *PortfolioLandlords) Scan(ctx context.Context) ([]prospecting.Opportunity, error) {
	q := areaQuery(s.area)
	q.Set("minProperties", strconv.Itoa(minPortfolioSize))

	var payload struct {
		Owners []struct {
			OwnerID       string `json:"ownerId"`
			Name          string `json:"name"`
			PropertyCount int    `json:"propertyCount"`
		} `json:"owners"`
	}
	if err := s.portal.GetJSON(ctx, "/data/land-registry/owners", q, &payload); err != nil {
		return nil, err
	}

	opportunities := make([]prospecting.Opportunity, 0, len(payload.Owners))
	for _, owner := range payload.Owners {
		opportunities = append(opportunities, prospecting.Opportunity{
			Source:           domain.SourcePortfolioLandlord,
			SourceIdentifier: owner.OwnerID,
			Name:             owner.Name,
			Score:            portfolioScore,
			Notes:            fmt.Sprintf("Holds %d titles in the patch", owner.PropertyCount),
		})
	}
	return opportunities, nil
}
