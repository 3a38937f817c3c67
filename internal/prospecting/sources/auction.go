package sources

import (
	"context"
	"fmt"
	"time"

	"brokerage_backend/internal/leads/domain"
	"brokerage_backend/internal/prospecting"
)

const auctionScore = 70

// AuctionCatalogues scans upcoming auction lots. Vendors sending stock to
// auction are committed sellers; unsold lots come back to the open market.
type AuctionCatalogues struct {
	portal PortalFetcher
	area   string
}

func NewAuctionCatalogues(portal PortalFetcher, area string) *AuctionCatalogues {
	return &AuctionCatalogues{portal: portal, area: area}
}

func (s *AuctionCatalogues) Name() string            { return string(domain.SourceAuction) }
func (s *AuctionCatalogues) Interval() time.Duration { return 6 * time.Hour }

func (s *AuctionCatalogues) Scan(ctx context.Context) ([]prospecting.Opportunity, error) {
	var payload struct {
		Lots []struct {
			LotID      string `json:"lotId"`
			Address    string `json:"address"`
			GuidePence int64  `json:"guidePricePence"`
			SaleDate   string `json:"saleDate"`
		} `json:"lots"`
	}
	if err := s.portal.GetJSON(ctx, "/listings/auctions", areaQuery(s.area), &payload); err != nil {
		return nil, err
	}

	opportunities := make([]prospecting.Opportunity, 0, len(payload.Lots))
	for _, lot := range payload.Lots {
		opportunities = append(opportunities, prospecting.Opportunity{
			Source:           domain.SourceAuction,
			SourceIdentifier: lot.LotID,
			Name:             fmt.Sprintf("Vendor at %s", lot.Address),
			Score:            auctionScore,
			Notes:            fmt.Sprintf("Auction lot on %s, guide £%d", lot.SaleDate, lot.GuidePence/100),
		})
	}
	return opportunities, nil
}
