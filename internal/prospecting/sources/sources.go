// Package sources holds the monitor jobs that scan external data and the
// brokerage's own records for seller and landlord opportunities.
package sources

import (
	"context"
	"net/url"

	"brokerage_backend/internal/prospecting"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PortalFetcher is the slice of the portal client the scanners use.
type PortalFetcher interface {
	GetJSON(ctx context.Context, path string, query url.Values, out any) error
}

// All builds the full monitor set for an area. Portal-backed scanners
// share one paced client; register-backed scanners read the brokerage's
// own tables.
func All(portal PortalFetcher, pool *pgxpool.Pool, area string) []prospecting.Source {
	return []prospecting.Source{
		NewExpiredListings(portal, area),
		NewPriceReductions(portal, area),
		NewLandRegistry(portal, area),
		NewPlanningApplications(portal, area),
		NewRentalYieldArbitrage(portal, area),
		NewAuctionCatalogues(portal, area),
		NewCompetitorListings(portal, area),
		NewPortfolioLandlords(portal, area),
		NewPropensityScores(portal, area),
		NewSocialListening(pool),
		NewComplianceExpiry(pool),
		NewSeasonalCampaigns(pool),
	}
}

func areaQuery(area string) url.Values {
	q := url.Values{}
	if area != "" {
		q.Set("area", area)
	}
	return q
}
