package sources

import (
	"context"
	"fmt"
	"time"

	"brokerage_backend/internal/leads/domain"
	"brokerage_backend/internal/prospecting"
)

// minPropensityScore filters the model output: below this the household is
// not worth a canvass.
const minPropensityScore = 55

// PropensityScores pulls the move-propensity model's household scores for
// the patch. The model score is already on the 0-100 lead scale and is
// passed through after clamping.
type PropensityScores struct {
	portal PortalFetcher
	area   string
}

func NewPropensityScores(portal PortalFetcher, area string) *PropensityScores {
	return &PropensityScores{portal: portal, area: area}
}

func (s *PropensityScores) Name() string            { return string(domain.SourcePropensityScore) }
func (s *PropensityScores) Interval() time.Duration { return 24 * time.Hour }

func (s *PropensityScores) Scan(ctx context.Context) ([]prospecting.Opportunity, error) {
	var payload struct {
		Households []struct {
			HouseholdID string `json:"householdId"`
			Address     string `json:"address"`
			Score       int    `json:"score"`
			Drivers     string `json:"drivers"`
		} `json:"households"`
	}
	if err := s.portal.GetJSON(ctx, "/data/propensity", areaQuery(s.area), &payload); err != nil {
		return nil, err
	}

	var opportunities []prospecting.Opportunity
	for _, h := range payload.Households {
		score := domain.ClampScore(h.Score)
		if score < minPropensityScore {
			continue
		}
		opportunities = append(opportunities, prospecting.Opportunity{
			Source:           domain.SourcePropensityScore,
			SourceIdentifier: h.HouseholdID,
			Name:             fmt.Sprintf("Household at %s", h.Address),
			Score:            score,
			Notes:            fmt.Sprintf("Propensity drivers: %s", h.Drivers),
		})
	}
	return opportunities, nil
}
