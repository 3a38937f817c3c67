package sources

import (
	"context"
	"fmt"
	"time"

	"brokerage_backend/internal/leads/domain"
	"brokerage_backend/internal/prospecting"
)

// planningScore rates a granted application: owners who just got
// permission often improve to sell.
const planningScore = 65

// PlanningApplications scans the planning portal for recently decided
// applications in the patch.
type PlanningApplications struct {
	portal PortalFetcher
	area   string
}

func NewPlanningApplications(portal PortalFetcher, area string) *PlanningApplications {
	return &PlanningApplications{portal: portal, area: area}
}

func (s *PlanningApplications) Name() string            { return string(domain.SourcePlanningPermission) }
func (s *PlanningApplications) Interval() time.Duration { return 24 * time.Hour }

func (s *PlanningApplications) Scan(ctx context.Context) ([]prospecting.Opportunity, error) {
	q := areaQuery(s.area)
	q.Set("status", "granted")

	var payload struct {
		Applications []struct {
			Reference   string `json:"reference"`
			Address     string `json:"address"`
			Description string `json:"description"`
			DecidedAt   string `json:"decidedAt"`
		} `json:"applications"`
	}
	if err := s.portal.GetJSON(ctx, "/data/planning/applications", q, &payload); err != nil {
		return nil, err
	}

	opportunities := make([]prospecting.Opportunity, 0, len(payload.Applications))
	for _, app := range payload.Applications {
		opportunities = append(opportunities, prospecting.Opportunity{
			Source:           domain.SourcePlanningPermission,
			SourceIdentifier: app.Reference,
			Name:             fmt.Sprintf("Owner of %s", app.Address),
			Score:            planningScore,
			Notes:            fmt.Sprintf("Planning granted %s: %s", app.DecidedAt, app.Description),
		})
	}
	return opportunities, nil
}
