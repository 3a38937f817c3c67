package sources

import (
	"context"
	"fmt"
	"time"

	"brokerage_backend/internal/leads/domain"
	"brokerage_backend/internal/prospecting"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const seasonalScore = 50

// SeasonalCampaigns runs the anniversary canvass: clients whose sale or
// letting completed roughly a year ago get a check-in lead before the
// spring and autumn listing pushes.
type SeasonalCampaigns struct {
	pool *pgxpool.Pool
}

func NewSeasonalCampaigns(pool *pgxpool.Pool) *SeasonalCampaigns {
	return &SeasonalCampaigns{pool: pool}
}

func (s *SeasonalCampaigns) Name() string            { return string(domain.SourceSeasonalCampaign) }
func (s *SeasonalCampaigns) Interval() time.Duration { return 7 * 24 * time.Hour }

func (s *SeasonalCampaigns) Scan(ctx context.Context) ([]prospecting.Opportunity, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, property_address, client_name, client_email, client_phone, completed_at
		FROM property_workflows
		WHERE completed_at BETWEEN NOW() - INTERVAL '13 months' AND NOW() - INTERVAL '11 months'
		ORDER BY completed_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opportunities []prospecting.Opportunity
	for rows.Next() {
		var id uuid.UUID
		var address, clientName string
		var email, phone *string
		var completedAt time.Time
		if err := rows.Scan(&id, &address, &clientName, &email, &phone, &completedAt); err != nil {
			return nil, err
		}
		opp := prospecting.Opportunity{
			Source:           domain.SourceSeasonalCampaign,
			SourceIdentifier: fmt.Sprintf("anniversary-%s-%d", id, completedAt.Year()),
			Name:             clientName,
			Score:            seasonalScore,
			Notes:            fmt.Sprintf("Completed %s at %s, anniversary check-in due", completedAt.Format("Jan 2006"), address),
		}
		if email != nil {
			opp.Email = *email
		}
		if phone != nil {
			opp.Phone = *phone
		}
		opportunities = append(opportunities, opp)
	}
	return opportunities, rows.Err()
}
