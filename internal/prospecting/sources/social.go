package sources

import (
	"context"
	"fmt"
	"time"

	"brokerage_backend/internal/leads/domain"
	"brokerage_backend/internal/prospecting"

	"github.com/jackc/pgx/v5/pgxpool"
)

const socialScore = 60

// SocialListening reads the social_mentions table, which the inbound
// webhook integrations append to when a monitored keyword ("moving
// house", "selling up", agent complaints) fires in the patch.
type SocialListening struct {
	pool *pgxpool.Pool
}

func NewSocialListening(pool *pgxpool.Pool) *SocialListening {
	return &SocialListening{pool: pool}
}

func (s *SocialListening) Name() string            { return string(domain.SourceSocialMedia) }
func (s *SocialListening) Interval() time.Duration { return 24 * time.Hour }

func (s *SocialListening) Scan(ctx context.Context) ([]prospecting.Opportunity, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, platform, author_handle, excerpt
		FROM social_mentions
		WHERE detected_at > NOW() - INTERVAL '7 days'
		ORDER BY detected_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opportunities []prospecting.Opportunity
	for rows.Next() {
		var id, platform, handle, excerpt string
		if err := rows.Scan(&id, &platform, &handle, &excerpt); err != nil {
			return nil, err
		}
		opportunities = append(opportunities, prospecting.Opportunity{
			Source:           domain.SourceSocialMedia,
			SourceIdentifier: id,
			Name:             handle,
			Score:            socialScore,
			Notes:            fmt.Sprintf("Mention on %s: %s", platform, excerpt),
		})
	}
	return opportunities, rows.Err()
}
