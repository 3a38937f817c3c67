package sources

import (
	"context"
	"fmt"
	"time"

	"brokerage_backend/internal/leads/domain"
	"brokerage_backend/internal/prospecting"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// complianceWindowDays is how far ahead expiring certificates create a
	// reminder lead for the lettings desk.
	complianceWindowDays = 60
	complianceScore      = 55
)

// ComplianceExpiry scans the compliance_certificates register for gas,
// electrical, and EPC certificates approaching expiry. Each expiring
// certificate becomes an outreach lead for the managing negotiator.
type ComplianceExpiry struct {
	pool *pgxpool.Pool
}

func NewComplianceExpiry(pool *pgxpool.Pool) *ComplianceExpiry {
	return &ComplianceExpiry{pool: pool}
}

func (s *ComplianceExpiry) Name() string            { return string(domain.SourceComplianceReminder) }
func (s *ComplianceExpiry) Interval() time.Duration { return 7 * 24 * time.Hour }

func (s *ComplianceExpiry) Scan(ctx context.Context) ([]prospecting.Opportunity, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, certificate_type, property_address, landlord_name, landlord_email, expires_at
		FROM compliance_certificates
		WHERE expires_at BETWEEN NOW() AND NOW() + make_interval(days => $1)
		ORDER BY expires_at ASC`,
		complianceWindowDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opportunities []prospecting.Opportunity
	for rows.Next() {
		var id, certType, address, landlordName string
		var landlordEmail *string
		var expiresAt time.Time
		if err := rows.Scan(&id, &certType, &address, &landlordName, &landlordEmail, &expiresAt); err != nil {
			return nil, err
		}
		opp := prospecting.Opportunity{
			Source:           domain.SourceComplianceReminder,
			SourceIdentifier: id,
			Name:             landlordName,
			Score:            complianceScore,
			Notes: fmt.Sprintf("%s at %s expires %s",
				certType, address, expiresAt.Format("2 Jan 2006")),
		}
		if landlordEmail != nil {
			opp.Email = *landlordEmail
		}
		opportunities = append(opportunities, opp)
	}
	return opportunities, rows.Err()
}
