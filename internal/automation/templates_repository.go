package automation

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrTemplateNotFound = errors.New("communication template not found")

// TemplateRepository reads named communication templates. Templates are
// seeded by migration and editable by the CRM, so the body always comes
// from the database; builtinTemplates only covers a fresh database where a
// migration seed was edited away.
type TemplateRepository struct {
	pool *pgxpool.Pool
}

func NewTemplateRepository(pool *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{pool: pool}
}

func (r *TemplateRepository) GetTemplate(ctx context.Context, name string) (string, error) {
	var body string
	err := r.pool.QueryRow(ctx,
		`SELECT body FROM communication_templates WHERE name = $1`, name,
	).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		if fallback, ok := builtinTemplates[name]; ok {
			return fallback, nil
		}
		return "", ErrTemplateNotFound
	}
	if err != nil {
		return "", err
	}
	return body, nil
}

// BuiltinTemplate returns the compiled-in fallback body for a template
// name. It exists so the stage tables can be cross-checked against the
// template set without a database.
func BuiltinTemplate(name string) (string, bool) {
	body, ok := builtinTemplates[name]
	return body, ok
}

var builtinTemplates = map[string]string{
	"valuation_confirmation": "Hi {{client_name}}, your valuation for {{property_address}} is booked. We look forward to meeting you.",
	"instruction_welcome":    "Hi {{client_name}}, thank you for instructing us to market {{property_address}}. Your dedicated agent will be in touch shortly.",
	"listing_live":           "Hi {{client_name}}, great news: {{property_address}} is now live on the portals.",
	"viewing_confirmation":   "Hi {{client_name}}, your viewing at {{property_address}} is confirmed.",
	"offer_received":         "Hi {{client_name}}, an offer has been received on {{property_address}}. Your agent will call you to discuss it.",
	"contract_update":        "Hi {{client_name}}, contracts for {{property_address}} are progressing. We will keep you posted at every step.",
	"completion_congrats":    "Congratulations {{client_name}}! {{property_address}} has completed.",
	"lead_followup":          "Hi {{client_name}}, just following up on your enquiry. Is there a good time to talk?",
}
