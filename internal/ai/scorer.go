package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"brokerage_backend/platform/logger"
)

// Assessment is the model's verdict on an enquiry.
type Assessment struct {
	Score       int    `json:"score"`
	Temperature string `json:"temperature"`
	Rationale   string `json:"rationale"`
}

// fallbackAssessment is returned whenever the model is unreachable or its
// output fails validation. A middling warm score keeps the lead in the
// queue without letting a flaky model promote or bury it.
var fallbackAssessment = Assessment{
	Score:       50,
	Temperature: "warm",
	Rationale:   "automatic assessment unavailable",
}

// Completer is the agent client slice the scorer needs.
type Completer interface {
	Complete(ctx context.Context, enquiry string) (string, error)
}

// Scorer turns free-text enquiries into lead scores. It never fails:
// model errors and malformed output degrade to the fallback assessment.
type Scorer struct {
	client Completer
	log    *logger.Logger
}

func NewScorer(client Completer, log *logger.Logger) *Scorer {
	return &Scorer{client: client, log: log}
}

// Assess scores an enquiry. The model's reply is parsed then validated as
// a unit; any deviation from the contract yields the fallback.
func (s *Scorer) Assess(ctx context.Context, enquiry string) Assessment {
	raw, err := s.client.Complete(ctx, enquiry)
	if err != nil {
		s.log.Error("enquiry assessment completion failed", "error", err)
		return fallbackAssessment
	}

	assessment, err := parseAssessment(raw)
	if err != nil {
		s.log.Error("enquiry assessment rejected", "error", err, "raw", truncate(raw, 200))
		return fallbackAssessment
	}
	return assessment
}

// ScoreEnquiry adapts Assess to the lead module's scorer port. The error
// is always nil; degradation happens inside Assess.
func (s *Scorer) ScoreEnquiry(ctx context.Context, enquiry string) (int, string, error) {
	assessment := s.Assess(ctx, enquiry)
	return assessment.Score, assessment.Rationale, nil
}

// parseAssessment extracts and validates the JSON object from the model
// reply. Models wrap JSON in prose or markdown fences often enough that
// the object is cut out of the surrounding text first; after that the
// parse is strict.
func parseAssessment(raw string) (Assessment, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return Assessment{}, fmt.Errorf("no JSON object in model reply")
	}

	decoder := json.NewDecoder(strings.NewReader(raw[start : end+1]))
	decoder.DisallowUnknownFields()

	var assessment Assessment
	if err := decoder.Decode(&assessment); err != nil {
		return Assessment{}, fmt.Errorf("malformed assessment: %w", err)
	}

	if assessment.Score < 0 || assessment.Score > 100 {
		return Assessment{}, fmt.Errorf("score %d outside 0-100", assessment.Score)
	}
	switch assessment.Temperature {
	case "hot", "warm", "cold":
	default:
		return Assessment{}, fmt.Errorf("unknown temperature %q", assessment.Temperature)
	}

	return assessment, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
