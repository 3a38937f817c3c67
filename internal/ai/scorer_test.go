package ai

import (
	"context"
	"errors"
	"testing"

	"brokerage_backend/platform/logger"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s stubCompleter) Complete(context.Context, string) (string, error) {
	return s.reply, s.err
}

func newScorer(reply string, err error) *Scorer {
	return NewScorer(stubCompleter{reply: reply, err: err}, logger.New("test"))
}

func TestAssessParsesCleanReply(t *testing.T) {
	scorer := newScorer(`{"score": 82, "temperature": "hot", "rationale": "vendor with probate sale"}`, nil)

	got := scorer.Assess(context.Background(), "I need to sell my late mother's house")
	if got.Score != 82 || got.Temperature != "hot" {
		t.Errorf("assessment = %+v", got)
	}
}

func TestAssessStripsMarkdownFences(t *testing.T) {
	reply := "Here is my assessment:\n```json\n{\"score\": 65, \"temperature\": \"warm\", \"rationale\": \"timeline unclear\"}\n```"
	scorer := newScorer(reply, nil)

	got := scorer.Assess(context.Background(), "thinking of moving next year")
	if got.Score != 65 || got.Temperature != "warm" {
		t.Errorf("assessment = %+v", got)
	}
}

func TestAssessFallsBackOnTransportError(t *testing.T) {
	scorer := newScorer("", errors.New("connection refused"))

	got := scorer.Assess(context.Background(), "anything")
	if got != fallbackAssessment {
		t.Errorf("assessment = %+v, want fallback", got)
	}
}

func TestAssessRejectsInvalidOutput(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"score out of range", `{"score": 140, "temperature": "hot", "rationale": "x"}`},
		{"unknown temperature", `{"score": 70, "temperature": "lukewarm", "rationale": "x"}`},
		{"extra fields", `{"score": 70, "temperature": "hot", "rationale": "x", "confidence": 0.9}`},
		{"no json at all", `the lead looks promising`},
		{"truncated json", `{"score": 70, "temperature":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newScorer(tt.reply, nil).Assess(context.Background(), "anything")
			if got != fallbackAssessment {
				t.Errorf("assessment = %+v, want fallback", got)
			}
		})
	}
}

func TestScoreEnquiryNeverErrors(t *testing.T) {
	score, rationale, err := newScorer("garbage", nil).ScoreEnquiry(context.Background(), "anything")
	if err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	if score != fallbackAssessment.Score || rationale != fallbackAssessment.Rationale {
		t.Errorf("score=%d rationale=%q, want fallback values", score, rationale)
	}
}
