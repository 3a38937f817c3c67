// Package ai scores free-text property enquiries with a language model.
// The model runs behind an ADK agent; callers only ever see an Assessment.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"brokerage_backend/platform/ai/moonshot"
	"brokerage_backend/platform/config"
)

const scoringInstruction = `You assess property enquiries for an estate agency.
Reply with a single JSON object and nothing else:
{"score": <0-100 integer>, "temperature": "hot"|"warm"|"cold", "rationale": "<one sentence>"}
Score high for sellers ready to instruct, landlords with portfolios, and
concrete timelines. Score low for vague browsing and student lettings.`

// Client runs enquiry text through the scoring agent. Each call gets a
// throwaway session; scoring is single-turn and keeps no conversation state.
type Client struct {
	runner         *runner.Runner
	sessionService session.Service
	appName        string
}

// NewClient builds the scoring agent on the Kimi model. It returns an
// error if the agent or runner cannot be initialized.
func NewClient(cfg config.AIConfig) (*Client, error) {
	kimi := moonshot.NewModel(moonshot.Config{
		APIKey:  cfg.GetAIAPIKey(),
		BaseURL: cfg.GetAIBaseURL(),
		Model:   cfg.GetAIModel(),
	})

	adkAgent, err := llmagent.New(llmagent.Config{
		Name:        "EnquiryScorer",
		Model:       kimi,
		Description: "Scores incoming property enquiries for an estate agency by intent, urgency and value.",
		Instruction: scoringInstruction,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create scoring agent: %w", err)
	}

	sessionService := session.InMemoryService()
	appName := "enquiry_scorer"

	r, err := runner.New(runner.Config{
		AppName:        appName,
		Agent:          adkAgent,
		SessionService: sessionService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create scoring runner: %w", err)
	}

	return &Client{
		runner:         r,
		sessionService: sessionService,
		appName:        appName,
	}, nil
}

// Complete sends the enquiry through the agent and returns the raw model
// text. Callers own interpreting the content.
func (c *Client) Complete(ctx context.Context, enquiry string) (string, error) {
	userID := "scorer"
	sessionID := uuid.New().String()

	if _, err := c.sessionService.Create(ctx, &session.CreateRequest{
		AppName:   c.appName,
		UserID:    userID,
		SessionID: sessionID,
	}); err != nil {
		return "", fmt.Errorf("failed to create scoring session: %w", err)
	}
	defer func() {
		_ = c.sessionService.Delete(ctx, &session.DeleteRequest{
			AppName:   c.appName,
			UserID:    userID,
			SessionID: sessionID,
		})
	}()

	userMessage := &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: enquiry}},
	}

	var output strings.Builder
	runConfig := agent.RunConfig{StreamingMode: agent.StreamingModeNone}
	for event, err := range c.runner.Run(ctx, userID, sessionID, userMessage, runConfig) {
		if err != nil {
			return "", fmt.Errorf("scoring run failed: %w", err)
		}
		if event.Content != nil {
			for _, part := range event.Content.Parts {
				output.WriteString(part.Text)
			}
		}
	}

	return output.String(), nil
}
