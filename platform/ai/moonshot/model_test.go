package moonshot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

func collect(t *testing.T, m *KimiModel, req *model.LLMRequest) (*model.LLMResponse, error) {
	t.Helper()
	var resp *model.LLMResponse
	var err error
	for r, e := range m.GenerateContent(context.Background(), req, false) {
		resp, err = r, e
	}
	return resp, err
}

func TestGenerateContentConvertsMessages(t *testing.T) {
	var captured struct {
		Model    string        `json:"model"`
		Messages []chatMessage `json:"messages"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"scored"}}]}`))
	}))
	defer server.Close()

	m := NewModel(Config{APIKey: "test-key", BaseURL: server.URL, Model: "kimi-test"})
	resp, err := collect(t, m, &model.LLMRequest{
		Contents: []*genai.Content{
			{Role: "user", Parts: []*genai.Part{{Text: "first question"}}},
			{Role: "model", Parts: []*genai.Part{{Text: "first answer"}}},
		},
		Config: &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: "be terse"}}},
		},
	})
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}

	want := []chatMessage{
		{Role: "system", Content: "be terse"},
		{Role: "user", Content: "first question"},
		{Role: "assistant", Content: "first answer"},
	}
	if len(captured.Messages) != len(want) {
		t.Fatalf("messages = %+v, want %d entries", captured.Messages, len(want))
	}
	for i, msg := range want {
		if captured.Messages[i] != msg {
			t.Errorf("message[%d] = %+v, want %+v", i, captured.Messages[i], msg)
		}
	}
	if captured.Model != "kimi-test" {
		t.Errorf("model = %q", captured.Model)
	}
	if got := resp.Content.Parts[0].Text; got != "scored" {
		t.Errorf("response text = %q", got)
	}
	if resp.Content.Role != genai.RoleModel {
		t.Errorf("response role = %q", resp.Content.Role)
	}
}

func TestGenerateContentAPIErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"error payload", `{"error":{"message":"invalid key"}}`},
		{"empty choices", `{"choices":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			m := NewModel(Config{BaseURL: server.URL})
			_, err := collect(t, m, &model.LLMRequest{
				Contents: []*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: "hi"}}}},
			})
			if err == nil {
				t.Fatal("err = nil, want api error")
			}
		})
	}
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel(Config{APIKey: "k"})
	if m.config.BaseURL != "https://api.moonshot.ai/v1" {
		t.Errorf("base URL = %q", m.config.BaseURL)
	}
	if m.Name() != "kimi-k2-turbo-preview" {
		t.Errorf("model = %q", m.Name())
	}
}
