package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"brokerage_backend/platform/logger"
)

type stubConfig struct {
	url      string
	key      string
	deviceID string
}

func (s stubConfig) GetWhatsAppURL() string      { return s.url }
func (s stubConfig) GetWhatsAppKey() string      { return s.key }
func (s stubConfig) GetWhatsAppDeviceID() string { return s.deviceID }

// Callers key channel wiring off a nil client, so an unconfigured gateway
// must yield nil rather than a client that silently drops sends.
func TestNewClientNilWithoutGatewayURL(t *testing.T) {
	if c := NewClient(stubConfig{}, logger.New("development")); c != nil {
		t.Errorf("client = %+v, want nil without gateway URL", c)
	}
}

func TestSendMessageNormalizesPhone(t *testing.T) {
	var captured gowaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/send/message" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}))
	defer server.Close()

	c := NewClient(stubConfig{url: server.URL}, logger.New("development"))
	if err := c.SendMessage(context.Background(), "07700 900123", "viewing confirmed"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if captured.Phone != "447700900123" {
		t.Errorf("phone = %q, want 447700900123", captured.Phone)
	}
	if captured.Message != "viewing confirmed" {
		t.Errorf("message = %q", captured.Message)
	}
}

func TestSendMessageGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "device not linked", http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(stubConfig{url: server.URL}, logger.New("development"))
	if err := c.SendMessage(context.Background(), "+447700900123", "hi"); err == nil {
		t.Fatal("err = nil, want gateway error")
	}
}
