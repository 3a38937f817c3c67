package webhook

import (
	apphttp "brokerage_backend/internal/http"
	"brokerage_backend/platform/config"
	"brokerage_backend/platform/logger"
	"brokerage_backend/platform/validator"
)

// Module is the inbound-channel webhook module implementing http.Module.
type Module struct {
	handler *Handler
	secret  string
}

// NewModule creates and initializes the webhook module.
func NewModule(leads LeadCreator, cfg config.WebhookConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := NewService(leads, log)
	return &Module{
		handler: NewHandler(svc, val),
		secret:  cfg.GetWebhookSecret(),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts the public webhook routes behind shared-secret auth.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Webhooks
	group.Use(SharedSecretAuth(m.secret))
	group.POST("/whatsapp", m.handler.HandleWhatsApp)
	group.POST("/email", m.handler.HandleEmail)
	group.POST("/call", m.handler.HandleCall)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
