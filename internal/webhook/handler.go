package webhook

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"brokerage_backend/platform/httpkit"
	"brokerage_backend/platform/validator"
)

type Handler struct {
	svc *Service
	val *validator.Validator
}

func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// SharedSecretAuth validates the X-Webhook-Secret header against the
// configured secret. An empty configured secret disables the webhook
// endpoints entirely rather than leaving them open.
func SharedSecretAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "webhooks not configured"})
			return
		}
		provided := c.GetHeader("X-Webhook-Secret")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook secret"})
			return
		}
		c.Next()
	}
}

// HandleWhatsApp captures an inbound WhatsApp message.
// POST /api/webhooks/whatsapp
func (h *Handler) HandleWhatsApp(c *gin.Context) {
	var msg WhatsAppMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	if err := h.val.Struct(msg); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.svc.CaptureWhatsApp(c.Request.Context(), msg)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// HandleEmail captures a parsed enquiry email.
// POST /api/webhooks/email
func (h *Handler) HandleEmail(c *gin.Context) {
	var enquiry EmailEnquiry
	if err := c.ShouldBindJSON(&enquiry); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	if err := h.val.Struct(enquiry); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.svc.CaptureEmail(c.Request.Context(), enquiry)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// HandleCall captures a call-tracking notification.
// POST /api/webhooks/call
func (h *Handler) HandleCall(c *gin.Context) {
	var call CallNotification
	if err := c.ShouldBindJSON(&call); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	if err := h.val.Struct(call); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.svc.CaptureCall(c.Request.Context(), call)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
