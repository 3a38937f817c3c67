package ai

import (
	"net/http"

	apphttp "brokerage_backend/internal/http"
	"brokerage_backend/platform/httpkit"
	"brokerage_backend/platform/sanitize"
	"brokerage_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Module exposes on-demand enquiry assessment for agents. Automatic
// scoring of captured leads runs through the event bus; this endpoint
// lets an agent re-score pasted text.
type Module struct {
	scorer *Scorer
	val    *validator.Validator
}

func NewModule(scorer *Scorer, val *validator.Validator) *Module {
	return &Module{scorer: scorer, val: val}
}

func (m *Module) Name() string { return "ai" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.AI.POST("/assess", m.assess)
}

type assessRequest struct {
	Enquiry string `json:"enquiry" validate:"required,min=3,max=8000"`
}

func (m *Module) assess(c *gin.Context) {
	var req assessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := m.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	assessment := m.scorer.Assess(c.Request.Context(), sanitize.Text(req.Enquiry))
	httpkit.OK(c, assessment)
}
