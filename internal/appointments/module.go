package appointments

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apphttp "brokerage_backend/internal/http"
	"brokerage_backend/platform/httpkit"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module exposes the workflow diary over HTTP.
type Module struct {
	repo *Repository
}

func NewModule(pool *pgxpool.Pool) *Module {
	return &Module{repo: NewRepository(pool)}
}

// Repository returns the repository for dispatcher wiring.
func (m *Module) Repository() *Repository { return m.repo }

func (m *Module) Name() string { return "appointments" }

// RegisterRoutes mounts appointment routes on the CRM group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.CRM.Group("/appointments")
	group.GET("", m.list)
	group.PATCH("/:id/status", m.setStatus)
}

type appointmentResponse struct {
	ID          uuid.UUID `json:"id"`
	WorkflowID  uuid.UUID `json:"workflowId"`
	Type        string    `json:"type"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toResponse(a Appointment) appointmentResponse {
	return appointmentResponse{
		ID: a.ID, WorkflowID: a.WorkflowID, Type: a.Type,
		ScheduledAt: a.ScheduledAt, Status: string(a.Status), CreatedAt: a.CreatedAt,
	}
}

// GET /api/crm/appointments?workflowId=...
func (m *Module) list(c *gin.Context) {
	workflowID, err := uuid.Parse(c.Query("workflowId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "workflowId is required", nil)
		return
	}

	appointments, err := m.repo.ListForWorkflow(c.Request.Context(), workflowID)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to list appointments", nil)
		return
	}

	out := make([]appointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		out = append(out, toResponse(a))
	}
	httpkit.OK(c, out)
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PATCH /api/crm/appointments/:id/status
func (m *Module) setStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid appointment ID", nil)
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	status := Status(req.Status)
	switch status {
	case StatusScheduled, StatusCompleted, StatusCancelled:
	default:
		httpkit.Error(c, http.StatusBadRequest, "unknown status", nil)
		return
	}

	appointment, err := m.repo.SetStatus(c.Request.Context(), id, status)
	if err == ErrNotFound {
		httpkit.Error(c, http.StatusNotFound, "appointment not found", nil)
		return
	}
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to update appointment", nil)
		return
	}
	httpkit.OK(c, toResponse(appointment))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
