package documents

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apphttp "brokerage_backend/internal/http"
	"brokerage_backend/platform/httpkit"
)

// Module exposes document listing and download links over HTTP. The store
// itself is wired into the automation dispatcher separately.
type Module struct {
	store *Store
}

func NewModule(store *Store) *Module {
	return &Module{store: store}
}

func (m *Module) Name() string { return "documents" }

// RegisterRoutes mounts document routes on the CRM group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.CRM.Group("/documents")
	group.GET("", m.list)
	group.GET("/url", m.downloadURL)
}

type documentResponse struct {
	ID         uuid.UUID `json:"id"`
	WorkflowID uuid.UUID `json:"workflowId"`
	Kind       string    `json:"kind"`
	FileKey    string    `json:"fileKey"`
	CreatedAt  time.Time `json:"createdAt"`
}

// GET /api/crm/documents?workflowId=...
func (m *Module) list(c *gin.Context) {
	workflowID, err := uuid.Parse(c.Query("workflowId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "workflowId is required", nil)
		return
	}

	docs, err := m.store.ListWorkflowDocuments(c.Request.Context(), workflowID)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to list documents", nil)
		return
	}

	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentResponse{
			ID: d.ID, WorkflowID: d.WorkflowID, Kind: d.Kind,
			FileKey: d.FileKey, CreatedAt: d.CreatedAt,
		})
	}
	httpkit.OK(c, out)
}

// GET /api/crm/documents/url?fileKey=...
func (m *Module) downloadURL(c *gin.Context) {
	fileKey := c.Query("fileKey")
	if fileKey == "" {
		httpkit.Error(c, http.StatusBadRequest, "fileKey is required", nil)
		return
	}

	url, expiresAt, err := m.store.DownloadURL(c.Request.Context(), fileKey)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to presign download", nil)
		return
	}
	httpkit.OK(c, gin.H{"url": url, "expiresAt": expiresAt})
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
