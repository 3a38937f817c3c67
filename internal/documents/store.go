// Package documents generates and stores workflow paperwork in
// S3-compatible object storage, with a record per document in Postgres.
package documents

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"brokerage_backend/internal/automation"
	"brokerage_backend/platform/config"
	"brokerage_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// downloadURLTTL is the expiration for presigned download links.
const downloadURLTTL = 15 * time.Minute

// Document is one generated file attached to a workflow.
type Document struct {
	ID         uuid.UUID
	WorkflowID uuid.UUID
	Kind       string
	FileKey    string
	CreatedAt  time.Time
}

// Store generates workflow documents and serves download links.
type Store struct {
	client *minio.Client
	bucket string
	pool   *pgxpool.Pool
	log    *logger.Logger
}

// NewStore creates the document store, or an error when MinIO is not
// configured (processes without storage pass a nil generator to the
// dispatcher instead).
func NewStore(cfg config.MinIOConfig, pool *pgxpool.Pool, log *logger.Logger) (*Store, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("document storage is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &Store{
		client: client,
		bucket: cfg.GetMinioBucketDocuments(),
		pool:   pool,
		log:    log,
	}, nil
}

// EnsureBucket creates the documents bucket if it does not exist.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// GenerateWorkflowDocument renders the builtin body for kind, uploads it,
// and records the document against the workflow.
func (s *Store) GenerateWorkflowDocument(ctx context.Context, workflowID uuid.UUID, kind string, vars map[string]string) error {
	body, ok := builtinDocuments[kind]
	if !ok {
		return fmt.Errorf("unknown document kind %q", kind)
	}
	rendered := automation.Render(body, vars)

	fileKey := fmt.Sprintf("workflows/%s/%s_%s.html", workflowID, kind, uuid.New().String()[:8])
	content := []byte(rendered)
	_, err := s.client.PutObject(ctx, s.bucket, fileKey, bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: "text/html"})
	if err != nil {
		return fmt.Errorf("failed to upload document: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO workflow_documents (workflow_id, kind, file_key) VALUES ($1, $2, $3)`,
		workflowID, kind, fileKey,
	)
	if err != nil {
		return fmt.Errorf("failed to record document: %w", err)
	}

	s.log.Info("workflow document generated", "workflowId", workflowID, "kind", kind)
	return nil
}

// ListWorkflowDocuments returns a workflow's documents, newest first.
func (s *Store) ListWorkflowDocuments(ctx context.Context, workflowID uuid.UUID) ([]Document, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, workflow_id, kind, file_key, created_at
		FROM workflow_documents
		WHERE workflow_id = $1
		ORDER BY created_at DESC`,
		workflowID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.WorkflowID, &d.Kind, &d.FileKey, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// DownloadURL returns a presigned link for a stored document.
func (s *Store) DownloadURL(ctx context.Context, fileKey string) (string, time.Time, error) {
	expiresAt := time.Now().Add(downloadURLTTL)
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, fileKey, downloadURLTTL, nil)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to presign download: %w", err)
	}
	return presigned.String(), expiresAt, nil
}

// Compile-time check against the dispatcher port.
var _ automation.DocumentGenerator = (*Store)(nil)
