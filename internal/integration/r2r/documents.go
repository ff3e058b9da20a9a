package r2r

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/futig/rag-relay/internal/entity"
	"github.com/futig/rag-relay/internal/pkg/logger"
	pkghttp "github.com/futig/rag-relay/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const rollbackTimeout = 10 * time.Second

// Ingest registers the file with the backend and triggers extraction.
// A failed extraction is retried; if it still fails the registration is rolled back.
func (c *Connector) Ingest(ctx context.Context, req *entity.IngestRequest) (*entity.IngestResult, error) {
	registered, err := c.createDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithDocument(ctx, registered.DocumentID)
	ctxzap.Info(ctx, "document registered, starting extraction")

	var extracted envelope[ingestionResult]
	err = retry.Do(
		func() error {
			return c.doJSON(ctx, http.MethodPost, documentPath(registered.DocumentID, "extract"), nil, &extracted)
		},
		append(
			c.config.Retry.ToRetryOptions(ctx, pkghttp.IsTransient),
			retry.OnRetry(func(n uint, err error) {
				ctxzap.Warn(ctx, "extraction attempt failed, retrying", zap.Uint("attempt", n+1), zap.Error(err))
			}),
		)...,
	)
	if err != nil {
		ctxzap.Error(ctx, "extraction failed, rolling back registration", zap.Error(err))
		rollback := "rolled back"
		if rbErr := c.rollback(ctx, registered.DocumentID); rbErr != nil {
			ctxzap.Error(ctx, "rollback failed, document left registered", zap.Error(rbErr))
			rollback = "rollback failed, document may still be listed"
		}
		return nil, classify(entity.ErrIngestion, fmt.Errorf("extract document %s (%s): %w", registered.DocumentID, rollback, err))
	}

	ctxzap.Info(ctx, "document ingested")

	msg := extracted.Results.Message
	if msg == "" {
		msg = registered.Message
	}
	return &entity.IngestResult{
		DocumentID: registered.DocumentID,
		Message:    msg,
		TaskID:     registered.TaskID,
	}, nil
}

func (c *Connector) createDocument(ctx context.Context, req *entity.IngestRequest) (*ingestionResult, error) {
	f, err := os.Open(req.FilePath)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", entity.ErrFileSystem, req.FilePath, err)
	}
	defer f.Close()

	var metadata []byte
	if len(req.Metadata) > 0 {
		if metadata, err = json.Marshal(req.Metadata); err != nil {
			return nil, fmt.Errorf("%w: metadata: %v", entity.ErrInvalidFormat, err)
		}
	}

	filename := req.Filename
	if filename == "" {
		filename = filepath.Base(req.FilePath)
	}

	prepareBody := func(writer *multipart.Writer) error {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, f); err != nil {
			return fmt.Errorf("write file content: %w", err)
		}
		if metadata != nil {
			if err := writer.WriteField("metadata", string(metadata)); err != nil {
				return fmt.Errorf("write metadata: %w", err)
			}
		}
		return nil
	}

	ctxzap.Info(ctx, "registering document in R2R", zap.String("filename", filename))

	var resp envelope[ingestionResult]
	if err := c.doMultipart(ctx, http.MethodPost, documentsEndpoint, prepareBody, &resp); err != nil {
		ctxzap.Error(ctx, "failed to register document", zap.Error(err))
		return nil, classify(entity.ErrIngestion, fmt.Errorf("register document: %w", err))
	}
	if resp.Results.DocumentID == "" {
		return nil, fmt.Errorf("%w: register document: backend returned no document id", entity.ErrIngestion)
	}

	return &resp.Results, nil
}

func (c *Connector) rollback(ctx context.Context, documentID string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
	defer cancel()

	err := c.doJSON(ctx, http.MethodDelete, documentPath(documentID), nil, nil)
	if err != nil && !pkghttp.IsNotFound(err) {
		return err
	}
	return nil
}

// DeleteDocument removes the document from the backend. It never fails;
// the outcome is reported through the result status.
func (c *Connector) DeleteDocument(ctx context.Context, documentID string) entity.DeleteResult {
	result := entity.DeleteResult{DocumentID: documentID}

	var resp envelope[booleanResult]
	err := c.doJSON(ctx, http.MethodDelete, documentPath(documentID), nil, &resp)
	switch {
	case err == nil && resp.Results.Success:
		result.Status = entity.DeleteStatusDeleted
	case err == nil:
		result.Status = entity.DeleteStatusFailed
		result.Cause = errors.New("backend reported success=false")
	case pkghttp.IsNotFound(err):
		result.Status = entity.DeleteStatusNotFound
		result.Cause = err
	case isUnavailable(err):
		result.Status = entity.DeleteStatusBackendUnavailable
		result.Cause = err
	default:
		result.Status = entity.DeleteStatusFailed
		result.Cause = err
	}

	if result.Cause != nil {
		ctxzap.Warn(ctx, "document delete did not succeed",
			zap.String("document_id", documentID),
			zap.Stringer("status", result.Status),
			zap.Error(result.Cause),
		)
	}

	return result
}

// ListDocuments returns a single page of the backend document listing.
func (c *Connector) ListDocuments(ctx context.Context, limit, offset int) (*entity.DocumentPage, error) {
	var resp envelope[[]entity.Document]
	err := c.doJSON(ctx, http.MethodGet, documentsEndpoint, nil, &resp,
		pkghttp.WithQuery("limit", strconv.Itoa(limit)),
		pkghttp.WithQuery("offset", strconv.Itoa(offset)),
	)
	if err != nil {
		return nil, classify(entity.ErrBackend, fmt.Errorf("list documents: %w", err))
	}

	docs := resp.Results
	if docs == nil {
		docs = []entity.Document{}
	}
	return &entity.DocumentPage{Documents: docs, TotalEntries: resp.TotalEntries}, nil
}
