package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/futig/rag-relay/internal/config"
	"github.com/futig/rag-relay/internal/entity"
	"github.com/futig/rag-relay/internal/pkg/logger"
	"github.com/futig/rag-relay/internal/pkg/validator"
	"github.com/futig/rag-relay/internal/uploadstore"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// maxListPages bounds the page walk in case the backend keeps reporting a growing total.
const maxListPages = 1000

// DocumentUsecase implements document ingestion, listing and deletion
type DocumentUsecase struct {
	ragConnector RagConnector
	store        uploadstore.Store
	cfg          config.FileUploadConfig
	pageSize     int
	logger       *zap.Logger
}

// NewUsecase creates a new document use case
func NewUsecase(
	ragConnector RagConnector,
	store uploadstore.Store,
	cfg config.FileUploadConfig,
	pageSize int,
	logger *zap.Logger,
) *DocumentUsecase {
	return &DocumentUsecase{
		ragConnector: ragConnector,
		store:        store,
		cfg:          cfg,
		pageSize:     pageSize,
		logger:       logger,
	}
}

// Upload saves the file, ingests it and records the local path.
// The saved file is removed on every failure path.
func (uc *DocumentUsecase) Upload(
	ctx context.Context,
	fh *multipart.FileHeader,
	mimeType string,
	metadata map[string]any,
) (_ *entity.UploadedFile, err error) {
	localPath, size, err := uc.saveUpload(fh)
	if err != nil {
		return nil, err
	}
	ctx = logger.AddFields(ctx, zap.String("local_path", localPath))
	ctxzap.Info(ctx, "upload saved", zap.Int64("size", size), zap.String("mime_type", mimeType))

	defer func() {
		if err != nil {
			uc.removeFile(ctx, localPath)
		}
	}()

	res, err := uc.ragConnector.Ingest(ctx, &entity.IngestRequest{
		FilePath: localPath,
		Filename: validator.SanitizeFilename(fh.Filename),
		Metadata: metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("ingest upload: %w", err)
	}
	ctx = logger.WithDocument(ctx, res.DocumentID)

	uploaded := &entity.UploadedFile{
		DocumentID: res.DocumentID,
		LocalPath:  localPath,
		Filename:   fh.Filename,
		Size:       size,
		MimeType:   mimeType,
		Message:    res.Message,
	}

	if perr := uc.store.Put(ctx, res.DocumentID, localPath); perr != nil {
		// The document is live in the backend; only the local bookkeeping is lost.
		ctxzap.Error(ctx, "failed to record upload, dropping local file", zap.Error(perr))
		uc.removeFile(ctx, localPath)
		uploaded.LocalPath = ""
		return uploaded, nil
	}

	ctxzap.Info(ctx, "upload ingested")
	return uploaded, nil
}

// saveUpload writes the multipart file to <dir>/<unix-millis>-<name>.
func (uc *DocumentUsecase) saveUpload(fh *multipart.FileHeader) (string, int64, error) {
	if err := os.MkdirAll(uc.cfg.Dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("%w: create upload dir: %v", entity.ErrFileSystem, err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", 0, fmt.Errorf("%w: open upload: %v", entity.ErrInvalidFile, err)
	}
	defer src.Close()

	name := validator.SanitizeFilename(fh.Filename)
	stamp := time.Now().UnixMilli()

	path := filepath.Join(uc.cfg.Dir, fmt.Sprintf("%d-%s", stamp, name))
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		path = filepath.Join(uc.cfg.Dir, fmt.Sprintf("%d-%s-%s", stamp, uuid.NewString()[:8], name))
		dst, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return "", 0, fmt.Errorf("%w: create %s: %v", entity.ErrFileSystem, path, err)
	}

	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("%w: write %s: %v", entity.ErrFileSystem, path, err)
	}

	return path, size, nil
}

// Ingest sends a file that already exists on the server. It is not recorded in the store.
func (uc *DocumentUsecase) Ingest(ctx context.Context, req *entity.IngestDocumentRequest) (*entity.IngestResult, error) {
	path, err := uc.resolveIngestPath(req.FilePath)
	if err != nil {
		return nil, err
	}

	res, err := uc.ragConnector.Ingest(ctx, &entity.IngestRequest{
		FilePath: path,
		Metadata: req.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", path, err)
	}

	ctxzap.Info(ctx, "server-side file ingested", zap.String("document_id", res.DocumentID), zap.String("path", path))
	return res, nil
}

func (uc *DocumentUsecase) resolveIngestPath(p string) (string, error) {
	path, err := filepath.Abs(filepath.Clean(p))
	if err != nil {
		return "", fmt.Errorf("%w: file_path: %v", entity.ErrInvalidParameter, err)
	}

	if uc.cfg.IngestRoot != "" {
		root, err := filepath.Abs(uc.cfg.IngestRoot)
		if err != nil {
			return "", fmt.Errorf("%w: ingest root: %v", entity.ErrFileSystem, err)
		}
		if resolved, err := filepath.EvalSymlinks(path); err == nil {
			path = resolved
		}
		if resolvedRoot, err := filepath.EvalSymlinks(root); err == nil {
			root = resolvedRoot
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("%w: file_path must be inside %s", entity.ErrInvalidParameter, uc.cfg.IngestRoot)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: file_path: %v", entity.ErrInvalidFile, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: file_path %s is not a regular file", entity.ErrInvalidFile, p)
	}

	return path, nil
}

// Delete removes the document from the backend. When the backend no longer has it,
// the local file is unlinked and the store entry dropped; local failures are only logged.
func (uc *DocumentUsecase) Delete(ctx context.Context, documentID string) entity.DeleteResult {
	ctx = logger.WithDocument(ctx, documentID)

	res := uc.ragConnector.DeleteDocument(ctx, documentID)
	if !res.Status.DocumentGone() {
		ctxzap.Warn(ctx, "document kept, backend did not confirm deletion", zap.Stringer("status", res.Status))
		return res
	}

	path, err := uc.store.Get(ctx, documentID)
	switch {
	case errors.Is(err, uploadstore.ErrNotFound):
		ctxzap.Debug(ctx, "no local upload recorded for document")
	case err != nil:
		ctxzap.Error(ctx, "failed to look up local upload", zap.Error(err))
	default:
		uc.removeFile(ctx, path)
	}

	if err := uc.store.Remove(ctx, documentID); err != nil {
		ctxzap.Error(ctx, "failed to remove upload record", zap.Error(err))
	}

	ctxzap.Info(ctx, "document deleted", zap.Stringer("status", res.Status))
	return res
}

// List returns one page when the caller sets limit or offset, otherwise every document.
func (uc *DocumentUsecase) List(ctx context.Context, req *entity.PageRequest) (*entity.DocumentPage, error) {
	if req != nil && (req.Limit != nil || req.Offset != nil) {
		limit, offset := uc.pageSize, 0
		if req.Limit != nil {
			limit = *req.Limit
		}
		if req.Offset != nil {
			offset = *req.Offset
		}
		return uc.ragConnector.ListDocuments(ctx, limit, offset)
	}

	all := &entity.DocumentPage{Documents: []entity.Document{}}
	for page := 0; page < maxListPages; page++ {
		res, err := uc.ragConnector.ListDocuments(ctx, uc.pageSize, len(all.Documents))
		if err != nil {
			return nil, err
		}
		all.Documents = append(all.Documents, res.Documents...)
		all.TotalEntries = res.TotalEntries

		// A missing total (zero) leaves the short page as the only stop signal.
		if len(res.Documents) < uc.pageSize || (res.TotalEntries > 0 && len(all.Documents) >= res.TotalEntries) {
			break
		}
	}

	if all.TotalEntries < len(all.Documents) {
		all.TotalEntries = len(all.Documents)
	}
	ctxzap.Debug(ctx, "documents listed", zap.Int("count", len(all.Documents)))
	return all, nil
}

func (uc *DocumentUsecase) removeFile(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		ctxzap.Error(ctx, "failed to remove local file", zap.String("path", path), zap.Error(err))
		return
	}
	ctxzap.Debug(ctx, "local file removed", zap.String("path", path))
}
