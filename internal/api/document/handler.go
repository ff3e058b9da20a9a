package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/futig/rag-relay/internal/config"
	"github.com/futig/rag-relay/internal/entity"
	"github.com/futig/rag-relay/internal/pkg/logger"
	"github.com/futig/rag-relay/internal/pkg/response"
	"github.com/futig/rag-relay/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// multipartMemory is how much of a multipart form is kept in memory before spilling to disk.
const multipartMemory = 8 << 20

type Handler struct {
	usecase   DocumentUsecase
	cfg       config.FileUploadConfig
	validator *validator.Validator
}

func NewHandler(
	usecase DocumentUsecase,
	cfg config.FileUploadConfig,
	validator *validator.Validator,
) *Handler {
	return &Handler{
		usecase:   usecase,
		cfg:       cfg,
		validator: validator,
	}
}

// Upload handles POST /upload
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Upload")

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.respondError(ctx, w, fmt.Errorf("%w: request exceeds %d bytes", entity.ErrFileTooLarge, maxErr.Limit))
			return
		}
		h.respondError(ctx, w, fmt.Errorf("%w: multipart form: %v", entity.ErrInvalidFormat, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		h.respondError(ctx, w, fmt.Errorf("%w: file", entity.ErrMissingField))
		return
	}
	fh := files[0]

	var metadata map[string]any
	if raw := r.FormValue("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
			h.respondError(ctx, w, fmt.Errorf("%w: metadata must be a JSON object: %v", entity.ErrInvalidFormat, err))
			return
		}
	}

	mimeType, err := h.validator.ValidateUpload(fh)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "uploading document",
		zap.String("filename", fh.Filename),
		zap.Int64("size", fh.Size),
		zap.String("mime_type", mimeType),
	)

	uploaded, err := h.usecase.Upload(ctx, fh, mimeType, metadata)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	response.Success(w, toUploadResponse(uploaded))
}

// Ingest handles POST /ingest
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Ingest")

	var req entity.IngestDocumentRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	res, err := h.usecase.Ingest(ctx, &req)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	response.Success(w, toIngestResponse(res))
}

// Delete handles POST /delete
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "DeleteDocument")

	var req entity.DeleteDocumentRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	res := h.usecase.Delete(ctx, req.DocumentID)
	response.Success(w, toDeleteResponse(res))
}

// List handles POST /list
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListDocuments")

	var req entity.PageRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	page, err := h.usecase.List(ctx, &req)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	response.Success(w, toListResponse(page))
}

// decode reads an optional JSON body into dst and validates it. An empty body decodes as {}.
func (h *Handler) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: request body: %v", entity.ErrInvalidFormat, err)
	}
	return h.validator.ValidateRequest(dst)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status := response.StatusFor(err)
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, "request failed", zap.Int("status", status), zap.Error(err))
	} else {
		ctxzap.Warn(ctx, "request rejected", zap.Int("status", status), zap.Error(err))
	}
	response.FromError(w, err)
}
