package r2r

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/futig/rag-relay/internal/config"
	"github.com/futig/rag-relay/internal/entity"
	"github.com/futig/rag-relay/internal/integration/common"
	pkghttp "github.com/futig/rag-relay/pkg/http"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	documentsEndpoint     = "/v3/documents"
	agentEndpoint         = "/v3/retrieval/agent"
	conversationsEndpoint = "/v3/conversations"
	healthEndpoint        = "/v3/health"

	requestIDHeader = "X-Request-ID"
)

// Connector talks to an R2R server over its v3 REST API.
type Connector struct {
	config    config.R2RConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.R2RConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Health checks that the backend answers its health probe.
func (c *Connector) Health(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodGet, healthEndpoint, nil, nil); err != nil {
		return classify(entity.ErrBackend, err)
	}
	return nil
}

// classify wraps a transport error with kind, adding ErrBackendUnavailable
// when the backend could not be reached at all.
func classify(kind error, err error) error {
	if err == nil {
		return nil
	}
	if isUnavailable(err) {
		return fmt.Errorf("%w: %w: %v", kind, entity.ErrBackendUnavailable, err)
	}
	return fmt.Errorf("%w: %v", kind, err)
}

func (c *Connector) doJSON(ctx context.Context, method, endpoint string, reqBody, respBody any, opts ...pkghttp.RequestOpt) error {
	return c.connector.DoRequest(ctx, method, endpoint, reqBody, respBody, withRequestID(ctx, opts)...)
}

func (c *Connector) doMultipart(ctx context.Context, method, endpoint string, prepareBody func(*multipart.Writer) error, respBody any, opts ...pkghttp.RequestOpt) error {
	return c.connector.DoMultipartRequest(ctx, method, endpoint, prepareBody, respBody, withRequestID(ctx, opts)...)
}

// withRequestID forwards the inbound request ID so relay and backend logs can be joined.
func withRequestID(ctx context.Context, opts []pkghttp.RequestOpt) []pkghttp.RequestOpt {
	if id := middleware.GetReqID(ctx); id != "" {
		opts = append(opts, pkghttp.WithHeader(requestIDHeader, id))
	}
	return opts
}

func isUnavailable(err error) bool {
	if pkghttp.IsNetworkError(err) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	switch pkghttp.StatusCode(err) {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func documentPath(id string, suffix ...string) string {
	p := documentsEndpoint + "/" + url.PathEscape(id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func conversationPath(id string, suffix ...string) string {
	p := conversationsEndpoint + "/" + url.PathEscape(id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}
