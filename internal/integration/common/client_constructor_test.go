package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/futig/rag-relay/internal/config"
	pkgHTTP "github.com/futig/rag-relay/pkg/http"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewBaseConnector_TLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.HTTPClientConfig{
		Url:                 srv.URL,
		RequestTimeout:      2 * time.Second,
		TLSHandshakeTimeout: time.Second,
		MaxIdleConns:        4,
		MaxIdleConnsPerHost: 2,
	}

	t.Run("Self-signed certificate rejected by default", func(t *testing.T) {
		c := NewBaseConnector(cfg, zap.NewNop())

		err := c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil)
		assert.True(t, pkgHTTP.IsNetworkError(err))
	})

	t.Run("Insecure skip verify", func(t *testing.T) {
		insecure := cfg
		insecure.InsecureSkipVerify = true
		c := NewBaseConnector(insecure, zap.NewNop())

		assert.NoError(t, c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil))
	})
}
