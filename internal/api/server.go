package api

import (
	"context"
	"net/http"
	"time"

	conversationapi "github.com/futig/rag-relay/internal/api/conversation"
	"github.com/futig/rag-relay/internal/api/docs"
	documentapi "github.com/futig/rag-relay/internal/api/document"
	"github.com/futig/rag-relay/internal/api/middleware"
	"github.com/futig/rag-relay/internal/api/web"
	"github.com/futig/rag-relay/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const readinessTimeout = 5 * time.Second

type RouterConfig struct {
	AllowedOrigin  string
	RequestTimeout time.Duration
}

// ReadinessCheck is a named dependency probe run by /ready.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	cfg RouterConfig,
	documentHandler *documentapi.Handler,
	conversationHandler *conversationapi.Handler,
	checks []ReadinessCheck,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigin))
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

	// Liveness
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	r.Get("/ready", readyHandler(checks))

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Register routes
	documentapi.RegisterRoutes(r, documentHandler)
	conversationapi.RegisterRoutes(r, conversationHandler)

	// Chat UI
	r.Get("/", web.Handler())

	return r
}

func readyHandler(checks []ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		res := readinessResponse{Status: "ready", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				ctxzap.Warn(ctx, "readiness check failed", zap.String("check", c.Name), zap.Error(err))
				res.Checks[c.Name] = err.Error()
				res.Status = "not_ready"
				status = http.StatusServiceUnavailable
				continue
			}
			res.Checks[c.Name] = "ok"
		}

		response.JSON(w, status, res)
	}
}
