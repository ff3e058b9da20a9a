package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/rag-relay/internal/api"
	conversationapi "github.com/futig/rag-relay/internal/api/conversation"
	documentapi "github.com/futig/rag-relay/internal/api/document"
	"github.com/futig/rag-relay/internal/config"
	"github.com/futig/rag-relay/internal/integration/r2r"
	"github.com/futig/rag-relay/internal/pkg/formatter"
	"github.com/futig/rag-relay/internal/pkg/logger"
	"github.com/futig/rag-relay/internal/pkg/validator"
	"github.com/futig/rag-relay/internal/usecase/conversation"
	"github.com/futig/rag-relay/internal/usecase/document"
	"go.uber.org/zap"
)

const storeOpenTimeout = 30 * time.Second

type ragBackend interface {
	document.RagConnector
	conversation.RagConnector
	Health(ctx context.Context) error
}

// Build loads the configuration from the environment and wires the application.
func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	return BuildWithConfig(cfg, log)
}

// BuildWithConfig wires the application from an already loaded configuration.
func BuildWithConfig(cfg *config.Config, log *zap.Logger) (*App, error) {
	log.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
		zap.String("r2r_url", cfg.R2RConnectorCfg.Url),
	)

	ctx, cancel := context.WithTimeout(context.Background(), storeOpenTimeout)
	defer cancel()

	store, err := setupUploadStore(ctx, cfg.UploadStoreCfg, log)
	if err != nil {
		return nil, fmt.Errorf("setup upload store: %w", err)
	}

	var rag ragBackend
	if cfg.EnableMocks {
		log.Info("Using mock R2R connector")
		rag = r2r.NewMockConnector(log)
	} else {
		rag = r2r.NewConnector(cfg.R2RConnectorCfg, log)
	}

	uploadValidator := validator.NewValidator(cfg.FileUploadCfg)
	pageSize := cfg.R2RConnectorCfg.ListPageSize

	documentUC := document.NewUsecase(rag, store, cfg.FileUploadCfg, pageSize, log)
	conversationUC := conversation.NewUsecase(rag, formatter.NewFactory(), pageSize, log)

	documentHandler := documentapi.NewHandler(documentUC, cfg.FileUploadCfg, uploadValidator)
	conversationHandler := conversationapi.NewHandler(conversationUC, uploadValidator)

	checks := []api.ReadinessCheck{
		{Name: "r2r", Check: rag.Health},
		{Name: "upload_store", Check: store.Ping},
	}

	router := api.SetupRouter(api.RouterConfig{
		AllowedOrigin:  cfg.CORSAllowedOrigin,
		RequestTimeout: cfg.ServerRequestTimeout,
	}, documentHandler, conversationHandler, checks, log)

	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		// Uploads and agent queries run up to the request timeout.
		WriteTimeout: cfg.ServerRequestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("Application built successfully")

	return &App{
		server: server,
		store:  store,
		logger: log,
	}, nil
}
