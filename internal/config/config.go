package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/rag-relay/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Upload store drivers
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr           string        `env:"SERVER_ADDR" envDefault:":8000"`
	ServerRequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"180s"`
	CORSAllowedOrigin    string        `env:"CORS_ALLOWED_ORIGIN" envDefault:"http://localhost:5173"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// RAG backend
	R2RConnectorCfg R2RConnectorConfig `envPrefix:"R2R_"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Upload store configuration
	UploadStoreCfg UploadStoreConfig `envPrefix:"UPLOAD_STORE_"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type R2RConnectorConfig struct {
	HTTPClientConfig
	ListPageSize int                  `env:"LIST_PAGE_SIZE" envDefault:"100"`
	Retry        pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"120s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"110s"`
	TLSHandshakeTimeout   time.Duration `env:"TLS_HANDSHAKE_TIMEOUT" envDefault:"10s"`
	MaxIdleConns          int           `env:"MAX_IDLE_CONNS" envDefault:"100"`
	MaxIdleConnsPerHost   int           `env:"MAX_IDLE_CONNS_PER_HOST" envDefault:"10"`
	InsecureSkipVerify    bool          `env:"INSECURE_SKIP_VERIFY" envDefault:"false"`
	Token                 string        `env:"TOKEN"`
	APIKey                string        `env:"API_KEY"`
	Url                   string        `env:"SERVICE_URL" envDefault:"http://localhost:7272"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	Dir               string   `env:"DIR" envDefault:"uploads"`
	MaxFileSize       int64    `env:"MAX_FILE_SIZE" envDefault:"52428800"`   // 50 MiB
	MaxUploadSize     int64    `env:"MAX_UPLOAD_SIZE" envDefault:"54525952"` // 52 MiB, file plus form fields
	AllowedExtensions []string `env:"ALLOWED_EXTENSIONS" envSeparator:"," envDefault:".pdf,.txt,.md,.docx,.doc,.html,.htm,.csv,.json,.xlsx,.pptx,.rtf,.epub,.odt"`
	// IngestRoot restricts /ingest to paths under this directory when set.
	IngestRoot string `env:"INGEST_ROOT"`
}

type UploadStoreConfig struct {
	Driver         string `env:"DRIVER" envDefault:"memory"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"uploads/index.db"`
	PostgresURL    string `env:"POSTGRES_URL"`
	RedisAddr      string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisDB        int    `env:"REDIS_DB" envDefault:"0"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"rag-relay:upload:"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Missing env files are fine when variables come from the environment.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment and validates it.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	normalize(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func normalize(cfg *Config) {
	cfg.R2RConnectorCfg.Url = strings.TrimRight(cfg.R2RConnectorCfg.Url, "/")
	cfg.UploadStoreCfg.Driver = strings.ToLower(strings.TrimSpace(cfg.UploadStoreCfg.Driver))

	exts := make([]string, 0, len(cfg.FileUploadCfg.AllowedExtensions))
	for _, ext := range cfg.FileUploadCfg.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	cfg.FileUploadCfg.AllowedExtensions = exts
}

func validateConfig(cfg *Config) error {
	var errs []error

	if cfg.ServerAddr == "" {
		errs = append(errs, errors.New("SERVER_ADDR must not be empty"))
	}

	if cfg.ServerRequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SERVER_REQUEST_TIMEOUT must be positive, got %s", cfg.ServerRequestTimeout))
	}

	if cfg.R2RConnectorCfg.Url == "" {
		errs = append(errs, errors.New("R2R_SERVICE_URL must not be empty"))
	}

	if size := cfg.R2RConnectorCfg.ListPageSize; size < 1 || size > 1000 {
		errs = append(errs, fmt.Errorf("R2R_LIST_PAGE_SIZE must be between 1 and 1000, got %d", size))
	}

	if c := cfg.R2RConnectorCfg.HTTPClientConfig; c.MaxIdleConns < 0 || c.MaxIdleConnsPerHost < 0 {
		errs = append(errs, fmt.Errorf("R2R_MAX_IDLE_CONNS and R2R_MAX_IDLE_CONNS_PER_HOST must not be negative, got %d and %d",
			c.MaxIdleConns, c.MaxIdleConnsPerHost))
	}

	if attempts := cfg.R2RConnectorCfg.Retry.Attempts; attempts < 1 || attempts > 10 {
		errs = append(errs, fmt.Errorf("R2R_RETRY_ATTEMPTS must be between 1 and 10, got %d", attempts))
	}

	if r := cfg.R2RConnectorCfg.Retry; r.MaxDelay < r.Delay {
		errs = append(errs, fmt.Errorf("R2R_RETRY_MAX_DELAY (%s) must not be less than R2R_RETRY_DELAY (%s)", r.MaxDelay, r.Delay))
	}

	if cfg.FileUploadCfg.Dir == "" {
		errs = append(errs, errors.New("FILE_UPLOAD_DIR must not be empty"))
	}

	if cfg.FileUploadCfg.MaxFileSize <= 0 {
		errs = append(errs, fmt.Errorf("FILE_UPLOAD_MAX_FILE_SIZE must be positive, got %d", cfg.FileUploadCfg.MaxFileSize))
	}

	if cfg.FileUploadCfg.MaxUploadSize < cfg.FileUploadCfg.MaxFileSize {
		errs = append(errs, fmt.Errorf("FILE_UPLOAD_MAX_UPLOAD_SIZE (%d) must not be less than FILE_UPLOAD_MAX_FILE_SIZE (%d)",
			cfg.FileUploadCfg.MaxUploadSize, cfg.FileUploadCfg.MaxFileSize))
	}

	switch cfg.UploadStoreCfg.Driver {
	case StoreMemory:
	case StoreSQLite:
		if cfg.UploadStoreCfg.SQLitePath == "" {
			errs = append(errs, errors.New("UPLOAD_STORE_SQLITE_PATH is required for the sqlite driver"))
		}
	case StorePostgres:
		if cfg.UploadStoreCfg.PostgresURL == "" {
			errs = append(errs, errors.New("UPLOAD_STORE_POSTGRES_URL is required for the postgres driver"))
		}
	case StoreRedis:
		if cfg.UploadStoreCfg.RedisAddr == "" {
			errs = append(errs, errors.New("UPLOAD_STORE_REDIS_ADDR is required for the redis driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("UPLOAD_STORE_DRIVER must be one of memory, sqlite, postgres, redis, got %q", cfg.UploadStoreCfg.Driver))
	}

	return errors.Join(errs...)
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
