package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := Parse()
		require.NoError(t, err)

		assert.Equal(t, ":8000", cfg.ServerAddr)
		assert.Equal(t, StoreMemory, cfg.UploadStoreCfg.Driver)
		assert.Equal(t, 100, cfg.R2RConnectorCfg.ListPageSize)
		assert.Equal(t, uint(3), cfg.R2RConnectorCfg.Retry.Attempts)
		assert.Equal(t, 500*time.Millisecond, cfg.R2RConnectorCfg.Retry.Delay)
		assert.Contains(t, cfg.FileUploadCfg.AllowedExtensions, ".pdf")
		assert.Equal(t, 10*time.Second, cfg.R2RConnectorCfg.TLSHandshakeTimeout)
		assert.Equal(t, 100, cfg.R2RConnectorCfg.MaxIdleConns)
		assert.Equal(t, 10, cfg.R2RConnectorCfg.MaxIdleConnsPerHost)
		assert.False(t, cfg.R2RConnectorCfg.InsecureSkipVerify)
	})

	t.Run("Normalizes values", func(t *testing.T) {
		t.Setenv("R2R_SERVICE_URL", "http://r2r:7272/")
		t.Setenv("UPLOAD_STORE_DRIVER", " Redis ")
		t.Setenv("FILE_UPLOAD_ALLOWED_EXTENSIONS", "PDF, .txt,,md")

		cfg, err := Parse()
		require.NoError(t, err)

		assert.Equal(t, "http://r2r:7272", cfg.R2RConnectorCfg.Url)
		assert.Equal(t, StoreRedis, cfg.UploadStoreCfg.Driver)
		assert.Equal(t, []string{".pdf", ".txt", ".md"}, cfg.FileUploadCfg.AllowedExtensions)
	})

	t.Run("Failure", func(t *testing.T) {
		tests := []struct {
			name string
			key  string
			val  string
			want string
		}{
			{"unknown driver", "UPLOAD_STORE_DRIVER", "bolt", "UPLOAD_STORE_DRIVER"},
			{"page size", "R2R_LIST_PAGE_SIZE", "0", "R2R_LIST_PAGE_SIZE"},
			{"retry attempts", "R2R_RETRY_ATTEMPTS", "0", "R2R_RETRY_ATTEMPTS"},
			{"retry delays", "R2R_RETRY_MAX_DELAY", "10ms", "R2R_RETRY_MAX_DELAY"},
			{"upload size", "FILE_UPLOAD_MAX_UPLOAD_SIZE", "10", "FILE_UPLOAD_MAX_UPLOAD_SIZE"},
			{"postgres url", "UPLOAD_STORE_DRIVER", "postgres", "UPLOAD_STORE_POSTGRES_URL"},
			{"idle conns", "R2R_MAX_IDLE_CONNS", "-1", "R2R_MAX_IDLE_CONNS"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Setenv(tt.key, tt.val)

				_, err := Parse()
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.want)
			})
		}
	})
}

func TestGetEnvFile(t *testing.T) {
	assert.Equal(t, ".env.prod", getEnvFile("production"))
	assert.Equal(t, ".env.local", getEnvFile("dev"))
	assert.Equal(t, ".env.staging", getEnvFile("staging"))
}
