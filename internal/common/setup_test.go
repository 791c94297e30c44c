package common

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dexter-rewards-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *models.Config {
	t.Helper()
	dir := t.TempDir()
	return &models.Config{
		Rewards: models.RewardsConfig{
			ResourcePrefix: "account_tdx_2_1",
			TokensFile:     filepath.Join(dir, "tokens.yaml"),
		},
		Gateway: models.GatewayConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second},
		Wallet:  models.WalletConfig{OutboxDir: filepath.Join(dir, "outbox")},
		Store:   models.StoreConfig{Backend: StoreBackendSqlite},
		Database: models.DatabaseConfig{
			Path:         filepath.Join(dir, "rewards.db"),
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			PingTimeout:  time.Second,
		},
	}
}

func TestInitializeServices_Sqlite(t *testing.T) {
	cfg := testConfig(t)

	services, err := InitializeServices(context.Background(), cfg)
	require.NoError(t, err)
	defer services.Close()

	assert.NotNil(t, services.Store)
	assert.NotNil(t, services.Gateway)
	assert.NotNil(t, services.Session)
	assert.NotNil(t, services.RewardsService)
	assert.Empty(t, services.Tokens)
}

func TestInitializeWithoutStore(t *testing.T) {
	services, err := InitializeWithoutStore(testConfig(t))
	require.NoError(t, err)
	defer services.Close()

	assert.Nil(t, services.Store)
	assert.NotNil(t, services.RewardsService)
}

func TestInitializeStoreOnly_UnsupportedBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Backend = "postgres"

	_, err := InitializeStoreOnly(context.Background(), cfg)
	assert.Error(t, err)
}

func TestInitializeStoreOnly_FormanceRequiresCredentials(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Backend = StoreBackendFormance

	_, err := InitializeStoreOnly(context.Background(), cfg)
	assert.Error(t, err)
}

func TestInitializeLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rewards.log")

	logger, cleanup := InitializeLogger(models.LoggingConfig{File: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1})
	logger.Info("written to file", zap.String("key", "value"))
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.Contains(t, string(data), `"key":"value"`)
}
