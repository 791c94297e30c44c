package common

import (
	"context"
	"fmt"
	"log"
	"strings"

	"dexter-rewards-go/internal/api"
	"dexter-rewards-go/internal/database"
	"dexter-rewards-go/internal/formance"
	"dexter-rewards-go/internal/gateway"
	"dexter-rewards-go/internal/models"
	"dexter-rewards-go/internal/rewards"
	"dexter-rewards-go/internal/store"
	"dexter-rewards-go/internal/wallet"

	"github.com/joho/godotenv"
	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	StoreBackendSqlite   = "sqlite"
	StoreBackendFormance = "formance"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can be set via other means (shell export, docker, etc.)
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	Store          store.RewardStore
	Gateway        *gateway.Client
	Session        wallet.Session
	Tokens         rewards.TokenMap
	RewardsService *api.RewardsService
}

// InitializeLogger installs the global production logger. When cfg.File is
// set, entries are also written to a rotating JSON log file.
func InitializeLogger(cfg models.LoggingConfig) (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	var rotator *lumberjack.Logger
	if cfg.File != "" {
		rotator = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotator),
			zap.InfoLevel,
		)
		logger = logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, fileCore)
		}))
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
		if rotator != nil {
			_ = rotator.Close()
		}
	}

	return logger, cleanup
}

// InitializeServices wires the store, gateway client, wallet session and rewards service.
func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	rewardStore, err := InitializeStoreOnly(ctx, cfg)
	if err != nil {
		return nil, err
	}

	services, err := initializeWithStore(cfg, rewardStore)
	if err != nil {
		rewardStore.Close()
		return nil, err
	}
	return services, nil
}

// InitializeWithoutStore wires everything but persistence.
// Useful for read-only commands that only query the ledger.
func InitializeWithoutStore(cfg *models.Config) (*Services, error) {
	return initializeWithStore(cfg, nil)
}

func initializeWithStore(cfg *models.Config, rewardStore store.RewardStore) (*Services, error) {
	gatewayClient, err := gateway.NewClient(cfg.Gateway)
	if err != nil {
		return nil, err
	}

	session, err := wallet.NewOutboxSession(cfg.Wallet)
	if err != nil {
		return nil, err
	}

	tokens, err := LoadTokens(cfg.Rewards.TokensFile)
	if err != nil {
		return nil, err
	}
	zap.L().Info("Loaded token metadata",
		zap.String("file", cfg.Rewards.TokensFile),
		zap.Int("tokens", len(tokens)))

	return &Services{
		Store:          rewardStore,
		Gateway:        gatewayClient,
		Session:        session,
		Tokens:         tokens,
		RewardsService: api.NewRewardsService(gatewayClient, session, rewardStore, tokens, cfg.Rewards),
	}, nil
}

// InitializeStoreOnly opens the configured persistence backend
func InitializeStoreOnly(ctx context.Context, cfg *models.Config) (store.RewardStore, error) {
	switch cfg.Store.Backend {
	case StoreBackendFormance:
		zap.L().Info("Using Formance store", zap.String("ledger", cfg.Formance.LedgerName))
		svc, err := formance.NewService(ctx, cfg.Formance)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case StoreBackendSqlite, "":
		zap.L().Info("Using SQLite store", zap.String("path", cfg.Database.Path))
		svc, err := database.NewService(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}
}

func (cs *Services) Close() {
	if cs.Store != nil {
		cs.Store.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
