/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"dexter-rewards-go/internal/models"
)

// Defaults point at the stokenet test network deployment.
const (
	defaultResourcePrefix     = "account_tdx_2_1"
	defaultClaimComponent     = "component_tdx_2_1cz6m9sarml3fltfslegdyuy3s6x2rkxtzlm7k8amflt9d2lh6r05pj"
	defaultClaimNFTAddress    = "resource_tdx_2_1nfpa6s98aamfmw5r04phl0crtxpdl9j8qpz5pwqey2gqqk0ptepc360"
	defaultClaimOrderAddress  = "internal_keyvaluestore_tdx_2_1kzd9du9jmjlxdfcthgwtwlsug6z05hw0r864mwhhtgay3yxvuqdvds"
	defaultClaimVaultAddress  = "internal_keyvaluestore_tdx_2_1kqy9qv7nr7mc42fm7nlhald7g4lyzazrwyjsu8zwxsqmzjv6j7wcnn"
	defaultReceiptSymbol      = "DEXTERXRD"
	defaultDexterXrdResource  = "resource_tdx_2_1ng6vf9g4d30dw8h6h4t2t6e3mfxrhpw8d0n5dkpzh4xaqzqha57cd2"
	defaultGatewayURL         = "https://stokenet.radixdlt.com"
	resourceAddressEnvPrefix  = "RESOURCE_ADDRESS_"
	defaultMetricsNamespace   = "dexter_rewards"
	defaultFormanceLedgerName = "dexter-rewards"
)

func Load() (*models.Config, error) {
	gatewayTimeout, err := getEnvDuration("GATEWAY_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pollingInterval, err := getEnvDuration("WATCHER_POLLING_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := getEnvDuration("WATCHER_FETCH_TIMEOUT", time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	backend := strings.ToLower(getEnvString("STORE_BACKEND", "sqlite"))
	if backend != "sqlite" && backend != "formance" {
		return nil, fmt.Errorf("invalid STORE_BACKEND: %q (expected sqlite or formance)", backend)
	}

	resourceAddresses := getResourceAddresses(os.Environ())
	receiptSymbol := strings.ToUpper(getEnvString("RECEIPT_SYMBOL", defaultReceiptSymbol))
	if resourceAddresses[receiptSymbol] == "" {
		return nil, fmt.Errorf("invalid RECEIPT_SYMBOL: %q has no RESOURCE_ADDRESS_%s", receiptSymbol, receiptSymbol)
	}

	return &models.Config{
		Rewards: models.RewardsConfig{
			ResourcePrefix:     getEnvString("RESOURCE_PREFIX", defaultResourcePrefix),
			RewardComponent:    getEnvString("CLAIM_COMPONENT", defaultClaimComponent),
			RewardNFTAddress:   getEnvString("CLAIM_NFT_ADDRESS", defaultClaimNFTAddress),
			RewardOrderAddress: getEnvString("CLAIM_ORDER_ADDRESS", defaultClaimOrderAddress),
			RewardVaultAddress: getEnvString("CLAIM_VAULT_ADDRESS", defaultClaimVaultAddress),
			ResourceAddresses:  resourceAddresses,
			ReceiptSymbol:      receiptSymbol,
			TokensFile:         getEnvString("TOKENS_FILE", "tokens.yaml"),
		},
		Gateway: models.GatewayConfig{
			BaseURL: strings.TrimRight(getEnvString("GATEWAY_URL", defaultGatewayURL), "/"),
			Timeout: gatewayTimeout,
		},
		Wallet: models.WalletConfig{
			Accounts:  getEnvList("WALLET_ACCOUNTS"),
			OutboxDir: getEnvString("WALLET_OUTBOX_DIR", "outbox"),
		},
		Store: models.StoreConfig{
			Backend: backend,
		},
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "rewards.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
		},
		Formance: models.FormanceConfig{
			StackURL:     os.Getenv("FORMANCE_STACK_URL"),
			ClientID:     os.Getenv("FORMANCE_CLIENT_ID"),
			ClientSecret: os.Getenv("FORMANCE_CLIENT_SECRET"),
			LedgerName:   getEnvString("FORMANCE_LEDGER", defaultFormanceLedgerName),
		},
		Watcher: models.WatcherConfig{
			PollingInterval:  pollingInterval,
			FetchTimeout:     fetchTimeout,
			MetricsAddress:   getEnvString("METRICS_ADDRESS", "0.0.0.0:9999"),
			MetricsNamespace: getEnvString("METRICS_NAMESPACE", defaultMetricsNamespace),
		},
		Logging: models.LoggingConfig{
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 50),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 7),
		},
	}, nil
}

// getResourceAddresses collects RESOURCE_ADDRESS_<SYMBOL> variables. The
// receipt resource always has an entry so a bare environment still resolves.
func getResourceAddresses(environ []string) map[string]string {
	addresses := map[string]string{
		defaultReceiptSymbol: defaultDexterXrdResource,
	}
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" || !strings.HasPrefix(key, resourceAddressEnvPrefix) {
			continue
		}
		symbol := strings.ToUpper(strings.TrimPrefix(key, resourceAddressEnvPrefix))
		if symbol == "" {
			continue
		}
		addresses[symbol] = value
	}
	return addresses
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string) []string {
	var values []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
