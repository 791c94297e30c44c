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

package models

import "time"

// Config represents the application configuration
type Config struct {
	Rewards  RewardsConfig
	Gateway  GatewayConfig
	Wallet   WalletConfig
	Store    StoreConfig
	Database DatabaseConfig
	Formance FormanceConfig
	Watcher  WatcherConfig
	Logging  LoggingConfig
}

// RewardsConfig holds the on-ledger addresses of the rewards setup
type RewardsConfig struct {
	ResourcePrefix     string
	RewardComponent    string
	RewardNFTAddress   string
	RewardOrderAddress string
	RewardVaultAddress string
	// ResourceAddresses maps a token symbol (e.g. DEXTERXRD) to its resource address
	ResourceAddresses map[string]string
	// ReceiptSymbol selects the order receipt resource in ResourceAddresses
	ReceiptSymbol string
	TokensFile    string
}

// ReceiptResourceAddress returns the resource address of order receipts
func (c RewardsConfig) ReceiptResourceAddress() string {
	return c.ResourceAddresses[c.ReceiptSymbol]
}

// GatewayConfig holds ledger gateway API settings
type GatewayConfig struct {
	BaseURL string
	Timeout time.Duration
}

// WalletConfig holds the wallet session settings
type WalletConfig struct {
	Accounts  []string
	OutboxDir string
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Backend string // "sqlite" or "formance"
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// FormanceConfig holds Formance stack connection settings
type FormanceConfig struct {
	StackURL     string
	ClientID     string
	ClientSecret string
	LedgerName   string
}

// WatcherConfig holds reward watcher settings
type WatcherConfig struct {
	PollingInterval  time.Duration
	FetchTimeout     time.Duration
	MetricsAddress   string
	MetricsNamespace string
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}
