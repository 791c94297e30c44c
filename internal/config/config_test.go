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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultResourcePrefix, cfg.Rewards.ResourcePrefix)
	assert.Equal(t, defaultClaimComponent, cfg.Rewards.RewardComponent)
	assert.Equal(t, defaultClaimNFTAddress, cfg.Rewards.RewardNFTAddress)
	assert.Equal(t, defaultClaimOrderAddress, cfg.Rewards.RewardOrderAddress)
	assert.Equal(t, defaultClaimVaultAddress, cfg.Rewards.RewardVaultAddress)
	assert.Equal(t, defaultDexterXrdResource, cfg.Rewards.ReceiptResourceAddress())
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, 30*time.Second, cfg.Gateway.Timeout)
	assert.Empty(t, cfg.Wallet.Accounts)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CLAIM_COMPONENT", "component_custom")
	t.Setenv("RESOURCE_ADDRESS_DEXTERXRD", "resource_receipts")
	t.Setenv("RESOURCE_ADDRESS_dextr", "resource_dextr")
	t.Setenv("WALLET_ACCOUNTS", " account_a , ,account_b")
	t.Setenv("GATEWAY_URL", "http://localhost:8080/")
	t.Setenv("STORE_BACKEND", "Formance")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "component_custom", cfg.Rewards.RewardComponent)
	assert.Equal(t, "resource_receipts", cfg.Rewards.ReceiptResourceAddress())
	assert.Equal(t, "resource_dextr", cfg.Rewards.ResourceAddresses["DEXTR"])
	assert.Equal(t, []string{"account_a", "account_b"}, cfg.Wallet.Accounts)
	assert.Equal(t, "http://localhost:8080", cfg.Gateway.BaseURL)
	assert.Equal(t, "formance", cfg.Store.Backend)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("GATEWAY_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GATEWAY_TIMEOUT")
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_UnknownReceiptSymbol(t *testing.T) {
	t.Setenv("RECEIPT_SYMBOL", "dexterxdr")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RECEIPT_SYMBOL")
}

func TestLoad_CustomReceiptSymbol(t *testing.T) {
	t.Setenv("RECEIPT_SYMBOL", "dexterusdc")
	t.Setenv("RESOURCE_ADDRESS_DEXTERUSDC", "resource_usdc_receipts")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "DEXTERUSDC", cfg.Rewards.ReceiptSymbol)
	assert.Equal(t, "resource_usdc_receipts", cfg.Rewards.ReceiptResourceAddress())
}

func TestGetResourceAddresses(t *testing.T) {
	got := getResourceAddresses([]string{
		"RESOURCE_ADDRESS_XRD=resource_xrd",
		"RESOURCE_ADDRESS_=ignored",
		"RESOURCE_ADDRESS_EMPTY=",
		"PATH=/usr/bin",
	})

	assert.Equal(t, map[string]string{
		"DEXTERXRD": defaultDexterXrdResource,
		"XRD":       "resource_xrd",
	}, got)
}
