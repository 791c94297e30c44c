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

import (
	"github.com/shopspring/decimal"
)

// TokenInfo holds the display metadata of a fungible token
type TokenInfo struct {
	Address string `json:"address" yaml:"address"`
	Symbol  string `json:"symbol" yaml:"symbol"`
	Name    string `json:"name" yaml:"name"`
	IconUrl string `json:"icon_url" yaml:"icon_url"`
}

// TokenReward is the reward amount earned in one token
type TokenReward struct {
	TokenInfo
	Amount decimal.Decimal `json:"amount"`
}

// TypeRewards groups token rewards under one reward category (e.g. "trading").
// Token addresses are unique within TokenRewards.
type TypeRewards struct {
	RewardType   string        `json:"reward_type"`
	TokenRewards []TokenReward `json:"token_rewards"`
}

// AccountRewards is the content of one account rewards NFT
type AccountRewards struct {
	AccountAddress string        `json:"account_address"`
	Rewards        []TypeRewards `json:"rewards"`
}

// OrderRewards is one entry of the claim component's order rewards store
type OrderRewards struct {
	OrderReceiptAddress string        `json:"order_receipt_address"`
	OrderId             int64         `json:"order_id"`
	OrderIndex          string        `json:"order_index"`
	Rewards             []TypeRewards `json:"rewards"`
}

// OrderTokenReward attributes a single token reward to one order
type OrderTokenReward struct {
	OrderReceiptAddress string          `json:"order_receipt_address"`
	OrderId             int64           `json:"order_id"`
	OrderIndex          string          `json:"order_index"`
	Amount              decimal.Decimal `json:"amount"`
}

// OrdersByTypeRewards maps reward type -> token address -> per-order rewards
type OrdersByTypeRewards map[string]map[string][]OrderTokenReward

// ClaimComponent describes the on-ledger component that pays out rewards
type ClaimComponent struct {
	Address                  string `json:"address"`
	DextrTokenAddress        string `json:"dextr_token_address"`
	AdminTokenAddress        string `json:"admin_token_address"`
	AccountRewardsNftAddress string `json:"account_rewards_nft_address"`
	OrderRewardsKvsAddress   string `json:"order_rewards_kvs_address"`
}
