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
	"time"

	"github.com/shopspring/decimal"
)

// WalletAccount is an account connected through the wallet
type WalletAccount struct {
	Address string `json:"address"`
	Label   string `json:"label,omitempty"`
}

// WalletData represents what the wallet shares with the application
type WalletData struct {
	Accounts []WalletAccount `json:"accounts"`
}

// TokenAmount is a per-token total kept alongside snapshots and claims
type TokenAmount struct {
	Address string          `json:"address"`
	Symbol  string          `json:"symbol"`
	Amount  decimal.Decimal `json:"amount"`
}

// RewardSnapshot is the reward state of an account after one fetch cycle
type RewardSnapshot struct {
	Id             string          `json:"id"`
	AccountAddress string          `json:"account_address"`
	ReceiptIds     []string        `json:"receipt_ids"`
	Total          decimal.Decimal `json:"total"`
	Tokens         []TokenAmount   `json:"tokens"`
	FetchedAt      time.Time       `json:"fetched_at"`
}

// ClaimRecord represents a claim transaction handed to the wallet
type ClaimRecord struct {
	Id             string        `json:"id"`
	AccountAddress string        `json:"account_address"`
	ReceiptIds     []string      `json:"receipt_ids"`
	Manifest       string        `json:"manifest"`
	Tokens         []TokenAmount `json:"tokens"`
	SubmissionId   string        `json:"submission_id"`
	Status         string        `json:"status"` // "submitted", "failed"
	CreatedAt      time.Time     `json:"created_at"`
}
