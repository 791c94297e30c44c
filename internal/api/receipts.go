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

package api

import (
	"context"

	"dexter-rewards-go/internal/models"
	"dexter-rewards-go/internal/rewards"
	"dexter-rewards-go/internal/wallet"

	"go.uber.org/zap"
)

// FetchReceipts returns the local ids of the order receipts held by the
// connected account. Wallet and gateway faults are logged and yield no receipts.
func (s *RewardsService) FetchReceipts(ctx context.Context) ([]string, error) {
	account, err := wallet.PrimaryAccount(ctx, s.session)
	if err != nil {
		zap.L().Warn("Unable to resolve wallet account", zap.Error(err))
		return []string{}, nil
	}

	resources, err := s.gateway.GetEntityNonFungibles(ctx, account.Address)
	if err != nil {
		logGatewayFault("Failed to fetch account non-fungibles", err,
			zap.String("account", account.Address))
		return []string{}, nil
	}

	receiptIds := rewards.ListReceiptIds(resources, s.cfg.ReceiptResourceAddress())
	zap.L().Debug("Receipts resolved",
		zap.String("account", account.Address),
		zap.Int("resources", len(resources)),
		zap.Int("receipts", len(receiptIds)))
	return receiptIds, nil
}

// LoadClaimComponent reads the addresses configured in the claim component state.
// Gateway faults are logged and yield an empty component.
func (s *RewardsService) LoadClaimComponent(ctx context.Context) (models.ClaimComponent, error) {
	payload, err := s.gateway.GetEntityDetails(ctx, []string{s.cfg.RewardComponent})
	if err != nil {
		logGatewayFault("Failed to fetch claim component details", err,
			zap.String("component", s.cfg.RewardComponent))
		return models.ClaimComponent{}, nil
	}
	return rewards.ParseClaimComponent(payload), nil
}
