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
	"fmt"

	"dexter-rewards-go/internal/gateway"
	"dexter-rewards-go/internal/models"
	"dexter-rewards-go/internal/rewards"
	"dexter-rewards-go/internal/store"
	"dexter-rewards-go/internal/wallet"

	"go.uber.org/zap"
)

// LedgerQuerier reads entity state from the ledger gateway
type LedgerQuerier interface {
	GetNonFungibleData(ctx context.Context, resourceAddress string, nonFungibleIds []string) (*models.NonFungibleDataPayload, error)
	GetKeyValueStoreData(ctx context.Context, storeAddress string, keys []string) (*models.KeyValueStoreDataPayload, error)
	GetEntityNonFungibles(ctx context.Context, address string) ([]models.NonFungibleResource, error)
	GetEntityDetails(ctx context.Context, addresses []string) (*models.EntityDetailsPayload, error)
}

// RewardsService fetches, aggregates and claims the rewards of the connected account
type RewardsService struct {
	gateway LedgerQuerier
	session wallet.Session
	store   store.RewardStore
	tokens  rewards.TokenLookup
	cfg     models.RewardsConfig
}

// NewRewardsService wires the service. rewardStore may be nil, in which case
// snapshots and claims are not persisted.
func NewRewardsService(
	gateway LedgerQuerier,
	session wallet.Session,
	rewardStore store.RewardStore,
	tokens rewards.TokenLookup,
	cfg models.RewardsConfig,
) *RewardsService {
	return &RewardsService{
		gateway: gateway,
		session: session,
		store:   rewardStore,
		tokens:  tokens,
		cfg:     cfg,
	}
}

func (s *RewardsService) HealthCheck(ctx context.Context) error {
	if _, err := s.gateway.GetEntityDetails(ctx, []string{s.cfg.RewardComponent}); err != nil {
		return fmt.Errorf("gateway health check failed: %w", err)
	}
	return nil
}

// logGatewayFault logs a failed gateway read. A 404 is an entity the ledger
// does not know yet, such as an account that never traded, and is logged as a warning.
func logGatewayFault(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if gateway.IsNotFound(err) {
		zap.L().Warn(msg, fields...)
		return
	}
	zap.L().Error(msg, fields...)
}
