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
	"time"

	"dexter-rewards-go/internal/models"
	"dexter-rewards-go/internal/rewards"
	"dexter-rewards-go/internal/wallet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RewardsSummary is the outcome of one fetch cycle
type RewardsSummary struct {
	AccountAddress string
	ReceiptIds     []string
	Accounts       []models.AccountRewards
	Orders         []models.OrderRewards
	ByType         []models.TypeRewards
	ByToken        []models.TokenReward
	ByOrder        models.OrdersByTypeRewards
	Total          decimal.Decimal
	FetchedAt      time.Time
}

func emptySummary(accountAddress string, receiptIds []string) *RewardsSummary {
	if receiptIds == nil {
		receiptIds = []string{}
	}
	return &RewardsSummary{
		AccountAddress: accountAddress,
		ReceiptIds:     receiptIds,
		Accounts:       []models.AccountRewards{},
		Orders:         []models.OrderRewards{},
		ByType:         []models.TypeRewards{},
		ByToken:        []models.TokenReward{},
		ByOrder:        models.OrdersByTypeRewards{},
		Total:          decimal.Zero,
		FetchedAt:      time.Now().UTC(),
	}
}

// FetchRewards loads the account rewards NFT and the order rewards of the given
// receipts concurrently, then aggregates them. Wallet and gateway faults are
// logged and degrade to empty rewards; parsing faults are returned.
func (s *RewardsService) FetchRewards(ctx context.Context, receiptIds []string) (*RewardsSummary, error) {
	account, err := wallet.PrimaryAccount(ctx, s.session)
	if err != nil {
		zap.L().Warn("Unable to resolve wallet account", zap.Error(err))
		return emptySummary("", receiptIds), nil
	}

	summary := emptySummary(account.Address, receiptIds)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		accounts, err := s.fetchAccountRewards(gctx, account.Address)
		if err != nil {
			return err
		}
		summary.Accounts = accounts
		return nil
	})
	g.Go(func() error {
		orders, err := s.fetchOrderRewards(gctx, summary.ReceiptIds)
		if err != nil {
			return err
		}
		summary.Orders = orders
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.ByType = rewards.ByTypeAndToken(summary.Accounts, summary.Orders, s.tokens)
	summary.ByToken = rewards.ByToken(summary.Accounts, summary.Orders, s.tokens)
	summary.ByOrder = rewards.ByTypeTokenOrder(summary.Accounts, summary.Orders, s.tokens)
	summary.Total = rewards.Total(summary.ByToken)

	zap.L().Info("Rewards fetched",
		zap.String("account", account.Address),
		zap.Int("receipts", len(summary.ReceiptIds)),
		zap.Int("orders_with_rewards", len(summary.Orders)),
		zap.Int("tokens", len(summary.ByToken)),
		zap.String("total", summary.Total.String()))
	return summary, nil
}

func (s *RewardsService) fetchAccountRewards(ctx context.Context, accountAddress string) ([]models.AccountRewards, error) {
	nftId := rewards.AccountNftId(accountAddress)
	if nftId == "" {
		zap.L().Warn("Account address has no data part", zap.String("account", accountAddress))
		return []models.AccountRewards{}, nil
	}

	payload, err := s.gateway.GetNonFungibleData(ctx, s.cfg.RewardNFTAddress, []string{nftId})
	if err != nil {
		logGatewayFault("Failed to fetch account rewards NFT", err,
			zap.String("account", accountAddress),
			zap.String("nft_id", nftId))
		return []models.AccountRewards{}, nil
	}

	accounts, err := rewards.ParseAccountRewards(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to parse account rewards: %w", err)
	}
	return accounts, nil
}

func (s *RewardsService) fetchOrderRewards(ctx context.Context, receiptIds []string) ([]models.OrderRewards, error) {
	if len(receiptIds) == 0 {
		return []models.OrderRewards{}, nil
	}

	receiptResource := s.cfg.ReceiptResourceAddress()
	keys := make([]string, len(receiptIds))
	for i, id := range receiptIds {
		keys[i] = rewards.ReceiptKvsKey(receiptResource, id)
	}

	payload, err := s.gateway.GetKeyValueStoreData(ctx, s.cfg.RewardOrderAddress, keys)
	if err != nil {
		logGatewayFault("Failed to fetch order rewards", err,
			zap.String("store", s.cfg.RewardOrderAddress),
			zap.Int("keys", len(keys)))
		return []models.OrderRewards{}, nil
	}

	orders, err := rewards.ParseOrderRewards(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to parse order rewards: %w", err)
	}
	return orders, nil
}

// tokenAmounts flattens per-token totals for persistence
func tokenAmounts(byToken []models.TokenReward) []models.TokenAmount {
	amounts := make([]models.TokenAmount, len(byToken))
	for i, t := range byToken {
		amounts[i] = models.TokenAmount{Address: t.Address, Symbol: t.Symbol, Amount: t.Amount}
	}
	return amounts
}

// SaveSnapshot persists the summary as the latest reward state of its account.
func (s *RewardsService) SaveSnapshot(ctx context.Context, summary *RewardsSummary) (*models.RewardSnapshot, error) {
	if s.store == nil {
		return nil, fmt.Errorf("no reward store configured")
	}
	if summary == nil || summary.AccountAddress == "" {
		return nil, fmt.Errorf("summary has no account")
	}

	snapshot := models.RewardSnapshot{
		Id:             uuid.New().String(),
		AccountAddress: summary.AccountAddress,
		ReceiptIds:     summary.ReceiptIds,
		Total:          summary.Total,
		Tokens:         tokenAmounts(summary.ByToken),
		FetchedAt:      summary.FetchedAt,
	}
	if err := s.store.SaveSnapshot(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("unable to save snapshot: %w", err)
	}
	return &snapshot, nil
}
