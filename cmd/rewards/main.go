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

package main

import (
	"context"
	"flag"
	"fmt"

	"dexter-rewards-go/internal/api"
	"dexter-rewards-go/internal/common"
	"dexter-rewards-go/internal/config"
	"dexter-rewards-go/internal/models"

	"go.uber.org/zap"
)

const (
	viewToken = "token"
	viewType  = "type"
	viewOrder = "order"
)

func printByType(summary *api.RewardsSummary) {
	for _, typeRewards := range summary.ByType {
		common.PrintSection(fmt.Sprintf("Reward type: %s", typeRewards.RewardType), common.DefaultWidth)
		common.PrintTokenRewards(typeRewards.TokenRewards)
	}
}

func printByOrder(summary *api.RewardsSummary) {
	for _, typeRewards := range summary.ByType {
		byToken := summary.ByOrder[typeRewards.RewardType]
		for _, token := range typeRewards.TokenRewards {
			entries := byToken[token.Address]
			common.PrintSection(fmt.Sprintf("%s / %s: %s", typeRewards.RewardType, common.TokenLabel(token.TokenInfo), token.Amount.String()), common.WideWidth)
			for i, entry := range entries {
				fmt.Printf("%s %-60s %30s\n", common.BoxPrefix(i == len(entries)-1), orderLabel(entry), entry.Amount.String())
			}
		}
	}
}

func orderLabel(entry models.OrderTokenReward) string {
	if entry.OrderId < 0 {
		return "account " + common.ShortAddress(entry.OrderReceiptAddress)
	}
	return fmt.Sprintf("order #%d (%s)", entry.OrderId, common.ShortAddress(entry.OrderReceiptAddress))
}

func main() {
	view := flag.String("by", viewToken, "Report layout: token, type or order")
	save := flag.Bool("save", false, "Persist the result as a reward snapshot")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	logger, loggerCleanup := common.InitializeLogger(cfg.Logging)
	defer loggerCleanup()

	if *view != viewToken && *view != viewType && *view != viewOrder {
		logger.Fatal("Invalid report layout", zap.String("by", *view))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Watcher.FetchTimeout)
	defer cancel()

	var services *common.Services
	if *save {
		services, err = common.InitializeServices(ctx, cfg)
	} else {
		services, err = common.InitializeWithoutStore(cfg)
	}
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	receiptIds, err := services.RewardsService.FetchReceipts(ctx)
	if err != nil {
		logger.Fatal("Failed to fetch receipts", zap.Error(err))
	}

	summary, err := services.RewardsService.FetchRewards(ctx, receiptIds)
	if err != nil {
		logger.Fatal("Failed to fetch rewards", zap.Error(err))
	}

	common.PrintHeader("REWARDS REPORT", common.DefaultWidth)
	fmt.Printf("Account:  %s\n", summary.AccountAddress)
	fmt.Printf("Receipts: %d\n", len(summary.ReceiptIds))

	switch *view {
	case viewType:
		printByType(summary)
	case viewOrder:
		printByOrder(summary)
	default:
		common.PrintSection("Claimable by token", common.DefaultWidth)
		common.PrintTokenRewards(summary.ByToken)
	}

	if *save {
		snapshot, err := services.RewardsService.SaveSnapshot(ctx, summary)
		if err != nil {
			logger.Error("Failed to save snapshot", zap.Error(err))
		} else {
			logger.Info("Snapshot saved", zap.String("snapshot_id", snapshot.Id))
		}
	}

	common.PrintFooter(fmt.Sprintf("TOTAL: %s across %d tokens", summary.Total.String(), len(summary.ByToken)), common.DefaultWidth)

	logger.Info("Rewards query completed",
		zap.String("account", summary.AccountAddress),
		zap.Int("receipts", len(summary.ReceiptIds)),
		zap.Int("tokens", len(summary.ByToken)))
}
