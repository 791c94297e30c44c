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
	"fmt"

	"dexter-rewards-go/internal/common"
	"dexter-rewards-go/internal/config"
	"dexter-rewards-go/internal/wallet"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	logger, loggerCleanup := common.InitializeLogger(cfg.Logging)
	defer loggerCleanup()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Gateway.Timeout*2)
	defer cancel()

	services, err := common.InitializeWithoutStore(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	account, err := wallet.PrimaryAccount(ctx, services.Session)
	if err != nil {
		logger.Fatal("No wallet account configured, set WALLET_ACCOUNTS", zap.Error(err))
	}

	receiptIds, err := services.RewardsService.FetchReceipts(ctx)
	if err != nil {
		logger.Fatal("Failed to fetch receipts", zap.Error(err))
	}

	common.PrintHeader("ORDER RECEIPTS", common.DefaultWidth)
	fmt.Printf("Account:  %s\n", account.Address)
	fmt.Printf("Resource: %s (%s)\n", cfg.Rewards.ReceiptResourceAddress(), cfg.Rewards.ReceiptSymbol)

	if len(receiptIds) > 0 {
		common.PrintSection(fmt.Sprintf("Receipts: %d", len(receiptIds)), common.DefaultWidth)
		for i, id := range receiptIds {
			fmt.Printf("%s %s\n", common.BoxPrefix(i == len(receiptIds)-1), id)
		}
	}

	common.PrintFooter(fmt.Sprintf("SUMMARY: %d receipts held", len(receiptIds)), common.DefaultWidth)

	logger.Info("Receipt query completed",
		zap.String("account", account.Address),
		zap.Int("receipts", len(receiptIds)))
}
