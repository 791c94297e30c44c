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

	"dexter-rewards-go/internal/common"
	"dexter-rewards-go/internal/config"

	"go.uber.org/zap"
)

func main() {
	limit := flag.Int("limit", 20, "Maximum number of claims to show")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	logger, loggerCleanup := common.InitializeLogger(cfg.Logging)
	defer loggerCleanup()

	ctx := context.Background()

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	snapshot, claims, err := services.RewardsService.ClaimHistory(ctx, *limit)
	if err != nil {
		logger.Fatal("Failed to load claim history", zap.Error(err))
	}

	common.PrintHeader("REWARDS HISTORY", common.WideWidth)

	if snapshot == nil {
		fmt.Println("No reward snapshot stored yet")
	} else {
		common.PrintSection(fmt.Sprintf("Latest snapshot %s (%s), %d receipts, total %s",
			snapshot.Id,
			snapshot.FetchedAt.Format("2006-01-02 15:04:05"),
			len(snapshot.ReceiptIds),
			snapshot.Total.String()), common.WideWidth)
		common.PrintTokenAmounts(snapshot.Tokens)
	}

	for _, claim := range claims {
		common.PrintSection(fmt.Sprintf("Claim %s [%s] %s, %d receipts",
			claim.Id,
			claim.Status,
			claim.CreatedAt.Format("2006-01-02 15:04:05"),
			len(claim.ReceiptIds)), common.WideWidth)
		if claim.SubmissionId != "" {
			fmt.Printf("│  submission: %s\n", claim.SubmissionId)
		}
		common.PrintTokenAmounts(claim.Tokens)
	}

	common.PrintFooter(fmt.Sprintf("SUMMARY: %d claims shown", len(claims)), common.WideWidth)

	logger.Info("History query completed", zap.Int("claims", len(claims)))
}
