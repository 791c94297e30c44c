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
	"errors"
	"flag"
	"fmt"

	"dexter-rewards-go/internal/api"
	"dexter-rewards-go/internal/common"
	"dexter-rewards-go/internal/config"

	"go.uber.org/zap"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Print the claim manifest without submitting it")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	logger, loggerCleanup := common.InitializeLogger(cfg.Logging)
	defer loggerCleanup()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Watcher.FetchTimeout)
	defer cancel()

	var services *common.Services
	if *dryRun {
		services, err = common.InitializeWithoutStore(cfg)
	} else {
		services, err = common.InitializeServices(ctx, cfg)
	}
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	component, err := services.RewardsService.LoadClaimComponent(ctx)
	if err != nil {
		logger.Fatal("Failed to load claim component", zap.Error(err))
	}
	if component.AccountRewardsNftAddress != "" && component.AccountRewardsNftAddress != cfg.Rewards.RewardNFTAddress {
		logger.Warn("Configured rewards NFT differs from the claim component state",
			zap.String("configured", cfg.Rewards.RewardNFTAddress),
			zap.String("component", component.AccountRewardsNftAddress))
	}

	receiptIds, err := services.RewardsService.FetchReceipts(ctx)
	if err != nil {
		logger.Fatal("Failed to fetch receipts", zap.Error(err))
	}
	if len(receiptIds) == 0 {
		logger.Info("No order receipts held, nothing to claim")
		return
	}

	summary, err := services.RewardsService.FetchRewards(ctx, receiptIds)
	if err != nil {
		logger.Fatal("Failed to fetch rewards", zap.Error(err))
	}

	common.PrintHeader("CLAIM REWARDS", common.DefaultWidth)
	fmt.Printf("Account:  %s\n", summary.AccountAddress)
	fmt.Printf("Receipts: %d\n", len(receiptIds))
	common.PrintSection("Claiming", common.DefaultWidth)
	common.PrintTokenRewards(summary.ByToken)

	if *dryRun {
		text, _, err := services.RewardsService.BuildClaim(ctx, receiptIds)
		if err != nil {
			logger.Fatal("Failed to build claim manifest", zap.Error(err))
		}
		common.PrintSection("Manifest (dry run, not submitted)", common.DefaultWidth)
		fmt.Print(text)
		common.PrintFooter("DRY RUN: claim not submitted", common.DefaultWidth)
		return
	}

	result, err := services.RewardsService.Claim(ctx, receiptIds, summary.ByToken)
	if errors.Is(err, api.ErrSubmissionFailed) {
		logger.Fatal("Claim was not submitted",
			zap.String("claim_id", result.ClaimId),
			zap.Error(err))
	}
	if err != nil {
		logger.Fatal("Failed to claim rewards", zap.Error(err))
	}

	common.PrintFooter(fmt.Sprintf("SUBMITTED: claim %s (submission %s), total %s",
		result.ClaimId, result.SubmissionId, summary.Total.String()), common.DefaultWidth)

	logger.Info("Claim completed",
		zap.String("claim_id", result.ClaimId),
		zap.String("submission_id", result.SubmissionId),
		zap.Int("receipts", len(receiptIds)))
}
