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
	"errors"
	"fmt"
	"time"

	"dexter-rewards-go/internal/manifest"
	"dexter-rewards-go/internal/models"
	"dexter-rewards-go/internal/rewards"
	"dexter-rewards-go/internal/store"
	"dexter-rewards-go/internal/wallet"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSubmissionFailed = errors.New("claim submission failed")

// ClaimResult describes a claim handed to the wallet
type ClaimResult struct {
	ClaimId        string
	AccountAddress string
	SubmissionId   string
	Manifest       string
	Status         string
}

// BuildClaim returns the claim manifest for the connected account and the given
// receipts without submitting it. An empty receipt list is rejected.
func (s *RewardsService) BuildClaim(ctx context.Context, receiptIds []string) (string, models.WalletAccount, error) {
	if len(receiptIds) == 0 {
		return "", models.WalletAccount{}, manifest.ErrNoReceipts
	}

	account, err := wallet.PrimaryAccount(ctx, s.session)
	if err != nil {
		return "", models.WalletAccount{}, err
	}

	text, err := manifest.BuildClaimManifest(
		account.Address,
		rewards.AccountLocalId(account.Address, s.cfg.ResourcePrefix),
		receiptIds,
		manifest.ClaimAddresses{
			RewardNFTAddress:       s.cfg.RewardNFTAddress,
			ReceiptResourceAddress: s.cfg.ReceiptResourceAddress(),
			RewardComponent:        s.cfg.RewardComponent,
		},
	)
	if err != nil {
		return "", models.WalletAccount{}, fmt.Errorf("unable to build claim manifest: %w", err)
	}
	return text, account, nil
}

// Claim builds the claim manifest and submits it through the wallet session.
// tokens are the per-token totals being claimed, recorded with the claim.
// A failed submission is recorded and returned as ErrSubmissionFailed.
func (s *RewardsService) Claim(ctx context.Context, receiptIds []string, tokens []models.TokenReward) (*ClaimResult, error) {
	text, account, err := s.BuildClaim(ctx, receiptIds)
	if err != nil {
		return nil, err
	}

	result := &ClaimResult{
		ClaimId:        uuid.New().String(),
		AccountAddress: account.Address,
		Manifest:       text,
		Status:         store.ClaimStatusSubmitted,
	}

	submissionId, sendErr := s.session.SendTransaction(ctx, text)
	if sendErr != nil {
		zap.L().Error("Failed to submit claim",
			zap.String("claim_id", result.ClaimId),
			zap.String("account", account.Address),
			zap.Error(sendErr))
		result.Status = store.ClaimStatusFailed
	} else {
		result.SubmissionId = submissionId
		zap.L().Info("Claim submitted",
			zap.String("claim_id", result.ClaimId),
			zap.String("submission_id", submissionId),
			zap.Int("receipts", len(receiptIds)))
	}

	s.recordClaim(ctx, result, receiptIds, tokens)

	if sendErr != nil {
		return result, fmt.Errorf("%w: %w", ErrSubmissionFailed, sendErr)
	}
	return result, nil
}

// recordClaim persists the claim when a store is configured. Persistence
// faults do not undo a submitted claim and are only logged.
func (s *RewardsService) recordClaim(ctx context.Context, result *ClaimResult, receiptIds []string, tokens []models.TokenReward) {
	if s.store == nil {
		return
	}

	err := s.store.RecordClaim(ctx, models.ClaimRecord{
		Id:             result.ClaimId,
		AccountAddress: result.AccountAddress,
		ReceiptIds:     receiptIds,
		Manifest:       result.Manifest,
		Tokens:         tokenAmounts(tokens),
		SubmissionId:   result.SubmissionId,
		Status:         result.Status,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		zap.L().Error("Failed to record claim",
			zap.String("claim_id", result.ClaimId),
			zap.Error(err))
	}
}

// ClaimHistory returns the latest snapshot and the most recent claims of the connected account.
func (s *RewardsService) ClaimHistory(ctx context.Context, limit int) (*models.RewardSnapshot, []models.ClaimRecord, error) {
	if s.store == nil {
		return nil, nil, fmt.Errorf("no reward store configured")
	}

	account, err := wallet.PrimaryAccount(ctx, s.session)
	if err != nil {
		return nil, nil, err
	}

	snapshot, err := s.store.GetLatestSnapshot(ctx, account.Address)
	if err != nil && !errors.Is(err, store.ErrSnapshotNotFound) {
		return nil, nil, fmt.Errorf("unable to load snapshot: %w", err)
	}

	claims, err := s.store.GetClaims(ctx, account.Address, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to load claims: %w", err)
	}
	return snapshot, claims, nil
}
