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

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dexter-rewards-go/internal/models"
	"dexter-rewards-go/internal/store"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// RecordClaim stores a claim and its per-token totals. A claim id can only be recorded once.
func (s *Service) RecordClaim(ctx context.Context, claim models.ClaimRecord) error {
	if err := store.ValidateClaim(claim); err != nil {
		return err
	}

	var existingId string
	err := s.db.QueryRowContext(ctx, queryCheckDuplicateClaim, claim.Id).Scan(&existingId)
	if err == nil {
		zap.L().Warn("Duplicate claim id detected, skipping", zap.String("claim_id", claim.Id))
		return fmt.Errorf("%w: %s", store.ErrDuplicateClaim, claim.Id)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check for duplicate claim: %w", err)
	}

	if err := s.insertClaim(ctx, claim); err != nil {
		return err
	}

	zap.L().Info("Claim recorded",
		zap.String("claim_id", claim.Id),
		zap.String("account", claim.AccountAddress),
		zap.String("status", claim.Status),
		zap.Int("receipts", len(claim.ReceiptIds)))
	return nil
}

// insertClaim writes the claim and its tokens in one transaction. A concurrent
// insert of the same id that passed the duplicate check fails on the primary key.
func (s *Service) insertClaim(ctx context.Context, claim models.ClaimRecord) error {
	receiptIds, err := encodeReceiptIds(claim.ReceiptIds)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, queryInsertClaim,
		claim.Id, claim.AccountAddress, receiptIds, claim.Manifest, claim.SubmissionId, claim.Status, claim.CreatedAt.UTC())
	if err != nil {
		if isConstraintViolation(err) {
			zap.L().Warn("Duplicate claim id rejected on insert", zap.String("claim_id", claim.Id))
			return fmt.Errorf("%w: %s", store.ErrDuplicateClaim, claim.Id)
		}
		return fmt.Errorf("failed to insert claim: %w", err)
	}

	if err := insertTokens(ctx, tx, queryInsertClaimToken, claim.Id, claim.Tokens); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit claim: %w", err)
	}
	return nil
}

func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// GetClaims returns the most recent claims of an account, newest first
func (s *Service) GetClaims(ctx context.Context, accountAddress string, limit int) ([]models.ClaimRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	claims, receiptIds, err := s.queryClaims(ctx, accountAddress, limit)
	if err != nil {
		return nil, err
	}

	// Tokens are loaded once the claim rows are released.
	for i := range claims {
		claims[i].ReceiptIds, err = decodeReceiptIds(receiptIds[i])
		if err != nil {
			return nil, err
		}
		claims[i].Tokens, err = s.loadTokens(ctx, queryGetClaimTokens, claims[i].Id)
		if err != nil {
			return nil, err
		}
	}

	return claims, nil
}

func (s *Service) queryClaims(ctx context.Context, accountAddress string, limit int) ([]models.ClaimRecord, []string, error) {
	rows, err := s.db.QueryContext(ctx, queryGetClaims, accountAddress, limit)
	if err != nil {
		zap.L().Error("Failed to query claims", zap.Error(err))
		return nil, nil, fmt.Errorf("unable to query claims: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	claims := []models.ClaimRecord{}
	var receiptIds []string
	for rows.Next() {
		var claim models.ClaimRecord
		var rawIds string
		err := rows.Scan(&claim.Id, &claim.AccountAddress, &rawIds, &claim.Manifest,
			&claim.SubmissionId, &claim.Status, &claim.CreatedAt)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to scan claim row: %w", err)
		}
		claims = append(claims, claim)
		receiptIds = append(receiptIds, rawIds)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating claim rows: %w", err)
	}
	return claims, receiptIds, nil
}
