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

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaveSnapshot atomically stores a snapshot with its per-token totals
func (s *Service) SaveSnapshot(ctx context.Context, snapshot models.RewardSnapshot) error {
	if err := store.ValidateSnapshot(snapshot); err != nil {
		return err
	}

	receiptIds, err := encodeReceiptIds(snapshot.ReceiptIds)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, queryInsertSnapshot,
		snapshot.Id, snapshot.AccountAddress, receiptIds, snapshot.Total.String(), snapshot.FetchedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	if err := insertTokens(ctx, tx, queryInsertSnapshotToken, snapshot.Id, snapshot.Tokens); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	zap.L().Debug("Snapshot saved",
		zap.String("snapshot_id", snapshot.Id),
		zap.String("account", snapshot.AccountAddress),
		zap.Int("receipts", len(snapshot.ReceiptIds)),
		zap.String("total", snapshot.Total.String()))
	return nil
}

// GetLatestSnapshot returns the most recently fetched snapshot for an account
func (s *Service) GetLatestSnapshot(ctx context.Context, accountAddress string) (*models.RewardSnapshot, error) {
	var snapshot models.RewardSnapshot
	var receiptIds, totalStr string

	err := s.db.QueryRowContext(ctx, queryGetLatestSnapshot, accountAddress).
		Scan(&snapshot.Id, &snapshot.AccountAddress, &receiptIds, &totalStr, &snapshot.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrSnapshotNotFound, accountAddress)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to query latest snapshot: %w", err)
	}

	snapshot.ReceiptIds, err = decodeReceiptIds(receiptIds)
	if err != nil {
		return nil, err
	}
	snapshot.Total, err = decimal.NewFromString(totalStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot total '%s': %w", totalStr, err)
	}
	snapshot.Tokens, err = s.loadTokens(ctx, queryGetSnapshotTokens, snapshot.Id)
	if err != nil {
		return nil, err
	}

	return &snapshot, nil
}
