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
	"encoding/json"
	"fmt"

	"dexter-rewards-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func encodeReceiptIds(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("unable to encode receipt ids: %w", err)
	}
	return string(b), nil
}

func decodeReceiptIds(raw string) ([]string, error) {
	ids := []string{}
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("unable to decode receipt ids: %w", err)
	}
	return ids, nil
}

// insertTokens writes per-token totals in their display order
func insertTokens(ctx context.Context, tx *sql.Tx, query, ownerId string, tokens []models.TokenAmount) error {
	for i, token := range tokens {
		if _, err := tx.ExecContext(ctx, query, ownerId, i, token.Address, token.Symbol, token.Amount.String()); err != nil {
			return fmt.Errorf("failed to insert token %s: %w", token.Address, err)
		}
	}
	return nil
}

func (s *Service) loadTokens(ctx context.Context, query, ownerId string) ([]models.TokenAmount, error) {
	rows, err := s.db.QueryContext(ctx, query, ownerId)
	if err != nil {
		return nil, fmt.Errorf("unable to query tokens: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	tokens := []models.TokenAmount{}
	for rows.Next() {
		var token models.TokenAmount
		var amountStr string
		if err := rows.Scan(&token.Address, &token.Symbol, &amountStr); err != nil {
			return nil, fmt.Errorf("unable to scan token row: %w", err)
		}
		token.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse token amount '%s': %w", amountStr, err)
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating token rows: %w", err)
	}
	return tokens, nil
}
