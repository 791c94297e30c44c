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

package wallet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dexter-rewards-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrNoAccounts = errors.New("wallet has no connected accounts")

// Session is the connection to the user's wallet. It exposes the connected
// accounts and submits transaction manifests for signing.
type Session interface {
	WalletData(ctx context.Context) (models.WalletData, error)
	SendTransaction(ctx context.Context, manifest string) (string, error)
}

// OutboxSession serves accounts from configuration and hands transactions to
// an external signer by writing each manifest as <uuid>.rtm into a directory.
type OutboxSession struct {
	accounts  []models.WalletAccount
	outboxDir string
}

var _ Session = (*OutboxSession)(nil)

func NewOutboxSession(cfg models.WalletConfig) (*OutboxSession, error) {
	if cfg.OutboxDir == "" {
		return nil, fmt.Errorf("wallet outbox directory cannot be empty")
	}

	accounts := make([]models.WalletAccount, 0, len(cfg.Accounts))
	for i, address := range cfg.Accounts {
		address = strings.TrimSpace(address)
		if address == "" {
			continue
		}
		accounts = append(accounts, models.WalletAccount{
			Address: address,
			Label:   fmt.Sprintf("account-%d", i),
		})
	}

	return &OutboxSession{accounts: accounts, outboxDir: cfg.OutboxDir}, nil
}

func (s *OutboxSession) WalletData(_ context.Context) (models.WalletData, error) {
	accounts := make([]models.WalletAccount, len(s.accounts))
	copy(accounts, s.accounts)
	return models.WalletData{Accounts: accounts}, nil
}

// SendTransaction writes the manifest to the outbox and returns its submission id.
// The file is written under a temporary name and renamed so a signer never sees a partial manifest.
func (s *OutboxSession) SendTransaction(ctx context.Context, manifest string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(manifest) == "" {
		return "", fmt.Errorf("manifest cannot be empty")
	}

	if err := os.MkdirAll(s.outboxDir, 0o755); err != nil {
		return "", fmt.Errorf("unable to create outbox directory: %w", err)
	}

	submissionId := uuid.New().String()
	target := filepath.Join(s.outboxDir, submissionId+".rtm")
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, []byte(manifest), 0o600); err != nil {
		return "", fmt.Errorf("unable to write manifest: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("unable to publish manifest: %w", err)
	}

	zap.L().Info("Transaction manifest written to outbox",
		zap.String("submission_id", submissionId),
		zap.String("file", target))
	return submissionId, nil
}

// PrimaryAccount returns the first connected account. Only one account is supported.
func PrimaryAccount(ctx context.Context, session Session) (models.WalletAccount, error) {
	data, err := session.WalletData(ctx)
	if err != nil {
		return models.WalletAccount{}, fmt.Errorf("unable to read wallet data: %w", err)
	}
	if len(data.Accounts) == 0 {
		return models.WalletAccount{}, ErrNoAccounts
	}
	if len(data.Accounts) > 1 {
		zap.L().Debug("Multiple accounts connected, using the first",
			zap.Int("accounts", len(data.Accounts)),
			zap.String("account", data.Accounts[0].Address))
	}
	return data.Accounts[0], nil
}
