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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dexter-rewards-go/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutboxSession(t *testing.T) {
	_, err := NewOutboxSession(models.WalletConfig{Accounts: []string{"account_a"}})
	assert.Error(t, err)

	session, err := NewOutboxSession(models.WalletConfig{
		Accounts:  []string{" account_a ", "", "account_b"},
		OutboxDir: t.TempDir(),
	})
	require.NoError(t, err)

	data, err := session.WalletData(context.Background())
	require.NoError(t, err)
	require.Len(t, data.Accounts, 2)
	assert.Equal(t, "account_a", data.Accounts[0].Address)
	assert.Equal(t, "account_b", data.Accounts[1].Address)
}

func TestSendTransaction_WritesManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outbox")
	session, err := NewOutboxSession(models.WalletConfig{OutboxDir: dir})
	require.NoError(t, err)

	manifest := "CALL_METHOD\n    Address(\"account_a\")\n    \"deposit_batch\"\n;\n"
	id, err := session.SendTransaction(context.Background(), manifest)
	require.NoError(t, err)

	_, err = uuid.Parse(id)
	assert.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, id+".rtm"))
	require.NoError(t, err)
	assert.Equal(t, manifest, string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, strings.HasSuffix(entries[0].Name(), ".tmp"))
}

func TestSendTransaction_Rejects(t *testing.T) {
	session, err := NewOutboxSession(models.WalletConfig{OutboxDir: t.TempDir()})
	require.NoError(t, err)

	_, err = session.SendTransaction(context.Background(), "  ")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = session.SendTransaction(ctx, "CALL_METHOD;")
	assert.ErrorIs(t, err, context.Canceled)
}

type staticSession struct {
	data models.WalletData
	err  error
}

func (s staticSession) WalletData(context.Context) (models.WalletData, error) { return s.data, s.err }

func (s staticSession) SendTransaction(context.Context, string) (string, error) { return "", nil }

func TestPrimaryAccount(t *testing.T) {
	ctx := context.Background()

	account, err := PrimaryAccount(ctx, staticSession{data: models.WalletData{Accounts: []models.WalletAccount{
		{Address: "account_a"}, {Address: "account_b"},
	}}})
	require.NoError(t, err)
	assert.Equal(t, "account_a", account.Address)

	_, err = PrimaryAccount(ctx, staticSession{})
	assert.ErrorIs(t, err, ErrNoAccounts)

	boom := errors.New("boom")
	_, err = PrimaryAccount(ctx, staticSession{err: boom})
	assert.ErrorIs(t, err, boom)
}
