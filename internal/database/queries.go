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

const (
	// Snapshot queries
	queryInsertSnapshot = `
		INSERT INTO reward_snapshots (id, account_address, receipt_ids, total, fetched_at)
		VALUES (?, ?, ?, ?, ?)`

	queryGetLatestSnapshot = `
		SELECT id, account_address, receipt_ids, total, fetched_at
		FROM reward_snapshots
		WHERE account_address = ?
		ORDER BY fetched_at DESC, rowid DESC
		LIMIT 1`

	queryInsertSnapshotToken = `
		INSERT INTO snapshot_tokens (snapshot_id, position, token_address, symbol, amount)
		VALUES (?, ?, ?, ?, ?)`

	queryGetSnapshotTokens = `
		SELECT token_address, symbol, amount
		FROM snapshot_tokens
		WHERE snapshot_id = ?
		ORDER BY position`

	// Claim queries
	queryCheckDuplicateClaim = `
		SELECT id FROM claims WHERE id = ?`

	queryInsertClaim = `
		INSERT INTO claims (id, account_address, receipt_ids, manifest, submission_id, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryGetClaims = `
		SELECT id, account_address, receipt_ids, manifest, submission_id, status, created_at
		FROM claims
		WHERE account_address = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`

	queryInsertClaimToken = `
		INSERT INTO claim_tokens (claim_id, position, token_address, symbol, amount)
		VALUES (?, ?, ?, ?, ?)`

	queryGetClaimTokens = `
		SELECT token_address, symbol, amount
		FROM claim_tokens
		WHERE claim_id = ?
		ORDER BY position`
)
