package formance

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dexter-rewards-go/internal/models"
	"dexter-rewards-go/internal/store"

	"github.com/formancehq/formance-sdk-go/v3/pkg/models/operations"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Snapshot metadata keys
const (
	metaSnapshotId = "snapshot_id"
	metaTotal      = "total"
	metaFetchedAt  = "fetched_at"
)

// snapshotAccount holds the latest snapshot of an account as metadata.
func snapshotAccount(accountAddress string) string {
	return "rewards:snapshots:" + accountAddress
}

func snapshotMetadata(snapshot models.RewardSnapshot) (map[string]string, error) {
	receiptIds := snapshot.ReceiptIds
	if receiptIds == nil {
		receiptIds = []string{}
	}
	tokens := snapshot.Tokens
	if tokens == nil {
		tokens = []models.TokenAmount{}
	}

	rawIds, err := json.Marshal(receiptIds)
	if err != nil {
		return nil, fmt.Errorf("unable to encode receipt ids: %w", err)
	}
	rawTokens, err := json.Marshal(tokens)
	if err != nil {
		return nil, fmt.Errorf("unable to encode tokens: %w", err)
	}

	return map[string]string{
		metaSnapshotId: snapshot.Id,
		metaAccount:    snapshot.AccountAddress,
		metaReceiptIds: string(rawIds),
		metaTokens:     string(rawTokens),
		metaTotal:      snapshot.Total.String(),
		metaFetchedAt:  snapshot.FetchedAt.UTC().Format(time.RFC3339Nano),
	}, nil
}

// snapshotFromMetadata returns false when the metadata holds no snapshot.
func snapshotFromMetadata(meta map[string]string) (*models.RewardSnapshot, bool, error) {
	if meta[metaSnapshotId] == "" {
		return nil, false, nil
	}

	snapshot := &models.RewardSnapshot{
		Id:             meta[metaSnapshotId],
		AccountAddress: meta[metaAccount],
		ReceiptIds:     []string{},
		Tokens:         []models.TokenAmount{},
	}

	var err error
	snapshot.FetchedAt, err = time.Parse(time.RFC3339Nano, meta[metaFetchedAt])
	if err != nil {
		return nil, false, fmt.Errorf("snapshot %s: invalid fetched_at: %w", snapshot.Id, err)
	}
	snapshot.Total, err = decimal.NewFromString(meta[metaTotal])
	if err != nil {
		return nil, false, fmt.Errorf("snapshot %s: invalid total: %w", snapshot.Id, err)
	}
	if err := json.Unmarshal([]byte(meta[metaReceiptIds]), &snapshot.ReceiptIds); err != nil {
		return nil, false, fmt.Errorf("snapshot %s: unable to decode receipt ids: %w", snapshot.Id, err)
	}
	if err := json.Unmarshal([]byte(meta[metaTokens]), &snapshot.Tokens); err != nil {
		return nil, false, fmt.Errorf("snapshot %s: unable to decode tokens: %w", snapshot.Id, err)
	}
	return snapshot, true, nil
}

// SaveSnapshot overwrites the snapshot metadata of the account. A snapshot fetched
// before the stored one is discarded.
func (s *Service) SaveSnapshot(ctx context.Context, snapshot models.RewardSnapshot) error {
	if err := store.ValidateSnapshot(snapshot); err != nil {
		return err
	}

	current, err := s.GetLatestSnapshot(ctx, snapshot.AccountAddress)
	if err == nil && current.FetchedAt.After(snapshot.FetchedAt) {
		zap.L().Debug("Discarding stale snapshot",
			zap.String("snapshot_id", snapshot.Id),
			zap.Time("fetched_at", snapshot.FetchedAt),
			zap.Time("stored_fetched_at", current.FetchedAt))
		return nil
	}

	meta, err := snapshotMetadata(snapshot)
	if err != nil {
		return err
	}

	_, err = s.client.Ledger.V2.AddMetadataToAccount(ctx, operations.V2AddMetadataToAccountRequest{
		Ledger:      s.ledger,
		Address:     snapshotAccount(snapshot.AccountAddress),
		RequestBody: meta,
	})
	if err != nil {
		return fmt.Errorf("failed to store snapshot metadata: %w", err)
	}

	zap.L().Debug("Snapshot stored in Formance",
		zap.String("snapshot_id", snapshot.Id),
		zap.String("account", snapshot.AccountAddress))
	return nil
}

// GetLatestSnapshot reads the snapshot metadata of the account.
func (s *Service) GetLatestSnapshot(ctx context.Context, accountAddress string) (*models.RewardSnapshot, error) {
	resp, err := s.client.Ledger.V2.GetAccount(ctx, operations.V2GetAccountRequest{
		Ledger:  s.ledger,
		Address: snapshotAccount(accountAddress),
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", store.ErrSnapshotNotFound, accountAddress)
		}
		return nil, fmt.Errorf("failed to get snapshot account: %w", err)
	}

	snapshot, ok, err := snapshotFromMetadata(resp.V2AccountResponse.Data.Metadata)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrSnapshotNotFound, accountAddress)
	}
	return snapshot, nil
}
