package store

import (
	"context"
	"errors"

	"dexter-rewards-go/internal/models"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrSnapshotNotFound = errors.New("no reward snapshot found for account")
	ErrDuplicateClaim   = errors.New("duplicate claim")
	ErrInvalidRecord    = errors.New("invalid record")
)

// Claim statuses
const (
	ClaimStatusSubmitted = "submitted"
	ClaimStatusFailed    = "failed"
)

// RewardStore defines the contract that every backend (SQLite, Formance, ...) must satisfy.
type RewardStore interface {
	// --- Snapshots ---
	SaveSnapshot(ctx context.Context, snapshot models.RewardSnapshot) error
	GetLatestSnapshot(ctx context.Context, accountAddress string) (*models.RewardSnapshot, error)

	// --- Claims ---
	RecordClaim(ctx context.Context, claim models.ClaimRecord) error
	GetClaims(ctx context.Context, accountAddress string, limit int) ([]models.ClaimRecord, error)

	// --- Lifecycle ---
	Close()
}

// ValidateSnapshot checks the fields every backend relies on
func ValidateSnapshot(snapshot models.RewardSnapshot) error {
	if snapshot.Id == "" {
		return errors.Join(ErrInvalidRecord, errors.New("snapshot id is required"))
	}
	if snapshot.AccountAddress == "" {
		return errors.Join(ErrInvalidRecord, errors.New("snapshot account address is required"))
	}
	if snapshot.FetchedAt.IsZero() {
		return errors.Join(ErrInvalidRecord, errors.New("snapshot fetch time is required"))
	}
	return nil
}

// ValidateClaim checks the fields every backend relies on
func ValidateClaim(claim models.ClaimRecord) error {
	if claim.Id == "" {
		return errors.Join(ErrInvalidRecord, errors.New("claim id is required"))
	}
	if claim.AccountAddress == "" {
		return errors.Join(ErrInvalidRecord, errors.New("claim account address is required"))
	}
	if claim.Status != ClaimStatusSubmitted && claim.Status != ClaimStatusFailed {
		return errors.Join(ErrInvalidRecord, errors.New("claim status must be submitted or failed"))
	}
	return nil
}
