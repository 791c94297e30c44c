package formance

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"dexter-rewards-go/internal/models"
	"dexter-rewards-go/internal/store"

	"github.com/formancehq/formance-sdk-go/v3/pkg/models/operations"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/shared"
	"go.uber.org/zap"
)

const eventTypeRewardClaim = "reward_claim"

// Claim metadata keys
const (
	metaEventType    = "event_type"
	metaClaimId      = "claim_id"
	metaAccount      = "account_address"
	metaStatus       = "status"
	metaSubmissionId = "submission_id"
	metaManifest     = "manifest"
	metaReceiptIds   = "receipt_ids"
	metaTokens       = "tokens"
	metaCreatedAt    = "created_at"
)

// claimToken is the per-token metadata kept next to each posting. Amounts live in the postings.
type claimToken struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
}

// claimAccount returns the ledger account credited by a claim, e.g. rewards:claimed:<account>.
func claimAccount(accountAddress, status string) string {
	if status == store.ClaimStatusFailed {
		return "rewards:failed:" + accountAddress
	}
	return "rewards:claimed:" + accountAddress
}

// claimTransaction maps a claim to a ledger transaction: one posting per token
// from @world, followed by a posting counting the claimed receipts.
func claimTransaction(claim models.ClaimRecord) (shared.V2PostTransaction, error) {
	destination := claimAccount(claim.AccountAddress, claim.Status)

	tokens := make([]claimToken, 0, len(claim.Tokens))
	postings := make([]shared.V2Posting, 0, len(claim.Tokens)+1)
	for _, t := range claim.Tokens {
		if t.Amount.IsNegative() {
			return shared.V2PostTransaction{}, fmt.Errorf("%w: negative amount for token %s", store.ErrInvalidRecord, t.Address)
		}
		tokens = append(tokens, claimToken{Address: t.Address, Symbol: t.Symbol})
		postings = append(postings, shared.V2Posting{
			Source:      "world",
			Destination: destination,
			Asset:       formanceAsset(t.Symbol),
			Amount:      toSmallestUnit(t.Amount),
		})
	}
	postings = append(postings, shared.V2Posting{
		Source:      "world",
		Destination: destination,
		Asset:       receiptAsset,
		Amount:      big.NewInt(int64(len(claim.ReceiptIds))),
	})

	receiptIds := claim.ReceiptIds
	if receiptIds == nil {
		receiptIds = []string{}
	}
	rawIds, err := json.Marshal(receiptIds)
	if err != nil {
		return shared.V2PostTransaction{}, fmt.Errorf("unable to encode receipt ids: %w", err)
	}
	rawTokens, err := json.Marshal(tokens)
	if err != nil {
		return shared.V2PostTransaction{}, fmt.Errorf("unable to encode tokens: %w", err)
	}

	createdAt := claim.CreatedAt.UTC()
	return shared.V2PostTransaction{
		Reference: strPtr(claim.Id),
		Postings:  postings,
		Timestamp: &createdAt,
		Metadata: map[string]string{
			metaEventType:    eventTypeRewardClaim,
			metaClaimId:      claim.Id,
			metaAccount:      claim.AccountAddress,
			metaStatus:       claim.Status,
			metaSubmissionId: claim.SubmissionId,
			metaManifest:     claim.Manifest,
			metaReceiptIds:   string(rawIds),
			metaTokens:       string(rawTokens),
			metaCreatedAt:    createdAt.Format(time.RFC3339Nano),
		},
	}, nil
}

// claimFromTransaction rebuilds a claim from its ledger transaction.
func claimFromTransaction(tx shared.V2Transaction) (models.ClaimRecord, error) {
	claim := models.ClaimRecord{
		Id:             tx.Metadata[metaClaimId],
		AccountAddress: tx.Metadata[metaAccount],
		Manifest:       tx.Metadata[metaManifest],
		SubmissionId:   tx.Metadata[metaSubmissionId],
		Status:         tx.Metadata[metaStatus],
		CreatedAt:      tx.Timestamp,
		ReceiptIds:     []string{},
		Tokens:         []models.TokenAmount{},
	}
	if claim.Id == "" && tx.Reference != nil {
		claim.Id = *tx.Reference
	}
	if raw := tx.Metadata[metaCreatedAt]; raw != "" {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			claim.CreatedAt = t
		}
	}

	if raw := tx.Metadata[metaReceiptIds]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &claim.ReceiptIds); err != nil {
			return models.ClaimRecord{}, fmt.Errorf("claim %s: unable to decode receipt ids: %w", claim.Id, err)
		}
	}

	var tokens []claimToken
	if raw := tx.Metadata[metaTokens]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &tokens); err != nil {
			return models.ClaimRecord{}, fmt.Errorf("claim %s: unable to decode tokens: %w", claim.Id, err)
		}
	}

	// Token postings come first, in the same order as the token metadata.
	i := 0
	for _, p := range tx.Postings {
		if p.Asset == receiptAsset {
			continue
		}
		if i >= len(tokens) {
			break
		}
		claim.Tokens = append(claim.Tokens, models.TokenAmount{
			Address: tokens[i].Address,
			Symbol:  tokens[i].Symbol,
			Amount:  fromSmallestUnit(p.Amount),
		})
		i++
	}

	return claim, nil
}

// RecordClaim posts the claim as a ledger transaction referenced by the claim id.
func (s *Service) RecordClaim(ctx context.Context, claim models.ClaimRecord) error {
	if err := store.ValidateClaim(claim); err != nil {
		return err
	}

	postTx, err := claimTransaction(claim)
	if err != nil {
		return err
	}

	_, err = s.client.Ledger.V2.CreateTransaction(ctx, operations.V2CreateTransactionRequest{
		Ledger:            s.ledger,
		V2PostTransaction: postTx,
	})
	if err != nil {
		if isConflictError(err) {
			return fmt.Errorf("%w: %s", store.ErrDuplicateClaim, claim.Id)
		}
		return fmt.Errorf("error recording claim: %w", err)
	}

	zap.L().Info("Claim recorded in Formance",
		zap.String("claim_id", claim.Id),
		zap.String("account", claim.AccountAddress),
		zap.String("status", claim.Status),
		zap.Int("tokens", len(claim.Tokens)))
	return nil
}

// GetClaims returns the most recent claims of an account, newest first.
func (s *Service) GetClaims(ctx context.Context, accountAddress string, limit int) ([]models.ClaimRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	pageSize := int64(limit)

	resp, err := s.client.Ledger.V2.ListTransactions(ctx, operations.V2ListTransactionsRequest{
		Ledger:   s.ledger,
		PageSize: &pageSize,
		RequestBody: map[string]any{
			"$and": []any{
				map[string]any{"$match": map[string]any{"metadata[" + metaEventType + "]": eventTypeRewardClaim}},
				map[string]any{"$match": map[string]any{"metadata[" + metaAccount + "]": accountAddress}},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}

	claims := []models.ClaimRecord{}
	for _, tx := range resp.V2TransactionsCursorResponse.Cursor.Data {
		claim, err := claimFromTransaction(tx)
		if err != nil {
			zap.L().Warn("Skipping unreadable claim transaction", zap.Error(err))
			continue
		}
		claims = append(claims, claim)
		if len(claims) >= limit {
			break
		}
	}
	return claims, nil
}
