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

package manifest

import (
	"errors"
)

var ErrNoReceipts = errors.New("claim manifest requires at least one receipt id")

// Proof names bound in the claim manifest
const (
	accountProofName  = "account_proof_1"
	receiptsProofName = "proof_1"
)

// Method names invoked by the claim manifest
const (
	methodCreateProofOfNonFungibles = "create_proof_of_non_fungibles"
	methodClaimRewards              = "claim_rewards"
	methodDepositBatch              = "deposit_batch"
)

// ClaimAddresses are the on-ledger addresses a claim manifest refers to
type ClaimAddresses struct {
	RewardNFTAddress       string
	ReceiptResourceAddress string
	RewardComponent        string
}

// BuildClaimManifest returns a manifest that proves ownership of the account
// rewards NFT and of every order receipt, calls claim_rewards on the reward
// component with both proofs and deposits the whole worktop to the account.
func BuildClaimManifest(accountAddress, accountLocalId string, receiptIds []string, addrs ClaimAddresses) (string, error) {
	if len(receiptIds) == 0 {
		return "", ErrNoReceipts
	}

	receipts := make([]Value, 0, len(receiptIds))
	for _, id := range receiptIds {
		receipts = append(receipts, NonFungibleLocalId(id))
	}

	account := Address(accountAddress)
	receiptResource := Address(addrs.ReceiptResourceAddress)

	m := &Manifest{}
	m.Add(
		CallMethod{
			Address: account,
			Method:  methodCreateProofOfNonFungibles,
			Args: []Value{
				Address(addrs.RewardNFTAddress),
				Array{ElementType: "NonFungibleLocalId", Elements: []Value{
					NonFungibleLocalId("<" + accountLocalId + ">"),
				}},
			},
		},
		PopFromAuthZone{Proof: accountProofName},
		CallMethod{
			Address: account,
			Method:  methodCreateProofOfNonFungibles,
			Args: []Value{
				receiptResource,
				Array{ElementType: "NonFungibleLocalId", Elements: receipts},
			},
		},
		CreateProofFromAuthZoneOfAll{Resource: receiptResource, Proof: receiptsProofName},
		CallMethod{
			Address: Address(addrs.RewardComponent),
			Method:  methodClaimRewards,
			Args: []Value{
				Array{ElementType: "Proof", Elements: []Value{Proof(accountProofName)}},
				Array{ElementType: "Proof", Elements: []Value{Proof(receiptsProofName)}},
			},
		},
		CallMethod{
			Address: account,
			Method:  methodDepositBatch,
			Args:    []Value{EntireWorktop},
		},
	)

	return m.Render()
}
