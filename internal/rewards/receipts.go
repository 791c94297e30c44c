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

package rewards

import (
	"strings"

	"dexter-rewards-go/internal/models"
)

// bech32Separator splits the human readable part of an address from its data
const bech32Separator = "1"

// ListReceiptIds returns the local ids held for the target resource across
// all of its vaults. It returns an empty slice when the resource is not held.
func ListReceiptIds(held []models.NonFungibleResource, targetResourceAddress string) []string {
	receiptIds := []string{}
	for _, resource := range held {
		if resource.ResourceAddress != targetResourceAddress {
			continue
		}
		for _, vault := range resource.Vaults.Items {
			receiptIds = append(receiptIds, vault.Items...)
		}
		break
	}
	return receiptIds
}

// AccountLocalId strips every occurrence of prefix from the account address,
// leaving the part used inside a NonFungibleLocalId literal.
func AccountLocalId(accountAddress, prefix string) string {
	if prefix == "" {
		return accountAddress
	}
	return strings.ReplaceAll(accountAddress, prefix, "")
}

// AccountNftId returns the local id of the account rewards NFT, which is the
// bech32 data part of the account address as a string id ("<...>"). It
// returns "" when the address has no separator.
func AccountNftId(accountAddress string) string {
	idx := strings.LastIndex(accountAddress, bech32Separator)
	if idx < 0 || idx == len(accountAddress)-1 {
		return ""
	}
	return "<" + accountAddress[idx+1:] + ">"
}
