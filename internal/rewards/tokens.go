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

import "dexter-rewards-go/internal/models"

// Display metadata used for tokens missing from the lookup
const (
	UnknownTokenSymbol = "?"
	UnknownTokenName   = "Unknown Token"
	UnknownTokenIcon   = "/unknown-token-icon.svg"
)

// TokenLookup resolves display metadata for a token address
type TokenLookup interface {
	TokenInfo(address string) models.TokenInfo
}

// TokenMap is a TokenLookup backed by a map keyed by token address
type TokenMap map[string]models.TokenInfo

// TokenInfo returns the metadata registered for address, or the unknown
// token placeholder.
func (m TokenMap) TokenInfo(address string) models.TokenInfo {
	if info, ok := m[address]; ok {
		info.Address = address
		return info
	}
	return UnknownToken(address)
}

// UnknownToken returns the placeholder metadata for an unlisted token
func UnknownToken(address string) models.TokenInfo {
	return models.TokenInfo{
		Address: address,
		Symbol:  UnknownTokenSymbol,
		Name:    UnknownTokenName,
		IconUrl: UnknownTokenIcon,
	}
}
