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
	"errors"
	"fmt"
	"regexp"

	"dexter-rewards-go/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors for payloads that do not match the expected ledger schema
var (
	ErrMissingFields   = errors.New("missing programmatic_json fields")
	ErrMissingEntries  = errors.New("missing key-value store entries")
	ErrMalformedAmount = errors.New("malformed reward amount")
)

// Field names used by the claim component's data structures
const (
	fieldAccountAddress = "account_address"
	fieldOrderId        = "order_id"
	fieldRewards        = "rewards"

	fieldDextrTokenAddress = "dextr_token_address"
	fieldAdminTokenAddress = "admin_token_address"
	fieldAccountRewardsNft = "account_rewards_nft_manager"
	fieldOrderRewardsKvs   = "order_rewards"
)

var amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ParseAccountRewards extracts account rewards from non-fungible data of the
// account rewards NFT. The payload is either a batch (non_fungible_ids), a
// single item (non_fungible_id) or neither, in which case the account holds
// no rewards NFT and the result is empty.
func ParseAccountRewards(payload *models.NonFungibleDataPayload) ([]models.AccountRewards, error) {
	if payload == nil {
		return nil, fmt.Errorf("account rewards payload is nil: %w", ErrMissingFields)
	}

	var items []models.NonFungibleDataItem
	switch {
	case len(payload.NonFungibleIds) > 0:
		items = payload.NonFungibleIds
	case payload.NonFungibleId != "":
		items = []models.NonFungibleDataItem{{
			NonFungibleId: payload.NonFungibleId,
			Data:          payload.Data,
		}}
	default:
		return []models.AccountRewards{}, nil
	}

	accountsRewards := make([]models.AccountRewards, 0, len(items))
	for _, item := range items {
		fields, err := programmaticFields(item.Data)
		if err != nil {
			return nil, fmt.Errorf("non-fungible %s: %w", item.NonFungibleId, err)
		}

		accountRewards := models.AccountRewards{Rewards: []models.TypeRewards{}}
		var hasAddress, hasRewards bool
		for _, field := range fields {
			switch field.FieldName {
			case fieldAccountAddress:
				hasAddress = true
				accountRewards.AccountAddress = field.Value
			case fieldRewards:
				hasRewards = true
				typeRewards, err := parseTypeRewards(field)
				if err != nil {
					return nil, fmt.Errorf("non-fungible %s: %w", item.NonFungibleId, err)
				}
				accountRewards.Rewards = append(accountRewards.Rewards, typeRewards...)
			}
		}
		if err := requireFields(hasAddress, fieldAccountAddress, hasRewards); err != nil {
			return nil, fmt.Errorf("non-fungible %s: %w", item.NonFungibleId, err)
		}
		accountsRewards = append(accountsRewards, accountRewards)
	}

	return accountsRewards, nil
}

// ParseOrderRewards extracts order rewards from the order rewards key-value
// store response. A response without entries is rejected; an empty entries
// list means no order rewards.
func ParseOrderRewards(payload *models.KeyValueStoreDataPayload) ([]models.OrderRewards, error) {
	if payload == nil || payload.Entries == nil {
		return nil, ErrMissingEntries
	}

	ordersRewards := make([]models.OrderRewards, 0, len(payload.Entries))
	for i, entry := range payload.Entries {
		fields, err := programmaticFields(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("order rewards entry %d: %w", i, err)
		}

		orderRewards := models.OrderRewards{OrderId: -1, Rewards: []models.TypeRewards{}}
		var hasOrderId, hasRewards bool
		for _, field := range fields {
			switch field.FieldName {
			case fieldOrderId:
				hasOrderId = true
				index := ParseOrderIndex(field.Value)
				orderRewards.OrderIndex = field.Value
				orderRewards.OrderReceiptAddress = index.ReceiptAddress
				orderRewards.OrderId = index.OrderId
			case fieldRewards:
				hasRewards = true
				typeRewards, err := parseTypeRewards(field)
				if err != nil {
					return nil, fmt.Errorf("order rewards entry %d: %w", i, err)
				}
				orderRewards.Rewards = append(orderRewards.Rewards, typeRewards...)
			}
		}
		if err := requireFields(hasOrderId, fieldOrderId, hasRewards); err != nil {
			return nil, fmt.Errorf("order rewards entry %d: %w", i, err)
		}
		ordersRewards = append(ordersRewards, orderRewards)
	}

	return ordersRewards, nil
}

// ParseClaimComponent reads the claim component addresses from its entity
// state. Unknown or absent fields leave the corresponding address empty.
func ParseClaimComponent(payload *models.EntityDetailsPayload) models.ClaimComponent {
	var component models.ClaimComponent
	if payload == nil || len(payload.Items) == 0 {
		return component
	}

	item := payload.Items[0]
	if item.Address == "" || item.Details == nil || item.Details.State == nil {
		return component
	}

	component.Address = item.Address
	for _, field := range item.Details.State.Fields {
		switch field.FieldName {
		case fieldDextrTokenAddress:
			component.DextrTokenAddress = field.Value
		case fieldAdminTokenAddress:
			component.AdminTokenAddress = field.Value
		case fieldAccountRewardsNft:
			component.AccountRewardsNftAddress = field.Value
		case fieldOrderRewardsKvs:
			component.OrderRewardsKvsAddress = field.Value
		}
	}
	return component
}

func programmaticFields(data *models.ProgrammaticData) ([]models.ProgrammaticValue, error) {
	if data == nil || data.ProgrammaticJSON == nil || data.ProgrammaticJSON.Fields == nil {
		return nil, ErrMissingFields
	}
	return data.ProgrammaticJSON.Fields, nil
}

func requireFields(hasKey bool, keyField string, hasRewards bool) error {
	if !hasKey {
		return fmt.Errorf("field %q absent: %w", keyField, ErrMissingFields)
	}
	if !hasRewards {
		return fmt.Errorf("field %q absent: %w", fieldRewards, ErrMissingFields)
	}
	return nil
}

// parseTypeRewards reads a map of reward type -> (map of token address ->
// amount), keeping the source key order. Both levels must be maps.
func parseTypeRewards(field models.ProgrammaticValue) ([]models.TypeRewards, error) {
	if field.Entries == nil {
		return nil, fmt.Errorf("field %q of kind %q is not a map: %w", field.FieldName, field.Kind, ErrMissingFields)
	}

	result := make([]models.TypeRewards, 0, len(field.Entries))
	for _, typeEntry := range field.Entries {
		if typeEntry.Value.Entries == nil {
			return nil, fmt.Errorf("reward type %q of kind %q is not a map: %w", typeEntry.Key.Value, typeEntry.Value.Kind, ErrMissingFields)
		}
		typeRewards := models.TypeRewards{
			RewardType:   typeEntry.Key.Value,
			TokenRewards: make([]models.TokenReward, 0, len(typeEntry.Value.Entries)),
		}
		for _, tokenEntry := range typeEntry.Value.Entries {
			amount, err := parseAmount(tokenEntry.Value.Value)
			if err != nil {
				return nil, fmt.Errorf("reward type %q token %s: %w", typeRewards.RewardType, tokenEntry.Key.Value, err)
			}
			typeRewards.TokenRewards = append(typeRewards.TokenRewards, models.TokenReward{
				TokenInfo: models.TokenInfo{Address: tokenEntry.Key.Value},
				Amount:    amount,
			})
		}
		result = append(result, typeRewards)
	}
	return result, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if !amountPattern.MatchString(raw) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedAmount, raw)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q (%v)", ErrMalformedAmount, raw, err)
	}
	return amount, nil
}
