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
	"encoding/json"
	"testing"

	"dexter-rewards-go/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const accountRewardsBatchJSON = `{
  "resource_address": "resource_tdx_2_1nftrewards",
  "non_fungible_ids": [
    {
      "non_fungible_id": "<abc>",
      "is_burned": false,
      "data": {
        "programmatic_json": {
          "kind": "Tuple",
          "fields": [
            {"kind": "Map", "field_name": "rewards", "key_kind": "String", "value_kind": "Map", "entries": [
              {"key": {"kind": "String", "value": "trading"}, "value": {"kind": "Map", "entries": [
                {"key": {"kind": "Reference", "value": "resource_A"}, "value": {"kind": "Decimal", "value": "100"}},
                {"key": {"kind": "Reference", "value": "resource_B"}, "value": {"kind": "Decimal", "value": "0.25"}}
              ]}},
              {"key": {"kind": "String", "value": "liquidity"}, "value": {"kind": "Map", "entries": [
                {"key": {"kind": "Reference", "value": "resource_A"}, "value": {"kind": "Decimal", "value": "3"}}
              ]}}
            ]},
            {"kind": "Reference", "field_name": "account_address", "value": "account_tdx_2_1abc"}
          ]
        }
      }
    }
  ]
}`

const accountRewardsSingleJSON = `{
  "non_fungible_id": "<abc>",
  "data": {
    "programmatic_json": {
      "kind": "Tuple",
      "fields": [
        {"kind": "Reference", "field_name": "account_address", "value": "account_tdx_2_1abc"},
        {"kind": "Map", "field_name": "rewards", "entries": []}
      ]
    }
  }
}`

const orderRewardsJSON = `{
  "key_value_store_address": "internal_keyvaluestore_tdx_2_1orders",
  "entries": [
    {
      "key": {"programmatic_json": {"kind": "String", "value": "resource_receipts#7#"}},
      "value": {
        "programmatic_json": {
          "kind": "Tuple",
          "fields": [
            {"kind": "String", "field_name": "order_id", "value": "resource_receipts#7#"},
            {"kind": "Map", "field_name": "rewards", "entries": [
              {"key": {"kind": "String", "value": "trading"}, "value": {"kind": "Map", "entries": [
                {"key": {"kind": "Reference", "value": "resource_A"}, "value": {"kind": "Decimal", "value": "50"}}
              ]}}
            ]}
          ]
        }
      },
      "is_locked": false
    }
  ]
}`

func decodePayload[T any](t *testing.T, raw string) *T {
	t.Helper()
	var payload T
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	return &payload
}

func TestParseAccountRewards_Batch(t *testing.T) {
	payload := decodePayload[models.NonFungibleDataPayload](t, accountRewardsBatchJSON)

	accounts, err := ParseAccountRewards(payload)
	require.NoError(t, err)
	require.Len(t, accounts, 1)

	account := accounts[0]
	assert.Equal(t, "account_tdx_2_1abc", account.AccountAddress)
	require.Len(t, account.Rewards, 2)

	assert.Equal(t, "trading", account.Rewards[0].RewardType)
	require.Len(t, account.Rewards[0].TokenRewards, 2)
	assert.Equal(t, "resource_A", account.Rewards[0].TokenRewards[0].Address)
	assert.True(t, account.Rewards[0].TokenRewards[0].Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "resource_B", account.Rewards[0].TokenRewards[1].Address)
	assert.True(t, account.Rewards[0].TokenRewards[1].Amount.Equal(decimal.RequireFromString("0.25")))

	assert.Equal(t, "liquidity", account.Rewards[1].RewardType)
	assert.True(t, account.Rewards[1].TokenRewards[0].Amount.Equal(decimal.NewFromInt(3)))
}

func TestParseAccountRewards_Single(t *testing.T) {
	payload := decodePayload[models.NonFungibleDataPayload](t, accountRewardsSingleJSON)

	accounts, err := ParseAccountRewards(payload)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "account_tdx_2_1abc", accounts[0].AccountAddress)
	assert.Empty(t, accounts[0].Rewards)
}

func TestParseAccountRewards_NoRewardsNft(t *testing.T) {
	payload := decodePayload[models.NonFungibleDataPayload](t, `{"resource_address": "resource_x", "non_fungible_ids": []}`)

	accounts, err := ParseAccountRewards(payload)
	require.NoError(t, err)
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)
}

func TestParseAccountRewards_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no data", `{"non_fungible_ids": [{"non_fungible_id": "<abc>"}]}`},
		{"no programmatic json", `{"non_fungible_ids": [{"non_fungible_id": "<abc>", "data": {}}]}`},
		{"no fields", `{"non_fungible_id": "<abc>", "data": {"programmatic_json": {"kind": "Tuple"}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := decodePayload[models.NonFungibleDataPayload](t, tt.raw)
			_, err := ParseAccountRewards(payload)
			assert.ErrorIs(t, err, ErrMissingFields)
		})
	}

	_, err := ParseAccountRewards(nil)
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestParseAccountRewards_MalformedAmount(t *testing.T) {
	raw := `{"non_fungible_id": "<abc>", "data": {"programmatic_json": {"kind": "Tuple", "fields": [
	  {"kind": "Reference", "field_name": "account_address", "value": "account_tdx_2_1abc"},
	  {"kind": "Map", "field_name": "rewards", "entries": [
	    {"key": {"kind": "String", "value": "trading"}, "value": {"kind": "Map", "entries": [
	      {"key": {"kind": "Reference", "value": "resource_A"}, "value": {"kind": "Decimal", "value": "1e5"}}
	    ]}}
	  ]}
	]}}}`
	payload := decodePayload[models.NonFungibleDataPayload](t, raw)

	_, err := ParseAccountRewards(payload)
	assert.ErrorIs(t, err, ErrMalformedAmount)
}

func TestParseOrderRewards(t *testing.T) {
	payload := decodePayload[models.KeyValueStoreDataPayload](t, orderRewardsJSON)

	orders, err := ParseOrderRewards(payload)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	order := orders[0]
	assert.Equal(t, "resource_receipts#7#", order.OrderIndex)
	assert.Equal(t, "resource_receipts", order.OrderReceiptAddress)
	assert.Equal(t, int64(7), order.OrderId)
	require.Len(t, order.Rewards, 1)
	assert.Equal(t, "trading", order.Rewards[0].RewardType)
	assert.True(t, order.Rewards[0].TokenRewards[0].Amount.Equal(decimal.NewFromInt(50)))
}

func TestParseOrderRewards_EmptyEntries(t *testing.T) {
	payload := decodePayload[models.KeyValueStoreDataPayload](t, `{"key_value_store_address": "kvs", "entries": []}`)

	orders, err := ParseOrderRewards(payload)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestParseOrderRewards_MissingEntries(t *testing.T) {
	payload := decodePayload[models.KeyValueStoreDataPayload](t, `{"key_value_store_address": "kvs"}`)

	_, err := ParseOrderRewards(payload)
	assert.ErrorIs(t, err, ErrMissingEntries)

	_, err = ParseOrderRewards(nil)
	assert.ErrorIs(t, err, ErrMissingEntries)
}

func TestParseOrderRewards_MissingValueFields(t *testing.T) {
	payload := decodePayload[models.KeyValueStoreDataPayload](t, `{"entries": [{"key": {}, "value": {"programmatic_json": {"kind": "Tuple"}}}]}`)

	_, err := ParseOrderRewards(payload)
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestParseOrderRewards_UnparseableOrderId(t *testing.T) {
	raw := `{"entries": [{"value": {"programmatic_json": {"kind": "Tuple", "fields": [
	  {"kind": "String", "field_name": "order_id", "value": "garbage"},
	  {"kind": "Map", "field_name": "rewards", "entries": []}
	]}}}]}`
	payload := decodePayload[models.KeyValueStoreDataPayload](t, raw)

	orders, err := ParseOrderRewards(payload)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "garbage", orders[0].OrderIndex)
	assert.Equal(t, "", orders[0].OrderReceiptAddress)
	assert.Equal(t, int64(-1), orders[0].OrderId)
}

func TestParseAccountRewards_SchemaMismatch(t *testing.T) {
	tests := []struct {
		name   string
		fields string
	}{
		{"no account address", `{"kind": "Map", "field_name": "rewards", "entries": []}`},
		{"no rewards", `{"kind": "Reference", "field_name": "account_address", "value": "account_tdx_2_1abc"}`},
		{"rewards not a map", `{"kind": "Reference", "field_name": "account_address", "value": "account_tdx_2_1abc"},
		  {"kind": "String", "field_name": "rewards", "value": "not-a-map"}`},
		{"reward type not a map", `{"kind": "Reference", "field_name": "account_address", "value": "account_tdx_2_1abc"},
		  {"kind": "Map", "field_name": "rewards", "entries": [
		    {"key": {"kind": "String", "value": "trading"}, "value": {"kind": "Decimal", "value": "5"}}
		  ]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"non_fungible_id": "<abc>", "data": {"programmatic_json": {"kind": "Tuple", "fields": [` + tt.fields + `]}}}`
			payload := decodePayload[models.NonFungibleDataPayload](t, raw)

			accounts, err := ParseAccountRewards(payload)
			assert.ErrorIs(t, err, ErrMissingFields)
			assert.Nil(t, accounts)
		})
	}
}

func TestParseOrderRewards_SchemaMismatch(t *testing.T) {
	tests := []struct {
		name   string
		fields string
	}{
		{"only a string rewards field", `{"kind": "String", "field_name": "rewards", "value": "not-a-map"}`},
		{"no order id", `{"kind": "Map", "field_name": "rewards", "entries": []}`},
		{"no rewards", `{"kind": "String", "field_name": "order_id", "value": "resource_receipts#7#"}`},
		{"reward type not a map", `{"kind": "String", "field_name": "order_id", "value": "resource_receipts#7#"},
		  {"kind": "Map", "field_name": "rewards", "entries": [
		    {"key": {"kind": "String", "value": "trading"}, "value": {"kind": "String", "value": "5"}}
		  ]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"entries": [{"value": {"programmatic_json": {"kind": "Tuple", "fields": [` + tt.fields + `]}}}]}`
			payload := decodePayload[models.KeyValueStoreDataPayload](t, raw)

			orders, err := ParseOrderRewards(payload)
			assert.ErrorIs(t, err, ErrMissingFields)
			assert.Nil(t, orders)
		})
	}
}

func TestParseAccountRewards_IgnoresBoolField(t *testing.T) {
	raw := `{"non_fungible_id": "<abc>", "data": {"programmatic_json": {"kind": "Tuple", "fields": [
	  {"kind": "Reference", "field_name": "account_address", "value": "account_tdx_2_1abc"},
	  {"kind": "Bool", "field_name": "active", "value": true},
	  {"kind": "Map", "field_name": "rewards", "entries": [
	    {"key": {"kind": "String", "value": "trading"}, "value": {"kind": "Map", "entries": [
	      {"key": {"kind": "Reference", "value": "resource_A"}, "value": {"kind": "Decimal", "value": "4"}}
	    ]}}
	  ]}
	]}}}`
	payload := decodePayload[models.NonFungibleDataPayload](t, raw)

	accounts, err := ParseAccountRewards(payload)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.True(t, accounts[0].Rewards[0].TokenRewards[0].Amount.Equal(decimal.NewFromInt(4)))
}

func TestParseClaimComponent(t *testing.T) {
	raw := `{"items": [{"address": "component_tdx_2_1claim", "details": {"type": "Component", "state": {"fields": [
	  {"kind": "Reference", "field_name": "dextr_token_address", "value": "resource_dextr"},
	  {"kind": "Reference", "field_name": "admin_token_address", "value": "resource_admin"},
	  {"kind": "Reference", "field_name": "account_rewards_nft_manager", "value": "resource_nft"},
	  {"kind": "Own", "field_name": "order_rewards", "value": "internal_keyvaluestore_orders"},
	  {"kind": "U64", "field_name": "unrelated", "value": "1"},
	  {"kind": "Bool", "field_name": "paused", "value": false}
	]}}}]}`
	payload := decodePayload[models.EntityDetailsPayload](t, raw)

	component := ParseClaimComponent(payload)
	assert.Equal(t, models.ClaimComponent{
		Address:                  "component_tdx_2_1claim",
		DextrTokenAddress:        "resource_dextr",
		AdminTokenAddress:        "resource_admin",
		AccountRewardsNftAddress: "resource_nft",
		OrderRewardsKvsAddress:   "internal_keyvaluestore_orders",
	}, component)

	assert.Equal(t, models.ClaimComponent{}, ParseClaimComponent(&models.EntityDetailsPayload{}))
	assert.Equal(t, models.ClaimComponent{}, ParseClaimComponent(nil))
}
