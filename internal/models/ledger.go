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

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The types below mirror the gateway API JSON payloads. Slices that must be
// present are left nil by encoding/json when the key is absent and set to an
// empty slice when the key holds [], which is how missing containers are told
// apart from empty ones.

// ProgrammaticValue is a node of a programmatic_json tree. Primitive kinds
// carry Value, tuples carry Fields, maps carry Entries, arrays carry Elements.
type ProgrammaticValue struct {
	Kind      string              `json:"kind"`
	TypeName  string              `json:"type_name,omitempty"`
	FieldName string              `json:"field_name,omitempty"`
	Value     string              `json:"value,omitempty"`
	Fields    []ProgrammaticValue `json:"fields,omitempty"`
	Entries   []MapEntry          `json:"entries,omitempty"`
	Elements  []ProgrammaticValue `json:"elements,omitempty"`
}

// UnmarshalJSON accepts any scalar value. Strings are kept as is, booleans
// and numbers keep their JSON text, so Bool nodes decode as "true"/"false".
func (v *ProgrammaticValue) UnmarshalJSON(data []byte) error {
	type programmaticValue ProgrammaticValue
	aux := struct {
		*programmaticValue
		Value json.RawMessage `json:"value,omitempty"`
	}{programmaticValue: (*programmaticValue)(v)}

	*v = ProgrammaticValue{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.Value)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		v.Value = ""
	case raw[0] == '"':
		if err := json.Unmarshal(raw, &v.Value); err != nil {
			return err
		}
	case raw[0] == '{' || raw[0] == '[':
		return fmt.Errorf("programmatic value of kind %q has a non-scalar value", v.Kind)
	default:
		v.Value = string(raw)
	}
	return nil
}

// MapEntry is one key/value pair of a programmatic_json map
type MapEntry struct {
	Key   ProgrammaticValue `json:"key"`
	Value ProgrammaticValue `json:"value"`
}

// ProgrammaticData wraps the programmatic_json of an NFT or KVS value
type ProgrammaticData struct {
	ProgrammaticJSON *ProgrammaticValue `json:"programmatic_json"`
}

// NonFungibleDataItem is the data of one non-fungible
type NonFungibleDataItem struct {
	NonFungibleId string            `json:"non_fungible_id"`
	IsBurned      bool              `json:"is_burned"`
	Data          *ProgrammaticData `json:"data"`
}

// NonFungibleDataPayload is either a batch response (NonFungibleIds) or a
// single item (NonFungibleId + Data).
type NonFungibleDataPayload struct {
	ResourceAddress string                `json:"resource_address"`
	NonFungibleIds  []NonFungibleDataItem `json:"non_fungible_ids"`
	NonFungibleId   string                `json:"non_fungible_id,omitempty"`
	Data            *ProgrammaticData     `json:"data,omitempty"`
}

// KeyValueStoreEntry is one entry of a key-value store response
type KeyValueStoreEntry struct {
	Key      *ProgrammaticData `json:"key"`
	Value    *ProgrammaticData `json:"value"`
	IsLocked bool              `json:"is_locked"`
}

// KeyValueStoreDataPayload is the response of the key-value store data call
type KeyValueStoreDataPayload struct {
	KeyValueStoreAddress string               `json:"key_value_store_address"`
	Entries              []KeyValueStoreEntry `json:"entries"`
}

// NonFungibleVault is a vault holding non-fungibles of one resource
type NonFungibleVault struct {
	VaultAddress string   `json:"vault_address"`
	TotalCount   int64    `json:"total_count"`
	Items        []string `json:"items"`
}

// NonFungibleVaults is the vault collection of a held resource
type NonFungibleVaults struct {
	TotalCount int64              `json:"total_count"`
	Items      []NonFungibleVault `json:"items"`
}

// NonFungibleResource is a resource held by an entity, aggregated per vault
type NonFungibleResource struct {
	AggregationLevel string            `json:"aggregation_level"`
	ResourceAddress  string            `json:"resource_address"`
	Vaults           NonFungibleVaults `json:"vaults"`
}

// LedgerState identifies the ledger version a response was read at
type LedgerState struct {
	Network      string `json:"network,omitempty"`
	StateVersion int64  `json:"state_version"`
}

// EntityNonFungiblesPage is a page of non-fungible resources held by an entity
type EntityNonFungiblesPage struct {
	LedgerState *LedgerState          `json:"ledger_state,omitempty"`
	TotalCount  int64                 `json:"total_count"`
	NextCursor  *string               `json:"next_cursor,omitempty"`
	Items       []NonFungibleResource `json:"items"`
}

// EntityState is the state of a component entity
type EntityState struct {
	Fields []ProgrammaticValue `json:"fields"`
}

// EntityDetails is the details block of an entity
type EntityDetails struct {
	Type  string       `json:"type"`
	State *EntityState `json:"state"`
}

// EntityDetailsItem is one entity of an entity details response
type EntityDetailsItem struct {
	Address string         `json:"address"`
	Details *EntityDetails `json:"details"`
}

// EntityDetailsPayload is the response of the entity details call
type EntityDetailsPayload struct {
	Items []EntityDetailsItem `json:"items"`
}
