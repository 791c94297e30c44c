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

package gateway

import (
	"context"
	"fmt"

	"dexter-rewards-go/internal/models"

	"go.uber.org/zap"
)

type nonFungibleDataRequest struct {
	ResourceAddress string   `json:"resource_address"`
	NonFungibleIds  []string `json:"non_fungible_ids"`
}

type keyValueStoreKey struct {
	KeyJSON models.ProgrammaticValue `json:"key_json"`
}

type keyValueStoreDataRequest struct {
	KeyValueStoreAddress string             `json:"key_value_store_address"`
	Keys                 []keyValueStoreKey `json:"keys"`
}

type ledgerStateSelector struct {
	StateVersion int64 `json:"state_version"`
}

type entityNonFungiblesOptIns struct {
	NonFungibleIncludeNfids bool `json:"non_fungible_include_nfids"`
}

type entityNonFungiblesRequest struct {
	Address          string                   `json:"address"`
	AggregationLevel string                   `json:"aggregation_level"`
	OptIns           entityNonFungiblesOptIns `json:"opt_ins"`
	Cursor           *string                  `json:"cursor,omitempty"`
	AtLedgerState    *ledgerStateSelector     `json:"at_ledger_state,omitempty"`
}

type entityDetailsRequest struct {
	Addresses []string `json:"addresses"`
}

// GetNonFungibleData returns the data of the given non-fungibles of a resource.
// Large id lists are fetched in batches and merged into one payload.
func (c *Client) GetNonFungibleData(ctx context.Context, resourceAddress string, nonFungibleIds []string) (*models.NonFungibleDataPayload, error) {
	result := &models.NonFungibleDataPayload{
		ResourceAddress: resourceAddress,
		NonFungibleIds:  []models.NonFungibleDataItem{},
	}

	for _, batch := range chunk(nonFungibleIds, maxItemsPerRequest) {
		var page models.NonFungibleDataPayload
		err := c.post(ctx, pathNonFungibleData, nonFungibleDataRequest{
			ResourceAddress: resourceAddress,
			NonFungibleIds:  batch,
		}, &page)
		if err != nil {
			return nil, err
		}
		result.NonFungibleIds = append(result.NonFungibleIds, page.NonFungibleIds...)
	}

	zap.L().Debug("Fetched non-fungible data",
		zap.String("resource", resourceAddress),
		zap.Int("requested", len(nonFungibleIds)),
		zap.Int("returned", len(result.NonFungibleIds)))
	return result, nil
}

// GetKeyValueStoreData returns the entries stored under string keys of a key-value store.
// Keys without an entry are absent from the result.
func (c *Client) GetKeyValueStoreData(ctx context.Context, storeAddress string, keys []string) (*models.KeyValueStoreDataPayload, error) {
	result := &models.KeyValueStoreDataPayload{
		KeyValueStoreAddress: storeAddress,
		Entries:              []models.KeyValueStoreEntry{},
	}

	for _, batch := range chunk(keys, maxItemsPerRequest) {
		request := keyValueStoreDataRequest{
			KeyValueStoreAddress: storeAddress,
			Keys:                 make([]keyValueStoreKey, 0, len(batch)),
		}
		for _, key := range batch {
			request.Keys = append(request.Keys, keyValueStoreKey{
				KeyJSON: models.ProgrammaticValue{Kind: "String", Value: key},
			})
		}

		var page models.KeyValueStoreDataPayload
		if err := c.post(ctx, pathKeyValueStoreData, request, &page); err != nil {
			return nil, err
		}
		if page.Entries == nil {
			return nil, fmt.Errorf("gateway %s response has no entries", pathKeyValueStoreData)
		}
		result.Entries = append(result.Entries, page.Entries...)
	}

	zap.L().Debug("Fetched key-value store data",
		zap.String("store", storeAddress),
		zap.Int("requested", len(keys)),
		zap.Int("returned", len(result.Entries)))
	return result, nil
}

// GetEntityNonFungibles returns every non-fungible resource held by an entity,
// aggregated per vault with the local ids of each vault. All pages are read at
// the ledger state of the first page.
func (c *Client) GetEntityNonFungibles(ctx context.Context, address string) ([]models.NonFungibleResource, error) {
	request := entityNonFungiblesRequest{
		Address:          address,
		AggregationLevel: "Vault",
		OptIns:           entityNonFungiblesOptIns{NonFungibleIncludeNfids: true},
	}

	resources := []models.NonFungibleResource{}
	for pages := 0; ; pages++ {
		if pages == maxPages {
			return nil, fmt.Errorf("gateway %s: more than %d pages for %s", pathEntityNonFungibles, maxPages, address)
		}

		var page models.EntityNonFungiblesPage
		if err := c.post(ctx, pathEntityNonFungibles, request, &page); err != nil {
			return nil, err
		}
		resources = append(resources, page.Items...)

		if page.NextCursor == nil || *page.NextCursor == "" {
			break
		}
		request.Cursor = page.NextCursor
		if request.AtLedgerState == nil && page.LedgerState != nil {
			request.AtLedgerState = &ledgerStateSelector{StateVersion: page.LedgerState.StateVersion}
		}
	}

	zap.L().Debug("Fetched entity non-fungibles",
		zap.String("address", address),
		zap.Int("resources", len(resources)))
	return resources, nil
}

// GetEntityDetails returns the details, including component state, of the given entities.
func (c *Client) GetEntityDetails(ctx context.Context, addresses []string) (*models.EntityDetailsPayload, error) {
	var payload models.EntityDetailsPayload
	if err := c.post(ctx, pathEntityDetails, entityDetailsRequest{Addresses: addresses}, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
