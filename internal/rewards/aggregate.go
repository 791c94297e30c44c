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
	"dexter-rewards-go/internal/models"

	"github.com/shopspring/decimal"
)

// tokenTotals accumulates token rewards by address, keeping first-seen order
type tokenTotals struct {
	lookup    TokenLookup
	order     []string
	byAddress map[string]*models.TokenReward
}

func newTokenTotals(lookup TokenLookup) *tokenTotals {
	if lookup == nil {
		lookup = TokenMap(nil)
	}
	return &tokenTotals{
		lookup:    lookup,
		byAddress: make(map[string]*models.TokenReward),
	}
}

func (t *tokenTotals) add(reward models.TokenReward) {
	if existing, ok := t.byAddress[reward.Address]; ok {
		existing.Amount = existing.Amount.Add(reward.Amount)
		return
	}
	t.byAddress[reward.Address] = &models.TokenReward{
		TokenInfo: t.lookup.TokenInfo(reward.Address),
		Amount:    reward.Amount,
	}
	t.order = append(t.order, reward.Address)
}

func (t *tokenTotals) rewards() []models.TokenReward {
	result := make([]models.TokenReward, 0, len(t.order))
	for _, address := range t.order {
		result = append(result, *t.byAddress[address])
	}
	return result
}

// typeTotals accumulates token totals per reward type, keeping first-seen order
type typeTotals struct {
	lookup TokenLookup
	order  []string
	byType map[string]*tokenTotals
}

func (t *typeTotals) add(typeRewards models.TypeRewards) {
	tokens, ok := t.byType[typeRewards.RewardType]
	if !ok {
		tokens = newTokenTotals(t.lookup)
		t.byType[typeRewards.RewardType] = tokens
		t.order = append(t.order, typeRewards.RewardType)
	}
	for _, reward := range typeRewards.TokenRewards {
		tokens.add(reward)
	}
}

// forEachTypeRewards visits account rewards first, then order rewards, in
// input order.
func forEachTypeRewards(accounts []models.AccountRewards, orders []models.OrderRewards, visit func(models.TypeRewards, models.OrderTokenReward)) {
	for _, account := range accounts {
		source := models.OrderTokenReward{
			OrderReceiptAddress: account.AccountAddress,
			OrderId:             -1,
		}
		for _, typeRewards := range account.Rewards {
			visit(typeRewards, source)
		}
	}
	for _, order := range orders {
		source := models.OrderTokenReward{
			OrderReceiptAddress: order.OrderReceiptAddress,
			OrderId:             order.OrderId,
			OrderIndex:          order.OrderIndex,
		}
		for _, typeRewards := range order.Rewards {
			visit(typeRewards, source)
		}
	}
}

// ByTypeAndToken merges all rewards into one entry per reward type, each
// holding one summed amount per token.
func ByTypeAndToken(accounts []models.AccountRewards, orders []models.OrderRewards, lookup TokenLookup) []models.TypeRewards {
	totals := &typeTotals{lookup: lookup, byType: make(map[string]*tokenTotals)}
	forEachTypeRewards(accounts, orders, func(typeRewards models.TypeRewards, _ models.OrderTokenReward) {
		totals.add(typeRewards)
	})

	result := make([]models.TypeRewards, 0, len(totals.order))
	for _, rewardType := range totals.order {
		result = append(result, models.TypeRewards{
			RewardType:   rewardType,
			TokenRewards: totals.byType[rewardType].rewards(),
		})
	}
	return result
}

// ByToken merges all rewards into one summed amount per token, across every
// reward type and source record.
func ByToken(accounts []models.AccountRewards, orders []models.OrderRewards, lookup TokenLookup) []models.TokenReward {
	totals := newTokenTotals(lookup)
	forEachTypeRewards(accounts, orders, func(typeRewards models.TypeRewards, _ models.OrderTokenReward) {
		for _, reward := range typeRewards.TokenRewards {
			totals.add(reward)
		}
	})
	return totals.rewards()
}

// ByTypeTokenOrder keeps per-source attribution: every (reward type, token)
// pair lists one OrderTokenReward per contributing record. Account records
// are attributed with the account address and order id -1.
func ByTypeTokenOrder(accounts []models.AccountRewards, orders []models.OrderRewards, _ TokenLookup) models.OrdersByTypeRewards {
	result := make(models.OrdersByTypeRewards)
	forEachTypeRewards(accounts, orders, func(typeRewards models.TypeRewards, source models.OrderTokenReward) {
		byToken, ok := result[typeRewards.RewardType]
		if !ok {
			byToken = make(map[string][]models.OrderTokenReward)
			result[typeRewards.RewardType] = byToken
		}
		for _, reward := range typeRewards.TokenRewards {
			entry := source
			entry.Amount = reward.Amount
			byToken[reward.Address] = append(byToken[reward.Address], entry)
		}
	})
	return result
}

// Total sums the amounts of the given token rewards
func Total(tokens []models.TokenReward) decimal.Decimal {
	total := decimal.Zero
	for _, token := range tokens {
		total = total.Add(token.Amount)
	}
	return total
}
