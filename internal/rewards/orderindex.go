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
	"strconv"
	"strings"
)

const orderIndexSeparator = "#"

// OrderIndex is the decoded form of an order index key
type OrderIndex struct {
	ReceiptAddress string
	OrderId        int64
}

// invalidOrderIndex is returned for keys that cannot be decoded
var invalidOrderIndex = OrderIndex{ReceiptAddress: "", OrderId: -1}

// Valid reports whether the index was decoded from a well-formed key
func (o OrderIndex) Valid() bool {
	return o != invalidOrderIndex
}

// CreateOrderIndex builds the key that links an order receipt to its reward
// record: "<receiptAddress>#<orderId>#". receiptAddress must not contain '#'.
func CreateOrderIndex(receiptAddress string, orderId int64) string {
	return receiptAddress + orderIndexSeparator + strconv.FormatInt(orderId, 10) + orderIndexSeparator
}

// ParseOrderIndex decodes an order index key. Keys with fewer than two
// segments, or whose second segment is not an integer, decode to
// {"", -1}; callers must treat that as unparseable.
func ParseOrderIndex(orderIndex string) OrderIndex {
	parts := strings.Split(orderIndex, orderIndexSeparator)
	if len(parts) < 2 {
		return invalidOrderIndex
	}

	orderId, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return invalidOrderIndex
	}

	return OrderIndex{
		ReceiptAddress: parts[0],
		OrderId:        orderId,
	}
}

// ReceiptKvsKey returns the order rewards store key for a receipt local id.
// Integer local ids ("#12#") go through CreateOrderIndex; any other local id
// form is appended to the receipt address as is.
func ReceiptKvsKey(receiptAddress, localId string) string {
	if id, ok := integerLocalId(localId); ok {
		return CreateOrderIndex(receiptAddress, id)
	}
	return receiptAddress + localId
}

// integerLocalId extracts n from a "#n#" non-fungible local id
func integerLocalId(localId string) (int64, bool) {
	if len(localId) < 3 || !strings.HasPrefix(localId, "#") || !strings.HasSuffix(localId, "#") {
		return 0, false
	}
	id, err := strconv.ParseInt(localId[1:len(localId)-1], 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}
