// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package obs

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Fantom-foundation/difftest/go/dt/common"
	geth "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Storage is a snapshot of selected persistent storage slots, keyed by the
// decimal slot index.
type Storage map[string]string

func NewStorage() Storage {
	return Storage{}
}

func (s Storage) Set(index common.U256, value geth.Hash) {
	s[index.String()] = hexutil.Encode(value[:])
}

func (s Storage) Get(index common.U256) (string, bool) {
	res, found := s[index.String()]
	return res, found
}

// Eq treats a missing snapshot as different from an empty one.
func (a Storage) Eq(b Storage) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return maps.Equal(a, b)
}

func (a Storage) Diff(b Storage) (res []string) {
	if (a == nil) != (b == nil) {
		return append(res, fmt.Sprintf("Different snapshot presence: %t vs %t", a != nil, b != nil))
	}
	keys := slices.Sorted(maps.Keys(a))
	for key := range b {
		if _, found := a[key]; !found {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	for _, key := range keys {
		aValue, aFound := a[key]
		bValue, bFound := b[key]
		if aFound != bFound || aValue != bValue {
			res = append(res, fmt.Sprintf("Different value for slot %s: %v vs %v", key, orMissing(aValue, aFound), orMissing(bValue, bFound)))
		}
	}
	return
}

func orMissing(value string, found bool) string {
	if !found {
		return "missing"
	}
	return value
}

func (s Storage) String() string {
	parts := make([]string, 0, len(s))
	for _, key := range slices.Sorted(maps.Keys(s)) {
		parts = append(parts, key+"="+s[key])
	}
	return "{" + strings.Join(parts, ",") + "}"
}
