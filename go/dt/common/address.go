// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"github.com/ethereum/go-ethereum/common"
	"pgregory.net/rand"
)

func RandomAddress(rnd *rand.Rand) common.Address {
	address := common.Address{}
	rnd.Read(address[:]) // never returns an error
	return address
}

// PickAddress draws one of the known addresses uniformly. If no addresses
// are known, a random address is synthesized instead.
func PickAddress(rnd *rand.Rand, known []common.Address) common.Address {
	if len(known) == 0 {
		return RandomAddress(rnd)
	}
	return known[rnd.Intn(len(known))]
}
