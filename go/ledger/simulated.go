// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ledger

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	geth "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
)

// SimulatedEndpoint names the in-process chain in deployment records.
const SimulatedEndpoint = "simulated"

var simulatedBalance = new(big.Int).Lsh(big.NewInt(1), 100)

// NewSimulated starts an in-process chain funding the given keys. Every
// transaction is mined in its own block right after submission.
func NewSimulated(ctx context.Context, config Config, keys ...*ecdsa.PrivateKey) (*Client, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("a simulated chain needs at least one funded key")
	}
	alloc := types.GenesisAlloc{}
	for _, key := range keys {
		alloc[crypto.PubkeyToAddress(key.PublicKey)] = types.Account{Balance: new(big.Int).Set(simulatedBalance)}
	}
	backend := simulated.NewBackend(alloc)
	res, err := NewClient(ctx, backend.Client(), nil, config, keys...)
	if err != nil {
		backend.Close()
		return nil, err
	}
	res.commit = func() { backend.Commit() }
	res.close = backend.Close
	return res, nil
}

// DevKey derives a reproducible key for local test chains. Keys of equal
// index are identical across runs.
func DevKey(index int) (*ecdsa.PrivateKey, error) {
	seed := crypto.Keccak256([]byte(fmt.Sprintf("difftest dev key %d", index)))
	return crypto.ToECDSA(seed)
}

// DevKeyAddress returns the address of DevKey(index).
func DevKeyAddress(index int) (geth.Address, error) {
	key, err := DevKey(index)
	if err != nil {
		return geth.Address{}, err
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}
