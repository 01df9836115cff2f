// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package dt

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/Fantom-foundation/difftest/go/dt/common"
	"github.com/Fantom-foundation/difftest/go/dt/run"
	geth "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// behavior defines the reaction of a fake contract on call data. A nil result
// signals a revert.
type behavior func(storage map[common.U256]geth.Hash, data []byte) []byte

// fakeLedger is an in-memory ledger running contracts given as behaviors,
// selected by the deployed code.
type fakeLedger struct {
	accounts  []geth.Address
	behaviors map[string]behavior
	contracts map[geth.Address]behavior
	storage   map[geth.Address]map[common.U256]geth.Hash
	receipts  map[geth.Hash]*types.Receipt
	nextTx    uint64
	deployed  int
}

var _ run.LedgerClient = (*fakeLedger)(nil)

func newFakeLedger(behaviors map[string]behavior) *fakeLedger {
	return &fakeLedger{
		accounts:  []geth.Address{{0x01}, {0x02}},
		behaviors: behaviors,
		contracts: map[geth.Address]behavior{},
		storage:   map[geth.Address]map[common.U256]geth.Hash{},
		receipts:  map[geth.Hash]*types.Receipt{},
	}
}

func (l *fakeLedger) newReceipt(success bool) geth.Hash {
	l.nextTx++
	hash := geth.BigToHash(new(big.Int).SetUint64(l.nextTx))
	status := types.ReceiptStatusFailed
	if success {
		status = types.ReceiptStatusSuccessful
	}
	l.receipts[hash] = &types.Receipt{
		Status:      status,
		TxHash:      hash,
		BlockNumber: new(big.Int).SetUint64(l.nextTx),
		GasUsed:     21_000,
	}
	return hash
}

func (l *fakeLedger) Accounts(context.Context) ([]geth.Address, error) {
	return l.accounts, nil
}

func (l *fakeLedger) Deploy(_ context.Context, code []byte, _ run.TxOptions) (geth.Address, geth.Hash, error) {
	behavior, found := l.behaviors[string(code)]
	if !found {
		return geth.Address{}, geth.Hash{}, fmt.Errorf("unknown code %x", code)
	}
	l.deployed++
	address := geth.Address{0xc0, byte(l.deployed)}
	l.contracts[address] = behavior
	l.storage[address] = map[common.U256]geth.Hash{}
	return address, l.newReceipt(true), nil
}

func (l *fakeLedger) CallRead(_ context.Context, to geth.Address, data []byte, _ geth.Address) ([]byte, error) {
	behavior, found := l.contracts[to]
	if !found {
		return nil, fmt.Errorf("no contract at %v", to)
	}
	// reads work on a copy of the storage
	storage := map[common.U256]geth.Hash{}
	for k, v := range l.storage[to] {
		storage[k] = v
	}
	result := behavior(storage, data)
	if result == nil {
		return nil, &run.RevertError{}
	}
	return result, nil
}

func (l *fakeLedger) SubmitTx(_ context.Context, to geth.Address, data []byte, _ run.TxOptions) (geth.Hash, error) {
	behavior, found := l.contracts[to]
	if !found {
		return geth.Hash{}, fmt.Errorf("no contract at %v", to)
	}
	storage := map[common.U256]geth.Hash{}
	for k, v := range l.storage[to] {
		storage[k] = v
	}
	success := behavior(storage, data) != nil
	if success {
		l.storage[to] = storage
	}
	return l.newReceipt(success), nil
}

func (l *fakeLedger) AwaitReceipt(_ context.Context, tx geth.Hash, _ time.Duration) (*types.Receipt, error) {
	receipt, found := l.receipts[tx]
	if !found {
		return nil, run.ErrReceiptTimeout
	}
	return receipt, nil
}

func (l *fakeLedger) ReadStorage(_ context.Context, address geth.Address, slot common.U256) (geth.Hash, error) {
	return l.storage[address][slot], nil
}
