// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package run

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Fantom-foundation/difftest/go/dt/common"
	"github.com/Fantom-foundation/difftest/go/dt/gen"
	"github.com/Fantom-foundation/difftest/go/dt/iface"
	"github.com/Fantom-foundation/difftest/go/dt/obs"
	geth "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// Variant is a handle on one deployed version of the contract under test.
type Variant struct {
	Name    string
	Address geth.Address
}

func (v Variant) String() string {
	return fmt.Sprintf("%s@%v", v.Name, v.Address)
}

// RunnerConfig are the execution parameters shared by all invocations.
type RunnerConfig struct {
	Sender         geth.Address
	GasLimit       uint64
	Value          *big.Int
	StorageIndices []common.U256
	ReceiptTimeout time.Duration
}

// Runner executes calls against contract variants and observes the results.
// Runners are not safe for concurrent use.
type Runner struct {
	client LedgerClient
	config RunnerConfig
}

func NewRunner(client LedgerClient, config RunnerConfig) *Runner {
	if config.Value == nil {
		config.Value = new(big.Int)
	}
	return &Runner{client: client, config: config}
}

func (r *Runner) txOptions() TxOptions {
	return TxOptions{
		Sender:   r.config.Sender,
		GasLimit: r.config.GasLimit,
		Value:    new(big.Int).Set(r.config.Value),
	}
}

// Deploy creates a new instance of the given code and waits for its creation
// to be confirmed.
func (r *Runner) Deploy(ctx context.Context, name string, code []byte) (Variant, geth.Hash, error) {
	address, tx, err := r.client.Deploy(ctx, code, r.txOptions())
	if err != nil {
		return Variant{}, geth.Hash{}, fmt.Errorf("failed to deploy %s: %w", name, err)
	}
	receipt, err := r.client.AwaitReceipt(context.WithoutCancel(ctx), tx, r.config.ReceiptTimeout)
	if err != nil {
		return Variant{}, tx, fmt.Errorf("failed to deploy %s: %w", name, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return Variant{}, tx, fmt.Errorf("failed to deploy %s: creation transaction %v failed", name, tx)
	}
	return Variant{Name: name, Address: address}, tx, nil
}

// Invoke executes the callable with the given arguments against the variant.
// Failures are captured in the resulting observation.
func (r *Runner) Invoke(ctx context.Context, variant Variant, callable iface.Callable, args gen.Arguments) obs.Observation {
	data, err := gen.Encode(callable, args)
	if err != nil {
		return obs.Failed(fmt.Errorf("function_bind_error: %w", err))
	}
	if callable.Mutability == iface.ReadOnly {
		return r.read(ctx, variant, callable, data)
	}
	return r.transact(ctx, variant, data)
}

func (r *Runner) read(ctx context.Context, variant Variant, callable iface.Callable, data []byte) obs.Observation {
	result, err := r.client.CallRead(ctx, variant.Address, data, r.config.Sender)
	if err != nil {
		return r.rejected(ctx, variant, err)
	}
	var normalized any
	if method := callable.Method(); method != nil {
		normalized, err = obs.DecodeReturn(method.Outputs, result)
		if err != nil {
			return obs.Failed(err)
		}
	} else {
		normalized = hexutil.Encode(result)
	}
	return r.withStorage(ctx, variant, obs.Observation{
		Status:     obs.Ok,
		Return:     normalized,
		LogsDigest: obs.NoLogsDigest,
	})
}

func (r *Runner) transact(ctx context.Context, variant Variant, data []byte) obs.Observation {
	tx, err := r.client.SubmitTx(ctx, variant.Address, data, r.txOptions())
	if err != nil {
		return r.rejected(ctx, variant, err)
	}

	// Once submitted, a transaction is always awaited.
	receipt, err := r.client.AwaitReceipt(context.WithoutCancel(ctx), tx, r.config.ReceiptTimeout)
	if err != nil {
		return failedTx(tx, nil, err)
	}

	digest, err := obs.NewLogsFromReceipt(receipt).Digest()
	if err != nil {
		return failedTx(tx, receipt, err)
	}
	status := obs.Ok
	if receipt.Status != types.ReceiptStatusSuccessful {
		status = obs.Revert
	}
	gasUsed := receipt.GasUsed
	res := obs.Observation{
		Status:     status,
		LogsDigest: digest,
		TxHash:     &tx,
		GasUsed:    &gasUsed,
	}
	if receipt.BlockNumber != nil {
		block := receipt.BlockNumber.Uint64()
		res.Block = &block
	}
	return r.withStorage(ctx, variant, res)
}

// failedTx is the observation of a submitted transaction whose outcome could
// not be determined. The receipt may be nil.
func failedTx(tx geth.Hash, receipt *types.Receipt, err error) obs.Observation {
	res := obs.Failed(err)
	res.TxHash = &tx
	if receipt != nil && receipt.BlockNumber != nil {
		block := receipt.BlockNumber.Uint64()
		res.Block = &block
	}
	return res
}

// rejected converts a failed call or submission into an observation.
func (r *Runner) rejected(ctx context.Context, variant Variant, err error) obs.Observation {
	var revert *RevertError
	if !errors.As(err, &revert) {
		return obs.Failed(err)
	}
	return r.withStorage(ctx, variant, obs.Observation{
		Status:     obs.Revert,
		LogsDigest: obs.NoLogsDigest,
		Error:      revert.Error(),
	})
}

// withStorage adds the snapshot of the requested storage slots. If the
// snapshot can not be taken, the observation degrades to an error.
func (r *Runner) withStorage(ctx context.Context, variant Variant, res obs.Observation) obs.Observation {
	storage := obs.NewStorage()
	for _, index := range r.config.StorageIndices {
		value, err := r.client.ReadStorage(ctx, variant.Address, index)
		if err != nil {
			failed := obs.Failed(fmt.Errorf("failed to read storage slot %v: %w", index, err))
			failed.TxHash = res.TxHash
			return failed
		}
		storage.Set(index, value)
	}
	res.Storage = storage
	return res
}
