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

//go:generate mockgen -source ledger.go -destination ledger_mock.go -package run

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/Fantom-foundation/difftest/go/dt/common"
	geth "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrReceiptTimeout is returned if no receipt became available in time.
const ErrReceiptTimeout = common.ConstErr("timeout waiting for receipt")

// LedgerClient is the capability of executing code on a ledger. Fee fields
// are derived by the client.
type LedgerClient interface {
	// Accounts lists the accounts usable as senders.
	Accounts(ctx context.Context) ([]geth.Address, error)
	// Deploy submits a contract creation and returns the address of the
	// created contract and the id of the creating transaction.
	Deploy(ctx context.Context, code []byte, opts TxOptions) (geth.Address, geth.Hash, error)
	// CallRead executes a call without creating a transaction. Contract-level
	// rejections are reported as *RevertError.
	CallRead(ctx context.Context, to geth.Address, data []byte, from geth.Address) ([]byte, error)
	// SubmitTx sends a transaction. Rejections detected before submission are
	// reported as *RevertError.
	SubmitTx(ctx context.Context, to geth.Address, data []byte, opts TxOptions) (geth.Hash, error)
	// AwaitReceipt blocks until the receipt of the given transaction is
	// available, failing with ErrReceiptTimeout after the given duration.
	AwaitReceipt(ctx context.Context, tx geth.Hash, timeout time.Duration) (*types.Receipt, error)
	// ReadStorage reads a persistent storage slot of a contract.
	ReadStorage(ctx context.Context, address geth.Address, slot common.U256) (geth.Hash, error)
}

// TxOptions are the sender-controlled parameters of a transaction.
type TxOptions struct {
	Sender   geth.Address
	GasLimit uint64
	Value    *big.Int
}

// RevertError is a contract-level rejection of an execution.
type RevertError struct {
	Reason string // < decoded reason, if available
	Data   []byte // < raw revert data
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return "execution reverted"
	}
	return fmt.Sprintf("execution reverted: %s", e.Reason)
}
