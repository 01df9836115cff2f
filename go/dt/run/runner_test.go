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
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/Fantom-foundation/difftest/go/dt/common"
	"github.com/Fantom-foundation/difftest/go/dt/gen"
	"github.com/Fantom-foundation/difftest/go/dt/iface"
	"github.com/Fantom-foundation/difftest/go/dt/obs"
	geth "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/mock/gomock"
)

const runnerABI = `[
	{"type":"function","name":"transfer","stateMutability":"nonpayable",
	 "inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],
	 "outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view",
	 "inputs":[{"name":"owner","type":"address"}],
	 "outputs":[{"name":"","type":"uint256"}]}
]`

var (
	sender   = geth.Address{0xaa}
	contract = Variant{Name: "original", Address: geth.Address{0xcc}}
	txHash   = geth.Hash{0x77}
)

func getCallable(t *testing.T, signature string) iface.Callable {
	t.Helper()
	parsed, err := iface.ParseInterface([]byte(runnerABI))
	if err != nil {
		t.Fatalf("failed to parse interface: %v", err)
	}
	for _, cur := range parsed.Callables() {
		if cur.Signature == signature {
			return cur
		}
	}
	t.Fatalf("unknown callable %s", signature)
	return iface.Callable{}
}

func newTestRunner(client LedgerClient, slots ...uint64) *Runner {
	indices := make([]common.U256, 0, len(slots))
	for _, slot := range slots {
		indices = append(indices, common.NewU256(slot))
	}
	return NewRunner(client, RunnerConfig{
		Sender:         sender,
		GasLimit:       3_000_000,
		StorageIndices: indices,
		ReceiptTimeout: time.Second,
	})
}

func TestRunner_ReadOnlyCallSucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockLedgerClient(ctrl)
	callable := getCallable(t, "balanceOf(address)")
	args := gen.Arguments{gen.Address(sender)}

	data, err := gen.Encode(callable, args)
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	result, _ := callable.Method().Outputs.Pack(big.NewInt(5))

	client.EXPECT().CallRead(gomock.Any(), contract.Address, data, sender).Return(result, nil)
	client.EXPECT().ReadStorage(gomock.Any(), contract.Address, common.NewU256(0)).Return(geth.Hash{31: 1}, nil)
	client.EXPECT().ReadStorage(gomock.Any(), contract.Address, common.NewU256(3)).Return(geth.Hash{31: 2}, nil)

	got := newTestRunner(client, 0, 3).Invoke(context.Background(), contract, callable, args)
	if want := obs.Ok; want != got.Status {
		t.Errorf("unexpected status, wanted %v, got %v", want, got.Status)
	}
	if want := json.Number("5"); want != got.Return {
		t.Errorf("unexpected return, wanted %v, got %v", want, got.Return)
	}
	if want := obs.NoLogsDigest; want != got.LogsDigest {
		t.Errorf("unexpected digest, wanted %v, got %v", want, got.LogsDigest)
	}
	if want, got := 2, len(got.Storage); want != got {
		t.Errorf("unexpected storage size, wanted %d, got %d", want, got)
	}
	if value, _ := got.Storage.Get(common.NewU256(3)); !strings.HasSuffix(value, "02") {
		t.Errorf("unexpected storage value %v", value)
	}
}

func TestRunner_ReadOnlyCallReverts(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockLedgerClient(ctrl)
	callable := getCallable(t, "balanceOf(address)")

	client.EXPECT().CallRead(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &RevertError{Reason: "nope"})
	client.EXPECT().ReadStorage(gomock.Any(), contract.Address, common.NewU256(1)).Return(geth.Hash{}, nil)

	got := newTestRunner(client, 1).Invoke(context.Background(), contract, callable, gen.Arguments{gen.Address{}})
	if want := obs.Revert; want != got.Status {
		t.Errorf("unexpected status, wanted %v, got %v", want, got.Status)
	}
	if got.Return != nil {
		t.Errorf("reverted call should have no return value, got %v", got.Return)
	}
	if want := "execution reverted: nope"; want != got.Error {
		t.Errorf("unexpected error, wanted %v, got %v", want, got.Error)
	}
	if want, got := 1, len(got.Storage); want != got {
		t.Errorf("storage should be snapshotted after a revert")
	}
}

func TestRunner_ReadOnlyCallFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockLedgerClient(ctrl)
	callable := getCallable(t, "balanceOf(address)")

	client.EXPECT().CallRead(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	got := newTestRunner(client, 1).Invoke(context.Background(), contract, callable, gen.Arguments{gen.Address{}})
	if want := obs.Error; want != got.Status {
		t.Errorf("unexpected status, wanted %v, got %v", want, got.Status)
	}
	if want := "connection refused"; want != got.Error {
		t.Errorf("unexpected error, wanted %v, got %v", want, got.Error)
	}
	if got.Storage != nil || got.LogsDigest != "" {
		t.Errorf("failed observation should not carry results: %+v", got)
	}
}

func TestRunner_UndecodableResultIsAnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockLedgerClient(ctrl)
	callable := getCallable(t, "balanceOf(address)")

	client.EXPECT().CallRead(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]byte{1}, nil)

	got := newTestRunner(client).Invoke(context.Background(), contract, callable, gen.Arguments{gen.Address{}})
	if want := obs.Error; want != got.Status {
		t.Errorf("unexpected status, wanted %v, got %v", want, got.Status)
	}
}

func TestRunner_BindFailureIsAnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockLedgerClient(ctrl)
	callable := getCallable(t, "transfer(address,uint256)")

	got := newTestRunner(client).Invoke(context.Background(), contract, callable, gen.Arguments{gen.Bool(true)})
	if want := obs.Error; want != got.Status {
		t.Errorf("unexpected status, wanted %v, got %v", want, got.Status)
	}
	if !strings.HasPrefix(got.Error, "function_bind_error") {
		t.Errorf("unexpected error text: %v", got.Error)
	}
}

func TestRunner_TransactionSucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockLedgerClient(ctrl)
	callable := getCallable(t, "transfer(address,uint256)")
	args := gen.Arguments{gen.Address(sender), gen.NewIntFromInt64(10)}
	data, _ := gen.Encode(callable, args)

	receipt := &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		BlockNumber: big.NewInt(12),
		GasUsed:     21_000,
		Logs: []*types.Log{
			{Address: contract.Address, Topics: []geth.Hash{{1}}, Data: []byte{10}},
		},
	}
	gomock.InOrder(
		client.EXPECT().SubmitTx(gomock.Any(), contract.Address, data, TxOptions{
			Sender:   sender,
			GasLimit: 3_000_000,
			Value:    new(big.Int),
		}).Return(txHash, nil),
		client.EXPECT().AwaitReceipt(gomock.Any(), txHash, time.Second).Return(receipt, nil),
		client.EXPECT().ReadStorage(gomock.Any(), contract.Address, common.NewU256(0)).Return(geth.Hash{}, nil),
	)

	got := newTestRunner(client, 0).Invoke(context.Background(), contract, callable, args)
	if want := obs.Ok; want != got.Status {
		t.Errorf("unexpected status, wanted %v, got %v", want, got.Status)
	}
	wantDigest, _ := obs.NewLogsFromReceipt(receipt).Digest()
	if wantDigest != got.LogsDigest {
		t.Errorf("unexpected digest, wanted %v, got %v", wantDigest, got.LogsDigest)
	}
	if got.Return != nil {
		t.Errorf("transactions should not report return values, got %v", got.Return)
	}
	if got.TxHash == nil || *got.TxHash != txHash {
		t.Errorf("unexpected tx hash %v", got.TxHash)
	}
	if got.Block == nil || *got.Block != 12 || got.GasUsed == nil || *got.GasUsed != 21_000 {
		t.Errorf("unexpected diagnostics: %+v", got)
	}
}

func TestRunner_FailedReceiptIsARevert(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockLedgerClient(ctrl)
	callable := getCallable(t, "transfer(address,uint256)")

	client.EXPECT().SubmitTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(txHash, nil)
	client.EXPECT().AwaitReceipt(gomock.Any(), txHash, gomock.Any()).
		Return(&types.Receipt{Status: types.ReceiptStatusFailed}, nil)

	args := gen.Arguments{gen.Address{}, gen.NewIntFromInt64(0)}
	got := newTestRunner(client).Invoke(context.Background(), contract, callable, args)
	if want := obs.Revert; want != got.Status {
		t.Errorf("unexpected status, wanted %v, got %v", want, got.Status)
	}
	if want, _ := obs.NewLogs().Digest(); want != got.LogsDigest {
		t.Errorf("unexpected digest, wanted %v, got %v", want, got.LogsDigest)
	}
}

func TestRunner_RejectedSubmissionIsARevert(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockLedgerClient(ctrl)
	callable := getCallable(t, "transfer(address,uint256)")

	client.EXPECT().SubmitTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(geth.Hash{}, &RevertError{})

	args := gen.Arguments{gen.Address{}, gen.NewIntFromInt64(0)}
	got := newTestRunner(client).Invoke(context.Background(), contract, callable, args)
	if want := obs.Revert; want != got.Status {
		t.Errorf("unexpected status, wanted %v, got %v", want, got.Status)
	}
	if want := obs.NoLogsDigest; want != got.LogsDigest {
		t.Errorf("unexpected digest, wanted %v, got %v", want, got.LogsDigest)
	}
}

func TestRunner_ReceiptTimeoutIsAnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockLedgerClient(ctrl)
	callable := getCallable(t, "transfer(address,uint256)")

	client.EXPECT().SubmitTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(txHash, nil)
	client.EXPECT().AwaitReceipt(gomock.Any(), txHash, gomock.Any()).Return(nil, ErrReceiptTimeout)

	args := gen.Arguments{gen.Address{}, gen.NewIntFromInt64(1)}
	got := newTestRunner(client, 0).Invoke(context.Background(), contract, callable, args)
	if want := obs.Error; want != got.Status {
		t.Errorf("unexpected status, wanted %v, got %v", want, got.Status)
	}
	if want := ErrReceiptTimeout.Error(); want != got.Error {
		t.Errorf("unexpected error, wanted %v, got %v", want, got.Error)
	}
}

func TestRunner_SubmittedTransactionIsAwaitedDespiteCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockLedgerClient(ctrl)
	callable := getCallable(t, "transfer(address,uint256)")

	ctx, cancel := context.WithCancel(context.Background())
	client.EXPECT().SubmitTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, geth.Address, []byte, TxOptions) (geth.Hash, error) {
			cancel()
			return txHash, nil
		})
	client.EXPECT().AwaitReceipt(gomock.Any(), txHash, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ geth.Hash, _ time.Duration) (*types.Receipt, error) {
			if err := ctx.Err(); err != nil {
				t.Errorf("waiting for receipt was cancelled: %v", err)
			}
			return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
		})

	args := gen.Arguments{gen.Address{}, gen.NewIntFromInt64(1)}
	got := newTestRunner(client).Invoke(ctx, contract, callable, args)
	if want := obs.Ok; want != got.Status {
		t.Errorf("unexpected status, wanted %v, got %v", want, got.Status)
	}
}

func TestRunner_StorageReadFailureIsAnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockLedgerClient(ctrl)
	callable := getCallable(t, "balanceOf(address)")
	result, _ := callable.Method().Outputs.Pack(big.NewInt(5))

	client.EXPECT().CallRead(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(result, nil)
	client.EXPECT().ReadStorage(gomock.Any(), gomock.Any(), gomock.Any()).Return(geth.Hash{}, errors.New("unavailable"))

	got := newTestRunner(client, 4).Invoke(context.Background(), contract, callable, gen.Arguments{gen.Address{}})
	if want := obs.Error; want != got.Status {
		t.Errorf("unexpected status, wanted %v, got %v", want, got.Status)
	}
	if got.Return != nil || got.Storage != nil {
		t.Errorf("failed observation should not carry partial results: %+v", got)
	}
}

func TestRunner_DeployWaitsForCreation(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockLedgerClient(ctrl)
	code := []byte{0x60, 0x00}

	client.EXPECT().Deploy(gomock.Any(), code, gomock.Any()).Return(contract.Address, txHash, nil)
	client.EXPECT().AwaitReceipt(gomock.Any(), txHash, time.Second).
		Return(&types.Receipt{Status: types.ReceiptStatusSuccessful}, nil)

	variant, tx, err := newTestRunner(client).Deploy(context.Background(), "original", code)
	if err != nil {
		t.Fatalf("failed to deploy: %v", err)
	}
	if want, got := contract, variant; want != got {
		t.Errorf("unexpected variant, wanted %v, got %v", want, got)
	}
	if want, got := txHash, tx; want != got {
		t.Errorf("unexpected transaction, wanted %v, got %v", want, got)
	}
}

func TestRunner_DeployPassesConfiguredValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockLedgerClient(ctrl)
	code := []byte{0x60, 0x00}

	client.EXPECT().Deploy(gomock.Any(), code, TxOptions{
		Sender:   sender,
		GasLimit: 3_000_000,
		Value:    big.NewInt(5),
	}).Return(contract.Address, txHash, nil)
	client.EXPECT().AwaitReceipt(gomock.Any(), txHash, gomock.Any()).
		Return(&types.Receipt{Status: types.ReceiptStatusSuccessful}, nil)

	runner := NewRunner(client, RunnerConfig{
		Sender:         sender,
		GasLimit:       3_000_000,
		Value:          big.NewInt(5),
		ReceiptTimeout: time.Second,
	})
	if _, _, err := runner.Deploy(context.Background(), "original", code); err != nil {
		t.Fatalf("failed to deploy: %v", err)
	}
}

func TestFailedTx_KeepsTransactionDiagnostics(t *testing.T) {
	receipt := &types.Receipt{BlockNumber: big.NewInt(9)}
	got := failedTx(txHash, receipt, errors.New("digest failed"))
	if want := obs.Error; want != got.Status {
		t.Errorf("unexpected status, wanted %v, got %v", want, got.Status)
	}
	if got.TxHash == nil || *got.TxHash != txHash {
		t.Errorf("unexpected tx hash %v", got.TxHash)
	}
	if got.Block == nil || *got.Block != 9 {
		t.Errorf("unexpected block %v", got.Block)
	}

	got = failedTx(txHash, nil, errors.New("timeout"))
	if got.TxHash == nil || got.Block != nil {
		t.Errorf("unexpected diagnostics without receipt: %+v", got)
	}
}

func TestRunner_DeployFailsOnFailedCreation(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockLedgerClient(ctrl)

	client.EXPECT().Deploy(gomock.Any(), gomock.Any(), gomock.Any()).Return(contract.Address, txHash, nil)
	client.EXPECT().AwaitReceipt(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&types.Receipt{Status: types.ReceiptStatusFailed}, nil)

	if _, _, err := newTestRunner(client).Deploy(context.Background(), "original", nil); err == nil {
		t.Errorf("failed creation should be reported")
	}
}

func TestRevertError_Message(t *testing.T) {
	if want, got := "execution reverted", (&RevertError{}).Error(); want != got {
		t.Errorf("unexpected message, wanted %v, got %v", want, got)
	}
	if want, got := "execution reverted: zero amount", (&RevertError{Reason: "zero amount"}).Error(); want != got {
		t.Errorf("unexpected message, wanted %v, got %v", want, got)
	}
}
