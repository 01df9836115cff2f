// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package run is a generated GoMock package.
package run

import (
	context "context"
	reflect "reflect"
	time "time"

	common "github.com/Fantom-foundation/difftest/go/dt/common"
	common0 "github.com/ethereum/go-ethereum/common"
	types "github.com/ethereum/go-ethereum/core/types"
	gomock "go.uber.org/mock/gomock"
)

// MockLedgerClient is a mock of LedgerClient interface.
type MockLedgerClient struct {
	ctrl     *gomock.Controller
	recorder *MockLedgerClientMockRecorder
}

// MockLedgerClientMockRecorder is the mock recorder for MockLedgerClient.
type MockLedgerClientMockRecorder struct {
	mock *MockLedgerClient
}

// NewMockLedgerClient creates a new mock instance.
func NewMockLedgerClient(ctrl *gomock.Controller) *MockLedgerClient {
	mock := &MockLedgerClient{ctrl: ctrl}
	mock.recorder = &MockLedgerClientMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockLedgerClient) EXPECT() *MockLedgerClientMockRecorder {
	return m.recorder
}

// Accounts mocks base method.
func (m *MockLedgerClient) Accounts(ctx context.Context) ([]common0.Address, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Accounts", ctx)
	ret0, _ := ret[0].([]common0.Address)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Accounts indicates an expected call of Accounts.
func (mr *MockLedgerClientMockRecorder) Accounts(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Accounts", reflect.TypeOf((*MockLedgerClient)(nil).Accounts), ctx)
}

// AwaitReceipt mocks base method.
func (m *MockLedgerClient) AwaitReceipt(ctx context.Context, tx common0.Hash, timeout time.Duration) (*types.Receipt, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AwaitReceipt", ctx, tx, timeout)
	ret0, _ := ret[0].(*types.Receipt)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// AwaitReceipt indicates an expected call of AwaitReceipt.
func (mr *MockLedgerClientMockRecorder) AwaitReceipt(ctx, tx, timeout any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AwaitReceipt", reflect.TypeOf((*MockLedgerClient)(nil).AwaitReceipt), ctx, tx, timeout)
}

// CallRead mocks base method.
func (m *MockLedgerClient) CallRead(ctx context.Context, to common0.Address, data []byte, from common0.Address) ([]byte, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CallRead", ctx, to, data, from)
	ret0, _ := ret[0].([]byte)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CallRead indicates an expected call of CallRead.
func (mr *MockLedgerClientMockRecorder) CallRead(ctx, to, data, from any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CallRead", reflect.TypeOf((*MockLedgerClient)(nil).CallRead), ctx, to, data, from)
}

// Deploy mocks base method.
func (m *MockLedgerClient) Deploy(ctx context.Context, code []byte, opts TxOptions) (common0.Address, common0.Hash, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Deploy", ctx, code, opts)
	ret0, _ := ret[0].(common0.Address)
	ret1, _ := ret[1].(common0.Hash)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// Deploy indicates an expected call of Deploy.
func (mr *MockLedgerClientMockRecorder) Deploy(ctx, code, opts any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Deploy", reflect.TypeOf((*MockLedgerClient)(nil).Deploy), ctx, code, opts)
}

// ReadStorage mocks base method.
func (m *MockLedgerClient) ReadStorage(ctx context.Context, address common0.Address, slot common.U256) (common0.Hash, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ReadStorage", ctx, address, slot)
	ret0, _ := ret[0].(common0.Hash)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ReadStorage indicates an expected call of ReadStorage.
func (mr *MockLedgerClientMockRecorder) ReadStorage(ctx, address, slot any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ReadStorage", reflect.TypeOf((*MockLedgerClient)(nil).ReadStorage), ctx, address, slot)
}

// SubmitTx mocks base method.
func (m *MockLedgerClient) SubmitTx(ctx context.Context, to common0.Address, data []byte, opts TxOptions) (common0.Hash, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SubmitTx", ctx, to, data, opts)
	ret0, _ := ret[0].(common0.Hash)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// SubmitTx indicates an expected call of SubmitTx.
func (mr *MockLedgerClientMockRecorder) SubmitTx(ctx, to, data, opts any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SubmitTx", reflect.TypeOf((*MockLedgerClient)(nil).SubmitTx), ctx, to, data, opts)
}
