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
	"errors"
	"strings"

	"github.com/Fantom-foundation/difftest/go/dt/run"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

const revertMessage = "execution reverted"

// classify converts contract-level rejections reported by a node into
// *run.RevertError. Other errors are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if encoded, ok := dataErr.ErrorData().(string); ok {
			if data, decodeErr := hexutil.Decode(encoded); decodeErr == nil {
				res := &run.RevertError{Data: data}
				if reason, unpackErr := abi.UnpackRevert(data); unpackErr == nil {
					res.Reason = reason
				}
				return res
			}
		}
	}
	message := err.Error()
	if index := strings.Index(message, revertMessage); index >= 0 {
		reason := strings.TrimPrefix(message[index+len(revertMessage):], ":")
		return &run.RevertError{Reason: strings.TrimSpace(reason)}
	}
	return err
}
