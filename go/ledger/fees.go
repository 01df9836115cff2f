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
	"fmt"
	"math/big"

	geth "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// fees are the fee fields of a transaction. Either gasPrice is set for a
// legacy transaction, or tipCap and feeCap for a dynamic fee transaction.
type fees struct {
	gasPrice *big.Int
	tipCap   *big.Int
	feeCap   *big.Int
}

func (f fees) isLegacy() bool {
	return f.gasPrice != nil
}

// deriveFees uses the configured flat gas price if present. Otherwise, on
// chains with a base fee, the suggested tip is offered with a fee cap of the
// base fee plus twice the tip. All remaining cases use the suggested gas
// price.
func (c *Client) deriveFees(ctx context.Context) (fees, error) {
	if c.config.GasPrice != nil {
		return fees{gasPrice: new(big.Int).Set(c.config.GasPrice)}, nil
	}
	head, err := c.backend.HeaderByNumber(ctx, nil)
	if err == nil && head.BaseFee != nil {
		if tip, err := c.backend.SuggestGasTipCap(ctx); err == nil {
			feeCap := new(big.Int).Mul(tip, big.NewInt(2))
			feeCap.Add(feeCap, head.BaseFee)
			return fees{tipCap: tip, feeCap: feeCap}, nil
		}
	}
	price, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return fees{}, fmt.Errorf("failed to derive fees: %w", err)
	}
	return fees{gasPrice: price}, nil
}

func (f fees) newTx(chainID *big.Int, nonce uint64, to *geth.Address, gas uint64, value *big.Int, data []byte) *types.Transaction {
	if f.isLegacy() {
		return types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: f.gasPrice,
			Gas:      gas,
			To:       to,
			Value:    value,
			Data:     data,
		})
	}
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: f.tipCap,
		GasFeeCap: f.feeCap,
		Gas:       gas,
		To:        to,
		Value:     value,
		Data:      data,
	})
}

func (f fees) addTo(args map[string]any) {
	if f.isLegacy() {
		args["gasPrice"] = (*hexutil.Big)(f.gasPrice)
		return
	}
	args["maxPriorityFeePerGas"] = (*hexutil.Big)(f.tipCap)
	args["maxFeePerGas"] = (*hexutil.Big)(f.feeCap)
}
