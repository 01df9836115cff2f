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
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Fantom-foundation/difftest/go/dt/common"
	"github.com/Fantom-foundation/difftest/go/dt/run"
	"github.com/ethereum/go-ethereum"
	geth "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// DefaultPollInterval is the delay between two receipt lookups.
const DefaultPollInterval = 500 * time.Millisecond

// Backend is the subset of a chain client used for executing calls.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash geth.Hash) (*types.Receipt, error)
	StorageAt(ctx context.Context, account geth.Address, key geth.Hash, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account geth.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// RPCCaller issues raw JSON-RPC requests. It is used for accounts managed by
// the node.
type RPCCaller interface {
	CallContext(ctx context.Context, result any, method string, args ...any) error
}

// Config are the fee and polling settings of a client.
type Config struct {
	// GasPrice forces legacy transactions with a flat fee if set.
	GasPrice     *big.Int
	PollInterval time.Duration
}

// Client is a run.LedgerClient executing calls on an Ethereum compatible
// chain. Transactions of senders with a known key are signed locally, others
// are sent to the node for signing.
type Client struct {
	backend Backend
	rpc     RPCCaller
	keys    map[geth.Address]*ecdsa.PrivateKey
	senders []geth.Address
	chainID *big.Int
	config  Config
	commit  func()
	close   func() error
}

var _ run.LedgerClient = (*Client)(nil)

// NewClient creates a client on top of the given backend. The rpc caller
// may be nil if only locally signed transactions are used.
func NewClient(ctx context.Context, backend Backend, rpc RPCCaller, config Config, keys ...*ecdsa.PrivateKey) (*Client, error) {
	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chain id: %w", err)
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	res := &Client{
		backend: backend,
		rpc:     rpc,
		keys:    map[geth.Address]*ecdsa.PrivateKey{},
		chainID: chainID,
		config:  config,
	}
	for _, key := range keys {
		address := crypto.PubkeyToAddress(key.PublicKey)
		if _, found := res.keys[address]; !found {
			res.senders = append(res.senders, address)
		}
		res.keys[address] = key
	}
	return res, nil
}

// Dial connects to the node at the given JSON-RPC endpoint.
func Dial(ctx context.Context, url string, config Config, keys ...*ecdsa.PrivateKey) (*Client, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	res, err := NewClient(ctx, client, client.Client(), config, keys...)
	if err != nil {
		client.Close()
		return nil, err
	}
	res.close = func() error {
		client.Close()
		return nil
	}
	return res, nil
}

func (c *Client) ChainID() uint64 {
	return c.chainID.Uint64()
}

func (c *Client) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}

// Accounts lists the addresses of the local keys if there are any, and the
// accounts managed by the node otherwise.
func (c *Client) Accounts(ctx context.Context) ([]geth.Address, error) {
	if len(c.senders) > 0 || c.rpc == nil {
		return append([]geth.Address{}, c.senders...), nil
	}
	var res []geth.Address
	if err := c.rpc.CallContext(ctx, &res, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("failed to list node accounts: %w", err)
	}
	return res, nil
}

func (c *Client) Deploy(ctx context.Context, code []byte, opts run.TxOptions) (geth.Address, geth.Hash, error) {
	nonce, err := c.backend.PendingNonceAt(ctx, opts.Sender)
	if err != nil {
		return geth.Address{}, geth.Hash{}, fmt.Errorf("failed to fetch nonce: %w", err)
	}
	hash, err := c.send(ctx, nil, code, nonce, opts)
	if err != nil {
		return geth.Address{}, geth.Hash{}, err
	}
	return crypto.CreateAddress(opts.Sender, nonce), hash, nil
}

func (c *Client) CallRead(ctx context.Context, to geth.Address, data []byte, from geth.Address) ([]byte, error) {
	res, err := c.backend.CallContract(ctx, ethereum.CallMsg{From: from, To: &to, Data: data}, nil)
	if err != nil {
		return nil, classify(err)
	}
	return res, nil
}

func (c *Client) SubmitTx(ctx context.Context, to geth.Address, data []byte, opts run.TxOptions) (geth.Hash, error) {
	nonce, err := c.backend.PendingNonceAt(ctx, opts.Sender)
	if err != nil {
		return geth.Hash{}, fmt.Errorf("failed to fetch nonce: %w", err)
	}
	return c.send(ctx, &to, data, nonce, opts)
}

func (c *Client) send(ctx context.Context, to *geth.Address, data []byte, nonce uint64, opts run.TxOptions) (geth.Hash, error) {
	fees, err := c.deriveFees(ctx)
	if err != nil {
		return geth.Hash{}, err
	}
	value := opts.Value
	if value == nil {
		value = new(big.Int)
	}

	if key, found := c.keys[opts.Sender]; found {
		tx, err := types.SignTx(fees.newTx(c.chainID, nonce, to, opts.GasLimit, value, data), types.LatestSignerForChainID(c.chainID), key)
		if err != nil {
			return geth.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
		}
		if err := c.backend.SendTransaction(ctx, tx); err != nil {
			return geth.Hash{}, classify(err)
		}
		if c.commit != nil {
			c.commit()
		}
		return tx.Hash(), nil
	}

	if c.rpc == nil {
		return geth.Hash{}, fmt.Errorf("no key for sender %v", opts.Sender)
	}
	args := map[string]any{
		"from":  opts.Sender,
		"data":  hexutil.Bytes(data),
		"gas":   hexutil.Uint64(opts.GasLimit),
		"value": (*hexutil.Big)(value),
		"nonce": hexutil.Uint64(nonce),
	}
	if to != nil {
		args["to"] = *to
	}
	fees.addTo(args)
	var hash geth.Hash
	if err := c.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return geth.Hash{}, classify(err)
	}
	return hash, nil
}

// AwaitReceipt polls for the receipt of the given transaction until it is
// available or the timeout expires.
func (c *Client) AwaitReceipt(ctx context.Context, tx geth.Hash, timeout time.Duration) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(c.config.PollInterval)
	defer ticker.Stop()
	for {
		receipt, err := c.backend.TransactionReceipt(ctx, tx)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) && ctx.Err() == nil {
			return nil, fmt.Errorf("failed to fetch receipt of %v: %w", tx, err)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w %v after %v", run.ErrReceiptTimeout, tx, timeout)
		case <-ticker.C:
		}
	}
}

func (c *Client) ReadStorage(ctx context.Context, address geth.Address, slot common.U256) (geth.Hash, error) {
	value, err := c.backend.StorageAt(ctx, address, geth.Hash(slot.Bytes32be()), nil)
	if err != nil {
		return geth.Hash{}, err
	}
	return geth.BytesToHash(value), nil
}
