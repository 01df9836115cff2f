// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cliUtils

import (
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/Fantom-foundation/difftest/go/dt"
	"github.com/Fantom-foundation/difftest/go/dt/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/urfave/cli/v2"
)

type configFlagType struct {
	cli.PathFlag
}

var ConfigFlag = &configFlagType{
	cli.PathFlag{
		Name:      "config",
		Aliases:   []string{"c"},
		Usage:     "YAML file with campaign parameters, explicitly set flags take precedence",
		TakesFile: true,
	},
}

func (f *configFlagType) Fetch(context *cli.Context) string {
	return context.Path(f.Name)
}

type seedFlagType struct {
	cli.Uint64Flag
}

var SeedFlag = &seedFlagType{
	cli.Uint64Flag{
		Name:    "seed",
		Aliases: []string{"s"},
		Usage:   "seed for the random number generator",
		Value:   dt.DefaultSeed,
	},
}

func (f *seedFlagType) Fetch(context *cli.Context) uint64 {
	return context.Uint64(f.Name)
}

type callsFlagType struct {
	cli.IntFlag
}

var CallsFlag = &callsFlagType{
	cli.IntFlag{
		Name:    "calls-per-callable",
		Aliases: []string{"n"},
		Usage:   "number of call attempts per interface function",
		Value:   dt.DefaultCallsPerCallable,
	},
}

func (f *callsFlagType) Fetch(context *cli.Context) int {
	return context.Int(f.Name)
}

type ratioFlagType struct {
	cli.Float64Flag
}

var BoundaryRatioFlag = &ratioFlagType{
	cli.Float64Flag{
		Name:  "boundary-ratio",
		Usage: "fraction of attempts using boundary values",
		Value: dt.DefaultBoundaryRatio,
	},
}

var StructuredRatioFlag = &ratioFlagType{
	cli.Float64Flag{
		Name:  "structured-ratio",
		Usage: "fraction of attempts using index-correlated values",
		Value: dt.DefaultStructuredRatio,
	},
}

func (f *ratioFlagType) Fetch(context *cli.Context) float64 {
	return context.Float64(f.Name)
}

type storageFlagType struct {
	cli.StringFlag
}

var StorageFlag = &storageFlagType{
	cli.StringFlag{
		Name:  "storage-slots",
		Usage: "comma separated storage slots compared after each call, e.g. 0,1,0x2",
	},
}

func (f *storageFlagType) Fetch(context *cli.Context) ([]common.U256, error) {
	return dt.ParseStorageIndices(context.String(f.Name))
}

type gasFlagType struct {
	cli.Uint64Flag
}

var GasFlag = &gasFlagType{
	cli.Uint64Flag{
		Name:  "gas",
		Usage: "gas limit of deployments and transactions",
		Value: dt.DefaultGasLimit,
	},
}

func (f *gasFlagType) Fetch(context *cli.Context) uint64 {
	return context.Uint64(f.Name)
}

type weiFlagType struct {
	cli.StringFlag
}

var GasPriceFlag = &weiFlagType{
	cli.StringFlag{
		Name:  "gas-price",
		Usage: "legacy gas price in wei, if omitted fees are derived from the node",
	},
}

var ValueFlag = &weiFlagType{
	cli.StringFlag{
		Name:  "value-wei",
		Usage: "value in wei transferred by state-mutating calls",
	},
}

// Fetch returns nil if the flag is not set.
func (f *weiFlagType) Fetch(context *cli.Context) (*big.Int, error) {
	return ParseWei(context.String(f.Name))
}

// ParseWei parses a non-negative decimal amount. An empty string yields nil.
func ParseWei(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	res, ok := new(big.Int).SetString(s, 10)
	if !ok || res.Sign() < 0 {
		return nil, fmt.Errorf("invalid wei amount %q", s)
	}
	return res, nil
}

type timeoutFlagType struct {
	cli.DurationFlag
}

var TimeoutFlag = &timeoutFlagType{
	cli.DurationFlag{
		Name:  "timeout",
		Usage: "maximum time to wait for a transaction receipt",
		Value: dt.DefaultReceiptTimeout,
	},
}

func (f *timeoutFlagType) Fetch(context *cli.Context) time.Duration {
	return context.Duration(f.Name)
}

type rpcFlagType struct {
	cli.StringFlag
}

var RpcFlag = &rpcFlagType{
	cli.StringFlag{
		Name:  "rpc",
		Usage: "JSON-RPC URL of the node, e.g. http://127.0.0.1:8545",
	},
}

func (f *rpcFlagType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

type simulatedFlagType struct {
	cli.BoolFlag
}

var SimulatedFlag = &simulatedFlagType{
	cli.BoolFlag{
		Name:  "simulated",
		Usage: "run against an in-process chain instead of a node",
	},
}

func (f *simulatedFlagType) Fetch(context *cli.Context) bool {
	return context.Bool(f.Name)
}

type privateKeyFlagType struct {
	cli.StringFlag
}

var PrivateKeyFlag = &privateKeyFlagType{
	cli.StringFlag{
		Name:    "private-key",
		Usage:   "hex encoded key signing transactions locally instead of using node accounts",
		EnvVars: []string{"DIFFTEST_PRIVATE_KEY"},
	},
}

// Fetch returns nil if no key is configured.
func (f *privateKeyFlagType) Fetch(context *cli.Context) (*ecdsa.PrivateKey, error) {
	key := strings.TrimPrefix(strings.TrimSpace(context.String(f.Name)), "0x")
	if key == "" {
		return nil, nil
	}
	res, err := crypto.HexToECDSA(key)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return res, nil
}

type outDirFlagType struct {
	cli.PathFlag
}

var OutDirFlag = &outDirFlagType{
	cli.PathFlag{
		Name:      "outdir",
		Aliases:   []string{"o"},
		Usage:     "directory receiving invocations.jsonl, summary.json and deployed.json",
		Value:     ".",
		TakesFile: true,
	},
}

func (f *outDirFlagType) Fetch(context *cli.Context) string {
	return context.Path(f.Name)
}

type sqliteFlagType struct {
	cli.PathFlag
}

var SqliteFlag = &sqliteFlagType{
	cli.PathFlag{
		Name:      "sqlite",
		Usage:     "additionally store records in the given SQLite database",
		TakesFile: true,
	},
}

func (f *sqliteFlagType) Fetch(context *cli.Context) string {
	return context.Path(f.Name)
}

type failOnMismatchFlagType struct {
	cli.BoolFlag
}

var FailOnMismatchFlag = &failOnMismatchFlagType{
	cli.BoolFlag{
		Name:  "fail-on-mismatch",
		Usage: "exit with an error if any call attempt produced a mismatch",
	},
}

func (f *failOnMismatchFlagType) Fetch(context *cli.Context) bool {
	return context.Bool(f.Name)
}

type logLevelFlagType struct {
	cli.StringFlag
}

var LogLevelFlag = &logLevelFlagType{
	cli.StringFlag{
		Name:  "log-level",
		Usage: "one of debug, info, warn, error",
		Value: "info",
	},
}

func (f *logLevelFlagType) Fetch(context *cli.Context) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(context.String(f.Name))); err != nil {
		return level, fmt.Errorf("invalid log level: %w", err)
	}
	return level, nil
}
