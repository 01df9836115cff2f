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
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Fantom-foundation/difftest/go/dt/common"
	"github.com/Fantom-foundation/difftest/go/dt/gen"
	"github.com/Fantom-foundation/difftest/go/dt/rep"
)

// ErrConfiguration marks errors aborting a run before any call is made.
const ErrConfiguration = common.ConstErr("configuration error")

const (
	DefaultSeed             = 20250101
	DefaultCallsPerCallable = 32
	DefaultBoundaryRatio    = 0.43
	DefaultStructuredRatio  = 0.10
	DefaultGasLimit         = 3_000_000
	DefaultReceiptTimeout   = 120 * time.Second
)

// Config are the parameters of a differential testing campaign.
type Config struct {
	Seed             uint64
	CallsPerCallable int
	BoundaryRatio    float64
	StructuredRatio  float64
	StorageIndices   []common.U256
	GasLimit         uint64
	Value            *big.Int // < value transferred by state-mutating calls
	ReceiptTimeout   time.Duration
	Clock            func() time.Time // < source of record timestamps
}

func DefaultConfig() Config {
	return Config{
		Seed:             DefaultSeed,
		CallsPerCallable: DefaultCallsPerCallable,
		BoundaryRatio:    DefaultBoundaryRatio,
		StructuredRatio:  DefaultStructuredRatio,
		GasLimit:         DefaultGasLimit,
		Value:            new(big.Int),
		ReceiptTimeout:   DefaultReceiptTimeout,
		Clock:            time.Now,
	}
}

// Validate checks the configuration, reporting problems as ErrConfiguration.
func (c Config) Validate() error {
	if err := gen.ValidateRatios(c.BoundaryRatio, c.StructuredRatio); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if c.CallsPerCallable < 0 {
		return fmt.Errorf("%w: negative number of calls per callable: %d", ErrConfiguration, c.CallsPerCallable)
	}
	if c.ReceiptTimeout <= 0 {
		return fmt.Errorf("%w: receipt timeout must be positive, got %v", ErrConfiguration, c.ReceiptTimeout)
	}
	if c.GasLimit == 0 {
		return fmt.Errorf("%w: gas limit must be positive", ErrConfiguration)
	}
	if c.Value != nil && c.Value.Sign() < 0 {
		return fmt.Errorf("%w: negative call value %v", ErrConfiguration, c.Value)
	}
	return nil
}

func (c Config) summaryConfig() rep.SummaryConfig {
	return rep.SummaryConfig{
		Seed:             c.Seed,
		CallsPerCallable: c.CallsPerCallable,
		BoundaryRatio:    c.BoundaryRatio,
		StructuredRatio:  c.StructuredRatio,
		StorageIndices:   c.StorageIndices,
	}
}

func (c Config) now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock()
}

// ParseStorageIndices parses a comma separated list of decimal or
// 0x-prefixed hexadecimal storage slot indices. Empty entries are ignored.
func ParseStorageIndices(list string) ([]common.U256, error) {
	res := []common.U256{}
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		index, err := rep.ParseStorageIndex(part)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid storage index: %w", ErrConfiguration, err)
		}
		res = append(res, index)
	}
	return res, nil
}
