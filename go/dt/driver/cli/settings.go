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
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/Fantom-foundation/difftest/go/dt"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// FileSettings are the parameters accepted in a YAML configuration file.
// Absent entries keep their defaults.
type FileSettings struct {
	Seed             *uint64        `yaml:"seed"`
	CallsPerCallable *int           `yaml:"calls_per_callable"`
	BoundaryRatio    *float64       `yaml:"boundary_ratio"`
	StructuredRatio  *float64       `yaml:"structured_ratio"`
	StorageSlots     []string       `yaml:"storage_slots,omitempty"`
	Gas              *uint64        `yaml:"gas"`
	GasPrice         string         `yaml:"gas_price,omitempty"`
	ValueWei         string         `yaml:"value_wei,omitempty"`
	Timeout          *time.Duration `yaml:"timeout"`
	Rpc              string         `yaml:"rpc,omitempty"`
	OutDir           string         `yaml:"outdir,omitempty"`
	Sqlite           string         `yaml:"sqlite,omitempty"`
}

// LoadFileSettings reads a YAML configuration file. Unknown keys are
// rejected.
func LoadFileSettings(path string) (*FileSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", path, err)
	}
	var res FileSettings
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&res); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	return &res, nil
}

// Settings are the resolved parameters of a run command.
type Settings struct {
	Campaign dt.Config
	GasPrice *big.Int // < nil if fees are derived from the node
	Rpc      string
	OutDir   string
	Sqlite   string
}

func DefaultSettings() *Settings {
	return &Settings{
		Campaign: dt.DefaultConfig(),
		OutDir:   ".",
	}
}

func (s *Settings) apply(file *FileSettings) error {
	if file.Seed != nil {
		s.Campaign.Seed = *file.Seed
	}
	if file.CallsPerCallable != nil {
		s.Campaign.CallsPerCallable = *file.CallsPerCallable
	}
	if file.BoundaryRatio != nil {
		s.Campaign.BoundaryRatio = *file.BoundaryRatio
	}
	if file.StructuredRatio != nil {
		s.Campaign.StructuredRatio = *file.StructuredRatio
	}
	if len(file.StorageSlots) > 0 {
		indices, err := dt.ParseStorageIndices(strings.Join(file.StorageSlots, ","))
		if err != nil {
			return err
		}
		s.Campaign.StorageIndices = indices
	}
	if file.Gas != nil {
		s.Campaign.GasLimit = *file.Gas
	}
	if file.GasPrice != "" {
		price, err := ParseWei(file.GasPrice)
		if err != nil {
			return err
		}
		s.GasPrice = price
	}
	if file.ValueWei != "" {
		value, err := ParseWei(file.ValueWei)
		if err != nil {
			return err
		}
		s.Campaign.Value = value
	}
	if file.Timeout != nil {
		s.Campaign.ReceiptTimeout = *file.Timeout
	}
	if file.Rpc != "" {
		s.Rpc = file.Rpc
	}
	if file.OutDir != "" {
		s.OutDir = file.OutDir
	}
	if file.Sqlite != "" {
		s.Sqlite = file.Sqlite
	}
	return nil
}

// FetchSettings resolves the settings of a command from defaults, the
// optional configuration file and explicitly set flags, in this order.
func FetchSettings(context *cli.Context) (*Settings, error) {
	res := DefaultSettings()
	if path := ConfigFlag.Fetch(context); path != "" {
		file, err := LoadFileSettings(path)
		if err != nil {
			return nil, err
		}
		if err := res.apply(file); err != nil {
			return nil, fmt.Errorf("invalid config %q: %w", path, err)
		}
	}

	if context.IsSet(SeedFlag.Name) {
		res.Campaign.Seed = SeedFlag.Fetch(context)
	}
	if context.IsSet(CallsFlag.Name) {
		res.Campaign.CallsPerCallable = CallsFlag.Fetch(context)
	}
	if context.IsSet(BoundaryRatioFlag.Name) {
		res.Campaign.BoundaryRatio = BoundaryRatioFlag.Fetch(context)
	}
	if context.IsSet(StructuredRatioFlag.Name) {
		res.Campaign.StructuredRatio = StructuredRatioFlag.Fetch(context)
	}
	if context.IsSet(StorageFlag.Name) {
		indices, err := StorageFlag.Fetch(context)
		if err != nil {
			return nil, err
		}
		res.Campaign.StorageIndices = indices
	}
	if context.IsSet(GasFlag.Name) {
		res.Campaign.GasLimit = GasFlag.Fetch(context)
	}
	if context.IsSet(GasPriceFlag.Name) {
		price, err := GasPriceFlag.Fetch(context)
		if err != nil {
			return nil, err
		}
		res.GasPrice = price
	}
	if context.IsSet(ValueFlag.Name) {
		value, err := ValueFlag.Fetch(context)
		if err != nil {
			return nil, err
		}
		if value == nil {
			value = new(big.Int)
		}
		res.Campaign.Value = value
	}
	if context.IsSet(TimeoutFlag.Name) {
		res.Campaign.ReceiptTimeout = TimeoutFlag.Fetch(context)
	}
	if context.IsSet(RpcFlag.Name) {
		res.Rpc = RpcFlag.Fetch(context)
	}
	if context.IsSet(OutDirFlag.Name) {
		res.OutDir = OutDirFlag.Fetch(context)
	}
	if context.IsSet(SqliteFlag.Name) {
		res.Sqlite = SqliteFlag.Fetch(context)
	}
	return res, nil
}
