// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Fantom-foundation/difftest/go/dt"
	"github.com/Fantom-foundation/difftest/go/dt/common"
	"github.com/Fantom-foundation/difftest/go/dt/iface"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrInvalidArtifact is returned for artifacts lacking a usable interface
// description or deployable code.
const ErrInvalidArtifact = common.ConstErr("invalid artifact")

// Artifact is a compiled contract: its interface description and the code
// creating an instance of it.
type Artifact struct {
	Path      string
	Interface *iface.Interface
	Code      []byte
}

type artifactJSON struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode json.RawMessage `json:"bytecode"`
	EVM      *struct {
		Bytecode *struct {
			Object json.RawMessage `json:"object"`
		} `json:"bytecode"`
	} `json:"evm"`
}

// Load reads an artifact from a JSON file holding an "abi" field and the
// creation code in either "bytecode" or "evm.bytecode.object".
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	res, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	res.Path = path
	return res, nil
}

// Parse decodes an artifact. Errors wrap both ErrInvalidArtifact and
// dt.ErrConfiguration.
func Parse(data []byte) (*Artifact, error) {
	res, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dt.ErrConfiguration, err)
	}
	return res, nil
}

func parse(data []byte) (*Artifact, error) {
	var raw artifactJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}
	if isMissing(raw.ABI) {
		return nil, fmt.Errorf("%w: missing 'abi'", ErrInvalidArtifact)
	}

	bytecode := raw.Bytecode
	if isMissing(bytecode) && raw.EVM != nil && raw.EVM.Bytecode != nil {
		bytecode = raw.EVM.Bytecode.Object
	}
	if isMissing(bytecode) {
		return nil, fmt.Errorf("%w: missing 'bytecode'", ErrInvalidArtifact)
	}
	var hexCode string
	if err := json.Unmarshal(bytecode, &hexCode); err != nil {
		return nil, fmt.Errorf("%w: bytecode must be a hex string", ErrInvalidArtifact)
	}
	if !strings.HasPrefix(hexCode, "0x") {
		hexCode = "0x" + hexCode
	}
	code, err := hexutil.Decode(hexCode)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid bytecode: %w", ErrInvalidArtifact, err)
	}

	parsed, err := iface.ParseInterface(raw.ABI)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}
	return &Artifact{Interface: parsed, Code: code}, nil
}

func isMissing(field json.RawMessage) bool {
	return len(field) == 0 || string(field) == "null" || string(field) == `""`
}

// Program converts the artifact into the input of a campaign.
func (a *Artifact) Program() dt.Program {
	return dt.Program{Interface: a.Interface, Code: a.Code}
}

// Encode produces an artifact file accepted by Parse from an ABI description
// and creation code.
func Encode(abi []byte, code []byte) ([]byte, error) {
	if !json.Valid(abi) {
		return nil, fmt.Errorf("%w: malformed 'abi'", ErrInvalidArtifact)
	}
	return json.MarshalIndent(struct {
		ABI      json.RawMessage `json:"abi"`
		Bytecode string          `json:"bytecode"`
	}{
		ABI:      abi,
		Bytecode: hexutil.Encode(code),
	}, "", "  ")
}
