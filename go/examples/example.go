// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package examples provides pairs of contract variants for trying out and
// testing differential campaigns.
package examples

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Fantom-foundation/difftest/go/dt"
	"github.com/Fantom-foundation/difftest/go/dt/artifact"
	"github.com/Fantom-foundation/difftest/go/dt/iface"
	"github.com/ethereum/go-ethereum/core/vm"
)

// Example is an original contract and a transformed version of it sharing
// an interface with a single (int)->int function.
type Example struct {
	exampleSpec
	originalCode    []byte // < creation code of the original
	transformedCode []byte // < creation code of the transformed variant
}

// exampleSpec specifies the runtime code of both variants.
type exampleSpec struct {
	Name        string
	Equivalent  bool   // < whether the variants are expected to behave identically
	abi         string // < ABI description shared by both variants
	original    []byte
	transformed []byte
	reference   func(int) int // a reference function computing the original's function
}

func (s exampleSpec) build() Example {
	return Example{
		exampleSpec:     s,
		originalCode:    CreationCode(s.original),
		transformedCode: CreationCode(s.transformed),
	}
}

// RunReference computes the expected result of the original for the given
// argument.
func (e *Example) RunReference(argument int) int {
	return e.reference(argument)
}

// Interface parses the ABI description shared by both variants.
func (e *Example) Interface() (*iface.Interface, error) {
	return iface.ParseInterface([]byte(e.abi))
}

// Programs returns the deployable variants of this example.
func (e *Example) Programs() (original, transformed dt.Program, err error) {
	contract, err := e.Interface()
	if err != nil {
		return dt.Program{}, dt.Program{}, err
	}
	original = dt.Program{Interface: contract, Code: e.originalCode}
	transformed = dt.Program{Interface: contract, Code: e.transformedCode}
	return original, transformed, nil
}

// WriteArtifacts stores both variants as artifact files in the given
// directory and returns their paths.
func (e *Example) WriteArtifacts(dir string) (original, transformed string, err error) {
	original = filepath.Join(dir, e.Name+"_original.json")
	transformed = filepath.Join(dir, e.Name+"_transformed.json")
	for path, code := range map[string][]byte{original: e.originalCode, transformed: e.transformedCode} {
		data, err := artifact.Encode([]byte(e.abi), code)
		if err != nil {
			return "", "", err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", "", fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return original, transformed, nil
}

// All lists the available examples ordered by name.
func All() []Example {
	res := []Example{
		GetArithmeticExample(),
		GetGasBurnerExample(),
		GetEchoExample(),
		GetTruncatedEchoExample(),
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}

// Get looks up an example by name.
func Get(name string) (Example, bool) {
	for _, example := range All() {
		if example.Name == name {
			return example, true
		}
	}
	return Example{}, false
}

// CreationCode prefixes runtime code with a constructor returning it.
func CreationCode(runtime []byte) []byte {
	size := len(runtime)
	constructor := []byte{
		byte(vm.PUSH2), byte(size >> 8), byte(size),
		byte(vm.DUP1),
		byte(vm.PUSH1), 12, // offset of the runtime code
		byte(vm.PUSH1), 0,
		byte(vm.CODECOPY),
		byte(vm.PUSH1), 0,
		byte(vm.RETURN),
	}
	return append(constructor, runtime...)
}

// appendDeadCode adds an unreachable section to the end of the given code.
// The section starts with an INVALID instruction followed by jump
// destinations no code jumps to.
func appendDeadCode(code []byte) []byte {
	res := bytes.Clone(code)
	res = append(res, byte(vm.INVALID))
	return append(res, bytes.Repeat([]byte{byte(vm.JUMPDEST)}, 32)...)
}

func mustDecode(name, code string) []byte {
	res, err := hex.DecodeString(code)
	if err != nil {
		panic(fmt.Sprintf("unable to decode %s code: %v", name, err))
	}
	return res
}
