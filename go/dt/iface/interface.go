// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package iface

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

// Mutability classifies whether a callable may modify persistent state.
type Mutability int

const (
	ReadOnly Mutability = iota
	StateMutating
)

func (m Mutability) String() string {
	switch m {
	case ReadOnly:
		return "read-only"
	case StateMutating:
		return "state-mutating"
	}
	return fmt.Sprintf("Mutability(%d)", int(m))
}

func (m Mutability) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Selector is the 4-byte fingerprint of a callable signature.
type Selector [4]byte

// ComputeSelector derives the selector of the given canonical signature. It
// consists of the leading 4 bytes of the signature's keccak256 hash.
func ComputeSelector(signature string) Selector {
	var res Selector
	copy(res[:], crypto.Keccak256([]byte(signature)))
	return res
}

func (s Selector) String() string {
	return "0x" + hex.EncodeToString(s[:])
}

func (s Selector) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s Selector) Compare(o Selector) int {
	return bytes.Compare(s[:], o[:])
}

// Callable describes an externally invocable function of a contract.
type Callable struct {
	Signature  string
	Selector   Selector
	Inputs     []TypeSpec
	Mutability Mutability
	method     *abi.Method
}

// NewCallable creates a callable description not bound to an ABI method. Such
// callables can be scheduled and generated for, but not encoded.
func NewCallable(signature string, mutability Mutability, inputs ...TypeSpec) Callable {
	return Callable{
		Signature:  signature,
		Selector:   ComputeSelector(signature),
		Inputs:     inputs,
		Mutability: mutability,
	}
}

func newCallableFromMethod(method abi.Method) (Callable, error) {
	inputs := make([]TypeSpec, 0, len(method.Inputs))
	for _, input := range method.Inputs {
		spec, err := ParseType(input.Type.String())
		if err != nil {
			return Callable{}, fmt.Errorf("input %q of %s: %w", input.Name, method.Sig, err)
		}
		inputs = append(inputs, spec)
	}
	mutability := StateMutating
	if method.IsConstant() {
		mutability = ReadOnly
	}
	res := NewCallable(method.Sig, mutability, inputs...)
	res.method = &method
	return res, nil
}

// Method returns the ABI method backing this callable, nil if unbound.
func (c Callable) Method() *abi.Method {
	return c.method
}

// HasTupleInput reports whether any input is or nests a tuple.
func (c Callable) HasTupleInput() bool {
	return slices.ContainsFunc(c.Inputs, TypeSpec.ContainsTuple)
}

func (c Callable) String() string {
	return fmt.Sprintf("%s [%v, %v]", c.Signature, c.Selector, c.Mutability)
}

// Interface is the callable surface of a contract.
type Interface struct {
	callables []Callable
}

// ParseInterface parses a JSON ABI description. Only functions are part of
// the callable surface; they are ordered by signature.
func ParseInterface(abiJSON []byte) (*Interface, error) {
	parsed, err := abi.JSON(bytes.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}
	callables := make([]Callable, 0, len(parsed.Methods))
	for _, method := range parsed.Methods {
		callable, err := newCallableFromMethod(method)
		if err != nil {
			return nil, err
		}
		callables = append(callables, callable)
	}
	return NewInterface(callables...), nil
}

func NewInterface(callables ...Callable) *Interface {
	sorted := slices.Clone(callables)
	slices.SortFunc(sorted, func(a, b Callable) int {
		return strings.Compare(a.Signature, b.Signature)
	})
	return &Interface{callables: sorted}
}

// Callables returns the callables ordered by signature.
func (i *Interface) Callables() []Callable {
	return slices.Clone(i.callables)
}

func (i *Interface) Signatures() []string {
	res := make([]string, 0, len(i.callables))
	for _, c := range i.callables {
		res = append(res, c.Signature)
	}
	return res
}

func (i *Interface) Selectors() []Selector {
	res := make([]Selector, 0, len(i.callables))
	for _, c := range i.callables {
		res = append(res, c.Selector)
	}
	return res
}

// IncompatibleError lists the signatures present in only one of two
// interfaces expected to be identical.
type IncompatibleError struct {
	OnlyInOriginal    []string
	OnlyInTransformed []string
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf(
		"function signatures differ: only in original %v, only in transformed %v",
		e.OnlyInOriginal, e.OnlyInTransformed,
	)
}

// CheckCompatible verifies that both interfaces declare the same signatures.
func CheckCompatible(original, transformed *Interface) error {
	a := original.Signatures()
	b := transformed.Signatures()
	if slices.Equal(a, b) {
		return nil
	}
	return &IncompatibleError{
		OnlyInOriginal:    difference(a, b),
		OnlyInTransformed: difference(b, a),
	}
}

// difference returns the elements of sorted list a missing in sorted list b.
func difference(a, b []string) []string {
	res := []string{}
	for _, cur := range a {
		if _, found := slices.BinarySearch(b, cur); !found {
			res = append(res, cur)
		}
	}
	return res
}
