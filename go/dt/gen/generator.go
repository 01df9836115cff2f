// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package gen

import (
	"fmt"
	"math/big"

	"github.com/Fantom-foundation/difftest/go/dt/common"
	"github.com/Fantom-foundation/difftest/go/dt/iface"
	geth "github.com/ethereum/go-ethereum/common"
	"pgregory.net/rand"
)

// ErrUnsupported is returned by Generate for types no value can be
// generated for, namely tuples and opaque types.
const ErrUnsupported = common.ConstErr("unsupported type for value generation")

const (
	maxDynamicBytesLength  = 64
	maxStringLength        = 32
	maxDynamicArrayLength  = 5
	randomStringCharacters = "abcdefghijklmnopqrstuvwxyz0123456789"
)

var boundaryStrings = []string{"", "a", "test"}

// Context provides the information beyond the type needed for generating a
// value.
type Context struct {
	// KnownAddresses are usable accounts preferred for address values.
	KnownAddresses []geth.Address
	// PositionHint is the argument or element index of the generated value,
	// valid if HasHint is set.
	PositionHint int
	HasHint      bool
}

// WithHint returns a copy of the context using the given position hint.
func (c Context) WithHint(position int) Context {
	c.PositionHint = position
	c.HasHint = true
	return c
}

// Generate produces a value for the given type using the strategy selected by
// the label. For a fixed type, label, source state, and context the result is
// reproducible.
func Generate(typ iface.TypeSpec, label Label, rnd *rand.Rand, ctx Context) (Value, error) {
	if !isSupported(typ) {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, typ)
	}
	return generate(typ, label, rnd, ctx), nil
}

func isSupported(typ iface.TypeSpec) bool {
	switch typ.Kind {
	case iface.Tuple, iface.Opaque:
		return false
	case iface.Array:
		return isSupported(*typ.Elem)
	}
	return true
}

func generate(typ iface.TypeSpec, label Label, rnd *rand.Rand, ctx Context) Value {
	switch typ.Kind {
	case iface.Integer:
		return generateInteger(typ, label, rnd, ctx)
	case iface.Boolean:
		return Bool(rnd.Intn(2) == 1)
	case iface.Address:
		return Address(common.PickAddress(rnd, ctx.KnownAddresses))
	case iface.FixedBytes:
		return generateBytes(typ.Size, label, rnd)
	case iface.DynamicBytes:
		size := 0
		if label != Boundary {
			size = rnd.Intn(maxDynamicBytesLength + 1)
		}
		return generateBytes(size, label, rnd)
	case iface.String:
		return generateString(label, rnd)
	case iface.Array:
		return generateArray(typ, label, rnd, ctx)
	}
	panic(fmt.Sprintf("unexpected type kind %v", typ.Kind))
}

// BoundaryIntegers lists the edge-case candidates of an integer type:
// 0, 1, and max, plus -1 and min for signed types.
func BoundaryIntegers(bits int, signed bool) []*big.Int {
	min, max := common.IntegerBounds(bits, signed)
	if !signed {
		return []*big.Int{big.NewInt(0), big.NewInt(1), max}
	}
	return []*big.Int{big.NewInt(0), big.NewInt(1), big.NewInt(-1), min, max}
}

func generateInteger(typ iface.TypeSpec, label Label, rnd *rand.Rand, ctx Context) Value {
	switch label {
	case Boundary:
		candidates := BoundaryIntegers(typ.Bits, typ.Signed)
		return Int{value: candidates[rnd.Intn(len(candidates))]}
	case Structured:
		if ctx.HasHint {
			hint := big.NewInt(int64(ctx.PositionHint))
			if common.InIntegerRange(hint, typ.Bits, typ.Signed) {
				return Int{value: hint}
			}
		}
	}
	return Int{value: common.RandInteger(rnd, typ.Bits, typ.Signed)}
}

func generateBytes(size int, label Label, rnd *rand.Rand) Value {
	if label == Boundary {
		if rnd.Intn(2) == 0 {
			return Bytes{common.FilledBytes(size, 0x00)}
		}
		return Bytes{common.FilledBytes(size, 0xff)}
	}
	return Bytes{common.RandomBytesOfSize(rnd, size)}
}

func generateString(label Label, rnd *rand.Rand) Value {
	if label == Boundary {
		return String(boundaryStrings[rnd.Intn(len(boundaryStrings))])
	}
	res := make([]byte, rnd.Intn(maxStringLength+1))
	for i := range res {
		res[i] = randomStringCharacters[rnd.Intn(len(randomStringCharacters))]
	}
	return String(res)
}

func generateArray(typ iface.TypeSpec, label Label, rnd *rand.Rand, ctx Context) Value {
	length := typ.Length
	if typ.Dynamic {
		length = 0
		if label != Boundary {
			length = rnd.Intn(maxDynamicArrayLength + 1)
		}
	}
	res := make(Array, 0, length)
	for i := 0; i < length; i++ {
		res = append(res, generate(*typ.Elem, label, rnd, ctx.WithHint(i)))
	}
	return res
}
