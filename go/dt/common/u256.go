// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"pgregory.net/rand"
)

// U256 is a 256-bit integer type. Contrary to holiman/uint256.Int the API
// operates on values rather than pointers.
type U256 struct {
	internal uint256.Int
}

// NewU256 creates a new U256 instance from up to 4 uint64 arguments. The
// arguments are given in the order from most significant to least significant
// by padding leading zeros as needed. No argument results in a value of zero.
func NewU256(args ...uint64) (result U256) {
	if len(args) > 4 {
		panic("Too many arguments")
	}
	offset := 4 - len(args)
	for i := 0; i < len(args) && i < len(result.internal); i++ {
		result.internal[3-i-offset] = args[i]
	}
	return
}

// NewU256FromBytes creates a new U256 instance from up to 32 big-endian bytes.
func NewU256FromBytes(bytes ...byte) (result U256) {
	if len(bytes) > 32 {
		panic("Too many arguments")
	}
	result.internal.SetBytes(bytes)
	return
}

// U256FromBig converts a non-negative big.Int of at most 256 bits.
func U256FromBig(b *big.Int) (U256, error) {
	if b.Sign() < 0 {
		return U256{}, fmt.Errorf("negative value %v can not be represented as U256", b)
	}
	value, overflow := uint256.FromBig(b)
	if overflow {
		return U256{}, fmt.Errorf("value %v exceeds 256 bits", b)
	}
	return U256{internal: *value}, nil
}

// ParseU256 parses a decimal or 0x-prefixed hexadecimal number.
func ParseU256(s string) (U256, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	value, ok := new(big.Int), false
	if digits, isHex := strings.CutPrefix(s, "0x"); isHex {
		value, ok = value.SetString(digits, 16)
	} else {
		value, ok = value.SetString(s, 10)
	}
	if !ok {
		return U256{}, fmt.Errorf("invalid number %q", s)
	}
	return U256FromBig(value)
}

func RandU256(rnd *rand.Rand) U256 {
	var value U256
	value.internal[0] = rnd.Uint64()
	value.internal[1] = rnd.Uint64()
	value.internal[2] = rnd.Uint64()
	value.internal[3] = rnd.Uint64()
	return value
}

func MaxU256() (result U256) {
	result.internal.SetAllOne()
	return
}

// LowBitMask returns a value with the lowest n bits set, n in [0,256].
func LowBitMask(n int) U256 {
	if n >= 256 {
		return MaxU256()
	}
	var one, res uint256.Int
	one.SetOne()
	res.Lsh(&one, uint(n))
	res.SubUint64(&res, 1)
	return U256{internal: res}
}

func (i U256) IsZero() bool {
	return i.internal.IsZero()
}

func (i U256) Bytes32be() [32]byte {
	return i.internal.Bytes32()
}

func (a U256) Eq(b U256) bool {
	return a.internal.Eq(&b.internal)
}

func (a U256) And(b U256) (z U256) {
	z.internal.And(&a.internal, &b.internal)
	return
}

func (i U256) String() string {
	return i.internal.ToBig().String()
}

// ToBig returns a bigInt version of i
func (i U256) ToBig() *big.Int {
	return i.internal.ToBig()
}

// IntegerBounds returns the smallest and the largest value representable by
// an integer of the given bit width and signedness.
func IntegerBounds(bits int, signed bool) (min, max *big.Int) {
	if !signed {
		return new(big.Int), LowBitMask(bits).ToBig()
	}
	max = LowBitMask(bits - 1).ToBig()
	min = new(big.Int).Neg(max)
	min.Sub(min, big.NewInt(1))
	return min, max
}

// RandInteger draws a value uniformly distributed over the full range of an
// integer with the given bit width and signedness.
func RandInteger(rnd *rand.Rand, bits int, signed bool) *big.Int {
	value := RandU256(rnd).And(LowBitMask(bits)).ToBig()
	if !signed {
		return value
	}
	// shift [0, 2^bits) down to [-2^(bits-1), 2^(bits-1))
	offset := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	return value.Sub(value, offset)
}

// InIntegerRange reports whether v is representable by the given integer type.
func InIntegerRange(v *big.Int, bits int, signed bool) bool {
	min, max := IntegerBounds(bits, signed)
	return v.Cmp(min) >= 0 && v.Cmp(max) <= 0
}
