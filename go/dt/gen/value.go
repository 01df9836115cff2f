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
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/Fantom-foundation/difftest/go/dt/common"
	geth "github.com/ethereum/go-ethereum/common"
)

// Value is a single generated argument value. Implementations are Int, Bool,
// Address, Bytes, String and Array.
type Value interface {
	fmt.Stringer
	json.Marshaler
	private() // < only values of this package are supported by the encoder
}

// Int is an integer of any supported width and signedness.
type Int struct {
	value *big.Int
}

func NewInt(v *big.Int) Int {
	return Int{value: new(big.Int).Set(v)}
}

func NewIntFromInt64(v int64) Int {
	return Int{value: big.NewInt(v)}
}

func (i Int) ToBig() *big.Int {
	return new(big.Int).Set(i.value)
}

func (i Int) String() string {
	return i.value.String()
}

func (i Int) MarshalJSON() ([]byte, error) {
	return i.value.MarshalJSON()
}

type Bool bool

func (b Bool) String() string {
	return fmt.Sprintf("%t", bool(b))
}

func (b Bool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}

type Address geth.Address

func (a Address) String() string {
	return geth.Address(a).Hex()
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// Bytes is used for both fixed-size and dynamic byte strings.
type Bytes struct {
	common.Bytes
}

func NewBytes(data []byte) Bytes {
	return Bytes{common.NewBytes(data)}
}

type String string

func (s String) String() string {
	return string(s)
}

func (s String) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

type Array []Value

func (a Array) String() string {
	parts := make([]string, 0, len(a))
	for _, cur := range a {
		parts = append(parts, cur.String())
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func (a Array) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Value(a))
}

func (Int) private()     {}
func (Bool) private()    {}
func (Address) private() {}
func (Bytes) private()   {}
func (String) private()  {}
func (Array) private()   {}
