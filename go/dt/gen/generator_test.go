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
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strings"
	"testing"

	"github.com/Fantom-foundation/difftest/go/dt/common"
	"github.com/Fantom-foundation/difftest/go/dt/iface"
	geth "github.com/ethereum/go-ethereum/common"
	"github.com/leanovate/gopter"
	pgen "github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"pgregory.net/rand"
)

func mustParse(t *testing.T, name string) iface.TypeSpec {
	t.Helper()
	spec, err := iface.ParseType(name)
	if err != nil {
		t.Fatalf("failed to parse type %q: %v", name, err)
	}
	return spec
}

func TestGenerate_BoundaryIntegersOfSmallTypes(t *testing.T) {
	tests := map[string][]int64{
		"uint8": {0, 1, 255},
		"int8":  {0, 1, -1, -128, 127},
	}
	for name, candidates := range tests {
		typ := mustParse(t, name)
		rnd := rand.New(0)
		seen := map[int64]bool{}
		for i := 0; i < 500; i++ {
			value, err := Generate(typ, Boundary, rnd, Context{})
			if err != nil {
				t.Fatalf("failed to generate %v: %v", name, err)
			}
			got := value.(Int).ToBig().Int64()
			if !slices.Contains(candidates, got) {
				t.Fatalf("boundary value %d of %v not in %v", got, name, candidates)
			}
			seen[got] = true
		}
		if want, got := len(candidates), len(seen); want != got {
			t.Errorf("not all boundary candidates of %v produced, wanted %d, got %d", name, want, got)
		}
	}
}

func TestGenerate_BoundaryIntegersAreCandidates(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("boundary integers are members of the candidate set", prop.ForAll(
		func(seed uint64, width int, signed bool) bool {
			prefix := "uint"
			if signed {
				prefix = "int"
			}
			typ, err := iface.ParseType(fmt.Sprintf("%s%d", prefix, width*8))
			if err != nil {
				return false
			}
			value, err := Generate(typ, Boundary, rand.New(seed), Context{})
			if err != nil {
				return false
			}
			got := value.(Int).ToBig()
			return slices.ContainsFunc(BoundaryIntegers(typ.Bits, signed), func(c *big.Int) bool {
				return c.Cmp(got) == 0
			})
		},
		pgen.UInt64(),
		pgen.IntRange(1, 32),
		pgen.Bool(),
	))

	properties.TestingRun(t)
}

func TestGenerate_RandomIntegersAreInRange(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("random integers are representable", prop.ForAll(
		func(seed uint64, width int, signed bool) bool {
			bits := width * 8
			typ := iface.TypeSpec{Kind: iface.Integer, Bits: bits, Signed: signed}
			value, err := Generate(typ, Random, rand.New(seed), Context{})
			if err != nil {
				return false
			}
			return common.InIntegerRange(value.(Int).ToBig(), bits, signed)
		},
		pgen.UInt64(),
		pgen.IntRange(1, 32),
		pgen.Bool(),
	))

	properties.TestingRun(t)
}

func TestGenerate_StructuredIntegerUsesHint(t *testing.T) {
	typ := mustParse(t, "uint8")
	value, err := Generate(typ, Structured, rand.New(0), Context{}.WithHint(3))
	if err != nil {
		t.Fatalf("failed to generate: %v", err)
	}
	if want, got := "3", value.String(); want != got {
		t.Errorf("unexpected structured value, wanted %v, got %v", want, got)
	}
}

func TestGenerate_StructuredIntegerWithoutUsableHintIsRandom(t *testing.T) {
	typ := mustParse(t, "int8")
	for _, ctx := range []Context{{}, Context{}.WithHint(300)} {
		a, err := Generate(typ, Structured, rand.New(5), ctx)
		if err != nil {
			t.Fatalf("failed to generate: %v", err)
		}
		b, _ := Generate(typ, Random, rand.New(5), ctx)
		if want, got := b.String(), a.String(); want != got {
			t.Errorf("structured fallback should match random draw, wanted %v, got %v", want, got)
		}
	}
}

func TestGenerate_StructuredArrayElementsFollowIndex(t *testing.T) {
	typ := mustParse(t, "uint16[4]")
	value, err := Generate(typ, Structured, rand.New(0), Context{}.WithHint(9))
	if err != nil {
		t.Fatalf("failed to generate: %v", err)
	}
	if want, got := "[0,1,2,3]", value.String(); want != got {
		t.Errorf("unexpected array, wanted %v, got %v", want, got)
	}
}

func TestGenerate_DynamicArrayLengths(t *testing.T) {
	typ := mustParse(t, "bool[]")
	rnd := rand.New(1)
	for i := 0; i < 100; i++ {
		value, _ := Generate(typ, Boundary, rnd, Context{})
		if want, got := 0, len(value.(Array)); want != got {
			t.Fatalf("unexpected boundary array length, wanted %d, got %d", want, got)
		}
		value, _ = Generate(typ, Random, rnd, Context{})
		if got := len(value.(Array)); got > maxDynamicArrayLength {
			t.Fatalf("random array too long: %d", got)
		}
	}
}

func TestGenerate_BoundaryBytesAreUniform(t *testing.T) {
	rnd := rand.New(2)
	fixed := mustParse(t, "bytes4")
	for i := 0; i < 50; i++ {
		value, err := Generate(fixed, Boundary, rnd, Context{})
		if err != nil {
			t.Fatalf("failed to generate: %v", err)
		}
		got := value.String()
		if got != "0x00000000" && got != "0xffffffff" {
			t.Fatalf("unexpected boundary bytes %v", got)
		}
	}
	dynamic := mustParse(t, "bytes")
	value, _ := Generate(dynamic, Boundary, rnd, Context{})
	if want, got := 0, value.(Bytes).Length(); want != got {
		t.Errorf("unexpected boundary length, wanted %d, got %d", want, got)
	}
}

func TestGenerate_RandomBytesHaveValidLength(t *testing.T) {
	rnd := rand.New(3)
	fixed := mustParse(t, "bytes20")
	dynamic := mustParse(t, "bytes")
	for i := 0; i < 100; i++ {
		value, _ := Generate(fixed, Random, rnd, Context{})
		if want, got := 20, value.(Bytes).Length(); want != got {
			t.Fatalf("unexpected length, wanted %d, got %d", want, got)
		}
		value, _ = Generate(dynamic, Random, rnd, Context{})
		if got := value.(Bytes).Length(); got > maxDynamicBytesLength {
			t.Fatalf("dynamic bytes too long: %d", got)
		}
	}
}

func TestGenerate_Strings(t *testing.T) {
	rnd := rand.New(4)
	typ := mustParse(t, "string")
	for i := 0; i < 100; i++ {
		value, _ := Generate(typ, Boundary, rnd, Context{})
		if !slices.Contains(boundaryStrings, value.String()) {
			t.Fatalf("unexpected boundary string %q", value)
		}
		value, _ = Generate(typ, Random, rnd, Context{})
		got := value.String()
		if len(got) > maxStringLength {
			t.Fatalf("random string too long: %q", got)
		}
		for _, c := range got {
			if !strings.ContainsRune(randomStringCharacters, c) {
				t.Fatalf("unexpected character in %q", got)
			}
		}
	}
}

func TestGenerate_AddressesPreferKnownAccounts(t *testing.T) {
	known := []geth.Address{{1}, {2}, {3}}
	typ := mustParse(t, "address")
	rnd := rand.New(5)
	for _, label := range AllLabels() {
		for i := 0; i < 20; i++ {
			value, _ := Generate(typ, label, rnd, Context{KnownAddresses: known})
			if !slices.Contains(known, geth.Address(value.(Address))) {
				t.Fatalf("address %v is not a known account", value)
			}
		}
	}
}

func TestGenerate_UnsupportedTypes(t *testing.T) {
	for _, name := range []string{"(uint256,address)", "(bool)[2]", "function", "fixed128x18", "ufixed[]"} {
		typ := mustParse(t, name)
		rnd := rand.New(6)
		value, err := Generate(typ, Random, rnd, Context{})
		if !errors.Is(err, ErrUnsupported) {
			t.Errorf("expected %v to be unsupported, got %v", name, err)
		}
		if value != nil {
			t.Errorf("unsupported type %v produced value %v", name, value)
		}
		if want, got := rand.New(6).Uint64(), rnd.Uint64(); want != got {
			t.Errorf("rejecting %v consumed random draws", name)
		}
	}
}

func TestGenerate_IsDeterministic(t *testing.T) {
	names := []string{"uint256", "int40", "bool", "address", "bytes32", "bytes", "string", "uint8[3]", "string[]", "bytes2[][2]"}
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("values only depend on seed, label and context", prop.ForAll(
		func(seed uint64, labelIndex int, hint int) bool {
			label := AllLabels()[labelIndex]
			ctx := Context{}.WithHint(hint)
			a := rand.New(seed)
			b := rand.New(seed)
			for _, name := range names {
				typ, err := iface.ParseType(name)
				if err != nil {
					return false
				}
				x, errX := Generate(typ, label, a, ctx)
				y, errY := Generate(typ, label, b, ctx)
				if errX != nil || errY != nil || x.String() != y.String() {
					return false
				}
			}
			return true
		},
		pgen.UInt64(),
		pgen.IntRange(0, 2),
		pgen.IntRange(0, 10),
	))

	properties.TestingRun(t)
}

func TestValue_JSONEncoding(t *testing.T) {
	address := geth.HexToAddress("0x00000000000000000000000000000000000000aa")
	tests := []struct {
		value Value
		want  string
	}{
		{NewIntFromInt64(-5), `-5`},
		{NewInt(new(big.Int).Lsh(big.NewInt(1), 100)), `1267650600228229401496703205376`},
		{Bool(true), `true`},
		{Address(address), `"` + address.Hex() + `"`},
		{NewBytes([]byte{0xab, 0x01}), `"0xab01"`},
		{String("test"), `"test"`},
		{Array{Bool(false), NewIntFromInt64(1)}, `[false,1]`},
		{Array(nil), `[]`},
	}
	for _, test := range tests {
		data, err := json.Marshal(test.value)
		if err != nil {
			t.Fatalf("failed to encode %v: %v", test.value, err)
		}
		if want, got := test.want, string(data); want != got {
			t.Errorf("unexpected encoding, wanted %v, got %v", want, got)
		}
	}
}
