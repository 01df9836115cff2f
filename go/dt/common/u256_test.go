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
	"math/big"
	"strings"
	"testing"

	"pgregory.net/rand"
)

func TestU256_NewU256FromBigRejectsNegativeValues(t *testing.T) {
	if _, err := U256FromBig(big.NewInt(-1)); err == nil {
		t.Errorf("expected negative value to be rejected")
	}
}

func TestU256_NewU256FromBigRejectsOverflow(t *testing.T) {
	tooBig := new(big.Int).Lsh(big.NewInt(1), 256)
	if _, err := U256FromBig(tooBig); err == nil {
		t.Errorf("expected 2^256 to be rejected")
	}
}

func TestU256_LowBitMask(t *testing.T) {
	tests := map[int]string{
		0:   "0",
		1:   "1",
		8:   "255",
		16:  "65535",
		255: new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1)).String(),
		256: MaxU256().String(),
	}
	for bits, want := range tests {
		if got := LowBitMask(bits).String(); want != got {
			t.Errorf("unexpected mask for %d bits, wanted %s, got %s", bits, want, got)
		}
	}
}

func TestIntegerBounds(t *testing.T) {
	tests := []struct {
		bits     int
		signed   bool
		min, max string
	}{
		{8, false, "0", "255"},
		{8, true, "-128", "127"},
		{16, true, "-32768", "32767"},
		{64, false, "0", "18446744073709551615"},
		{256, true,
			"-57896044618658097711785492504343953926634992332820282019728792003956564819968",
			"57896044618658097711785492504343953926634992332820282019728792003956564819967"},
	}
	for _, test := range tests {
		min, max := IntegerBounds(test.bits, test.signed)
		if want, got := test.min, min.String(); want != got {
			t.Errorf("unexpected min for %d/%t, wanted %s, got %s", test.bits, test.signed, want, got)
		}
		if want, got := test.max, max.String(); want != got {
			t.Errorf("unexpected max for %d/%t, wanted %s, got %s", test.bits, test.signed, want, got)
		}
	}
}

func TestRandInteger_StaysInRange(t *testing.T) {
	rnd := rand.New(0)
	for _, bits := range []int{8, 24, 64, 160, 256} {
		for _, signed := range []bool{false, true} {
			for i := 0; i < 100; i++ {
				v := RandInteger(rnd, bits, signed)
				if !InIntegerRange(v, bits, signed) {
					t.Fatalf("value %v out of range for %d/%t", v, bits, signed)
				}
			}
		}
	}
}

func TestRandInteger_ProducesNegativeValuesForSignedTypes(t *testing.T) {
	rnd := rand.New(1)
	for i := 0; i < 100; i++ {
		if RandInteger(rnd, 8, true).Sign() < 0 {
			return
		}
	}
	t.Errorf("no negative value drawn in 100 attempts")
}

func TestRandInteger_IsReproducible(t *testing.T) {
	a := RandInteger(rand.New(42), 256, true)
	b := RandInteger(rand.New(42), 256, true)
	if a.Cmp(b) != 0 {
		t.Errorf("same seed produced different values: %v vs %v", a, b)
	}
}

func TestParseU256(t *testing.T) {
	tests := map[string]U256{
		"0":     NewU256(0),
		"12":    NewU256(12),
		" 0x1f": NewU256(31),
		"0X10":  NewU256(16),
		"0x0a":  NewU256(10),
	}
	for input, want := range tests {
		got, err := ParseU256(input)
		if err != nil {
			t.Fatalf("failed to parse %q: %v", input, err)
		}
		if !want.Eq(got) {
			t.Errorf("unexpected value for %q, wanted %v, got %v", input, want, got)
		}
	}
	for _, input := range []string{"", "0x", "abc", "-1", "1.5", "0x1" + strings.Repeat("0", 64)} {
		if _, err := ParseU256(input); err == nil {
			t.Errorf("parsing %q should fail", input)
		}
	}
}
