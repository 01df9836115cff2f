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
	"fmt"
	"strconv"
	"strings"

	"github.com/Fantom-foundation/difftest/go/dt/common"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrUnsupportedType is returned when a type string is not a valid interface
// parameter type.
const ErrUnsupportedType = common.ConstErr("unsupported type")

// Kind is the base category of a parameter type.
type Kind int

const (
	Integer Kind = iota
	Boolean
	Address
	FixedBytes
	DynamicBytes
	String
	Array
	Tuple
	// Opaque covers valid ABI types no value can be generated for, like
	// function pointers or fixed-point numbers.
	Opaque
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Boolean:
		return "boolean"
	case Address:
		return "address"
	case FixedBytes:
		return "fixed-bytes"
	case DynamicBytes:
		return "dynamic-bytes"
	case String:
		return "string"
	case Array:
		return "array"
	case Tuple:
		return "tuple"
	case Opaque:
		return "opaque"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// TypeSpec is a parsed interface parameter type. Instances are shared through
// a parse cache and must not be modified.
type TypeSpec struct {
	Kind    Kind
	Bits    int       // < bit width of integers
	Signed  bool      // < signedness of integers
	Size    int       // < byte length of fixed-bytes
	Elem    *TypeSpec // < element type of arrays
	Length  int       // < length of fixed-size arrays
	Dynamic bool      // < true for variable-length arrays
	name    string
}

func (t TypeSpec) String() string {
	return t.name
}

// ContainsTuple reports whether the type is or nests a tuple.
func (t TypeSpec) ContainsTuple() bool {
	switch t.Kind {
	case Tuple:
		return true
	case Array:
		return t.Elem.ContainsTuple()
	}
	return false
}

const typeCacheSize = 1 << 10

var typeCache = newTypeCache(typeCacheSize)

func newTypeCache(size int) *lru.Cache[string, TypeSpec] {
	cache, err := lru.New[string, TypeSpec](size)
	if err != nil {
		panic(fmt.Sprintf("failed to create type cache: %v", err))
	}
	return cache
}

// ParseType parses a canonical ABI type string like "uint256", "bytes32[]"
// or "(uint256,address)[2]". Parsed types are cached.
func ParseType(name string) (TypeSpec, error) {
	name = strings.TrimSpace(name)
	if spec, found := typeCache.Get(name); found {
		return spec, nil
	}
	spec, err := parseType(name)
	if err != nil {
		return TypeSpec{}, err
	}
	typeCache.Add(name, spec)
	return spec, nil
}

func parseType(name string) (TypeSpec, error) {
	if strings.HasSuffix(name, "]") {
		open := strings.LastIndex(name, "[")
		if open <= 0 {
			return TypeSpec{}, fmt.Errorf("%w: %q", ErrUnsupportedType, name)
		}
		elem, err := ParseType(name[:open])
		if err != nil {
			return TypeSpec{}, err
		}
		spec := TypeSpec{Kind: Array, Elem: &elem, name: name}
		inner := name[open+1 : len(name)-1]
		if inner == "" {
			spec.Dynamic = true
			return spec, nil
		}
		length, err := strconv.Atoi(inner)
		if err != nil || length <= 0 {
			return TypeSpec{}, fmt.Errorf("%w: invalid array length in %q", ErrUnsupportedType, name)
		}
		spec.Length = length
		return spec, nil
	}

	switch {
	case strings.HasPrefix(name, "tuple"), strings.HasPrefix(name, "("):
		return TypeSpec{Kind: Tuple, name: name}, nil
	case name == "bool":
		return TypeSpec{Kind: Boolean, name: name}, nil
	case name == "address":
		return TypeSpec{Kind: Address, name: name}, nil
	case name == "string":
		return TypeSpec{Kind: String, name: name}, nil
	case name == "bytes":
		return TypeSpec{Kind: DynamicBytes, name: name}, nil
	case name == "function",
		strings.HasPrefix(name, "fixed"),
		strings.HasPrefix(name, "ufixed"):
		return TypeSpec{Kind: Opaque, name: name}, nil
	case strings.HasPrefix(name, "bytes"):
		size, err := strconv.Atoi(name[len("bytes"):])
		if err != nil || size < 1 || size > 32 {
			return TypeSpec{}, fmt.Errorf("%w: %q", ErrUnsupportedType, name)
		}
		return TypeSpec{Kind: FixedBytes, Size: size, name: name}, nil
	case strings.HasPrefix(name, "uint"):
		return parseInteger(name, name[len("uint"):], false)
	case strings.HasPrefix(name, "int"):
		return parseInteger(name, name[len("int"):], true)
	}
	return TypeSpec{}, fmt.Errorf("%w: %q", ErrUnsupportedType, name)
}

func parseInteger(name, width string, signed bool) (TypeSpec, error) {
	bits := 256
	if width != "" {
		var err error
		bits, err = strconv.Atoi(width)
		if err != nil || bits < 8 || bits > 256 || bits%8 != 0 {
			return TypeSpec{}, fmt.Errorf("%w: invalid integer width in %q", ErrUnsupportedType, name)
		}
	}
	return TypeSpec{Kind: Integer, Bits: bits, Signed: signed, name: name}, nil
}
