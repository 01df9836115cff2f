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
	"reflect"

	"github.com/Fantom-foundation/difftest/go/dt/iface"
	"github.com/ethereum/go-ethereum/accounts/abi"
	geth "github.com/ethereum/go-ethereum/common"
)

var bigIntType = reflect.TypeOf(&big.Int{})

// Encode produces the call data for invoking the callable with the given
// arguments: the selector followed by the ABI encoding of the arguments.
func Encode(callable iface.Callable, args Arguments) ([]byte, error) {
	inputs, err := inputArguments(callable)
	if err != nil {
		return nil, err
	}
	if len(inputs) != len(args) {
		return nil, fmt.Errorf("%s expects %d arguments, got %d", callable.Signature, len(inputs), len(args))
	}
	values := make([]any, 0, len(args))
	for i, arg := range args {
		value, err := toABI(arg, inputs[i].Type)
		if err != nil {
			return nil, fmt.Errorf("argument %d of %s: %w", i, callable.Signature, err)
		}
		values = append(values, value.Interface())
	}
	packed, err := inputs.Pack(values...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode arguments of %s: %w", callable.Signature, err)
	}
	return append(callable.Selector[:], packed...), nil
}

func inputArguments(callable iface.Callable) (abi.Arguments, error) {
	if method := callable.Method(); method != nil {
		return method.Inputs, nil
	}
	res := make(abi.Arguments, 0, len(callable.Inputs))
	for _, input := range callable.Inputs {
		typ, err := abi.NewType(input.String(), "", nil)
		if err != nil {
			return nil, err
		}
		res = append(res, abi.Argument{Type: typ})
	}
	return res, nil
}

func toABI(value Value, typ abi.Type) (reflect.Value, error) {
	target := typ.GetType()
	switch v := value.(type) {
	case Int:
		if typ.T != abi.IntTy && typ.T != abi.UintTy {
			break
		}
		if target == bigIntType {
			return reflect.ValueOf(v.ToBig()), nil
		}
		res := reflect.New(target).Elem()
		if typ.T == abi.IntTy {
			res.SetInt(v.value.Int64())
		} else {
			res.SetUint(v.value.Uint64())
		}
		return res, nil
	case Bool:
		if typ.T == abi.BoolTy {
			return reflect.ValueOf(bool(v)), nil
		}
	case Address:
		if typ.T == abi.AddressTy {
			return reflect.ValueOf(geth.Address(v)), nil
		}
	case String:
		if typ.T == abi.StringTy {
			return reflect.ValueOf(string(v)), nil
		}
	case Bytes:
		switch typ.T {
		case abi.BytesTy:
			return reflect.ValueOf(v.ToBytes()), nil
		case abi.FixedBytesTy:
			if v.Length() != typ.Size {
				return reflect.Value{}, fmt.Errorf("expected %d bytes, got %d", typ.Size, v.Length())
			}
			res := reflect.New(target).Elem()
			reflect.Copy(res, reflect.ValueOf(v.ToBytes()))
			return res, nil
		}
	case Array:
		var res reflect.Value
		switch typ.T {
		case abi.SliceTy:
			res = reflect.MakeSlice(target, len(v), len(v))
		case abi.ArrayTy:
			if len(v) != typ.Size {
				return reflect.Value{}, fmt.Errorf("expected %d elements, got %d", typ.Size, len(v))
			}
			res = reflect.New(target).Elem()
		default:
			return reflect.Value{}, fmt.Errorf("array value for %v", typ)
		}
		for i, elem := range v {
			converted, err := toABI(elem, *typ.Elem)
			if err != nil {
				return reflect.Value{}, err
			}
			res.Index(i).Set(converted)
		}
		return res, nil
	}
	return reflect.Value{}, fmt.Errorf("value %v does not match type %v", value, typ)
}
