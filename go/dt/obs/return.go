// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package obs

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	geth "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// DecodeReturn unpacks the raw result of a read call and normalizes it.
func DecodeReturn(outputs abi.Arguments, data []byte) (any, error) {
	values, err := outputs.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode return data: %w", err)
	}
	return NormalizeReturn(values), nil
}

// NormalizeReturn converts decoded return values into a comparable and JSON
// encodable form. No values result in nil, a single value is returned as it
// is, multiple values as a list.
func NormalizeReturn(values []any) any {
	switch len(values) {
	case 0:
		return nil
	case 1:
		return Normalize(values[0])
	}
	res := make([]any, 0, len(values))
	for _, value := range values {
		res = append(res, Normalize(value))
	}
	return res
}

// Normalize maps a decoded value to nil, bool, string, json.Number or a list
// of normalized values. Byte buffers become 0x-prefixed hex strings,
// integers are kept exact, and tuples become lists of their fields.
func Normalize(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case *big.Int:
		if v == nil {
			return nil
		}
		return json.Number(v.String())
	case geth.Address:
		return v.Hex()
	case geth.Hash:
		return v.Hex()
	case []byte:
		return hexutil.Encode(v)
	case bool, string, json.Number:
		return v
	}
	return normalizeReflected(reflect.ValueOf(value))
}

func normalizeReflected(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return json.Number(fmt.Sprint(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return json.Number(fmt.Sprint(v.Uint()))
	case reflect.Bool:
		return v.Bool()
	case reflect.String:
		return v.String()
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return Normalize(v.Elem().Interface())
	case reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			data := make([]byte, v.Len())
			reflect.Copy(reflect.ValueOf(data), v)
			return hexutil.Encode(data)
		}
		return normalizeElements(v)
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return hexutil.Encode(v.Bytes())
		}
		return normalizeElements(v)
	case reflect.Struct:
		res := make([]any, 0, v.NumField())
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() {
				res = append(res, Normalize(v.Field(i).Interface()))
			}
		}
		return res
	}
	return fmt.Sprint(v.Interface())
}

func normalizeElements(v reflect.Value) []any {
	res := make([]any, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		res = append(res, Normalize(v.Index(i).Interface()))
	}
	return res
}
