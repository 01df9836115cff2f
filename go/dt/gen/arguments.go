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

	"github.com/Fantom-foundation/difftest/go/dt/iface"
	"pgregory.net/rand"
)

// Skip reasons reported for call attempts that can not be exercised.
const (
	ReasonUnsupportedInputType = "unsupported_input_type"
	ReasonArgGenerationFailed  = "arg_generation_failed"
)

// SkipError signals that a call attempt has to be skipped.
type SkipError struct {
	Reason string
	Cause  error
}

func (e *SkipError) Error() string {
	if e.Cause == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Cause)
}

func (e *SkipError) Unwrap() error {
	return e.Cause
}

// Arguments is the ordered list of values generated for one call attempt.
type Arguments []Value

func (a Arguments) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Value(a))
}

// BuildArguments generates one value per input of the callable, in
// declaration order. Callables with tuple inputs are rejected before any
// value is generated. If a single value can not be generated, no partial
// argument list is returned.
func BuildArguments(callable iface.Callable, label Label, rnd *rand.Rand, ctx Context) (Arguments, error) {
	if callable.HasTupleInput() {
		return nil, &SkipError{Reason: ReasonUnsupportedInputType}
	}
	res := make(Arguments, 0, len(callable.Inputs))
	for i, input := range callable.Inputs {
		value, err := Generate(input, label, rnd, ctx.WithHint(i))
		if errors.Is(err, ErrUnsupported) {
			return nil, &SkipError{Reason: ReasonArgGenerationFailed, Cause: err}
		}
		if err != nil {
			return nil, err
		}
		res = append(res, value)
	}
	return res, nil
}
