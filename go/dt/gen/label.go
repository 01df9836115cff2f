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

	"github.com/Fantom-foundation/difftest/go/dt/common"
	"pgregory.net/rand"
)

// ErrInvalidRatios is returned for sampling ratios outside of [0,1] or
// summing up to more than 1.
const ErrInvalidRatios = common.ConstErr("invalid sampling ratios")

// Label selects the strategy used for generating the arguments of a single
// call attempt.
type Label int

const (
	Boundary   Label = iota // < edge-case constants
	Structured              // < values derived from argument or element positions
	Random                  // < uniformly sampled values
)

// AllLabels lists all labels in a fixed order.
func AllLabels() []Label {
	return []Label{Boundary, Structured, Random}
}

func (l Label) String() string {
	switch l {
	case Boundary:
		return "boundary"
	case Structured:
		return "structured"
	case Random:
		return "random"
	}
	return fmt.Sprintf("Label(%d)", int(l))
}

func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Label) UnmarshalText(data []byte) error {
	for _, cur := range AllLabels() {
		if cur.String() == string(data) {
			*l = cur
			return nil
		}
	}
	return fmt.Errorf("unknown label: %s", data)
}

// ValidateRatios checks that both ratios are within [0,1] and that their sum
// does not exceed 1.
func ValidateRatios(boundaryRatio, structuredRatio float64) error {
	if !(boundaryRatio >= 0 && boundaryRatio <= 1) {
		return fmt.Errorf("%w: boundary ratio %v not in [0,1]", ErrInvalidRatios, boundaryRatio)
	}
	if !(structuredRatio >= 0 && structuredRatio <= 1) {
		return fmt.Errorf("%w: structured ratio %v not in [0,1]", ErrInvalidRatios, structuredRatio)
	}
	if boundaryRatio+structuredRatio > 1 {
		return fmt.Errorf("%w: ratio sum %v exceeds 1", ErrInvalidRatios, boundaryRatio+structuredRatio)
	}
	return nil
}

// ChooseLabel picks the label of the next call attempt. It consumes exactly
// one draw from the given source, so the sequence of labels does not depend
// on the number of draws consumed by argument generation.
func ChooseLabel(rnd *rand.Rand, boundaryRatio, structuredRatio float64) Label {
	x := rnd.Float64()
	if x < boundaryRatio {
		return Boundary
	}
	if x < boundaryRatio+structuredRatio {
		return Structured
	}
	return Random
}
