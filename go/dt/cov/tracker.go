// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cov

import (
	"slices"

	"github.com/Fantom-foundation/difftest/go/dt/iface"
	"golang.org/x/exp/maps"
)

// Tracker accounts for the callables exercised during a run relative to the
// declared callable surface.
type Tracker struct {
	surface map[iface.Selector]struct{}
	tested  map[iface.Selector]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{
		surface: map[iface.Selector]struct{}{},
		tested:  map[iface.Selector]struct{}{},
	}
}

// SetSurface fixes the declared surface. Selectors recorded before are kept
// only if they are part of the new surface.
func (t *Tracker) SetSurface(selectors []iface.Selector) {
	t.surface = make(map[iface.Selector]struct{}, len(selectors))
	for _, selector := range selectors {
		t.surface[selector] = struct{}{}
	}
	for selector := range t.tested {
		if _, found := t.surface[selector]; !found {
			delete(t.tested, selector)
		}
	}
}

// Record marks a selector as exercised. Selectors outside of the surface are
// ignored.
func (t *Tracker) Record(selector iface.Selector) {
	if _, found := t.surface[selector]; found {
		t.tested[selector] = struct{}{}
	}
}

func (t *Tracker) Surface() []iface.Selector {
	return sorted(maps.Keys(t.surface))
}

func (t *Tracker) Tested() []iface.Selector {
	return sorted(maps.Keys(t.tested))
}

// Uncovered lists the selectors of the surface never exercised, in order.
func (t *Tracker) Uncovered() []iface.Selector {
	res := make([]iface.Selector, 0, len(t.surface)-len(t.tested))
	for selector := range t.surface {
		if _, found := t.tested[selector]; !found {
			res = append(res, selector)
		}
	}
	return sorted(res)
}

// Ratio is the fraction of the surface exercised; an empty surface has a
// ratio of zero.
func (t *Tracker) Ratio() float64 {
	return float64(len(t.tested)) / float64(max(1, len(t.surface)))
}

func sorted(selectors []iface.Selector) []iface.Selector {
	slices.SortFunc(selectors, iface.Selector.Compare)
	return selectors
}
