// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package rep

import (
	"time"

	"github.com/Fantom-foundation/difftest/go/dt/gen"
	"github.com/Fantom-foundation/difftest/go/dt/iface"
	"github.com/Fantom-foundation/difftest/go/dt/obs"
)

// TimestampFormat is the layout of record timestamps, always in UTC.
const TimestampFormat = time.DateTime

// Record is a single entry of the append-only result log, one per call
// attempt. It is either an *InvocationRecord or a *SkipRecord.
type Record interface {
	GetSignature() string
	GetSelector() iface.Selector
	IsSkipped() bool
}

// InvocationRecord is the result of a call attempt executed on both variants.
type InvocationRecord struct {
	Timestamp       string           `json:"timestamp"`
	Signature       string           `json:"signature"`
	Selector        iface.Selector   `json:"selector"`
	Label           gen.Label        `json:"label"`
	Arguments       gen.Arguments    `json:"arguments"`
	Mutability      iface.Mutability `json:"mutability"`
	ObservationA    obs.Observation  `json:"observationA"`
	ObservationB    obs.Observation  `json:"observationB"`
	Mismatch        bool             `json:"mismatch"`
	DifferingFields []string         `json:"differingFields"`
}

// NewInvocationRecord compares the two observations and records the outcome.
func NewInvocationRecord(
	timestamp time.Time,
	callable iface.Callable,
	label gen.Label,
	args gen.Arguments,
	a, b obs.Observation,
) *InvocationRecord {
	equal, diff := obs.Compare(a, b)
	if diff == nil {
		diff = []string{}
	}
	return &InvocationRecord{
		Timestamp:       formatTimestamp(timestamp),
		Signature:       callable.Signature,
		Selector:        callable.Selector,
		Label:           label,
		Arguments:       args,
		Mutability:      callable.Mutability,
		ObservationA:    a,
		ObservationB:    b,
		Mismatch:        !equal,
		DifferingFields: diff,
	}
}

func (r *InvocationRecord) GetSignature() string        { return r.Signature }
func (r *InvocationRecord) GetSelector() iface.Selector { return r.Selector }
func (r *InvocationRecord) IsSkipped() bool             { return false }

// SkipRecord documents a call attempt that could not be executed.
type SkipRecord struct {
	Timestamp string         `json:"timestamp"`
	Signature string         `json:"signature"`
	Selector  iface.Selector `json:"selector"`
	Skipped   bool           `json:"skipped"`
	Reason    string         `json:"reason"`
}

func NewSkipRecord(timestamp time.Time, callable iface.Callable, reason string) *SkipRecord {
	return &SkipRecord{
		Timestamp: formatTimestamp(timestamp),
		Signature: callable.Signature,
		Selector:  callable.Selector,
		Skipped:   true,
		Reason:    reason,
	}
}

func (r *SkipRecord) GetSignature() string        { return r.Signature }
func (r *SkipRecord) GetSelector() iface.Selector { return r.Selector }
func (r *SkipRecord) IsSkipped() bool             { return true }

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}
