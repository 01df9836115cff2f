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
	"fmt"
	"sort"
	"strings"

	"github.com/Fantom-foundation/difftest/go/dt/iface"
	"golang.org/x/exp/maps"
)

// Statistics counts calls, mismatches and skips per callable.
type Statistics struct {
	data map[string]callableInfo
}

type callableInfo struct {
	selector   iface.Selector
	calls      uint64
	mismatches uint64
	skipped    uint64
}

// NewStatistics initializes all given callables with zero counts.
func NewStatistics(callables []iface.Callable) *Statistics {
	res := &Statistics{make(map[string]callableInfo)}
	for _, callable := range callables {
		res.data[callable.Signature] = callableInfo{selector: callable.Selector}
	}
	return res
}

func (s *Statistics) Add(record Record) {
	if s.data == nil {
		s.data = make(map[string]callableInfo)
	}
	info := s.data[record.GetSignature()]
	info.selector = record.GetSelector()
	switch r := record.(type) {
	case *SkipRecord:
		info.skipped++
	case *InvocationRecord:
		info.calls++
		if r.Mismatch {
			info.mismatches++
		}
	}
	s.data[record.GetSignature()] = info
}

func (s *Statistics) GetNumCallsFor(signature string) uint64 {
	return s.data[signature].calls
}

func (s *Statistics) GetNumMismatchesFor(signature string) uint64 {
	return s.data[signature].mismatches
}

func (s *Statistics) Clone() *Statistics {
	return &Statistics{maps.Clone(s.data)}
}

func (s *Statistics) String() string {
	builder := strings.Builder{}

	signatures := maps.Keys(s.data)
	sort.Strings(signatures)

	builder.WriteString("signature,selector,calls,mismatches,skipped\n")
	for _, signature := range signatures {
		info := s.data[signature]
		builder.WriteString(fmt.Sprintf("%s,%v,%d,%d,%d\n", csvField(signature), info.selector, info.calls, info.mismatches, info.skipped))
	}
	return builder.String()
}

// csvField quotes signatures containing separators, like those with
// multiple parameters.
func csvField(s string) string {
	if !strings.ContainsAny(s, ",\"") {
		return s
	}
	return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
}
