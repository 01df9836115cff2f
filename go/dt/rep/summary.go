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
	"github.com/Fantom-foundation/difftest/go/dt/common"
	"github.com/Fantom-foundation/difftest/go/dt/cov"
	"github.com/Fantom-foundation/difftest/go/dt/gen"
	"github.com/Fantom-foundation/difftest/go/dt/iface"
)

// RunSummary aggregates the results of a complete run.
type RunSummary struct {
	Seed                    uint64            `json:"seed"`
	CallsPerCallable        int               `json:"callsPerCallable"`
	BoundaryRatioTarget     float64           `json:"boundaryRatioTarget"`
	StructuredRatioTarget   float64           `json:"structuredRatioTarget"`
	RequestedStorageIndices []string          `json:"requestedStorageIndices"`
	CountsByLabel           map[gen.Label]int `json:"countsByLabel"`
	TotalCalls              int               `json:"totalCalls"`
	MismatchCount           int               `json:"mismatchCount"`
	AnyMismatch             bool              `json:"anyMismatch"`
	TotalSurfaceSize        int               `json:"totalSurfaceSize"`
	TestedSurfaceSize       int               `json:"testedSurfaceSize"`
	UncoveredSelectors      []iface.Selector  `json:"uncoveredSelectors"`
	CoverageRatio           float64           `json:"coverageRatio"`
}

// SummaryConfig is the configuration echoed in a summary.
type SummaryConfig struct {
	Seed             uint64
	CallsPerCallable int
	BoundaryRatio    float64
	StructuredRatio  float64
	StorageIndices   []common.U256
}

// RunState folds records into running counts. It replaces any global
// counters of a run and is passed explicitly through the campaign loop.
type RunState struct {
	countsByLabel map[gen.Label]int
	totalCalls    int
	mismatches    int
	skipped       int
	statistics    *Statistics
}

// NewRunState creates a state tracking statistics for the given callables.
func NewRunState(callables []iface.Callable) *RunState {
	counts := map[gen.Label]int{}
	for _, label := range gen.AllLabels() {
		counts[label] = 0
	}
	return &RunState{
		countsByLabel: counts,
		statistics:    NewStatistics(callables),
	}
}

// Add accounts for a single record. Only executed attempts are counted as
// calls.
func (s *RunState) Add(record Record) {
	s.statistics.Add(record)
	switch r := record.(type) {
	case *SkipRecord:
		s.skipped++
	case *InvocationRecord:
		s.totalCalls++
		s.countsByLabel[r.Label]++
		if r.Mismatch {
			s.mismatches++
		}
	}
}

func (s *RunState) TotalCalls() int {
	return s.totalCalls
}

func (s *RunState) Mismatches() int {
	return s.mismatches
}

func (s *RunState) Skipped() int {
	return s.skipped
}

func (s *RunState) Statistics() *Statistics {
	return s.statistics.Clone()
}

// Summarize produces the summary of the run based on the accumulated counts
// and the coverage information.
func (s *RunState) Summarize(config SummaryConfig, coverage *cov.Tracker) RunSummary {
	indices := make([]string, 0, len(config.StorageIndices))
	for _, index := range config.StorageIndices {
		indices = append(indices, index.String())
	}
	counts := make(map[gen.Label]int, len(s.countsByLabel))
	for label, count := range s.countsByLabel {
		counts[label] = count
	}
	uncovered := coverage.Uncovered()
	return RunSummary{
		Seed:                    config.Seed,
		CallsPerCallable:        config.CallsPerCallable,
		BoundaryRatioTarget:     config.BoundaryRatio,
		StructuredRatioTarget:   config.StructuredRatio,
		RequestedStorageIndices: indices,
		CountsByLabel:           counts,
		TotalCalls:              s.totalCalls,
		MismatchCount:           s.mismatches,
		AnyMismatch:             s.mismatches > 0,
		TotalSurfaceSize:        len(coverage.Surface()),
		TestedSurfaceSize:       len(coverage.Tested()),
		UncoveredSelectors:      uncovered,
		CoverageRatio:           coverage.Ratio(),
	}
}
