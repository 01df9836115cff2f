// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"log/slog"
	"time"

	"github.com/Fantom-foundation/difftest/go/dt/rep"
	"github.com/dsnet/golib/unitconv"
)

const progressInterval = 5 * time.Second

// progress reports the state of a campaign at most once per interval. It is
// driven by the campaign loop and does not run in the background.
type progress struct {
	logger    *slog.Logger
	clock     func() time.Time
	interval  time.Duration
	start     time.Time
	last      time.Time
	lastCount int
}

func newProgress(logger *slog.Logger, clock func() time.Time) *progress {
	now := clock()
	return &progress{
		logger:   logger,
		clock:    clock,
		interval: progressInterval,
		start:    now,
		last:     now,
	}
}

func (p *progress) update(_ rep.Record, state *rep.RunState) {
	now := p.clock()
	delta := now.Sub(p.last)
	if delta < p.interval {
		return
	}
	attempts := state.TotalCalls() + state.Skipped()
	rate := float64(attempts-p.lastCount) / delta.Seconds()
	elapsed := now.Sub(p.start)
	p.logger.Info("progress",
		"elapsed", elapsed.Truncate(time.Second),
		"rate", unitconv.FormatPrefix(rate, unitconv.SI, 0)+"/s",
		"calls", state.TotalCalls(),
		"skipped", state.Skipped(),
		"mismatches", state.Mismatches(),
	)
	p.last = now
	p.lastCount = attempts
}
