// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package dt

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/Fantom-foundation/difftest/go/dt/cov"
	"github.com/Fantom-foundation/difftest/go/dt/gen"
	"github.com/Fantom-foundation/difftest/go/dt/iface"
	"github.com/Fantom-foundation/difftest/go/dt/rep"
	"github.com/Fantom-foundation/difftest/go/dt/run"
	geth "github.com/ethereum/go-ethereum/common"
	"pgregory.net/rand"
)

// Program is one variant of the contract under test before deployment.
type Program struct {
	Interface *iface.Interface
	Code      []byte
}

// Attempt is a single planned call. If Skip is set, the attempt can not be
// executed and Arguments is nil.
type Attempt struct {
	Callable  iface.Callable
	Label     gen.Label
	Arguments gen.Arguments
	Skip      *gen.SkipError
}

// Attempts lazily plans the calls of a campaign: for each callable in order,
// CallsPerCallable attempts. Each attempt first draws its label and then its
// arguments from a single source seeded with the configured seed.
func Attempts(callables []iface.Callable, config Config, known []geth.Address) iter.Seq[Attempt] {
	return func(yield func(Attempt) bool) {
		rnd := rand.New(config.Seed)
		ctx := gen.Context{KnownAddresses: known}
		for _, callable := range callables {
			for i := 0; i < config.CallsPerCallable; i++ {
				label := gen.ChooseLabel(rnd, config.BoundaryRatio, config.StructuredRatio)
				attempt := Attempt{Callable: callable, Label: label}
				args, err := gen.BuildArguments(callable, label, rnd, ctx)
				if err != nil {
					var skip *gen.SkipError
					if !errors.As(err, &skip) {
						skip = &gen.SkipError{Reason: gen.ReasonArgGenerationFailed, Cause: err}
					}
					attempt.Skip = skip
				} else {
					attempt.Arguments = args
				}
				if !yield(attempt) {
					return
				}
			}
		}
	}
}

// Hooks are optional callbacks informed about the progress of a campaign.
type Hooks struct {
	// OnDeployed is called once both variants are deployed, before the
	// first call. An error aborts the campaign.
	OnDeployed func(*rep.Deployment) error
	// OnRecord is called for every record after it was written.
	OnRecord func(rep.Record, *rep.RunState)
}

// Result is the outcome of a completed campaign.
type Result struct {
	Summary    rep.RunSummary
	Deployment *rep.Deployment
	Statistics *rep.Statistics
}

// Campaign deploys two variants of a contract and compares their behavior
// on generated calls. Calls are executed strictly sequentially.
type Campaign struct {
	config   Config
	client   run.LedgerClient
	endpoint string
	chainID  uint64
	hooks    Hooks
}

func NewCampaign(config Config, client run.LedgerClient) *Campaign {
	return &Campaign{config: config, client: client}
}

// WithTarget sets the ledger description echoed in the deployment record.
func (c *Campaign) WithTarget(endpoint string, chainID uint64) *Campaign {
	c.endpoint = endpoint
	c.chainID = chainID
	return c
}

func (c *Campaign) WithHooks(hooks Hooks) *Campaign {
	c.hooks = hooks
	return c
}

// Run executes the campaign and writes one record per attempt to the sink.
// Configuration problems are reported as ErrConfiguration before anything is
// deployed. Failures of individual calls are part of the records and do not
// abort the campaign.
func (c *Campaign) Run(ctx context.Context, original, transformed Program, sink rep.Sink) (*Result, error) {
	if err := c.config.Validate(); err != nil {
		return nil, err
	}
	if original.Interface == nil || transformed.Interface == nil {
		return nil, fmt.Errorf("%w: missing interface description", ErrConfiguration)
	}
	if err := iface.CheckCompatible(original.Interface, transformed.Interface); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	accounts, err := c.client.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: no accounts available", ErrConfiguration)
	}
	sender := accounts[0]

	runner := run.NewRunner(c.client, run.RunnerConfig{
		Sender:         sender,
		GasLimit:       c.config.GasLimit,
		Value:          c.config.Value,
		StorageIndices: c.config.StorageIndices,
		ReceiptTimeout: c.config.ReceiptTimeout,
	})
	variantA, txA, err := runner.Deploy(ctx, "original", original.Code)
	if err != nil {
		return nil, err
	}
	variantB, txB, err := runner.Deploy(ctx, "transformed", transformed.Code)
	if err != nil {
		return nil, err
	}

	deployment := rep.NewDeployment(c.endpoint, c.chainID, c.config.summaryConfig(), c.config.now())
	deployment.Sender = sender
	deployment.OriginalAddress = variantA.Address
	deployment.OriginalDeployTx = txA
	deployment.TransformedAddress = variantB.Address
	deployment.TransformedDeployTx = txB
	if c.hooks.OnDeployed != nil {
		if err := c.hooks.OnDeployed(deployment); err != nil {
			return nil, err
		}
	}

	callables := original.Interface.Callables()
	coverage := cov.NewTracker()
	coverage.SetSurface(original.Interface.Selectors())
	state := rep.NewRunState(callables)

	for attempt := range Attempts(callables, c.config, accounts) {
		record := c.execute(ctx, runner, variantA, variantB, attempt)
		if !record.IsSkipped() {
			coverage.Record(attempt.Callable.Selector)
		}
		state.Add(record)
		if err := sink.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write record: %w", err)
		}
		if c.hooks.OnRecord != nil {
			c.hooks.OnRecord(record, state)
		}
	}

	return &Result{
		Summary:    state.Summarize(c.config.summaryConfig(), coverage),
		Deployment: deployment,
		Statistics: state.Statistics(),
	}, nil
}

func (c *Campaign) execute(ctx context.Context, runner *run.Runner, a, b run.Variant, attempt Attempt) rep.Record {
	if attempt.Skip != nil {
		return rep.NewSkipRecord(c.config.now(), attempt.Callable, attempt.Skip.Reason)
	}
	observationA := runner.Invoke(ctx, a, attempt.Callable, attempt.Arguments)
	observationB := runner.Invoke(ctx, b, attempt.Callable, attempt.Arguments)
	return rep.NewInvocationRecord(c.config.now(), attempt.Callable, attempt.Label, attempt.Arguments, observationA, observationB)
}
