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
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Fantom-foundation/difftest/go/dt"
	"github.com/Fantom-foundation/difftest/go/dt/artifact"
	cliUtils "github.com/Fantom-foundation/difftest/go/dt/driver/cli"
	"github.com/Fantom-foundation/difftest/go/dt/rep"
	"github.com/Fantom-foundation/difftest/go/ledger"
	"github.com/urfave/cli/v2"
)

var RunCmd = cli.Command{
	Action:    doRun,
	Name:      "run",
	Usage:     "Compare an original and a transformed contract on generated calls",
	ArgsUsage: "<original artifact> <transformed artifact>",
	Flags: []cli.Flag{
		cliUtils.ConfigFlag,
		cliUtils.SeedFlag,
		cliUtils.CallsFlag,
		cliUtils.BoundaryRatioFlag,
		cliUtils.StructuredRatioFlag,
		cliUtils.StorageFlag,
		cliUtils.GasFlag,
		cliUtils.GasPriceFlag,
		cliUtils.ValueFlag,
		cliUtils.TimeoutFlag,
		cliUtils.RpcFlag,
		cliUtils.SimulatedFlag,
		cliUtils.PrivateKeyFlag,
		cliUtils.OutDirFlag,
		cliUtils.SqliteFlag,
		cliUtils.FailOnMismatchFlag,
	},
}

func doRun(context *cli.Context) (err error) {
	if context.Args().Len() != 2 {
		return fmt.Errorf("expected two artifacts, got %d arguments", context.Args().Len())
	}
	settings, err := cliUtils.FetchSettings(context)
	if err != nil {
		return err
	}
	key, err := cliUtils.PrivateKeyFlag.Fetch(context)
	if err != nil {
		return err
	}
	original, err := artifact.Load(context.Args().Get(0))
	if err != nil {
		return err
	}
	transformed, err := artifact.Load(context.Args().Get(1))
	if err != nil {
		return err
	}

	client, endpoint, err := connect(context.Context, settings, cliUtils.SimulatedFlag.Fetch(context), key)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, client.Close())
	}()

	out, err := openOutputs(settings.OutDir, settings.Sqlite)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, out.Close())
	}()

	config := settings.Campaign
	logger := slog.Default()
	logger.Info("starting campaign",
		"endpoint", endpoint,
		"chainId", client.ChainID(),
		"seed", config.Seed,
		"callsPerCallable", config.CallsPerCallable,
		"boundaryRatio", config.BoundaryRatio,
		"structuredRatio", config.StructuredRatio,
	)

	progress := newProgress(logger, time.Now)
	campaign := dt.NewCampaign(config, client).
		WithTarget(endpoint, client.ChainID()).
		WithHooks(dt.Hooks{
			OnDeployed: func(deployment *rep.Deployment) error {
				logger.Info("deployed variants",
					"sender", deployment.Sender,
					"original", deployment.OriginalAddress,
					"transformed", deployment.TransformedAddress,
				)
				return out.writeDeployment(deployment)
			},
			OnRecord: progress.update,
		})

	result, err := campaign.Run(context.Context, original.Program(), transformed.Program(), out.sink)
	if err != nil {
		return err
	}
	if err := out.writeSummary(result.Summary); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	printSummary(context, out, result)

	if cliUtils.FailOnMismatchFlag.Fetch(context) && result.Summary.AnyMismatch {
		return fmt.Errorf("found %d mismatching call attempts", result.Summary.MismatchCount)
	}
	return nil
}

// connect opens the ledger described by the settings and returns it along
// with the endpoint name recorded in the outputs.
func connect(ctx context.Context, settings *cliUtils.Settings, simulated bool, key *ecdsa.PrivateKey) (*ledger.Client, string, error) {
	config := ledger.Config{GasPrice: settings.GasPrice}
	var keys []*ecdsa.PrivateKey
	if key != nil {
		keys = append(keys, key)
	}

	if simulated {
		if settings.Rpc != "" {
			return nil, "", fmt.Errorf("--%s and --%s are mutually exclusive", cliUtils.RpcFlag.Name, cliUtils.SimulatedFlag.Name)
		}
		if len(keys) == 0 {
			devKey, err := ledger.DevKey(0)
			if err != nil {
				return nil, "", err
			}
			keys = append(keys, devKey)
		}
		client, err := ledger.NewSimulated(ctx, config, keys...)
		return client, ledger.SimulatedEndpoint, err
	}

	if settings.Rpc == "" {
		return nil, "", fmt.Errorf("either --%s or --%s is required", cliUtils.RpcFlag.Name, cliUtils.SimulatedFlag.Name)
	}
	client, err := ledger.Dial(ctx, settings.Rpc, config, keys...)
	return client, settings.Rpc, err
}

func printSummary(context *cli.Context, out *outputs, result *dt.Result) {
	w := context.App.Writer
	summary := result.Summary
	fmt.Fprintf(w, "invocations: %s\n", out.path(invocationsFile))
	fmt.Fprintf(w, "summary:     %s\n", out.path(summaryFile))
	fmt.Fprintf(w, "deployed:    %s\n", out.path(deploymentFile))
	fmt.Fprintf(w, "total calls %d, mismatches %d, coverage %.4f\n", summary.TotalCalls, summary.MismatchCount, summary.CoverageRatio)
	if len(summary.UncoveredSelectors) > 0 {
		fmt.Fprintf(w, "uncovered selectors: %d (see %s)\n", len(summary.UncoveredSelectors), summaryFile)
	}
	fmt.Fprintf(w, "%v", result.Statistics)
}
