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
	"fmt"
	"log/slog"
	"os"

	cliUtils "github.com/Fantom-foundation/difftest/go/dt/driver/cli"
	"github.com/urfave/cli/v2"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "difftest",
		Usage:     "Differential testing of original and transformed EVM contracts",
		Copyright: "(c) 2024 Fantom Foundation",
		Flags: []cli.Flag{
			cliUtils.LogLevelFlag,
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			&RunCmd,
			&ListCmd,
			&CheckCmd,
			&ExampleCmd,
		},
	}
}

func setupLogging(context *cli.Context) error {
	level, err := cliUtils.LogLevelFlag.Fetch(context)
	if err != nil {
		return err
	}
	handler := slog.NewTextHandler(context.App.ErrWriter, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}
