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
	"os"

	cliUtils "github.com/Fantom-foundation/difftest/go/dt/driver/cli"
	"github.com/Fantom-foundation/difftest/go/examples"
	"github.com/urfave/cli/v2"
)

var ExampleCmd = cli.Command{
	Action:    doExample,
	Name:      "example",
	Usage:     "Write the artifacts of an example contract pair, or list the examples",
	ArgsUsage: "[<name>]",
	Flags: []cli.Flag{
		cliUtils.OutDirFlag,
	},
}

func doExample(context *cli.Context) error {
	if context.Args().Len() == 0 {
		for _, example := range examples.All() {
			kind := "equivalent"
			if !example.Equivalent {
				kind = "diverging"
			}
			fmt.Fprintf(context.App.Writer, "%s\t%s\n", example.Name, kind)
		}
		return nil
	}

	name := context.Args().Get(0)
	example, found := examples.Get(name)
	if !found {
		return fmt.Errorf("unknown example %q", name)
	}
	dir := cliUtils.OutDirFlag.Fetch(context)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	original, transformed, err := example.WriteArtifacts(dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(context.App.Writer, "%s\n%s\n", original, transformed)
	return nil
}
