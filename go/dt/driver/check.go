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
	"errors"
	"fmt"

	"github.com/Fantom-foundation/difftest/go/dt/artifact"
	"github.com/Fantom-foundation/difftest/go/dt/iface"
	"github.com/urfave/cli/v2"
)

var CheckCmd = cli.Command{
	Action:    doCheck,
	Name:      "check",
	Usage:     "Check that two contract artifacts declare the same interface",
	ArgsUsage: "<original artifact> <transformed artifact>",
}

func doCheck(context *cli.Context) error {
	if context.Args().Len() != 2 {
		return fmt.Errorf("expected two artifacts, got %d arguments", context.Args().Len())
	}
	original, err := artifact.Load(context.Args().Get(0))
	if err != nil {
		return err
	}
	transformed, err := artifact.Load(context.Args().Get(1))
	if err != nil {
		return err
	}

	err = iface.CheckCompatible(original.Interface, transformed.Interface)
	var incompatible *iface.IncompatibleError
	if errors.As(err, &incompatible) {
		for _, signature := range incompatible.OnlyInOriginal {
			fmt.Fprintf(context.App.Writer, "- %s\n", signature)
		}
		for _, signature := range incompatible.OnlyInTransformed {
			fmt.Fprintf(context.App.Writer, "+ %s\n", signature)
		}
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(context.App.Writer, "interfaces match, %d callables\n", len(original.Interface.Callables()))
	return nil
}
