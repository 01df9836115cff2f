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
	"text/tabwriter"

	"github.com/Fantom-foundation/difftest/go/dt/artifact"
	"github.com/urfave/cli/v2"
)

var ListCmd = cli.Command{
	Action:    doList,
	Name:      "list",
	Usage:     "List the callable surface of a contract artifact",
	ArgsUsage: "<artifact>",
}

func doList(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one artifact, got %d arguments", context.Args().Len())
	}
	contract, err := artifact.Load(context.Args().Get(0))
	if err != nil {
		return err
	}

	out := tabwriter.NewWriter(context.App.Writer, 0, 4, 2, ' ', 0)
	for _, callable := range contract.Interface.Callables() {
		support := "supported"
		if callable.HasTupleInput() {
			support = "skipped"
		}
		fmt.Fprintf(out, "%v\t%s\t%v\t%s\n", callable.Selector, callable.Signature, callable.Mutability, support)
	}
	return out.Flush()
}
