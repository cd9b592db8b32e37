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

	"github.com/Fantom-foundation/wordvm/go/interpreter/wvm"
	"github.com/urfave/cli/v2"
)

var OpCodesCmd = cli.Command{
	Action: doOpCodes,
	Name:   "opcodes",
	Usage:  "List the instructions supported by a revision",
	Flags: []cli.Flag{
		RevisionFlag,
	},
}

func doOpCodes(context *cli.Context) error {
	revision, err := RevisionFlag.Fetch(context)
	if err != nil {
		return err
	}
	out := context.App.Writer
	fmt.Fprintf(out, "%-6s %-16s %4s %6s %10s\n", "code", "name", "pops", "pushes", "static gas")
	for _, info := range wvm.GetSupportedOpCodes(revision) {
		fmt.Fprintf(out, "0x%02X   %-16s %4d %6d %10d\n", byte(info.OpCode), info.Name(), info.Pops, info.Pushes, info.StaticGas)
	}
	return nil
}
