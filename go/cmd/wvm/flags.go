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
	"strings"

	"github.com/Fantom-foundation/wordvm/go/evm"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

type revisionFlagType struct {
	cli.StringFlag
}

var RevisionFlag = &revisionFlagType{
	cli.StringFlag{
		Name:    "revision",
		Aliases: []string{"r"},
		Usage:   "the revision to run the code with (Berlin, London, Shanghai)",
		Value:   evm.DefaultRevision.String(),
	},
}

func (f *revisionFlagType) Fetch(context *cli.Context) (evm.Revision, error) {
	return evm.ParseRevision(context.String(f.Name))
}

type hexFlagType struct {
	cli.StringFlag
}

// Fetch decodes the flag's value as hex data, with or without 0x prefix. A
// value starting with @ names a file holding the hex data.
func (f *hexFlagType) Fetch(context *cli.Context) ([]byte, error) {
	return decodeHex(context.String(f.Name))
}

func decodeHex(value string) ([]byte, error) {
	if strings.HasPrefix(value, "@") {
		data, err := os.ReadFile(value[1:])
		if err != nil {
			return nil, err
		}
		value = string(data)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if !strings.HasPrefix(value, "0x") && !strings.HasPrefix(value, "0X") {
		value = "0x" + value
	}
	return hexutil.Decode(value)
}

var CodeFlag = &hexFlagType{
	cli.StringFlag{
		Name:     "code",
		Aliases:  []string{"c"},
		Usage:    "the byte code to run in hex, or @<file> to read it from a file",
		Required: true,
	},
}

var InputFlag = &hexFlagType{
	cli.StringFlag{
		Name:    "input",
		Aliases: []string{"i"},
		Usage:   "the call data in hex, or @<file> to read it from a file",
	},
}

type gasFlagType struct {
	cli.Int64Flag
}

var GasFlag = &gasFlagType{
	cli.Int64Flag{
		Name:  "gas",
		Usage: "the gas limit of the execution",
		Value: 10_000_000,
	},
}

func (f *gasFlagType) Fetch(context *cli.Context) evm.Gas {
	return evm.Gas(context.Int64(f.Name))
}

type valueFlagType struct {
	cli.StringFlag
}

var ValueFlag = &valueFlagType{
	cli.StringFlag{
		Name:  "value",
		Usage: "the value passed to the code, decimal or 0x-prefixed hex",
		Value: "0",
	},
}

func (f *valueFlagType) Fetch(context *cli.Context) (evm.Word, error) {
	var res evm.Word
	if err := res.UnmarshalText([]byte(context.String(f.Name))); err != nil {
		return evm.Word{}, fmt.Errorf("invalid value: %w", err)
	}
	return res, nil
}

type verbosityFlagType struct {
	cli.StringFlag
}

var VerbosityFlag = &verbosityFlagType{
	cli.StringFlag{
		Name:    "verbosity",
		Aliases: []string{"v"},
		Usage:   "the log level (panic, fatal, error, warn, info, debug, trace)",
		Value:   "info",
	},
}

func (f *verbosityFlagType) Fetch(context *cli.Context) (logrus.Level, error) {
	return logrus.ParseLevel(context.String(f.Name))
}

var TraceFlag = &cli.BoolFlag{
	Name:  "trace",
	Usage: "log every executed instruction, implies --verbosity trace",
}

var StatsFlag = &cli.BoolFlag{
	Name:  "stats",
	Usage: "collect and print instruction statistics",
}

var NoShaCacheFlag = &cli.BoolFlag{
	Name:  "no-sha-cache",
	Usage: "hash every SHA3 input instead of caching 32 and 64 byte inputs",
}
