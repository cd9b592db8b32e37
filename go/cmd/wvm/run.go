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
	"time"

	"github.com/Fantom-foundation/wordvm/go/evm"
	"github.com/Fantom-foundation/wordvm/go/interpreter/wvm"
	"github.com/Fantom-foundation/wordvm/go/state"
	"github.com/dsnet/golib/unitconv"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var RunCmd = cli.Command{
	Action: doRun,
	Name:   "run",
	Usage:  "Run byte code on an empty world state",
	Flags: []cli.Flag{
		CodeFlag,
		InputFlag,
		GasFlag,
		ValueFlag,
		RevisionFlag,
		VerbosityFlag,
		TraceFlag,
		StatsFlag,
		NoShaCacheFlag,
	},
}

var (
	runnerAddress = evm.Address{0x01}
	callerAddress = evm.Address{0x02}
)

func doRun(context *cli.Context) error {
	code, err := CodeFlag.Fetch(context)
	if err != nil {
		return fmt.Errorf("invalid code: %w", err)
	}
	input, err := InputFlag.Fetch(context)
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	value, err := ValueFlag.Fetch(context)
	if err != nil {
		return err
	}
	revision, err := RevisionFlag.Fetch(context)
	if err != nil {
		return err
	}
	level, err := VerbosityFlag.Fetch(context)
	if err != nil {
		return err
	}
	gas := GasFlag.Fetch(context)

	tracing := context.Bool(TraceFlag.Name)
	if tracing {
		level = logrus.TraceLevel
	}
	logger := logrus.New()
	logger.SetOutput(context.App.ErrWriter)
	logger.SetLevel(level)

	interpreter, err := wvm.NewInterpreter(wvm.Config{
		Logger:         logger,
		WithTracing:    tracing,
		WithStatistics: context.Bool(StatsFlag.Name),
		WithShaCache:   !context.Bool(NoShaCacheFlag.Name),
	})
	if err != nil {
		return err
	}

	world := state.New()
	world.SetCode(runnerAddress, code)
	world.SetBalance(runnerAddress, value)
	codeHash, err := world.GetCodeHash(runnerAddress)
	if err != nil {
		return err
	}

	params := evm.Parameters{
		BlockParameters: evm.BlockParameters{
			ChainID:  evm.NewWord(1),
			GasLimit: gas,
			Revision: revision,
		},
		TransactionParameters: evm.TransactionParameters{
			Origin: callerAddress,
		},
		State:     world,
		Kind:      evm.Call,
		Gas:       gas,
		Recipient: runnerAddress,
		Sender:    callerAddress,
		Input:     input,
		Value:     value,
		Code:      code,
		CodeHash:  &codeHash,
	}

	start := time.Now()
	result, err := interpreter.Run(params)
	if err != nil {
		return err
	}
	duration := time.Since(start)

	logger.WithFields(logrus.Fields{
		"outcome":  result.Outcome,
		"gas_used": result.GasUsed,
		"duration": duration,
	}).Debug("execution finished")

	printResult(context, result)
	if context.Bool(StatsFlag.Name) {
		fmt.Fprint(context.App.Writer, interpreter.DumpProfile())
		rate := float64(result.GasUsed) / duration.Seconds()
		fmt.Fprintf(context.App.Writer, "Time: %v, %sgas/s\n", duration, unitconv.FormatPrefix(rate, unitconv.SI, 1))
	}
	return nil
}

func printResult(context *cli.Context, result evm.Result) {
	out := context.App.Writer
	fmt.Fprintf(out, "outcome:  %v\n", result.Outcome)
	fmt.Fprintf(out, "output:   %s\n", hexutil.Encode(result.Output))
	fmt.Fprintf(out, "gas used: %d\n", result.GasUsed)
	fmt.Fprintf(out, "gas left: %d\n", result.GasLeft)
	fmt.Fprintf(out, "refund:   %d\n", result.GasRefund)
	for i, log := range result.Logs {
		fmt.Fprintf(out, "log %d:    %v %v %s\n", i, log.Address, log.Topics, hexutil.Encode(log.Data))
	}
	if result.Err != nil {
		fmt.Fprintf(out, "error:    %v\n", result.Err)
	}
}
