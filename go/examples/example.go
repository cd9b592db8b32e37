// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package examples provides contract codes with (int)->int entry points and
// reference implementations of the computed functions. They are used for
// integration tests and benchmarks of interpreter implementations.
package examples

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Fantom-foundation/wordvm/go/evm"
	"github.com/Fantom-foundation/wordvm/go/state"
)

// Example is an executable description of a contract and an entry point with a (int)->int signature.
type Example struct {
	contract
	codeHash evm.Hash
}

// contract describes contract code and an entry point with a (int)->int signature.
type contract struct {
	Name      string
	code      []byte
	function  uint32        // selector placed in front of the argument
	reference func(int) int // computes the expected result in Go
}

func (s contract) build() Example {
	return Example{
		contract: s,
		codeHash: evm.Keccak256(s.code),
	}
}

// Code returns the byte code of the example.
func (e *Example) Code() evm.Code {
	return e.code
}

type Result struct {
	Result  int
	UsedGas evm.Gas
	Refund  evm.Gas
}

// exampleAddress is the account the example code is installed in.
var exampleAddress = evm.Address{0xE0}

// RunOn runs this example on the given interpreter, using the given argument.
// The code is installed in an otherwise empty state, such that it may call
// itself.
func (e *Example) RunOn(interpreter evm.Interpreter, argument int) (Result, error) {
	const initialGas = math.MaxInt64

	world := state.New()
	world.SetCode(exampleAddress, e.code)

	params := evm.Parameters{
		BlockParameters: evm.BlockParameters{
			Revision: evm.DefaultRevision,
		},
		State:     world,
		Kind:      evm.Call,
		Recipient: exampleAddress,
		Code:      e.code,
		CodeHash:  &e.codeHash,
		Input:     encodeArgument(e.function, argument),
		Gas:       initialGas,
	}

	outcome, err := interpreter.Run(params)
	if err != nil {
		return Result{}, fmt.Errorf("running %s: %w", e.Name, err)
	}
	if !outcome.Success() {
		return Result{}, fmt.Errorf("execution of %s ended with %v: %v", e.Name, outcome.Outcome, outcome.Err)
	}
	value, err := decodeOutput(outcome.Output)
	if err != nil {
		return Result{}, fmt.Errorf("decoding result of %s: %w", e.Name, err)
	}
	return Result{Result: value, UsedGas: outcome.GasUsed, Refund: outcome.GasRefund}, nil
}

// RunReference computes the result the example's code is expected to return.
func (e *Example) RunReference(argument int) int {
	return e.reference(argument)
}

// encodeArgument produces call data made of a 4-byte selector followed by
// the argument as a single 32-byte word.
func encodeArgument(function uint32, arg int) []byte {
	word := evm.NewWord(uint64(uint32(arg))).Bytes32()
	return append(binary.BigEndian.AppendUint32(nil, function), word[:]...)
}

// decodeOutput interprets the low 32 bits of a returned word as the result.
func decodeOutput(output []byte) (int, error) {
	if got := len(output); got != 32 {
		return 0, fmt.Errorf("output is %d bytes, expected a single word", got)
	}
	return int(uint32(evm.WordFromBytes(output).Uint64())), nil
}

// GetAllExamples returns all examples of this package.
func GetAllExamples() []Example {
	return []Example{
		GetArithmeticExample(),
		GetFibExample(),
		GetIncrementExample(),
		GetSha3Example(),
		GetGasBurnerExample(),
		GetStaticOverheadExample(),
		GetJumpdestAnalysisExample(),
		GetStopAnalysisExample(),
		GetPush1AnalysisExample(),
		GetPush32AnalysisExample(),
	}
}
