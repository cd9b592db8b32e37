// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package examples

import (
	"github.com/Fantom-foundation/wordvm/go/evm"
	"github.com/Fantom-foundation/wordvm/go/evm/vm"
)

// GetIncrementExample provides a counter adding the argument to storage slot
// 0 and returning the new counter value. Since every run starts on an empty
// state, the result equals the argument.
func GetIncrementExample() Example {
	code := newAssembler().
		push(0).op(vm.SLOAD).
		argument().op(vm.ADD).
		op(vm.DUP1).push(0).op(vm.SSTORE).
		returnTop().
		build()

	return contract{
		Name:      "increment",
		code:      code,
		reference: func(x int) int { return x },
	}.build()
}

// GetFibExample provides a recursive Fibonacci implementation in which every
// recursion step is a CALL of the contract to itself. It thus exercises
// nested call frames up to a depth equal to the argument.
func GetFibExample() Example {
	// recurse replaces the argument n on top of the stack by fib(n-delta),
	// computed by calling this contract with n-delta in memory[4:36].
	recurse := func(a *assembler, delta uint64) *assembler {
		return a.
			push(delta).op(vm.SWAP1, vm.SUB).
			push(4).op(vm.MSTORE).
			push(32).push(64). // output region
			push(36).push(0).  // input region
			push(0).           // value
			op(vm.ADDRESS, vm.GAS, vm.CALL, vm.POP).
			push(64).op(vm.MLOAD)
	}

	a := newAssembler().
		argument().
		op(vm.DUP1).push(2).op(vm.GT).jumpIf("done")
	a.op(vm.DUP1)
	recurse(a, 1) // [fib(n-1), n]
	a.op(vm.SWAP1)
	recurse(a, 2) // [fib(n-2), fib(n-1)]
	a.op(vm.ADD).
		mark("done").
		returnTop()

	return contract{
		Name:      "fib",
		code:      a.build(),
		reference: fib,
	}.build()
}

func fib(x int) int {
	if x <= 1 {
		return x
	}
	return fib(x-1) + fib(x-2)
}

// GetSha3Example provides a loop computing the argument number of iterative
// hashes of a zero word and returning the last byte of the result.
func GetSha3Example() Example {
	code := newAssembler().
		argument().
		mark("loop").
		op(vm.DUP1, vm.ISZERO).jumpIf("done").
		push(32).push(0).op(vm.SHA3).push(0).op(vm.MSTORE).
		push(1).op(vm.SWAP1, vm.SUB).
		jump("loop").
		mark("done").
		push(0).op(vm.MLOAD).push(31).op(vm.BYTE).
		returnTop().
		build()

	return contract{
		Name:      "sha3",
		code:      code,
		reference: sha3Ref,
	}.build()
}

func sha3Ref(x int) int {
	var hash evm.Hash
	for i := 0; i < x; i++ {
		hash = evm.Keccak256(hash[:])
	}
	return int(hash[31])
}

// GetStaticOverheadExample represents the worst case for very short codes.
// It triggers the work done by an interpreter for any non-trivial run:
// the code is analyzed, memory is expanded and output is produced.
func GetStaticOverheadExample() Example {
	code := newAssembler().
		push(4).push(32).push(28).op(vm.CALLDATACOPY). // argument bytes into memory[28:32]
		push(32).push(0).op(vm.RETURN).
		build()

	return contract{
		Name:      "static_overhead",
		code:      code,
		reference: func(x int) int { return x },
	}.build()
}
