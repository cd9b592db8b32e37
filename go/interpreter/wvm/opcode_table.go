// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package wvm

import (
	"github.com/Fantom-foundation/wordvm/go/evm"
	"github.com/Fantom-foundation/wordvm/go/evm/vm"
)

// opInfo summarizes the static properties of an instruction in a revision.
type opInfo struct {
	valid     bool
	pops      int
	pushes    int
	staticGas evm.Gas
}

// OpCodeInfo is the exported view of an entry of the instruction table.
type OpCodeInfo struct {
	OpCode        vm.OpCode
	Pops          int
	Pushes        int
	StaticGas     evm.Gas
	ImmediateSize int
}

func (i OpCodeInfo) Name() string {
	return i.OpCode.String()
}

// opTables holds the instruction table of every supported revision.
var opTables = map[evm.Revision]*[256]opInfo{}

func init() {
	for _, revision := range evm.GetAllKnownRevisions() {
		opTables[revision] = newOpTable(revision)
	}
}

func getOpTable(revision evm.Revision) *[256]opInfo {
	return opTables[revision]
}

// GetOpCodeInfo returns the table entry of the given instruction. The second
// result is false if the instruction is not supported in the revision.
func GetOpCodeInfo(revision evm.Revision, op vm.OpCode) (OpCodeInfo, bool) {
	table := getOpTable(revision)
	if table == nil || !table[op].valid {
		return OpCodeInfo{}, false
	}
	info := table[op]
	return OpCodeInfo{
		OpCode:        op,
		Pops:          info.pops,
		Pushes:        info.pushes,
		StaticGas:     info.staticGas,
		ImmediateSize: op.ImmediateSize(),
	}, true
}

// GetSupportedOpCodes lists all instructions supported in the given revision
// in ascending order of their byte value.
func GetSupportedOpCodes(revision evm.Revision) []OpCodeInfo {
	res := []OpCodeInfo{}
	for i := 0; i < 256; i++ {
		if info, ok := GetOpCodeInfo(revision, vm.OpCode(i)); ok {
			res = append(res, info)
		}
	}
	return res
}

func newOpTable(revision evm.Revision) *[256]opInfo {
	table := &[256]opInfo{}
	set := func(op vm.OpCode, pops, pushes int, gas evm.Gas) {
		table[op] = opInfo{valid: true, pops: pops, pushes: pushes, staticGas: gas}
	}

	set(vm.STOP, 0, 0, 0)
	set(vm.ADD, 2, 1, 3)
	set(vm.MUL, 2, 1, 5)
	set(vm.SUB, 2, 1, 3)
	set(vm.DIV, 2, 1, 5)
	set(vm.SDIV, 2, 1, 5)
	set(vm.MOD, 2, 1, 5)
	set(vm.SMOD, 2, 1, 5)
	set(vm.ADDMOD, 3, 1, 8)
	set(vm.MULMOD, 3, 1, 8)
	set(vm.EXP, 2, 1, 10)
	set(vm.SIGNEXTEND, 2, 1, 5)

	for _, op := range []vm.OpCode{vm.LT, vm.GT, vm.SLT, vm.SGT, vm.EQ, vm.AND, vm.OR, vm.XOR, vm.BYTE, vm.SHL, vm.SHR, vm.SAR} {
		set(op, 2, 1, 3)
	}
	set(vm.ISZERO, 1, 1, 3)
	set(vm.NOT, 1, 1, 3)

	set(vm.SHA3, 2, 1, keccak256Gas)

	for _, op := range []vm.OpCode{vm.ADDRESS, vm.ORIGIN, vm.CALLER, vm.CALLVALUE, vm.CALLDATASIZE, vm.CODESIZE, vm.GASPRICE, vm.RETURNDATASIZE,
		vm.COINBASE, vm.TIMESTAMP, vm.NUMBER, vm.PREVRANDAO, vm.GASLIMIT, vm.CHAINID, vm.PC, vm.MSIZE, vm.GAS} {
		set(op, 0, 1, 2)
	}
	set(vm.CALLDATALOAD, 1, 1, 3)
	set(vm.CALLDATACOPY, 3, 0, 3)
	set(vm.CODECOPY, 3, 0, 3)
	set(vm.RETURNDATACOPY, 3, 0, 3)
	set(vm.SELFBALANCE, 0, 1, 5)

	set(vm.BALANCE, 1, 1, warmAccessCost)
	set(vm.EXTCODESIZE, 1, 1, warmAccessCost)
	set(vm.EXTCODEHASH, 1, 1, warmAccessCost)
	set(vm.EXTCODECOPY, 4, 0, warmAccessCost)

	set(vm.POP, 1, 0, 2)
	set(vm.MLOAD, 1, 1, 3)
	set(vm.MSTORE, 2, 0, 3)
	set(vm.MSTORE8, 2, 0, 3)
	set(vm.SLOAD, 1, 1, 0)
	set(vm.SSTORE, 2, 0, 0)
	set(vm.JUMP, 1, 0, 8)
	set(vm.JUMPI, 2, 0, 10)
	set(vm.JUMPDEST, 0, 0, jumpdestGas)

	for op := vm.PUSH1; op <= vm.PUSH32; op++ {
		set(op, 0, 1, 3)
	}
	for i := 0; i < 16; i++ {
		set(vm.DUP1+vm.OpCode(i), i+1, i+2, 3)
		set(vm.SWAP1+vm.OpCode(i), i+2, i+2, 3)
	}
	for i := 0; i <= 4; i++ {
		set(vm.LOG0+vm.OpCode(i), i+2, 0, logGas+evm.Gas(i)*logTopicGas)
	}

	set(vm.CALL, 7, 1, warmAccessCost)
	set(vm.CALLCODE, 7, 1, warmAccessCost)
	set(vm.DELEGATECALL, 6, 1, warmAccessCost)
	set(vm.STATICCALL, 6, 1, warmAccessCost)
	set(vm.RETURN, 2, 0, 0)
	set(vm.REVERT, 2, 0, 0)

	if revision >= evm.R10_London {
		set(vm.BASEFEE, 0, 1, 2)
	}
	if revision >= evm.R12_Shanghai {
		set(vm.PUSH0, 0, 1, 2)
	}
	return table
}
