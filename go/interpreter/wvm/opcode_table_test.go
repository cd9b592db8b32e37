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
	"testing"

	"github.com/Fantom-foundation/wordvm/go/evm"
	"github.com/Fantom-foundation/wordvm/go/evm/vm"
)

func TestOpTable_AllKnownRevisionsHaveTables(t *testing.T) {
	for _, revision := range evm.GetAllKnownRevisions() {
		if getOpTable(revision) == nil {
			t.Errorf("missing table for revision %v", revision)
		}
	}
}

func TestOpTable_RevisionSpecificOpCodes(t *testing.T) {
	tests := []struct {
		op       vm.OpCode
		revision evm.Revision
		valid    bool
	}{
		{vm.BASEFEE, evm.R09_Berlin, false},
		{vm.BASEFEE, evm.R10_London, true},
		{vm.BASEFEE, evm.R12_Shanghai, true},
		{vm.PUSH0, evm.R09_Berlin, false},
		{vm.PUSH0, evm.R10_London, false},
		{vm.PUSH0, evm.R12_Shanghai, true},
	}
	for _, test := range tests {
		if _, got := GetOpCodeInfo(test.revision, test.op); test.valid != got {
			t.Errorf("unexpected support of %v in %v, wanted %t, got %t", test.op, test.revision, test.valid, got)
		}
	}
}

func TestOpTable_UnsupportedOpCodesAreInvalid(t *testing.T) {
	unsupported := []vm.OpCode{
		vm.BLOCKHASH, vm.CREATE, vm.CREATE2, vm.SELFDESTRUCT, vm.INVALID, vm.OpCode(0x0C), vm.OpCode(0xEF),
	}
	for _, revision := range evm.GetAllKnownRevisions() {
		for _, op := range unsupported {
			if _, ok := GetOpCodeInfo(revision, op); ok {
				t.Errorf("%v should not be supported in %v", op, revision)
			}
		}
	}
}

func TestOpTable_StackUsageAndStaticGas(t *testing.T) {
	tests := map[vm.OpCode]OpCodeInfo{
		vm.ADD:     {Pops: 2, Pushes: 1, StaticGas: 3},
		vm.MULMOD:  {Pops: 3, Pushes: 1, StaticGas: 8},
		vm.DUP16:   {Pops: 16, Pushes: 17, StaticGas: 3},
		vm.SWAP16:  {Pops: 17, Pushes: 17, StaticGas: 3},
		vm.LOG4:    {Pops: 6, Pushes: 0, StaticGas: 375 + 4*375},
		vm.CALL:    {Pops: 7, Pushes: 1, StaticGas: 100},
		vm.JUMPI:   {Pops: 2, Pushes: 0, StaticGas: 10},
		vm.PUSH32:  {Pops: 0, Pushes: 1, StaticGas: 3, ImmediateSize: 32},
		vm.SHA3:    {Pops: 2, Pushes: 1, StaticGas: 30},
		vm.BALANCE: {Pops: 1, Pushes: 1, StaticGas: 100},
	}
	for op, want := range tests {
		want.OpCode = op
		got, ok := GetOpCodeInfo(evm.R12_Shanghai, op)
		if !ok {
			t.Errorf("%v should be supported", op)
			continue
		}
		if want != got {
			t.Errorf("unexpected info for %v, wanted %+v, got %+v", op, want, got)
		}
	}
}

func TestOpTable_GetSupportedOpCodes_IsSortedAndGrowsWithRevisions(t *testing.T) {
	berlin := GetSupportedOpCodes(evm.R09_Berlin)
	london := GetSupportedOpCodes(evm.R10_London)
	shanghai := GetSupportedOpCodes(evm.R12_Shanghai)
	if !(len(berlin) < len(london) && len(london) < len(shanghai)) {
		t.Errorf("unexpected number of op codes: %d, %d, %d", len(berlin), len(london), len(shanghai))
	}
	for i := 1; i < len(shanghai); i++ {
		if shanghai[i-1].OpCode >= shanghai[i].OpCode {
			t.Errorf("op codes are not sorted at position %d", i)
		}
	}
	if want, got := "ADD", shanghai[1].Name(); want != got {
		t.Errorf("unexpected name, wanted %s, got %s", want, got)
	}
}
