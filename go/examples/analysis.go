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
	"github.com/Fantom-foundation/wordvm/go/evm/vm"
)

// maxCodeSize is the size limit of deployed contract codes (EIP-170).
const maxCodeSize = 0x6000

// getAnalysisExample creates a code of maximum size consisting mostly of
// repetitions of the given filler, which is jumped over. Running it is
// dominated by the jump destination analysis of the filler.
func getAnalysisExample(name string, filler []byte) Example {
	prefix := newAssembler().argument().push(0).op(vm.MSTORE).jump("end")
	suffixSize := len(newAssembler().mark("end").push(32).push(0).op(vm.RETURN).build())

	repetitions := (maxCodeSize - len(prefix.code) - suffixSize) / len(filler)
	for i := 0; i < repetitions; i++ {
		prefix.raw(filler)
	}
	code := prefix.mark("end").push(32).push(0).op(vm.RETURN).build()

	return contract{
		Name:      name,
		code:      code,
		reference: func(x int) int { return x },
	}.build()
}

func GetJumpdestAnalysisExample() Example {
	return getAnalysisExample("jumpdest", []byte{byte(vm.JUMPDEST)})
}

func GetStopAnalysisExample() Example {
	return getAnalysisExample("stop", []byte{byte(vm.STOP)})
}

func GetPush1AnalysisExample() Example {
	return getAnalysisExample("push1", []byte{byte(vm.PUSH1), 0})
}

func GetPush32AnalysisExample() Example {
	return getAnalysisExample("push32", append([]byte{byte(vm.PUSH32)}, make([]byte, 32)...))
}
