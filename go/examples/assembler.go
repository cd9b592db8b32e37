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
	"fmt"

	"github.com/Fantom-foundation/wordvm/go/evm/vm"
)

type label string

// assembler produces byte code from instructions and symbolic jump targets.
// Jump targets are encoded as PUSH2 instructions and resolved by build.
type assembler struct {
	code   []byte
	labels map[label]int
	refs   map[int]label
}

func newAssembler() *assembler {
	return &assembler{
		labels: map[label]int{},
		refs:   map[int]label{},
	}
}

func (a *assembler) op(ops ...vm.OpCode) *assembler {
	for _, op := range ops {
		a.code = append(a.code, byte(op))
	}
	return a
}

// push emits the shortest PUSH instruction for the given value.
func (a *assembler) push(value uint64) *assembler {
	size := 1
	for value>>(8*size) != 0 {
		size++
	}
	a.code = append(a.code, byte(vm.PUSH1)+byte(size-1))
	for i := size - 1; i >= 0; i-- {
		a.code = append(a.code, byte(value>>(8*i)))
	}
	return a
}

func (a *assembler) raw(data []byte) *assembler {
	a.code = append(a.code, data...)
	return a
}

// mark places a JUMPDEST for the given label.
func (a *assembler) mark(l label) *assembler {
	a.labels[l] = len(a.code)
	return a.op(vm.JUMPDEST)
}

func (a *assembler) target(l label) *assembler {
	a.refs[len(a.code)+1] = l
	return a.raw([]byte{byte(vm.PUSH2), 0, 0})
}

func (a *assembler) jump(l label) *assembler {
	return a.target(l).op(vm.JUMP)
}

func (a *assembler) jumpIf(l label) *assembler {
	return a.target(l).op(vm.JUMPI)
}

// returnTop ends the code by returning the word on top of the stack.
func (a *assembler) returnTop() *assembler {
	return a.push(0).op(vm.MSTORE).push(32).push(0).op(vm.RETURN)
}

// argument pushes the word following the 4-byte function selector.
func (a *assembler) argument() *assembler {
	return a.push(4).op(vm.CALLDATALOAD)
}

func (a *assembler) build() []byte {
	for pos, l := range a.refs {
		target, found := a.labels[l]
		if !found {
			panic(fmt.Sprintf("undefined label %q", l))
		}
		a.code[pos] = byte(target >> 8)
		a.code[pos+1] = byte(target)
	}
	return a.code
}
