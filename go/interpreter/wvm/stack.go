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
	"fmt"
	"strings"
	"sync"

	"github.com/Fantom-foundation/wordvm/go/evm"
	"github.com/ethereum/go-ethereum/params"
)

const maxStackSize = int(params.StackLimit) // Maximum size of VM stack allowed.

// stack holds up to 1024 words in a fixed array so that a frame never
// reallocates while running. Push, Pop and Peek check bounds; the lower-case
// variants do not and rely on checkStackLimits having been applied by the
// dispatch loop. Stacks are recycled through stackPool since each one
// occupies 32 KiB.
type stack struct {
	data   [maxStackSize]evm.Word
	height int
}

// Push adds the given value to the top of the stack.
func (s *stack) Push(value evm.Word) error {
	if s.height >= maxStackSize {
		return evm.StackOverflow
	}
	s.push(value)
	return nil
}

// Pop removes the top element from the stack and returns it.
func (s *stack) Pop() (evm.Word, error) {
	if s.height == 0 {
		return evm.Word{}, evm.StackUnderflow
	}
	return *s.pop(), nil
}

// Peek returns the depth-th element from the top without removing it. The
// top element is at depth 0.
func (s *stack) Peek(depth int) (evm.Word, error) {
	if depth < 0 || depth >= s.height {
		return evm.Word{}, evm.StackUnderflow
	}
	return *s.peekN(depth), nil
}

// push adds a copy of the given value to the top of the stack.
func (s *stack) push(value evm.Word) {
	s.data[s.height] = value
	s.height++
}

// pop removes the top element from the stack and returns a pointer to it. The
// obtained pointer is only valid until the next push operation.
func (s *stack) pop() *evm.Word {
	s.height--
	return &s.data[s.height]
}

// peek returns a pointer to the top element of the stack without removing it.
// The returned pointer may be used to update the top element in place.
func (s *stack) peek() *evm.Word {
	return &s.data[s.height-1]
}

// peekN returns a pointer to the n-th element from the top of the stack
// without removing it. peekN(0) is equivalent to peek().
func (s *stack) peekN(n int) *evm.Word {
	return &s.data[s.height-n-1]
}

// len returns the number of elements on the stack.
func (s *stack) len() int {
	return s.height
}

// swap exchanges the top element with the n-th element below it.
func (s *stack) swap(n int) {
	top := s.height - 1
	s.data[top], s.data[top-n] = s.data[top-n], s.data[top]
}

// dup duplicates the n-th element from the top and pushes it to the top of
// the stack. dup(0) duplicates the top element.
func (s *stack) dup(n int) {
	s.push(s.data[s.height-n-1])
}

// String lists the elements from the top down, one per line.
func (s *stack) String() string {
	var b strings.Builder
	for pos := s.height - 1; pos >= 0; pos-- {
		fmt.Fprintf(&b, "%5d: %v\n", pos, s.data[pos])
	}
	return b.String()
}

var stackPool = sync.Pool{New: func() any { return new(stack) }}

// NewStack takes an empty stack from the pool.
func NewStack() *stack {
	return stackPool.Get().(*stack)
}

// ReturnStack hands s back to the pool. The caller must not use s afterwards.
func ReturnStack(s *stack) {
	s.height = 0
	stackPool.Put(s)
}

// checkStackLimits verifies that an instruction consuming pops elements and
// producing pushes elements can be executed on a stack of the given size.
func checkStackLimits(size int, pops, pushes int) error {
	if size < pops {
		return evm.StackUnderflow
	}
	if size-pops+pushes > maxStackSize {
		return evm.StackOverflow
	}
	return nil
}
