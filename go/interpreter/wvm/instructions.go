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
)

func opJump(c *context) error {
	destination := *c.stack.pop()
	if !c.jumpDests.isValid(destination) {
		return evm.InvalidJump
	}
	// the program counter is advanced past the JUMP by the dispatch loop
	c.pc = int(destination.Uint64()) - 1
	return nil
}

func opJumpi(c *context) error {
	destination, condition := *c.stack.pop(), *c.stack.pop()
	if condition.IsZero() {
		return nil
	}
	if !c.jumpDests.isValid(destination) {
		return evm.InvalidJump
	}
	c.pc = int(destination.Uint64()) - 1
	return nil
}

// opPush pushes the n bytes following the current instruction. Data beyond
// the end of the code is read as zero.
func opPush(c *context, n int) {
	var data [32]byte
	start := c.pc + 1
	if start < len(c.code) {
		end := start + n
		if end > len(c.code) {
			end = len(c.code)
		}
		copy(data[32-n:], c.code[start:end])
	}
	c.stack.push(evm.WordFromBytes(data[:]))
}

func opAdd(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	*b = a.Add(*b)
}

func opSub(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	*b = a.Sub(*b)
}

func opMul(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	*b = a.Mul(*b)
}

func opDiv(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	*b = a.Div(*b)
}

func opSDiv(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	*b = a.SDiv(*b)
}

func opMod(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	*b = a.Mod(*b)
}

func opSMod(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	*b = a.SMod(*b)
}

func opAddMod(c *context) {
	a, b := *c.stack.pop(), *c.stack.pop()
	n := c.stack.peek()
	*n = a.AddMod(b, *n)
}

func opMulMod(c *context) {
	a, b := *c.stack.pop(), *c.stack.pop()
	n := c.stack.peek()
	*n = a.MulMod(b, *n)
}

func opExp(c *context) error {
	base := c.stack.pop()
	exponent := c.stack.peek()
	if err := c.useGas(expByteGas * evm.Gas(exponent.ByteLen())); err != nil {
		return err
	}
	*exponent = base.Exp(*exponent)
	return nil
}

func opSignExtend(c *context) {
	back := c.stack.pop()
	value := c.stack.peek()
	*value = value.SignExtend(*back)
}

func opLt(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	*b = evm.WordFromBool(a.Lt(*b))
}

func opGt(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	*b = evm.WordFromBool(a.Gt(*b))
}

func opSlt(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	*b = evm.WordFromBool(a.Slt(*b))
}

func opSgt(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	*b = evm.WordFromBool(a.Sgt(*b))
}

func opEq(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	*b = evm.WordFromBool(a.Eq(*b))
}

func opIszero(c *context) {
	a := c.stack.peek()
	*a = evm.WordFromBool(a.IsZero())
}

func opAnd(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	*b = a.And(*b)
}

func opOr(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	*b = a.Or(*b)
}

func opXor(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	*b = a.Xor(*b)
}

func opNot(c *context) {
	a := c.stack.peek()
	*a = a.Not()
}

func opByte(c *context) {
	index := c.stack.pop()
	value := c.stack.peek()
	*value = value.Byte(*index)
}

func opShl(c *context) {
	shift := c.stack.pop()
	value := c.stack.peek()
	*value = value.Shl(*shift)
}

func opShr(c *context) {
	shift := c.stack.pop()
	value := c.stack.peek()
	*value = value.Shr(*shift)
}

func opSar(c *context) {
	shift := c.stack.pop()
	value := c.stack.peek()
	*value = value.Sar(*shift)
}

// toMemoryRange converts an offset/size pair of words into native integers.
// Zero sizes never touch memory, so their offset is irrelevant.
func toMemoryRange(offset, size evm.Word) (uint64, uint64, error) {
	if size.IsZero() {
		return 0, 0, nil
	}
	if !offset.IsUint64() || !size.IsUint64() {
		return 0, 0, evm.MemoryLimitExceeded
	}
	return offset.Uint64(), size.Uint64(), nil
}

// toMemoryOffset converts a word into a memory offset for fixed-size accesses.
func toMemoryOffset(offset evm.Word) (uint64, error) {
	if !offset.IsUint64() {
		return 0, evm.MemoryLimitExceeded
	}
	return offset.Uint64(), nil
}

func opSha3(c *context) error {
	offset, size, err := toMemoryRange(*c.stack.pop(), *c.stack.peek())
	if err != nil {
		return err
	}
	data, err := c.memory.getSlice(offset, size, &c.gas)
	if err != nil {
		return err
	}
	if err := c.useGas(keccakWordGas * evm.Gas(evm.SizeInWords(size))); err != nil {
		return err
	}
	var hash evm.Hash
	if c.sha3Cache != nil {
		hash = c.sha3Cache.hash(data)
	} else {
		hash = evm.Keccak256(data)
	}
	*c.stack.peek() = evm.WordFromHash(hash)
	return nil
}

func opMload(c *context) error {
	top := c.stack.peek()
	offset, err := toMemoryOffset(*top)
	if err != nil {
		return err
	}
	value, err := c.memory.readWord(offset, &c.gas)
	if err != nil {
		return err
	}
	*top = value
	return nil
}

func opMstore(c *context) error {
	offset, err := toMemoryOffset(*c.stack.pop())
	if err != nil {
		return err
	}
	return c.memory.setWord(offset, *c.stack.pop(), &c.gas)
}

func opMstore8(c *context) error {
	offset, err := toMemoryOffset(*c.stack.pop())
	if err != nil {
		return err
	}
	value := c.stack.pop().Bytes32()
	return c.memory.setByte(offset, value[31], &c.gas)
}

func opCallDataLoad(c *context) {
	top := c.stack.peek()
	*top = evm.WordFromBytes(getData(c.params.Input, *top, 32))
}

// getData returns size bytes of data starting at offset, padded with zeros
// where the range exceeds the data.
func getData(data []byte, offset evm.Word, size uint64) []byte {
	res := make([]byte, size)
	if !offset.IsUint64() || offset.Uint64() >= uint64(len(data)) {
		return res
	}
	copy(res, data[offset.Uint64():])
	return res
}

// genericDataCopy implements CALLDATACOPY and CODECOPY, copying from the
// given source into memory with zero padding beyond the source's end.
func genericDataCopy(c *context, source []byte) error {
	memOffset, dataOffset, size := *c.stack.pop(), *c.stack.pop(), *c.stack.pop()
	return copyToMemory(c, source, memOffset, dataOffset, size)
}

func copyToMemory(c *context, source []byte, memOffset, dataOffset, size evm.Word) error {
	offset, length, err := toMemoryRange(memOffset, size)
	if err != nil {
		return err
	}
	trg, err := c.memory.getSlice(offset, length, &c.gas)
	if err != nil {
		return err
	}
	if err := c.useGas(copyGas * evm.Gas(evm.SizeInWords(length))); err != nil {
		return err
	}
	if length > 0 {
		copy(trg, getData(source, dataOffset, length))
	}
	return nil
}

func opReturnDataCopy(c *context) error {
	memOffset, dataOffset, size := *c.stack.pop(), *c.stack.pop(), *c.stack.pop()
	start, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		return evm.ReturnDataOutOfBounds
	}
	length, overflow := size.Uint64WithOverflow()
	if overflow || start+length < start || start+length > uint64(len(c.returnData)) {
		return evm.ReturnDataOutOfBounds
	}
	return copyToMemory(c, c.returnData, memOffset, dataOffset, size)
}

func opReturn(c *context, result status) (status, error) {
	offset, size, err := toMemoryRange(*c.stack.pop(), *c.stack.pop())
	if err != nil {
		return statusFailed, err
	}
	data, err := c.memory.read(offset, size, &c.gas)
	if err != nil {
		return statusFailed, err
	}
	c.output = data
	return result, nil
}

func opLog(c *context, numTopics int) error {
	if c.params.Static {
		return evm.WriteProtection
	}
	offset, size, err := toMemoryRange(*c.stack.pop(), *c.stack.pop())
	if err != nil {
		return err
	}
	topics := make([]evm.Hash, numTopics)
	for i := range topics {
		topics[i] = c.stack.pop().ToHash()
	}
	data, err := c.memory.read(offset, size, &c.gas)
	if err != nil {
		return err
	}
	if err := c.useGas(logDataGas * evm.Gas(size)); err != nil {
		return err
	}
	c.logs = append(c.logs, evm.Log{
		Address: c.params.Recipient,
		Topics:  topics,
		Data:    data,
	})
	return nil
}
