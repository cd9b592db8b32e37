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

const (
	// defaultMaxMemorySize is the default upper bound of the memory of a
	// single context, 2^20 words.
	defaultMaxMemorySize uint64 = 32 << 20

	// maxMemoryExpansionSize is the largest memory size for which expansion
	// costs can be computed without overflowing the gas type.
	maxMemoryExpansionSize uint64 = 0x1FFFFFFFE0
)

// Memory is the linear, byte-addressable, zero-initialized memory of an
// execution context. It grows in steps of 32-byte words and never shrinks.
// Every growth is paid for through a gas meter before it takes effect.
type Memory struct {
	store             []byte
	currentMemoryCost evm.Gas
	limit             uint64
}

// NewMemory creates an empty memory which may grow up to the given number of
// bytes. A limit of zero selects the default limit.
func NewMemory(limit uint64) *Memory {
	if limit == 0 {
		limit = defaultMaxMemorySize
	}
	if limit > maxMemoryExpansionSize {
		limit = maxMemoryExpansionSize
	}
	return &Memory{limit: limit}
}

// memoryCost is the total cost of a memory of the given number of words.
func memoryCost(words uint64) evm.Gas {
	return evm.Gas(words*words/quadCoeffDiv) + memoryGas*evm.Gas(words)
}

// length returns the current size of the memory in bytes.
func (m *Memory) length() uint64 {
	return uint64(len(m.store))
}

// getExpansionCosts returns the gas required to grow the memory such that it
// covers size bytes. The result is zero if no growth is needed. Sizes beyond
// the memory limit are not priced by this function.
func (m *Memory) getExpansionCosts(size uint64) evm.Gas {
	if m.length() >= size {
		return 0
	}
	return memoryCost(evm.SizeInWords(size)) - m.currentMemoryCost
}

// expandMemory grows the memory to cover the range [offset, offset+size).
// Zero-sized ranges never cause growth, independent of the offset. The
// growth is charged to the given gas meter first; on failure the memory is
// not modified.
func (m *Memory) expandMemory(offset, size uint64, gas *gasMeter) error {
	if size == 0 {
		return nil
	}
	needed := offset + size
	if needed < offset || needed > m.limit {
		return evm.MemoryLimitExceeded
	}
	if m.length() >= needed {
		return nil
	}
	if err := gas.charge(m.getExpansionCosts(needed)); err != nil {
		return err
	}
	words := evm.SizeInWords(needed)
	m.currentMemoryCost = memoryCost(words)
	m.store = append(m.store, make([]byte, words*32-m.length())...)
	return nil
}

// getSlice obtains a slice of size bytes from the memory at the given offset,
// growing the memory as needed. The returned slice is backed by the memory's
// internal data and is invalidated by any later growth.
func (m *Memory) getSlice(offset, size uint64, gas *gasMeter) ([]byte, error) {
	if err := m.expandMemory(offset, size, gas); err != nil {
		return nil, err
	}
	// since memory does not expand on size 0 independently of the offset,
	// out of bounds accesses need to be prevented
	if size == 0 {
		return nil, nil
	}
	return m.store[offset : offset+size], nil
}

// read returns a copy of size bytes starting at offset.
func (m *Memory) read(offset, size uint64, gas *gasMeter) ([]byte, error) {
	data, err := m.getSlice(offset, size, gas)
	if err != nil || data == nil {
		return nil, err
	}
	return append([]byte(nil), data...), nil
}

// write stores the given data at offset.
func (m *Memory) write(offset uint64, data []byte, gas *gasMeter) error {
	trg, err := m.getSlice(offset, uint64(len(data)), gas)
	if err != nil {
		return err
	}
	copy(trg, data)
	return nil
}

// readWord reads the 32-byte word stored at offset.
func (m *Memory) readWord(offset uint64, gas *gasMeter) (evm.Word, error) {
	data, err := m.getSlice(offset, 32, gas)
	if err != nil {
		return evm.Word{}, err
	}
	return evm.WordFromBytes(data), nil
}

// setWord stores the 32-byte big-endian representation of value at offset.
func (m *Memory) setWord(offset uint64, value evm.Word, gas *gasMeter) error {
	data := value.Bytes32()
	return m.write(offset, data[:], gas)
}

// setByte stores a single byte at offset.
func (m *Memory) setByte(offset uint64, value byte, gas *gasMeter) error {
	trg, err := m.getSlice(offset, 1, gas)
	if err != nil {
		return err
	}
	trg[0] = value
	return nil
}
