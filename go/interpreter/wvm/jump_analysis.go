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
	lru "github.com/hashicorp/golang-lru/v2"
)

// jumpDestinations is the immutable set of valid jump targets of a code. A
// position is a valid target if it holds a JUMPDEST instruction that is not
// part of the immediate data of a PUSH instruction.
type jumpDestinations struct {
	bits []uint64
	size int
}

// analyzeJumpDestinations scans the given code once, skipping PUSH data.
func analyzeJumpDestinations(code []byte) *jumpDestinations {
	res := &jumpDestinations{
		bits: make([]uint64, (len(code)+63)/64),
		size: len(code),
	}
	for i := 0; i < len(code); {
		op := vm.OpCode(code[i])
		if op == vm.JUMPDEST {
			res.bits[i/64] |= 1 << (uint(i) % 64)
		}
		i += op.Width()
	}
	return res
}

// isValid checks whether the given target is a valid jump destination.
func (d *jumpDestinations) isValid(target evm.Word) bool {
	if !target.IsUint64() || target.Uint64() >= uint64(d.size) {
		return false
	}
	pos := target.Uint64()
	return d.bits[pos/64]&(1<<(pos%64)) != 0
}

// analyzer provides jump destination sets, reusing the results of earlier
// analyses of the same code through a cache indexed by the code hash.
type analyzer struct {
	cache *lru.Cache[evm.Hash, *jumpDestinations]
}

// newAnalyzer creates an analyzer retaining up to cacheSize results. A
// non-positive size disables caching.
func newAnalyzer(cacheSize int) (*analyzer, error) {
	if cacheSize <= 0 {
		return &analyzer{}, nil
	}
	cache, err := lru.New[evm.Hash, *jumpDestinations](cacheSize)
	if err != nil {
		return nil, err
	}
	return &analyzer{cache: cache}, nil
}

// analyze returns the jump destinations of the given code. If a hash is
// provided, it must be the hash of the code and is used for caching.
func (a *analyzer) analyze(code evm.Code, codeHash *evm.Hash) *jumpDestinations {
	if a.cache == nil || codeHash == nil {
		return analyzeJumpDestinations(code)
	}
	if res, found := a.cache.Get(*codeHash); found {
		return res
	}
	res := analyzeJumpDestinations(code)
	a.cache.Add(*codeHash, res)
	return res
}
