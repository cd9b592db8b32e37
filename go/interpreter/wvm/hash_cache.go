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
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	defaultSha3Cache32Size = 1 << 16
	defaultSha3Cache64Size = 1 << 18
)

// sha3Cache retains the hashes of 32 and 64 byte inputs, which are by far the
// most frequent SHA3 arguments (mapping keys and slot derivations). Other
// input sizes are hashed directly. The cache is safe for concurrent use.
type sha3Cache struct {
	words *lru.Cache[[32]byte, evm.Hash]
	pairs *lru.Cache[[64]byte, evm.Hash]
}

func newSha3Cache(size32, size64 int) (*sha3Cache, error) {
	words, err := lru.New[[32]byte, evm.Hash](size32)
	if err != nil {
		return nil, err
	}
	pairs, err := lru.New[[64]byte, evm.Hash](size64)
	if err != nil {
		return nil, err
	}
	return &sha3Cache{words: words, pairs: pairs}, nil
}

// hash returns the Keccak256 hash of data, served from the cache if possible.
func (h *sha3Cache) hash(data []byte) evm.Hash {
	switch len(data) {
	case 32:
		key := [32]byte(data)
		if hash, found := h.words.Get(key); found {
			return hash
		}
		hash := evm.Keccak256(data)
		h.words.Add(key, hash)
		return hash
	case 64:
		key := [64]byte(data)
		if hash, found := h.pairs.Get(key); found {
			return hash
		}
		hash := evm.Keccak256(data)
		h.pairs.Add(key, hash)
		return hash
	}
	return evm.Keccak256(data)
}
