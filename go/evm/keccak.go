// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package evm

import (
	"hash"
	"sync"

	"golang.org/x/crypto/sha3"
)

// keccakState is implemented by the sponge of the sha3 package; reading
// the digest avoids the allocation of Sum.
type keccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

var keccakStates = sync.Pool{
	New: func() any { return sha3.NewLegacyKeccak256().(keccakState) },
}

// Keccak256 returns the legacy Keccak-256 digest of the concatenation of
// the given chunks.
func Keccak256(chunks ...[]byte) (digest Hash) {
	state := keccakStates.Get().(keccakState)
	defer keccakStates.Put(state)
	state.Reset()
	for _, chunk := range chunks {
		state.Write(chunk)
	}
	state.Read(digest[:])
	return
}

// EmptyCodeHash is the digest of empty code.
var EmptyCodeHash = Keccak256()
