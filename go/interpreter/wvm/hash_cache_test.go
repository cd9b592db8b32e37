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
	"bytes"
	"sync"
	"testing"

	"github.com/Fantom-foundation/wordvm/go/evm"
	"github.com/Fantom-foundation/wordvm/go/evm/vm"
	"github.com/Fantom-foundation/wordvm/go/state"
)

func TestSha3Cache_ProducesKeccakHashes(t *testing.T) {
	cache, err := newSha3Cache(4, 4)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	for _, size := range []int{0, 1, 31, 32, 33, 63, 64, 65, 128} {
		data := bytes.Repeat([]byte{byte(size)}, size)
		for i := 0; i < 2; i++ {
			if want, got := evm.Keccak256(data), cache.hash(data); want != got {
				t.Errorf("unexpected hash for %d bytes, wanted %v, got %v", size, want, got)
			}
		}
	}
}

func TestSha3Cache_RetainsOnlyWordAndPairSizedInputs(t *testing.T) {
	cache, err := newSha3Cache(4, 4)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	cache.hash(make([]byte, 32))
	cache.hash(make([]byte, 64))
	cache.hash(make([]byte, 96))
	if want, got := 1, cache.words.Len(); want != got {
		t.Errorf("unexpected number of cached words, wanted %d, got %d", want, got)
	}
	if want, got := 1, cache.pairs.Len(); want != got {
		t.Errorf("unexpected number of cached pairs, wanted %d, got %d", want, got)
	}
}

func TestSha3Cache_EvictsLeastRecentlyUsedEntries(t *testing.T) {
	cache, err := newSha3Cache(2, 2)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	a, b, c := [32]byte{1}, [32]byte{2}, [32]byte{3}
	cache.hash(a[:])
	cache.hash(b[:])
	cache.hash(a[:])
	cache.hash(c[:])
	if !cache.words.Contains(a) || !cache.words.Contains(c) {
		t.Errorf("recently used entries should be retained")
	}
	if cache.words.Contains(b) {
		t.Errorf("least recently used entry should be evicted")
	}
}

func TestSha3Cache_CanBeUsedConcurrently(t *testing.T) {
	cache, err := newSha3Cache(8, 8)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				data := [32]byte{byte(i), byte(j)}
				if want, got := evm.Keccak256(data[:]), cache.hash(data[:]); want != got {
					t.Errorf("unexpected hash of %x", data)
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestInterpreter_Sha3ResultsAreIndependentOfCaching(t *testing.T) {
	code := assemble(
		vm.PUSH1, 0x2A, vm.PUSH1, 0, vm.MSTORE,
		vm.PUSH1, 32, vm.PUSH1, 0, vm.SHA3,
		vm.PUSH1, 32, vm.PUSH1, 0, vm.SHA3, // hashed twice to hit the cache
		returnTop,
	)
	var outputs [][]byte
	for _, config := range []Config{{}, {WithShaCache: true}} {
		params := newTestParameters(state.New(), code, 10000)
		result, err := newTestInterpreter(t, config).Run(params)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Success() {
			t.Fatalf("unexpected failure: %v", result.Err)
		}
		outputs = append(outputs, result.Output)
	}
	if !bytes.Equal(outputs[0], outputs[1]) {
		t.Errorf("cached and uncached results differ: %x vs %x", outputs[0], outputs[1])
	}
}
