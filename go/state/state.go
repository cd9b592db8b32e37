// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package state provides an in-memory implementation of the state provider
// consumed by the interpreter. All modifications are recorded in a journal
// such that they can be rolled back to earlier snapshots.
package state

import (
	"fmt"

	"github.com/Fantom-foundation/wordvm/go/evm"
	"golang.org/x/exp/maps"
)

var _ evm.StateProvider = (*State)(nil)

type slot struct {
	address evm.Address
	key     evm.Word
}

type account struct {
	balance  evm.Word
	code     evm.Code
	codeHash evm.Hash
}

// State is an in-memory world state supporting snapshots, committed storage
// values, and warm/cold access tracking for a single transaction at a time.
// State is not thread-safe.
type State struct {
	accounts map[evm.Address]account
	storage  map[slot]evm.Word

	// committed holds the storage values at the beginning of the current
	// transaction.
	committed map[slot]evm.Word

	accessedAccounts map[evm.Address]struct{}
	accessedSlots    map[slot]struct{}

	journal []func()
}

// New creates an empty state.
func New() *State {
	return &State{
		accounts:         map[evm.Address]account{},
		storage:          map[slot]evm.Word{},
		committed:        map[slot]evm.Word{},
		accessedAccounts: map[evm.Address]struct{}{},
		accessedSlots:    map[slot]struct{}{},
	}
}

func (s *State) AccountExists(address evm.Address) (bool, error) {
	_, found := s.accounts[address]
	return found, nil
}

func (s *State) GetBalance(address evm.Address) (evm.Word, error) {
	return s.accounts[address].balance, nil
}

// SetBalance updates the balance of the given account, creating it if needed.
func (s *State) SetBalance(address evm.Address, balance evm.Word) {
	s.updateAccount(address, func(a *account) {
		a.balance = balance
	})
}

func (s *State) Transfer(from, to evm.Address, value evm.Word) error {
	if value.IsZero() {
		return nil
	}
	balance := s.accounts[from].balance
	if balance.Lt(value) {
		return fmt.Errorf("insufficient balance of %v: %v < %v", from, balance, value)
	}
	s.updateAccount(from, func(a *account) {
		a.balance = a.balance.Sub(value)
	})
	s.updateAccount(to, func(a *account) {
		a.balance = a.balance.Add(value)
	})
	return nil
}

func (s *State) GetCode(address evm.Address) (evm.Code, error) {
	return s.accounts[address].code, nil
}

func (s *State) GetCodeHash(address evm.Address) (evm.Hash, error) {
	if acc, found := s.accounts[address]; found {
		return acc.codeHash, nil
	}
	return evm.Hash{}, nil
}

// SetCode installs the given code in the account, creating it if needed.
func (s *State) SetCode(address evm.Address, code evm.Code) {
	hash := evm.Keccak256(code)
	s.updateAccount(address, func(a *account) {
		a.code = code
		a.codeHash = hash
	})
}

func (s *State) GetStorage(address evm.Address, key evm.Word) (evm.Word, error) {
	return s.storage[slot{address, key}], nil
}

func (s *State) GetCommittedStorage(address evm.Address, key evm.Word) (evm.Word, error) {
	return s.committed[slot{address, key}], nil
}

func (s *State) SetStorage(address evm.Address, key evm.Word, value evm.Word) error {
	id := slot{address, key}
	previous, found := s.storage[id]
	s.journal = append(s.journal, func() {
		if found {
			s.storage[id] = previous
		} else {
			delete(s.storage, id)
		}
	})
	if value.IsZero() {
		delete(s.storage, id)
	} else {
		s.storage[id] = value
	}
	return nil
}

func (s *State) AccessAccount(address evm.Address) evm.AccessStatus {
	if _, found := s.accessedAccounts[address]; found {
		return evm.WarmAccess
	}
	s.accessedAccounts[address] = struct{}{}
	s.journal = append(s.journal, func() {
		delete(s.accessedAccounts, address)
	})
	return evm.ColdAccess
}

func (s *State) AccessStorage(address evm.Address, key evm.Word) evm.AccessStatus {
	id := slot{address, key}
	if _, found := s.accessedSlots[id]; found {
		return evm.WarmAccess
	}
	s.accessedSlots[id] = struct{}{}
	s.journal = append(s.journal, func() {
		delete(s.accessedSlots, id)
	})
	return evm.ColdAccess
}

func (s *State) Snapshot() evm.Snapshot {
	return evm.Snapshot(len(s.journal))
}

func (s *State) RevertToSnapshot(snapshot evm.Snapshot) error {
	if snapshot < 0 || int(snapshot) > len(s.journal) {
		return fmt.Errorf("invalid snapshot %d, journal has %d entries", snapshot, len(s.journal))
	}
	for i := len(s.journal) - 1; i >= int(snapshot); i-- {
		s.journal[i]()
		s.journal[i] = nil
	}
	s.journal = s.journal[:snapshot]
	return nil
}

// Commit concludes the current transaction. The current storage becomes the
// committed storage, access lists are cleared, and earlier snapshots are
// invalidated.
func (s *State) Commit() {
	s.committed = maps.Clone(s.storage)
	maps.Clear(s.accessedAccounts)
	maps.Clear(s.accessedSlots)
	s.journal = nil
}

// Copy creates an independent copy of the state, excluding its journal.
func (s *State) Copy() *State {
	return &State{
		accounts:         maps.Clone(s.accounts),
		storage:          maps.Clone(s.storage),
		committed:        maps.Clone(s.committed),
		accessedAccounts: maps.Clone(s.accessedAccounts),
		accessedSlots:    maps.Clone(s.accessedSlots),
	}
}

// GetStorageKeys lists the keys of all non-zero slots of the given account.
func (s *State) GetStorageKeys(address evm.Address) []evm.Word {
	res := []evm.Word{}
	for _, id := range maps.Keys(s.storage) {
		if id.address == address {
			res = append(res, id.key)
		}
	}
	return res
}

func (s *State) updateAccount(address evm.Address, update func(*account)) {
	previous, found := s.accounts[address]
	s.journal = append(s.journal, func() {
		if found {
			s.accounts[address] = previous
		} else {
			delete(s.accounts, address)
		}
	})
	cur := previous
	if !found {
		cur.codeHash = evm.EmptyCodeHash
	}
	update(&cur)
	s.accounts[address] = cur
}
