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

import "fmt"

//go:generate mockgen -source state_provider.go -destination state_provider_mock.go -package evm

// StateProvider is the interface through which the interpreter reads and
// modifies the world state: account balances, code, and persistent storage.
// It also tracks warm/cold access sets of the ongoing transaction and offers
// snapshots which the interpreter uses to roll back the effects of nested
// calls that revert or fail.
//
// Errors returned by a provider abort the current execution with a
// StateProviderFailure.
type StateProvider interface {
	AccountExists(Address) (bool, error)

	GetBalance(Address) (Word, error)
	// Transfer moves value from one account to another. The caller is
	// responsible for checking that the sender's balance is sufficient.
	Transfer(from, to Address, value Word) error

	GetCode(Address) (Code, error)
	GetCodeHash(Address) (Hash, error)

	GetStorage(addr Address, key Word) (Word, error)
	SetStorage(addr Address, key Word, value Word) error
	// GetCommittedStorage returns the value of the slot at the beginning of
	// the current transaction.
	GetCommittedStorage(addr Address, key Word) (Word, error)

	// AccessAccount marks the account as accessed and returns whether it was
	// accessed before in the current transaction.
	AccessAccount(Address) AccessStatus
	// AccessStorage marks the slot as accessed and returns whether it was
	// accessed before in the current transaction.
	AccessStorage(Address, Word) AccessStatus

	Snapshot() Snapshot
	RevertToSnapshot(Snapshot) error
}

// AccessStatus reports whether an account or slot was touched before within
// the current transaction (EIP-2929).
type AccessStatus bool

const (
	ColdAccess AccessStatus = false
	WarmAccess AccessStatus = true
)

// Snapshot identifies a point in the history of state modifications which
// can be restored.
type Snapshot int

// StorageStatus classifies an SSTORE by the slot's original value (at the
// start of the transaction), its current value, and the value written. The
// classes determine the costs and refunds of the update (EIP-2200).
type StorageStatus int

// In the comments, 0 is zero and X, Y, Z are distinct non-zero values,
// listed as original -> current -> new.
const (
	StorageAssigned         StorageStatus = iota // no effect on costs or refunds
	StorageAdded                                 // 0 -> 0 -> Z
	StorageDeleted                               // X -> X -> 0
	StorageModified                              // X -> X -> Z
	StorageDeletedAdded                          // X -> 0 -> Z
	StorageModifiedDeleted                       // X -> Y -> 0
	StorageDeletedRestored                       // X -> 0 -> X
	StorageAddedDeleted                          // 0 -> Y -> 0
	StorageModifiedRestored                      // X -> Y -> X
	numStorageStatus
)

var storageStatusNames = [numStorageStatus]string{
	"StorageAssigned",
	"StorageAdded",
	"StorageDeleted",
	"StorageModified",
	"StorageDeletedAdded",
	"StorageModifiedDeleted",
	"StorageDeletedRestored",
	"StorageAddedDeleted",
	"StorageModifiedRestored",
}

func (s StorageStatus) String() string {
	if s < 0 || s >= numStorageStatus {
		return fmt.Sprintf("StorageStatus(%d)", int(s))
	}
	return storageStatusNames[s]
}

// GetStorageStatus classifies the update of a slot holding the given
// original and current values to the new value.
func GetStorageStatus(original, current, new Word) StorageStatus {
	if current == new {
		return StorageAssigned
	}

	// First update of the slot within the transaction.
	if original == current {
		switch {
		case original.IsZero():
			return StorageAdded
		case new.IsZero():
			return StorageDeleted
		default:
			return StorageModified
		}
	}

	// The slot is dirty.
	switch {
	case original.IsZero():
		if new.IsZero() {
			return StorageAddedDeleted
		}
	case current.IsZero():
		if new == original {
			return StorageDeletedRestored
		}
		return StorageDeletedAdded
	case new.IsZero():
		return StorageModifiedDeleted
	case new == original:
		return StorageModifiedRestored
	}
	return StorageAssigned
}
