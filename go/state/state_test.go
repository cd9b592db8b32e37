// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package state

import (
	"testing"

	"github.com/Fantom-foundation/wordvm/go/evm"
)

func TestState_NewStateIsEmpty(t *testing.T) {
	s := New()
	exists, err := s.AccountExists(evm.Address{1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Errorf("account should not exist in empty state")
	}
	if value, _ := s.GetStorage(evm.Address{1}, evm.NewWord(1)); !value.IsZero() {
		t.Errorf("storage of empty state should be zero, got %v", value)
	}
	if hash, _ := s.GetCodeHash(evm.Address{1}); hash != (evm.Hash{}) {
		t.Errorf("code hash of missing account should be zero, got %v", hash)
	}
}

func TestState_AccountsWithoutCodeHaveEmptyCodeHash(t *testing.T) {
	s := New()
	s.SetBalance(evm.Address{1}, evm.NewWord(5))
	hash, err := s.GetCodeHash(evm.Address{1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := evm.EmptyCodeHash, hash; want != got {
		t.Errorf("unexpected code hash, wanted %v, got %v", want, got)
	}
}

func TestState_SetCodeUpdatesCodeAndHash(t *testing.T) {
	s := New()
	code := evm.Code{0x60, 0x01, 0x00}
	s.SetCode(evm.Address{1}, code)

	got, _ := s.GetCode(evm.Address{1})
	if want := code; string(want) != string(got) {
		t.Errorf("unexpected code, wanted %x, got %x", want, got)
	}
	hash, _ := s.GetCodeHash(evm.Address{1})
	if want := evm.Keccak256(code); want != hash {
		t.Errorf("unexpected code hash, wanted %v, got %v", want, hash)
	}
}

func TestState_Transfer(t *testing.T) {
	from, to := evm.Address{1}, evm.Address{2}
	s := New()
	s.SetBalance(from, evm.NewWord(10))

	if err := s.Transfer(from, to, evm.NewWord(3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := evm.NewWord(7), mustBalance(t, s, from); want != got {
		t.Errorf("unexpected sender balance, wanted %v, got %v", want, got)
	}
	if want, got := evm.NewWord(3), mustBalance(t, s, to); want != got {
		t.Errorf("unexpected receiver balance, wanted %v, got %v", want, got)
	}
	if exists, _ := s.AccountExists(to); !exists {
		t.Errorf("receiver account should have been created")
	}
	if err := s.Transfer(from, to, evm.NewWord(8)); err == nil {
		t.Errorf("expected transfer exceeding the balance to fail")
	}
}

func TestState_RevertToSnapshot_UndoesAllLaterModifications(t *testing.T) {
	addr, key := evm.Address{1}, evm.NewWord(42)
	s := New()
	s.SetBalance(addr, evm.NewWord(100))
	if err := s.SetStorage(addr, key, evm.NewWord(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snapshot := s.Snapshot()
	s.SetStorage(addr, key, evm.NewWord(2))
	s.SetStorage(addr, evm.NewWord(43), evm.NewWord(3))
	s.SetBalance(addr, evm.NewWord(50))
	s.SetCode(evm.Address{2}, evm.Code{0x00})
	s.AccessAccount(evm.Address{3})
	s.AccessStorage(addr, key)

	if err := s.RevertToSnapshot(snapshot); err != nil {
		t.Fatalf("failed to revert: %v", err)
	}

	if want, got := evm.NewWord(1), mustStorage(t, s, addr, key); want != got {
		t.Errorf("unexpected storage value, wanted %v, got %v", want, got)
	}
	if got := mustStorage(t, s, addr, evm.NewWord(43)); !got.IsZero() {
		t.Errorf("new slot should have been removed, got %v", got)
	}
	if want, got := evm.NewWord(100), mustBalance(t, s, addr); want != got {
		t.Errorf("unexpected balance, wanted %v, got %v", want, got)
	}
	if exists, _ := s.AccountExists(evm.Address{2}); exists {
		t.Errorf("account created after snapshot should be gone")
	}
	if want, got := evm.ColdAccess, s.AccessAccount(evm.Address{3}); want != got {
		t.Errorf("account access should be cold after revert")
	}
	if want, got := evm.ColdAccess, s.AccessStorage(addr, key); want != got {
		t.Errorf("slot access should be cold after revert")
	}
}

func TestState_RevertToSnapshot_RejectsInvalidSnapshots(t *testing.T) {
	s := New()
	if err := s.RevertToSnapshot(1); err == nil {
		t.Errorf("expected an error for a snapshot from the future")
	}
	if err := s.RevertToSnapshot(-1); err == nil {
		t.Errorf("expected an error for a negative snapshot")
	}
}

func TestState_AccessTracking(t *testing.T) {
	s := New()
	addr := evm.Address{1}
	if want, got := evm.ColdAccess, s.AccessAccount(addr); want != got {
		t.Errorf("first access should be cold")
	}
	if want, got := evm.WarmAccess, s.AccessAccount(addr); want != got {
		t.Errorf("second access should be warm")
	}
	if want, got := evm.ColdAccess, s.AccessStorage(addr, evm.NewWord(1)); want != got {
		t.Errorf("first slot access should be cold")
	}
	if want, got := evm.WarmAccess, s.AccessStorage(addr, evm.NewWord(1)); want != got {
		t.Errorf("second slot access should be warm")
	}
	if want, got := evm.ColdAccess, s.AccessStorage(addr, evm.NewWord(2)); want != got {
		t.Errorf("access of other slot should be cold")
	}
}

func TestState_Commit_UpdatesCommittedStorageAndClearsAccessLists(t *testing.T) {
	s := New()
	addr, key := evm.Address{1}, evm.NewWord(1)
	s.SetStorage(addr, key, evm.NewWord(7))
	s.AccessAccount(addr)

	if got, _ := s.GetCommittedStorage(addr, key); !got.IsZero() {
		t.Errorf("committed value should be zero before commit, got %v", got)
	}
	s.Commit()
	if want, got := evm.NewWord(7), mustCommitted(t, s, addr, key); want != got {
		t.Errorf("unexpected committed value, wanted %v, got %v", want, got)
	}
	if want, got := evm.ColdAccess, s.AccessAccount(addr); want != got {
		t.Errorf("access lists should be cleared by commit")
	}
	if want, got := evm.Snapshot(1), s.Snapshot(); want != got {
		t.Errorf("journal should only contain the latest access, got snapshot %d", got)
	}
}

func TestState_CopyIsIndependent(t *testing.T) {
	s := New()
	addr, key := evm.Address{1}, evm.NewWord(1)
	s.SetStorage(addr, key, evm.NewWord(1))
	c := s.Copy()
	c.SetStorage(addr, key, evm.NewWord(2))
	if want, got := evm.NewWord(1), mustStorage(t, s, addr, key); want != got {
		t.Errorf("original should be unaffected, wanted %v, got %v", want, got)
	}
}

func TestState_GetStorageKeys(t *testing.T) {
	s := New()
	s.SetStorage(evm.Address{1}, evm.NewWord(1), evm.NewWord(1))
	s.SetStorage(evm.Address{1}, evm.NewWord(2), evm.NewWord(0))
	s.SetStorage(evm.Address{2}, evm.NewWord(3), evm.NewWord(1))
	keys := s.GetStorageKeys(evm.Address{1})
	if len(keys) != 1 || keys[0] != evm.NewWord(1) {
		t.Errorf("unexpected keys: %v", keys)
	}
}

func mustBalance(t *testing.T, s *State, addr evm.Address) evm.Word {
	t.Helper()
	res, err := s.GetBalance(addr)
	if err != nil {
		t.Fatalf("failed to get balance: %v", err)
	}
	return res
}

func mustStorage(t *testing.T, s *State, addr evm.Address, key evm.Word) evm.Word {
	t.Helper()
	res, err := s.GetStorage(addr, key)
	if err != nil {
		t.Fatalf("failed to get storage: %v", err)
	}
	return res
}

func mustCommitted(t *testing.T, s *State, addr evm.Address, key evm.Word) evm.Word {
	t.Helper()
	res, err := s.GetCommittedStorage(addr, key)
	if err != nil {
		t.Fatalf("failed to get committed storage: %v", err)
	}
	return res
}
