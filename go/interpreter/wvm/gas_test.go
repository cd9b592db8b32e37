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
	"errors"
	"math"
	"testing"

	"github.com/Fantom-foundation/wordvm/go/evm"
)

func TestGasMeter_Charge(t *testing.T) {
	meter := newGasMeter(10)
	if err := meter.charge(4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := evm.Gas(6), meter.remaining(); want != got {
		t.Errorf("unexpected remaining gas, wanted %d, got %d", want, got)
	}
	if err := meter.charge(6); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := evm.Gas(0), meter.remaining(); want != got {
		t.Errorf("unexpected remaining gas, wanted %d, got %d", want, got)
	}
}

func TestGasMeter_ChargeBeyondRemainingDrainsMeter(t *testing.T) {
	for _, amount := range []evm.Gas{11, math.MaxInt64, -1} {
		meter := newGasMeter(10)
		if err := meter.charge(amount); !errors.Is(err, evm.OutOfGas) {
			t.Errorf("unexpected error for %d, wanted %v, got %v", amount, evm.OutOfGas, err)
		}
		if want, got := evm.Gas(0), meter.remaining(); want != got {
			t.Errorf("gas should be drained, got %d", got)
		}
	}
}

func TestGasMeter_RefundIgnoresNegativeAmounts(t *testing.T) {
	meter := newGasMeter(10)
	meter.refund(5)
	meter.refund(-100)
	if want, got := evm.Gas(15), meter.remaining(); want != got {
		t.Errorf("unexpected remaining gas, wanted %d, got %d", want, got)
	}
}

func TestGas_AccessCosts(t *testing.T) {
	if want, got := evm.Gas(0), getAccessCost(evm.WarmAccess); want != got {
		t.Errorf("unexpected warm access surcharge, wanted %d, got %d", want, got)
	}
	if want, got := evm.Gas(2500), getAccessCost(evm.ColdAccess); want != got {
		t.Errorf("unexpected cold access surcharge, wanted %d, got %d", want, got)
	}
	if want, got := evm.Gas(100), getSloadCost(evm.WarmAccess); want != got {
		t.Errorf("unexpected warm sload costs, wanted %d, got %d", want, got)
	}
	if want, got := evm.Gas(2100), getSloadCost(evm.ColdAccess); want != got {
		t.Errorf("unexpected cold sload costs, wanted %d, got %d", want, got)
	}
}

func TestGas_SstoreCostsAndRefunds(t *testing.T) {
	tests := map[evm.StorageStatus]struct {
		cost         evm.Gas
		berlinRefund evm.Gas
		londonRefund evm.Gas
	}{
		evm.StorageAssigned:         {100, 0, 0},
		evm.StorageAdded:            {20000, 0, 0},
		evm.StorageDeleted:          {2900, 15000, 4800},
		evm.StorageModified:         {2900, 0, 0},
		evm.StorageDeletedAdded:     {100, -15000, -4800},
		evm.StorageModifiedDeleted:  {100, 15000, 4800},
		evm.StorageDeletedRestored:  {100, -15000 + 2800, -4800 + 2800},
		evm.StorageAddedDeleted:     {100, 19900, 19900},
		evm.StorageModifiedRestored: {100, 2800, 2800},
	}
	for status, test := range tests {
		t.Run(status.String(), func(t *testing.T) {
			if want, got := test.cost, getDynamicCostsForSstore(status); want != got {
				t.Errorf("unexpected costs, wanted %d, got %d", want, got)
			}
			if want, got := test.berlinRefund, getRefundForSstore(evm.R09_Berlin, status); want != got {
				t.Errorf("unexpected Berlin refund, wanted %d, got %d", want, got)
			}
			if want, got := test.londonRefund, getRefundForSstore(evm.R10_London, status); want != got {
				t.Errorf("unexpected London refund, wanted %d, got %d", want, got)
			}
			if want, got := test.londonRefund, getRefundForSstore(evm.R12_Shanghai, status); want != got {
				t.Errorf("unexpected Shanghai refund, wanted %d, got %d", want, got)
			}
		})
	}
}

func TestGas_CallGas_LimitsToAllButOne64th(t *testing.T) {
	tests := []struct {
		available evm.Gas
		requested evm.Word
		want      evm.Gas
	}{
		{6400, evm.NewWord(100), 100},
		{6400, evm.NewWord(6300), 6300},
		{6400, evm.NewWord(6301), 6300},
		{6400, evm.MaxWord(), 6300},
		{0, evm.NewWord(10), 0},
		{63, evm.NewWord(1000), 63},
	}
	for _, test := range tests {
		if want, got := test.want, callGas(test.available, test.requested); want != got {
			t.Errorf("callGas(%d, %v) = %d, want %d", test.available, test.requested, got, want)
		}
	}
}
