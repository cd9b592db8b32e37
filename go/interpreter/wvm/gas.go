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
	"github.com/ethereum/go-ethereum/params"
)

const (
	memoryGas    evm.Gas = evm.Gas(params.MemoryGas)
	quadCoeffDiv uint64  = params.QuadCoeffDiv
	copyGas      evm.Gas = evm.Gas(params.CopyGas)

	expByteGas     evm.Gas = evm.Gas(params.ExpByteEIP158)
	keccak256Gas   evm.Gas = evm.Gas(params.Keccak256Gas)
	keccakWordGas  evm.Gas = evm.Gas(params.Keccak256WordGas)
	logGas         evm.Gas = evm.Gas(params.LogGas)
	logTopicGas    evm.Gas = evm.Gas(params.LogTopicGas)
	logDataGas     evm.Gas = evm.Gas(params.LogDataGas)
	jumpdestGas    evm.Gas = evm.Gas(params.JumpdestGas)
	callStipend    evm.Gas = evm.Gas(params.CallStipend)
	callValueGas   evm.Gas = evm.Gas(params.CallValueTransferGas)
	callNewAccount evm.Gas = evm.Gas(params.CallNewAccountGas)

	warmAccessCost       evm.Gas = evm.Gas(params.WarmStorageReadCostEIP2929)
	coldAccountAccess    evm.Gas = evm.Gas(params.ColdAccountAccessCostEIP2929)
	coldSloadCost        evm.Gas = evm.Gas(params.ColdSloadCostEIP2929)
	coldAccountSurcharge evm.Gas = coldAccountAccess - warmAccessCost

	sstoreSentryGas    evm.Gas = evm.Gas(params.SstoreSentryGasEIP2200)
	sstoreSetGas       evm.Gas = evm.Gas(params.SstoreSetGasEIP2200)
	sstoreResetGas     evm.Gas = evm.Gas(params.SstoreResetGasEIP2200)
	sstoreClearsBerlin evm.Gas = evm.Gas(params.SstoreClearsScheduleRefundEIP2200)
	sstoreClearsLondon evm.Gas = evm.Gas(params.SstoreClearsScheduleRefundEIP3529)
)

// gasMeter tracks the gas still available to a single execution context.
// The remaining gas never drops below zero; a charge exceeding the balance
// fails with OutOfGas and leaves the meter empty.
type gasMeter struct {
	gas evm.Gas
}

func newGasMeter(limit evm.Gas) gasMeter {
	return gasMeter{gas: limit}
}

// charge reduces the remaining gas by the given amount.
func (m *gasMeter) charge(amount evm.Gas) error {
	if amount < 0 || m.gas < amount {
		m.gas = 0
		return evm.OutOfGas
	}
	m.gas -= amount
	return nil
}

// refund returns gas unused by a nested call to this meter.
func (m *gasMeter) refund(amount evm.Gas) {
	if amount > 0 {
		m.gas += amount
	}
}

func (m *gasMeter) remaining() evm.Gas {
	return m.gas
}

// getAccessCost returns the price of touching an account or storage slot
// beyond the warm cost already included in the static price.
func getAccessCost(status evm.AccessStatus) evm.Gas {
	if status == evm.WarmAccess {
		return 0
	}
	return coldAccountSurcharge
}

// getSloadCost returns the full price of an SLOAD, which has no static price.
func getSloadCost(status evm.AccessStatus) evm.Gas {
	if status == evm.WarmAccess {
		return warmAccessCost
	}
	return coldSloadCost
}

// getDynamicCostsForSstore computes the price of an SSTORE with the given
// effect on its slot, excluding the surcharge for a cold slot.
func getDynamicCostsForSstore(status evm.StorageStatus) evm.Gas {
	switch status {
	case evm.StorageAdded:
		return sstoreSetGas
	case evm.StorageModified, evm.StorageDeleted:
		return sstoreResetGas - coldSloadCost
	default:
		return warmAccessCost
	}
}

// getRefundForSstore computes the refund counter change caused by an SSTORE
// with the given effect on its slot. The result may be negative.
func getRefundForSstore(revision evm.Revision, status evm.StorageStatus) evm.Gas {
	clearsRefund := sstoreClearsBerlin
	if revision >= evm.R10_London {
		clearsRefund = sstoreClearsLondon
	}
	restoreRefund := sstoreResetGas - coldSloadCost - warmAccessCost
	switch status {
	case evm.StorageDeleted, evm.StorageModifiedDeleted:
		return clearsRefund
	case evm.StorageDeletedAdded:
		return -clearsRefund
	case evm.StorageDeletedRestored:
		return -clearsRefund + restoreRefund
	case evm.StorageAddedDeleted:
		return sstoreSetGas - warmAccessCost
	case evm.StorageModifiedRestored:
		return restoreRefund
	default:
		return 0
	}
}

// callGas computes the gas forwarded to a nested call. At most all but one
// 64th of the available gas may be passed on.
func callGas(available evm.Gas, requested evm.Word) evm.Gas {
	limit := available - available/64
	if requested.IsUint64() && requested.Uint64() < uint64(limit) {
		return evm.Gas(requested.Uint64())
	}
	return limit
}
