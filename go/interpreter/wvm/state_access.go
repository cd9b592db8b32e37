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

// accessAccount charges the surcharge for touching a cold account.
func accessAccount(c *context, address evm.Address) error {
	return c.useGas(getAccessCost(c.state.AccessAccount(address)))
}

func opBalance(c *context) error {
	top := c.stack.peek()
	address := top.ToAddress()
	if err := accessAccount(c, address); err != nil {
		return err
	}
	balance, err := c.state.GetBalance(address)
	if err != nil {
		return evm.WrapProviderError(err)
	}
	*top = balance
	return nil
}

func opSelfBalance(c *context) error {
	balance, err := c.state.GetBalance(c.params.Recipient)
	if err != nil {
		return evm.WrapProviderError(err)
	}
	c.stack.push(balance)
	return nil
}

func opExtCodeSize(c *context) error {
	top := c.stack.peek()
	address := top.ToAddress()
	if err := accessAccount(c, address); err != nil {
		return err
	}
	code, err := c.state.GetCode(address)
	if err != nil {
		return evm.WrapProviderError(err)
	}
	*top = evm.NewWord(uint64(len(code)))
	return nil
}

func opExtCodeCopy(c *context) error {
	address := c.stack.pop().ToAddress()
	memOffset, codeOffset, size := *c.stack.pop(), *c.stack.pop(), *c.stack.pop()
	if err := accessAccount(c, address); err != nil {
		return err
	}
	code, err := c.state.GetCode(address)
	if err != nil {
		return evm.WrapProviderError(err)
	}
	return copyToMemory(c, code, memOffset, codeOffset, size)
}

func opExtCodeHash(c *context) error {
	top := c.stack.peek()
	address := top.ToAddress()
	if err := accessAccount(c, address); err != nil {
		return err
	}
	exists, err := c.state.AccountExists(address)
	if err != nil {
		return evm.WrapProviderError(err)
	}
	if !exists {
		*top = evm.Word{}
		return nil
	}
	hash, err := c.state.GetCodeHash(address)
	if err != nil {
		return evm.WrapProviderError(err)
	}
	*top = evm.WordFromHash(hash)
	return nil
}

func opSload(c *context) error {
	top := c.stack.peek()
	key := *top
	if err := c.useGas(getSloadCost(c.state.AccessStorage(c.params.Recipient, key))); err != nil {
		return err
	}
	value, err := c.state.GetStorage(c.params.Recipient, key)
	if err != nil {
		return evm.WrapProviderError(err)
	}
	*top = value
	return nil
}

func opSstore(c *context) error {
	if c.params.Static {
		return evm.WriteProtection
	}

	// EIP-2200: SSTORE requires more gas than a call stipend provides.
	if c.gas.remaining() <= sstoreSentryGas {
		return evm.OutOfGas
	}

	key, value := *c.stack.pop(), *c.stack.pop()
	address := c.params.Recipient

	cost := evm.Gas(0)
	if c.state.AccessStorage(address, key) == evm.ColdAccess {
		cost += coldSloadCost
	}

	original, err := c.state.GetCommittedStorage(address, key)
	if err != nil {
		return evm.WrapProviderError(err)
	}
	current, err := c.state.GetStorage(address, key)
	if err != nil {
		return evm.WrapProviderError(err)
	}
	storageStatus := evm.GetStorageStatus(original, current, value)

	cost += getDynamicCostsForSstore(storageStatus)
	if err := c.useGas(cost); err != nil {
		return err
	}
	c.refund += getRefundForSstore(c.params.Revision, storageStatus)

	if current == value {
		return nil
	}
	if err := c.state.SetStorage(address, key, value); err != nil {
		return evm.WrapProviderError(err)
	}
	return nil
}
