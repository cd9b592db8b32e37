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
	"github.com/sirupsen/logrus"
)

// callRequest describes a nested call issued by a suspended frame.
type callRequest struct {
	kind        evm.CallKind
	gas         evm.Gas // < gas reserved for the call, including any stipend
	codeAddress evm.Address
	recipient   evm.Address
	sender      evm.Address
	value       evm.Word
	transfer    bool // < whether value is moved from sender to recipient
	input       []byte
	output      []byte // < memory region receiving the call's output
}

// genericCall implements CALL, CALLCODE, DELEGATECALL, and STATICCALL. It
// charges all costs of the call, reserves the gas for the nested frame, and
// suspends the current frame. The dispatcher resumes the frame through
// finishCall once the nested call is completed.
func genericCall(c *context, kind evm.CallKind) (status, error) {
	stack := c.stack
	value := evm.Word{}

	// Pop call parameters.
	providedGas, target := *stack.pop(), stack.pop().ToAddress()
	if kind == evm.Call || kind == evm.CallCode {
		value = *stack.pop()
	}
	inOffset, inSize, retOffset, retSize := *stack.pop(), *stack.pop(), *stack.pop(), *stack.pop()

	if kind == evm.Call && c.params.Static && !value.IsZero() {
		return statusFailed, evm.WriteProtection
	}

	inStart, inLength, err := toMemoryRange(inOffset, inSize)
	if err != nil {
		return statusFailed, err
	}
	retStart, retLength, err := toMemoryRange(retOffset, retSize)
	if err != nil {
		return statusFailed, err
	}

	// Both memory regions are expanded before the call, the output region
	// is fetched again after the call since the input expansion may have
	// moved the memory.
	if err := c.memory.expandMemory(inStart, inLength, &c.gas); err != nil {
		return statusFailed, err
	}
	if err := c.memory.expandMemory(retStart, retLength, &c.gas); err != nil {
		return statusFailed, err
	}

	if err := accessAccount(c, target); err != nil {
		return statusFailed, err
	}

	if !value.IsZero() {
		if err := c.useGas(callValueGas); err != nil {
			return statusFailed, err
		}
	}

	// Non-zero value calls creating a new account are charged an additional fee.
	if kind == evm.Call && !value.IsZero() {
		exists, err := c.state.AccountExists(target)
		if err != nil {
			return statusFailed, evm.WrapProviderError(err)
		}
		if !exists {
			if err := c.useGas(callNewAccount); err != nil {
				return statusFailed, err
			}
		}
	}

	// EIP-150: all but one 64th of the available gas may be passed on.
	nestedCallGas := callGas(c.gas.remaining(), providedGas)
	if err := c.useGas(nestedCallGas); err != nil {
		return statusFailed, err
	}
	if !value.IsZero() {
		nestedCallGas += callStipend
	}

	input, err := c.memory.getSlice(inStart, inLength, &c.gas)
	if err != nil {
		return statusFailed, err
	}
	output, err := c.memory.getSlice(retStart, retLength, &c.gas)
	if err != nil {
		return statusFailed, err
	}

	request := &callRequest{
		kind:        kind,
		gas:         nestedCallGas,
		codeAddress: target,
		input:       input,
		output:      output,
	}
	switch kind {
	case evm.Call, evm.StaticCall:
		request.sender = c.params.Recipient
		request.recipient = target
		request.value = value
		request.transfer = !value.IsZero()
	case evm.CallCode:
		request.sender = c.params.Recipient
		request.recipient = c.params.Recipient
		request.value = value
	case evm.DelegateCall:
		request.sender = c.params.Sender
		request.recipient = c.params.Recipient
		request.value = c.params.Value
	}

	c.call = request
	return statusCalling, nil
}

// enterCall processes the call request of the given suspended frame. It
// returns the frame of the nested call, or, if no frame needs to be run, the
// result of the call. An error indicates a failure of the suspended frame.
func (v *wvm) enterCall(c *context) (*context, evm.Result, error) {
	request := c.call
	c.callSnapshot = c.state.Snapshot()

	// Calls that can not be started return the reserved gas.
	rejected := func(err error) (*context, evm.Result, error) {
		return nil, evm.Result{
			Outcome: evm.Failure,
			GasLeft: request.gas,
			Err:     err,
		}, nil
	}

	depth := c.params.Depth + 1
	if depth > v.config.MaxCallDepth {
		return rejected(evm.CallDepthExceeded)
	}

	// The sender must be able to cover the transferred value.
	if request.kind == evm.Call || request.kind == evm.CallCode {
		if !request.value.IsZero() {
			balance, err := c.state.GetBalance(c.params.Recipient)
			if err != nil {
				return nil, evm.Result{}, evm.WrapProviderError(err)
			}
			if balance.Lt(request.value) {
				return rejected(nil)
			}
		}
	}

	if request.transfer {
		if err := c.state.Transfer(request.sender, request.recipient, request.value); err != nil {
			return nil, evm.Result{}, evm.WrapProviderError(err)
		}
	}

	code, err := c.state.GetCode(request.codeAddress)
	if err != nil {
		return nil, evm.Result{}, evm.WrapProviderError(err)
	}
	if len(code) == 0 {
		return nil, evm.Result{Outcome: evm.Success, GasLeft: request.gas}, nil
	}
	codeHash, err := c.state.GetCodeHash(request.codeAddress)
	if err != nil {
		return nil, evm.Result{}, evm.WrapProviderError(err)
	}

	params := evm.Parameters{
		BlockParameters:       c.params.BlockParameters,
		TransactionParameters: c.params.TransactionParameters,
		State:                 c.state,
		Kind:                  request.kind,
		Static:                c.params.Static || request.kind == evm.StaticCall,
		Depth:                 depth,
		Gas:                   request.gas,
		Recipient:             request.recipient,
		Sender:                request.sender,
		Input:                 request.input,
		Value:                 request.value,
		CodeHash:              &codeHash,
		Code:                  code,
	}

	if v.logger != nil {
		v.logger.WithFields(logrus.Fields{
			"depth":     depth,
			"kind":      request.kind,
			"gas":       request.gas,
			"recipient": request.recipient,
		}).Debug("frame started")
	}

	child := v.newContext(params)
	child.collector = c.collector
	return child, evm.Result{}, nil
}

// finishCall resumes a suspended frame with the result of its nested call.
// Effects of calls not ending successfully are rolled back. An error
// indicates that the frame itself has to fail.
func (c *context) finishCall(result evm.Result) error {
	request := c.call
	c.call = nil

	if !result.Success() {
		if err := c.state.RevertToSnapshot(c.callSnapshot); err != nil {
			return evm.WrapProviderError(err)
		}
	}

	c.gas.refund(result.GasLeft)
	c.returnData = result.Output

	success := result.Success()
	if success {
		c.refund += result.GasRefund
		c.logs = append(c.logs, result.Logs...)
	}
	if request != nil && result.Outcome != evm.Failure {
		copy(request.output, result.Output)
	}
	c.stack.push(evm.WordFromBool(success))
	return nil
}
