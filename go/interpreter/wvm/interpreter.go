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
	"fmt"

	"github.com/Fantom-foundation/wordvm/go/evm"
	"github.com/Fantom-foundation/wordvm/go/evm/vm"
	"github.com/sirupsen/logrus"
)

// status is enumeration of the execution state of an interpreter run.
type status byte

const (
	statusRunning  status = iota // < all fine, ops are processed
	statusStopped                // < execution stopped with a STOP or at the end of the code
	statusReturned               // < execution stopped with a RETURN
	statusReverted               // < execution stopped with a REVERT
	statusFailed                 // < execution stopped with a logic error
	statusCalling                // < execution is suspended by a nested call
)

func (s status) String() string {
	switch s {
	case statusRunning:
		return "running"
	case statusStopped:
		return "stopped"
	case statusReturned:
		return "returned"
	case statusReverted:
		return "reverted"
	case statusFailed:
		return "failed"
	case statusCalling:
		return "calling"
	default:
		return fmt.Sprintf("status(%d)", s)
	}
}

// context is the execution environment of a single call frame. It contains
// all the necessary state to execute a contract, including input parameters,
// the contract code, and internal execution state such as the program
// counter, stack, and memory. For each call, a new context is created.
type context struct {
	// Inputs
	params    evm.Parameters
	state     evm.StateProvider
	code      evm.Code
	jumpDests *jumpDestinations
	opTable   *[256]opInfo

	// Execution state
	pc     int
	gas    gasMeter
	refund evm.Gas
	stack  *stack
	memory *Memory
	logs   []evm.Log

	// Intermediate data
	returnData []byte // < the result of the last nested contract call
	output     []byte // < the data of a RETURN or REVERT
	err        error  // < the reason of a failed execution

	// Nested call handling
	call         *callRequest // < set while the frame is suspended by a call
	callSnapshot evm.Snapshot // < state snapshot taken before the nested call

	// Shared by all frames of one invocation if statistics are collected.
	collector *statsCollector

	sha3Cache *sha3Cache // < nil if SHA3 results are not cached
}

// useGas charges the given amount to the gas meter of this context.
func (c *context) useGas(amount evm.Gas) error {
	return c.gas.charge(amount)
}

// isAtLeast returns true if the interpreter is running at least at the given
// revision or newer, false otherwise.
func (c *context) isAtLeast(revision evm.Revision) bool {
	return c.params.Revision >= revision
}

// release returns the pooled resources of this context.
func (c *context) release() {
	if c.stack != nil {
		ReturnStack(c.stack)
		c.stack = nil
	}
}

// --- Runners ---

type runner interface {
	// run executes the contract code in the given context until it
	// terminates or gets suspended by a nested call.
	// - Any logical error in the contract execution shall return statusFailed
	//   and record the cause in the context.
	// - error is reserved to return runtime errors, which are not valid states
	//   and may not be recoverable.
	run(*context) (status, error)
}

// vanillaRunner is the default runner that executes the contract code without
// any additional features.
type vanillaRunner struct{}

func (r vanillaRunner) run(c *context) (status, error) {
	return execute(c, false), nil
}

// --- Call Frames ---

// callStack is the bounded stack of active call frames. The frame at index i
// runs at depth root+i; only the top frame is executing.
type callStack struct {
	frames []*context
}

func (s *callStack) push(c *context) {
	s.frames = append(s.frames, c)
}

func (s *callStack) pop() *context {
	top := s.frames[len(s.frames)-1]
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
	return top
}

func (s *callStack) top() *context {
	return s.frames[len(s.frames)-1]
}

func (s *callStack) empty() bool {
	return len(s.frames) == 0
}

func (s *callStack) releaseAll() {
	for !s.empty() {
		s.pop().release()
	}
}

// --- Execution ---

// run executes the given parameters as the root frame and processes all
// nested calls issued by it on an explicit call stack.
func (v *wvm) run(params evm.Parameters) (evm.Result, error) {
	frames := &callStack{frames: make([]*context, 0, 16)}
	defer frames.releaseAll()

	frames.push(v.newContext(params))
	for {
		frame := frames.top()
		status, err := v.runner.run(frame)
		if err != nil {
			return evm.Result{}, err
		}

		if status == statusCalling {
			child, result, err := v.enterCall(frame)
			if err == nil && child != nil {
				frames.push(child)
				continue
			}
			if err == nil {
				err = frame.finishCall(result)
			}
			if err == nil {
				continue
			}
			frame.err = err
			status = statusFailed
		}

		// The top frame has terminated. Hand its result to the parent frames
		// until one of them accepts it or the root frame is reached. Provider
		// failures are not a call outcome; they fail every frame up to the root.
		result := generateResult(status, frame)
		for {
			v.logExit(frame, result)
			frames.pop().release()
			if frames.empty() {
				return result, nil
			}
			parent := frames.top()
			err := result.Err
			if evm.KindOf(err) != evm.StateProviderFailure {
				err = parent.finishCall(result)
			}
			if err == nil {
				break
			}
			parent.err = err
			result = generateResult(statusFailed, parent)
			frame = parent
		}
	}
}

func (v *wvm) newContext(params evm.Parameters) *context {
	return &context{
		params:    params,
		state:     params.State,
		code:      params.Code,
		jumpDests: v.analyzer.analyze(params.Code, params.CodeHash),
		opTable:   getOpTable(params.Revision),
		gas:       newGasMeter(params.Gas),
		stack:     NewStack(),
		memory:    NewMemory(v.config.MaxMemorySize),
		sha3Cache: v.sha3Cache,
	}
}

func (v *wvm) logExit(c *context, result evm.Result) {
	if v.logger == nil {
		return
	}
	entry := v.logger.WithFields(logrus.Fields{
		"depth":    c.params.Depth,
		"kind":     c.params.Kind,
		"outcome":  result.Outcome,
		"gas_used": result.GasUsed,
	})
	if result.Err != nil {
		entry = entry.WithError(result.Err)
	}
	entry.Debug("frame finished")
}

func generateResult(status status, c *context) evm.Result {
	switch status {
	case statusStopped, statusReturned:
		return evm.Result{
			Outcome:   evm.Success,
			Output:    c.output,
			GasUsed:   c.params.Gas - c.gas.remaining(),
			GasLeft:   c.gas.remaining(),
			GasRefund: c.refund,
			Logs:      c.logs,
		}
	case statusReverted:
		return evm.Result{
			Outcome: evm.Revert,
			Output:  c.output,
			GasUsed: c.params.Gas - c.gas.remaining(),
			GasLeft: c.gas.remaining(),
		}
	case statusFailed:
		err := c.err
		if err == nil {
			err = fmt.Errorf("execution failed without a reason")
		}
		return evm.Result{
			Outcome: evm.Failure,
			GasUsed: c.params.Gas,
			Err:     err,
		}
	default:
		return evm.Result{
			Outcome: evm.Failure,
			GasUsed: c.params.Gas,
			Err:     fmt.Errorf("unexpected error in interpreter, unknown status: %v", status),
		}
	}
}

// execute runs the contract code in the given context. If oneStepOnly is true,
// only the instruction pointed to by the program counter will be executed.
// If the contract execution yields any execution violation (i.e. out of gas,
// stack underflow, etc), the cause is recorded in the context and the
// function returns statusFailed.
func execute(c *context, oneStepOnly bool) status {
	status, err := steps(c, oneStepOnly)
	if err != nil {
		c.err = err
		return statusFailed
	}
	return status
}

// step executes the single instruction at the current program counter.
func step(c *context) status {
	return execute(c, true)
}

// steps executes the contract code in the given context,
// If oneStepOnly is true, only the instruction pointed to by the program
// counter will be executed.
// steps returns the status of the execution and an error if the contract
// execution yields any execution violation (i.e. out of gas, stack underflow, etc).
func steps(c *context, oneStepOnly bool) (status, error) {
	for {
		if c.pc >= len(c.code) {
			return statusStopped, nil
		}

		op := vm.OpCode(c.code[c.pc])
		info := &c.opTable[op]
		if !info.valid {
			return statusFailed, evm.InvalidOpcode
		}

		// Consume static gas price for instruction before execution
		if err := c.useGas(info.staticGas); err != nil {
			return statusFailed, err
		}

		// Check stack boundary for every instruction
		if err := checkStackLimits(c.stack.len(), info.pops, info.pushes); err != nil {
			return statusFailed, err
		}

		status := statusRunning
		var err error

		// Execute instruction
		switch op {
		case vm.STOP:
			status = statusStopped
		case vm.POP:
			c.stack.pop()
		case vm.PUSH0:
			c.stack.push(evm.Word{})
		case vm.JUMP:
			err = opJump(c)
		case vm.JUMPI:
			err = opJumpi(c)
		case vm.JUMPDEST:
			// nothing
		case vm.ADD:
			opAdd(c)
		case vm.SUB:
			opSub(c)
		case vm.MUL:
			opMul(c)
		case vm.DIV:
			opDiv(c)
		case vm.SDIV:
			opSDiv(c)
		case vm.MOD:
			opMod(c)
		case vm.SMOD:
			opSMod(c)
		case vm.ADDMOD:
			opAddMod(c)
		case vm.MULMOD:
			opMulMod(c)
		case vm.EXP:
			err = opExp(c)
		case vm.SIGNEXTEND:
			opSignExtend(c)
		case vm.LT:
			opLt(c)
		case vm.GT:
			opGt(c)
		case vm.SLT:
			opSlt(c)
		case vm.SGT:
			opSgt(c)
		case vm.EQ:
			opEq(c)
		case vm.ISZERO:
			opIszero(c)
		case vm.AND:
			opAnd(c)
		case vm.OR:
			opOr(c)
		case vm.XOR:
			opXor(c)
		case vm.NOT:
			opNot(c)
		case vm.BYTE:
			opByte(c)
		case vm.SHL:
			opShl(c)
		case vm.SHR:
			opShr(c)
		case vm.SAR:
			opSar(c)
		case vm.SHA3:
			err = opSha3(c)
		case vm.ADDRESS:
			c.stack.push(evm.WordFromAddress(c.params.Recipient))
		case vm.BALANCE:
			err = opBalance(c)
		case vm.ORIGIN:
			c.stack.push(evm.WordFromAddress(c.params.Origin))
		case vm.CALLER:
			c.stack.push(evm.WordFromAddress(c.params.Sender))
		case vm.CALLVALUE:
			c.stack.push(c.params.Value)
		case vm.CALLDATALOAD:
			opCallDataLoad(c)
		case vm.CALLDATASIZE:
			c.stack.push(evm.NewWord(uint64(len(c.params.Input))))
		case vm.CALLDATACOPY:
			err = genericDataCopy(c, c.params.Input)
		case vm.CODESIZE:
			c.stack.push(evm.NewWord(uint64(len(c.code))))
		case vm.CODECOPY:
			err = genericDataCopy(c, c.code)
		case vm.GASPRICE:
			c.stack.push(c.params.GasPrice)
		case vm.EXTCODESIZE:
			err = opExtCodeSize(c)
		case vm.EXTCODECOPY:
			err = opExtCodeCopy(c)
		case vm.RETURNDATASIZE:
			c.stack.push(evm.NewWord(uint64(len(c.returnData))))
		case vm.RETURNDATACOPY:
			err = opReturnDataCopy(c)
		case vm.EXTCODEHASH:
			err = opExtCodeHash(c)
		case vm.COINBASE:
			c.stack.push(evm.WordFromAddress(c.params.Coinbase))
		case vm.TIMESTAMP:
			c.stack.push(evm.NewWord(uint64(c.params.Timestamp)))
		case vm.NUMBER:
			c.stack.push(evm.NewWord(uint64(c.params.BlockNumber)))
		case vm.PREVRANDAO:
			c.stack.push(evm.WordFromHash(c.params.PrevRandao))
		case vm.GASLIMIT:
			c.stack.push(evm.NewWord(uint64(c.params.GasLimit)))
		case vm.CHAINID:
			c.stack.push(c.params.ChainID)
		case vm.SELFBALANCE:
			err = opSelfBalance(c)
		case vm.BASEFEE:
			c.stack.push(c.params.BaseFee)
		case vm.MLOAD:
			err = opMload(c)
		case vm.MSTORE:
			err = opMstore(c)
		case vm.MSTORE8:
			err = opMstore8(c)
		case vm.SLOAD:
			err = opSload(c)
		case vm.SSTORE:
			err = opSstore(c)
		case vm.PC:
			c.stack.push(evm.NewWord(uint64(c.pc)))
		case vm.MSIZE:
			c.stack.push(evm.NewWord(c.memory.length()))
		case vm.GAS:
			c.stack.push(evm.NewWord(uint64(c.gas.remaining())))
		case vm.LOG0:
			err = opLog(c, 0)
		case vm.LOG1:
			err = opLog(c, 1)
		case vm.LOG2:
			err = opLog(c, 2)
		case vm.LOG3:
			err = opLog(c, 3)
		case vm.LOG4:
			err = opLog(c, 4)
		case vm.CALL:
			status, err = genericCall(c, evm.Call)
		case vm.CALLCODE:
			status, err = genericCall(c, evm.CallCode)
		case vm.DELEGATECALL:
			status, err = genericCall(c, evm.DelegateCall)
		case vm.STATICCALL:
			status, err = genericCall(c, evm.StaticCall)
		case vm.RETURN:
			status, err = opReturn(c, statusReturned)
		case vm.REVERT:
			status, err = opReturn(c, statusReverted)
		default:
			switch {
			case vm.PUSH1 <= op && op <= vm.PUSH32:
				opPush(c, op.ImmediateSize())
			case vm.DUP1 <= op && op <= vm.DUP16:
				c.stack.dup(int(op - vm.DUP1))
			case vm.SWAP1 <= op && op <= vm.SWAP16:
				c.stack.swap(int(op-vm.SWAP1) + 1)
			default:
				err = evm.InvalidOpcode
			}
		}

		if err != nil {
			return statusFailed, err
		}

		c.pc += op.Width()

		if status != statusRunning || oneStepOnly {
			return status, nil
		}
	}
}
