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

//go:generate mockgen -source interpreter.go -destination interpreter_mock.go -package evm

// Interpreter is a component capable of executing byte-code of the 256-bit
// word machine. Nested contract calls issued by the code are handled by the
// interpreter itself on an explicit call stack. All world-state effects are
// routed through the StateProvider of the parameters.
// To obtain an Interpreter instance, client code should use NewInterpreter()
// provided by the registry file in this package.
type Interpreter interface {
	// Run executes the code provided by the parameters and returns the
	// processing result. The resulting error is nil whenever the code was
	// executed, even if the execution was aborted due to a code-internal
	// issue like running out of gas. Those are reported through the Outcome
	// and Err fields of the result. The error is not nil if the invocation
	// itself was invalid, e.g. because of an unsupported revision or a
	// missing state provider. In such a case the result is undefined.
	// Interpreters are required to be thread-safe. Thus, multiple runs may be
	// conducted in parallel.
	Run(Parameters) (Result, error)
}

// Parameters summarizes the list of input parameters required for executing code.
type Parameters struct {
	BlockParameters
	TransactionParameters
	State     StateProvider
	Kind      CallKind
	Static    bool
	Depth     int
	Gas       Gas
	Recipient Address
	Sender    Address
	Input     Data
	Value     Word
	CodeHash  *Hash // < optional, enables caching of the code analysis
	Code      Code
}

// BlockParameters contains information about the current block.
type BlockParameters struct {
	ChainID     Word
	BlockNumber int64
	Timestamp   int64
	Coinbase    Address
	GasLimit    Gas
	PrevRandao  Hash
	BaseFee     Word
	Revision    Revision
}

// TransactionParameters contains information about current transaction.
type TransactionParameters struct {
	Origin   Address
	GasPrice Word
}

// Outcome is the terminal state of an execution.
type Outcome byte

const (
	Success Outcome = iota // < execution ended with STOP, RETURN, or the end of the code
	Revert                 // < execution ended with REVERT, remaining gas is returned
	Failure                // < execution was aborted by an error, all gas is consumed
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Revert:
		return "revert"
	case Failure:
		return "error"
	default:
		return fmt.Sprintf("Outcome(%d)", o)
	}
}

// Result summarizes the result of a code execution.
type Result struct {
	Outcome   Outcome
	Output    Data  // < return data on success, revert data on revert, empty on error
	GasUsed   Gas   // < the gas limit on error, the consumed gas otherwise
	GasLeft   Gas   // < zero on error
	GasRefund Gas   // < only non-zero on success
	Logs      []Log // < only present on success
	Err       error // < the ErrorKind of a failure, possibly wrapping a cause
}

// Success is true if the execution ended with a STOP, RETURN, or by reaching
// the end of the code.
func (r Result) Success() bool {
	return r.Outcome == Success
}

// DiscardState is true if the world-state effects of the execution have to be
// rolled back by the caller.
func (r Result) DiscardState() bool {
	return r.Outcome != Success
}

// ErrorKind returns the kind of error that terminated a failed execution, or
// NoError if the execution did not fail.
func (r Result) ErrorKind() ErrorKind {
	return KindOf(r.Err)
}

// Data represents the input or output of contract invocations.
type Data []byte

// Gas represents the type used to represent the Gas values.
type Gas int64

// Log is the type summarizing a log message emitted as a side effect of a
// contract execution.
type Log struct {
	Address Address
	Topics  []Hash
	Data    Data
}

// CallKind is an enum enabling the differentiation of the different types
// of recursive contract calls supported by the interpreter.
type CallKind int

const (
	Call CallKind = iota
	DelegateCall
	StaticCall
	CallCode
)

// Revision is an enumeration of the supported instruction set revisions.
// Revisions differ in the set of available instructions and in gas prices.
type Revision int

const (
	R09_Berlin Revision = iota
	R10_London
	R12_Shanghai
	numRevisions int = iota
)

// DefaultRevision is the revision used by tools when none is specified.
const DefaultRevision = R12_Shanghai

// ErrUnsupportedRevision is returned for runs with an unknown revision.
type ErrUnsupportedRevision struct {
	Revision Revision
}

func (e *ErrUnsupportedRevision) Error() string {
	return fmt.Sprintf("unsupported revision %d", e.Revision)
}

// ProfilingInterpreter is an optional extension to the Interpreter interface
// above which may be implemented by interpreters collecting statistical data
// on their executions.
type ProfilingInterpreter interface {
	Interpreter

	// ResetProfile resets the operation statistic collected by the underlying
	// Interpreter implementation. It should not be called while running
	// operations on the Interpreter in parallel.
	ResetProfile()

	// DumpProfile returns a human-readable snapshot of the profiling data
	// collected since the last reset.
	DumpProfile() string
}
