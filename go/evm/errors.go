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

import (
	"errors"
	"fmt"
)

// ConstError is an error type that can be used to define immutable
// error constants.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

// ErrorKind enumerates the reasons for which an execution may be aborted.
// Each kind is itself an error, so results can be checked using errors.Is.
type ErrorKind byte

const (
	NoError ErrorKind = iota
	StackUnderflow
	StackOverflow
	OutOfGas
	InvalidOpcode
	InvalidJump
	MemoryLimitExceeded
	StateProviderFailure
	CallDepthExceeded
	WriteProtection
	ReturnDataOutOfBounds
	numErrorKinds
)

func (k ErrorKind) Error() string {
	switch k {
	case NoError:
		return "no error"
	case StackUnderflow:
		return "stack underflow"
	case StackOverflow:
		return "stack overflow"
	case OutOfGas:
		return "out of gas"
	case InvalidOpcode:
		return "invalid opcode"
	case InvalidJump:
		return "invalid jump destination"
	case MemoryLimitExceeded:
		return "memory limit exceeded"
	case StateProviderFailure:
		return "state provider failure"
	case CallDepthExceeded:
		return "call depth exceeded"
	case WriteProtection:
		return "write protection"
	case ReturnDataOutOfBounds:
		return "return data out of bounds"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

func (k ErrorKind) String() string {
	return k.Error()
}

// KindOf extracts the ErrorKind from the given error chain. It returns
// NoError for nil and for errors not carrying a kind.
func KindOf(err error) ErrorKind {
	var kind ErrorKind
	if errors.As(err, &kind) {
		return kind
	}
	return NoError
}

// WrapProviderError marks an error reported by a StateProvider such that it
// is identified as a StateProviderFailure while retaining the original cause.
func WrapProviderError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", StateProviderFailure, err)
}
