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
	"testing"
)

func TestConstError_Error(t *testing.T) {
	const myError = ConstError("this is a constant error")
	if want, got := "this is a constant error", myError.Error(); want != got {
		t.Errorf("unexpected error message, wanted %q, got %q", want, got)
	}
	if !errors.Is(myError, ConstError("this is a constant error")) {
		t.Errorf("constant errors with equal messages should be equal")
	}
}

func TestErrorKind_AllKindsHaveDistinctMessages(t *testing.T) {
	seen := map[string]ErrorKind{}
	for kind := NoError; kind < numErrorKinds; kind++ {
		msg := kind.Error()
		if other, found := seen[msg]; found {
			t.Errorf("kinds %d and %d share message %q", other, kind, msg)
		}
		seen[msg] = kind
	}
}

func TestKindOf_ExtractsKindFromWrappedErrors(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	tests := map[string]struct {
		err  error
		want ErrorKind
	}{
		"nil":              {nil, NoError},
		"plain kind":       {OutOfGas, OutOfGas},
		"unrelated":        {cause, NoError},
		"wrapped kind":     {fmt.Errorf("in frame 3: %w", InvalidJump), InvalidJump},
		"provider failure": {WrapProviderError(cause), StateProviderFailure},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if want, got := test.want, KindOf(test.err); want != got {
				t.Errorf("unexpected kind, wanted %v, got %v", want, got)
			}
		})
	}
}

func TestWrapProviderError_RetainsCause(t *testing.T) {
	cause := ConstError("lookup failed")
	err := WrapProviderError(cause)
	if !errors.Is(err, cause) {
		t.Errorf("wrapped error should retain the cause")
	}
	if !errors.Is(err, StateProviderFailure) {
		t.Errorf("wrapped error should be a state provider failure")
	}
	if WrapProviderError(nil) != nil {
		t.Errorf("wrapping nil should yield nil")
	}
}

func TestResult_ErrorKindAndStateHandling(t *testing.T) {
	tests := map[string]struct {
		result  Result
		success bool
		discard bool
		kind    ErrorKind
	}{
		"success": {Result{Outcome: Success}, true, false, NoError},
		"revert":  {Result{Outcome: Revert}, false, true, NoError},
		"failure": {Result{Outcome: Failure, Err: OutOfGas}, false, true, OutOfGas},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if want, got := test.success, test.result.Success(); want != got {
				t.Errorf("unexpected success, wanted %t, got %t", want, got)
			}
			if want, got := test.discard, test.result.DiscardState(); want != got {
				t.Errorf("unexpected discard flag, wanted %t, got %t", want, got)
			}
			if want, got := test.kind, test.result.ErrorKind(); want != got {
				t.Errorf("unexpected kind, wanted %v, got %v", want, got)
			}
		})
	}
}
