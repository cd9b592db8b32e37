// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package vm

import "testing"

func TestOpCode_Width(t *testing.T) {
	tests := map[OpCode]int{
		STOP:   1,
		ADD:    1,
		PUSH0:  1,
		PUSH1:  2,
		PUSH2:  3,
		PUSH32: 33,
		DUP1:   1,
	}
	for op, want := range tests {
		if got := op.Width(); want != got {
			t.Errorf("unexpected width of %v, wanted %d, got %d", op, want, got)
		}
	}
}

func TestOpCode_StringAndParseRoundTrip(t *testing.T) {
	for i := 0; i < 256; i++ {
		op := OpCode(i)
		if !IsKnown(op) {
			continue
		}
		got, err := ParseOpCode(op.String())
		if err != nil {
			t.Fatalf("failed to parse %v: %v", op, err)
		}
		if want := op; want != got {
			t.Errorf("unexpected op code, wanted %v, got %v", want, got)
		}
	}
}

func TestOpCode_UnknownOpCodesPrintTheirValue(t *testing.T) {
	if want, got := "op(0x0C)", OpCode(0x0C).String(); want != got {
		t.Errorf("unexpected name, wanted %q, got %q", want, got)
	}
	if IsKnown(OpCode(0x0C)) {
		t.Errorf("0x0C should not be a known op code")
	}
	if _, err := ParseOpCode("NOPE"); err == nil {
		t.Errorf("expected an error for an unknown mnemonic")
	}
}

func TestOpCode_IsPush(t *testing.T) {
	for i := 0; i < 256; i++ {
		op := OpCode(i)
		want := op == PUSH0 || (PUSH1 <= op && op <= PUSH32)
		if got := op.IsPush(); want != got {
			t.Errorf("unexpected IsPush for %v, wanted %t, got %t", op, want, got)
		}
	}
}
