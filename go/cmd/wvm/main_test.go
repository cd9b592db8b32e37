// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	app := newApp()
	app.Writer = stdout
	app.ErrWriter = stderr
	err := app.Run(append([]string{"wvm"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestRun_ExecutesCodeAndPrintsResult(t *testing.T) {
	// PUSH1 1 PUSH1 2 ADD PUSH1 0 MSTORE PUSH1 32 PUSH1 0 RETURN
	out, _, err := runApp(t, "run", "--code", "0x600160020160005260206000f3", "--gas", "100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"outcome:  success",
		"output:   0x0000000000000000000000000000000000000000000000000000000000000003",
		"gas used: 24",
		"gas left: 76",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestRun_ReportsFailures(t *testing.T) {
	out, _, err := runApp(t, "run", "--code", "01", "--gas", "100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "outcome:  error") || !strings.Contains(out, "stack underflow") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRun_ReadsCodeFromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "code.hex")
	if err := os.WriteFile(file, []byte("0x5f3560005260206000f3\n"), 0600); err != nil {
		t.Fatalf("failed to write code: %v", err)
	}
	out, _, err := runApp(t, "run", "--code", "@"+file, "--input", "0x2a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "output:   0x2a00000000000000000000000000000000000000000000000000000000000000") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRun_TraceLogsInstructions(t *testing.T) {
	_, log, err := runApp(t, "run", "--code", "600100", "--trace")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(log, "op=PUSH1") || !strings.Contains(log, "op=STOP") {
		t.Errorf("unexpected log:\n%s", log)
	}
}

func TestRun_StatsArePrinted(t *testing.T) {
	out, _, err := runApp(t, "run", "--code", "600100", "--stats")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Statistics") || !strings.Contains(out, "gas/s") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRun_RejectsInvalidArguments(t *testing.T) {
	tests := map[string][]string{
		"missing code":     {"run"},
		"invalid hex":      {"run", "--code", "0xZZ"},
		"unknown revision": {"run", "--code", "00", "--revision", "Frontier"},
		"invalid value":    {"run", "--code", "00", "--value", "abc"},
		"invalid level":    {"run", "--code", "00", "--verbosity", "loud"},
		"negative gas":     {"run", "--code", "00", "--gas", "-1"},
		"missing file":     {"run", "--code", "@/does/not/exist"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			if _, _, err := runApp(t, args...); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestOpCodes_ListsRevisionSpecificInstructions(t *testing.T) {
	out, _, err := runApp(t, "opcodes", "--revision", "london")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "BASEFEE") {
		t.Errorf("London should support BASEFEE:\n%s", out)
	}
	if strings.Contains(out, "PUSH0") {
		t.Errorf("London should not support PUSH0:\n%s", out)
	}
	if !strings.Contains(out, "0x01   ADD") {
		t.Errorf("unexpected listing:\n%s", out)
	}
}

func TestRun_Sha3OutputDoesNotDependOnCaching(t *testing.T) {
	// PUSH1 32 PUSH1 0 SHA3 PUSH1 0 MSTORE PUSH1 32 PUSH1 0 RETURN
	code := "0x602060002060005260206000f3"
	cached, _, err := runApp(t, "run", "--code", code, "--gas", "1000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	uncached, _, err := runApp(t, "run", "--code", code, "--gas", "1000", "--no-sha-cache")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// keccak256 of 32 zero bytes
	want := "output:   0x290decd9548b62a8d60345a988386fc84ba6bc95484008f6362f93160ef3e563"
	if !strings.Contains(cached, want) || !strings.Contains(uncached, want) {
		t.Errorf("unexpected outputs:\n%s\n%s", cached, uncached)
	}
}
