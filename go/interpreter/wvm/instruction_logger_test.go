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
	"bytes"
	"strings"
	"testing"

	"github.com/Fantom-foundation/wordvm/go/evm/vm"
	"github.com/Fantom-foundation/wordvm/go/state"
	"github.com/sirupsen/logrus"
)

func newBufferLogger(level logrus.Level) (*logrus.Logger, *bytes.Buffer) {
	buffer := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(buffer)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	return logger, buffer
}

func TestLogger_ExecutesCodeAndLogs(t *testing.T) {
	tests := map[string]struct {
		code []byte
		want []string
	}{
		"empty": {},
		"stop": {
			code: assemble(vm.STOP),
			want: []string{"op=STOP pc=0"},
		},
		"multiple codes": {
			code: assemble(vm.PUSH4, 0, 0, 0, 1, vm.STOP),
			want: []string{"op=PUSH4 pc=0 top=-empty-", "gas=7 op=STOP pc=5 top=0x1"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			logger, buffer := newBufferLogger(logrus.TraceLevel)
			interpreter := newTestInterpreter(t, Config{WithTracing: true, Logger: logger})

			result, err := interpreter.Run(newTestParameters(state.New(), test.code, 10))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.Success() {
				t.Fatalf("unexpected failure: %v", result.Err)
			}

			log := buffer.String()
			if want, got := len(test.code) > 0, strings.Contains(log, "msg=step"); want != got {
				t.Errorf("unexpected presence of step entries in log:\n%s", log)
			}
			for _, want := range test.want {
				if !strings.Contains(log, want) {
					t.Errorf("log does not contain %q:\n%s", want, log)
				}
			}
		})
	}
}

func TestLogger_StepsAreNotLoggedAboveTraceLevel(t *testing.T) {
	logger, buffer := newBufferLogger(logrus.DebugLevel)
	interpreter := newTestInterpreter(t, Config{WithTracing: true, Logger: logger})

	if _, err := interpreter.Run(newTestParameters(state.New(), assemble(vm.PUSH1, 1, vm.STOP), 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log := buffer.String()
	if strings.Contains(log, "msg=step") {
		t.Errorf("steps should only be logged at trace level:\n%s", log)
	}
	if !strings.Contains(log, "frame finished") {
		t.Errorf("frame results should be logged at debug level:\n%s", log)
	}
}

func TestLogger_NestedFramesAreLogged(t *testing.T) {
	logger, buffer := newBufferLogger(logrus.DebugLevel)
	interpreter := newTestInterpreter(t, Config{Logger: logger})

	world := state.New()
	world.SetCode(calleeAddress, assemble(vm.PUSH1, 0, vm.PUSH1, 0, vm.REVERT))
	code := callAndReturn(vm.CALL, calleeAddress, 0)
	world.SetCode(contractAddress, code)

	result, err := interpreter.Run(newTestParameters(world, code, 100000))
	if err != nil || !result.Success() {
		t.Fatalf("unexpected failure: %v, %v", err, result.Err)
	}

	log := buffer.String()
	for _, want := range []string{"frame started", "depth=1", "outcome=revert", "outcome=success"} {
		if !strings.Contains(log, want) {
			t.Errorf("log does not contain %q:\n%s", want, log)
		}
	}
}

func TestLogger_DefaultsToStandardLogger(t *testing.T) {
	runner := newLogger(nil)
	if runner.log != logrus.StandardLogger() {
		t.Errorf("expected the standard logger to be used")
	}
}
