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
	"github.com/Fantom-foundation/wordvm/go/evm/vm"
	"github.com/sirupsen/logrus"
)

// loggingRunner is a runner that logs every executed instruction at trace
// level to the given logger.
type loggingRunner struct {
	log logrus.FieldLogger
}

// newLogger creates a new logging runner writing to the given logger. If no
// logger is provided, the standard logger of logrus is used.
func newLogger(log logrus.FieldLogger) loggingRunner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return loggingRunner{log: log}
}

func (l loggingRunner) run(c *context) (status, error) {
	status := statusRunning
	for status == statusRunning {
		if c.pc < len(c.code) {
			top := "-empty-"
			if c.stack.len() > 0 {
				top = c.stack.peek().String()
			}
			l.log.WithFields(logrus.Fields{
				"depth": c.params.Depth,
				"pc":    c.pc,
				"op":    vm.OpCode(c.code[c.pc]),
				"gas":   c.gas.remaining(),
				"top":   top,
			}).Trace("step")
		}
		status = step(c)
	}
	return status, nil
}
