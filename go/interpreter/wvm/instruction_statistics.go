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
	"sort"
	"strings"
	"sync"

	"github.com/Fantom-foundation/wordvm/go/evm/vm"
	"github.com/dsnet/golib/unitconv"
	"golang.org/x/exp/maps"
)

// statisticRunner counts executed instructions and short instruction
// sequences over all runs of an interpreter instance.
type statisticRunner struct {
	mutex sync.Mutex
	stats *statistics
}

// run executes one segment of a frame. The collector is shared with the
// frame's callers and callees, so sequences spanning a nested call are
// counted in execution order. Counts are flushed after every segment.
func (s *statisticRunner) run(c *context) (status, error) {
	if c.collector == nil {
		c.collector = &statsCollector{stats: newStatistics()}
	}
	collector := c.collector
	status := statusRunning
	for status == statusRunning {
		if c.pc < len(c.code) {
			collector.nextOp(vm.OpCode(c.code[c.pc]))
		}
		status = step(c)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.stats == nil {
		s.stats = newStatistics()
	}
	s.stats.merge(collector.stats)
	collector.stats = newStatistics()
	return status, nil
}

func (s *statisticRunner) getSummary() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.stats == nil {
		s.stats = newStatistics()
	}
	return s.stats.print()
}

func (s *statisticRunner) reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.stats = newStatistics()
}

const maxSequenceLength = 3

// sequence is a run of consecutively executed instructions.
type sequence struct {
	ops    [maxSequenceLength]vm.OpCode
	length int
}

func newSequence(ops ...vm.OpCode) sequence {
	res := sequence{length: len(ops)}
	copy(res.ops[:], ops)
	return res
}

func (s sequence) String() string {
	var builder strings.Builder
	for _, op := range s.ops[:s.length] {
		fmt.Fprintf(&builder, "%-30v", op)
	}
	return builder.String()
}

type statistics struct {
	steps  uint64
	counts map[sequence]uint64
}

func newStatistics() *statistics {
	return &statistics{counts: map[sequence]uint64{}}
}

func (s *statistics) merge(other *statistics) {
	s.steps += other.steps
	for seq, count := range other.counts {
		s.counts[seq] += count
	}
}

// top returns the n most frequent sequences of the given length, ties are
// broken by op codes.
func (s *statistics) top(length, n int) []sequence {
	res := maps.Keys(s.counts)
	res = filter(res, func(seq sequence) bool { return seq.length == length })
	sort.Slice(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if s.counts[a] != s.counts[b] {
			return s.counts[a] > s.counts[b]
		}
		for k := 0; k < length; k++ {
			if a.ops[k] != b.ops[k] {
				return a.ops[k] < b.ops[k]
			}
		}
		return false
	})
	if len(res) > n {
		res = res[:n]
	}
	return res
}

func filter[T any](list []T, keep func(T) bool) []T {
	res := list[:0]
	for _, cur := range list {
		if keep(cur) {
			res = append(res, cur)
		}
	}
	return res
}

// print renders the most frequent sequences of each length.
func (s *statistics) print() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "\n----- Statistics ------\n")
	fmt.Fprintf(&builder, "\nSteps: %d (%s)\n", s.steps, unitconv.FormatPrefix(float64(s.steps), unitconv.SI, 1))
	for length, title := range []string{"Singles", "Pairs", "Triples"} {
		fmt.Fprintf(&builder, "\n%s:\n", title)
		for _, seq := range s.top(length+1, 5) {
			count := s.counts[seq]
			fmt.Fprintf(&builder, "\t%v: %d (%.2f%%)\n", seq, count, float64(count*100)/float64(s.steps))
		}
	}
	builder.WriteString("\n")
	return builder.String()
}

// statsCollector tracks the recent instruction history of a single run.
type statsCollector struct {
	stats   *statistics
	history [maxSequenceLength]vm.OpCode
	seen    int
}

func (c *statsCollector) nextOp(op vm.OpCode) {
	copy(c.history[:], c.history[1:])
	c.history[maxSequenceLength-1] = op
	c.seen++
	c.stats.steps++
	for length := 1; length <= maxSequenceLength && length <= c.seen; length++ {
		c.stats.counts[newSequence(c.history[maxSequenceLength-length:]...)]++
	}
}
