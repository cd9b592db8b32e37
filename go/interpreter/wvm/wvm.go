// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package wvm implements an interpreter for the 256-bit word machine. It
// executes byte code directly, validates jumps against a cached analysis of
// the code, and runs nested calls on an explicit stack of call frames.
package wvm

import (
	"fmt"
	"sync"

	"github.com/Fantom-foundation/wordvm/go/evm"
	"github.com/Fantom-foundation/wordvm/go/state"
	"github.com/ethereum/go-ethereum/params"
	"github.com/sirupsen/logrus"
)

// Registers the word machine as a possible interpreter implementation.
func init() {
	configs := map[string]Config{
		// The default configuration to be used for production purposes.
		"wvm": {WithShaCache: true},

		// Hashes every SHA3 input on demand.
		"wvm-no-sha-cache": {},

		// Disables the caching of code analysis results.
		"wvm-no-cache": {AnalysisCacheSize: -1},

		// Logs every executed instruction at trace level.
		"wvm-logging": {WithTracing: true},

		// Collects instruction statistics, see evm.ProfilingInterpreter.
		"wvm-stats": {WithStatistics: true},
	}

	for name, config := range configs {
		config := config
		evm.MustRegisterInterpreterFactory(name, func(any) (evm.Interpreter, error) {
			return NewInterpreter(config)
		})
	}
}

const (
	defaultAnalysisCacheSize = 1 << 12
	defaultMaxCallDepth      = int(params.CallCreateDepth)
)

// Config summarizes the configuration options of the interpreter.
type Config struct {
	// AnalysisCacheSize is the number of jump destination analyses retained
	// for reuse. Zero selects the default size, negative values disable the
	// cache.
	AnalysisCacheSize int
	// MaxCallDepth is the maximum depth of nested calls. Zero selects 1024.
	MaxCallDepth int
	// MaxMemorySize is the maximum memory size of a single frame in bytes.
	// Zero selects 32 MiB.
	MaxMemorySize uint64
	// Logger receives frame-level debug logs and, if tracing is enabled, a
	// trace entry for every instruction. If nil, frame logs are discarded
	// and traces go to the logrus standard logger.
	Logger logrus.FieldLogger
	// WithTracing enables the logging of every executed instruction.
	WithTracing bool
	// WithStatistics enables the collection of instruction statistics.
	WithStatistics bool
	// WithShaCache enables caching of SHA3 results for 32 and 64 byte inputs.
	WithShaCache bool
}

type wvm struct {
	config    Config
	analyzer  *analyzer
	runner    runner
	logger    logrus.FieldLogger
	sha3Cache *sha3Cache
}

// NewInterpreter creates a new interpreter instance using the given
// configuration.
func NewInterpreter(config Config) (*wvm, error) {
	if config.WithTracing && config.WithStatistics {
		return nil, fmt.Errorf("invalid configuration: tracing and statistics can not be combined")
	}
	if config.MaxCallDepth < 0 {
		return nil, fmt.Errorf("invalid configuration: negative call depth %d", config.MaxCallDepth)
	}
	if config.MaxCallDepth == 0 {
		config.MaxCallDepth = defaultMaxCallDepth
	}
	if config.AnalysisCacheSize == 0 {
		config.AnalysisCacheSize = defaultAnalysisCacheSize
	}

	analyzer, err := newAnalyzer(config.AnalysisCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create code analyzer: %w", err)
	}

	res := &wvm{
		config:   config,
		analyzer: analyzer,
		runner:   vanillaRunner{},
		logger:   config.Logger,
	}
	if config.WithShaCache {
		res.sha3Cache, err = newSha3Cache(defaultSha3Cache32Size, defaultSha3Cache64Size)
		if err != nil {
			return nil, fmt.Errorf("failed to create SHA3 cache: %w", err)
		}
	}
	if config.WithTracing {
		res.runner = newLogger(config.Logger)
	}
	if config.WithStatistics {
		res.runner = &statisticRunner{stats: newStatistics()}
	}
	return res, nil
}

// Defines the newest supported revision for this interpreter implementation
const newestSupportedRevision = evm.R12_Shanghai

const (
	errMissingStateProvider = evm.ConstError("missing state provider")
	errNegativeGas          = evm.ConstError("negative gas limit")
)

func (v *wvm) Run(params evm.Parameters) (evm.Result, error) {
	if params.Revision < evm.R09_Berlin || params.Revision > newestSupportedRevision {
		return evm.Result{}, &evm.ErrUnsupportedRevision{Revision: params.Revision}
	}
	if params.State == nil {
		return evm.Result{}, errMissingStateProvider
	}
	if params.Gas < 0 {
		return evm.Result{}, errNegativeGas
	}
	if params.Depth > v.config.MaxCallDepth {
		return evm.Result{
			Outcome: evm.Failure,
			GasUsed: params.Gas,
			Err:     evm.CallDepthExceeded,
		}, nil
	}
	return v.run(params)
}

func (v *wvm) DumpProfile() string {
	if statsRunner, ok := v.runner.(*statisticRunner); ok {
		return statsRunner.getSummary()
	}
	return ""
}

func (v *wvm) ResetProfile() {
	if statsRunner, ok := v.runner.(*statisticRunner); ok {
		statsRunner.reset()
	}
}

// CallContext summarizes the environment of a top-level execution started
// through Execute. Without a state provider, a fresh, empty state is used.
// A zero Revision selects evm.DefaultRevision unless ExplicitRevision is set.
type CallContext struct {
	evm.BlockParameters
	evm.TransactionParameters
	ExplicitRevision bool
	State            evm.StateProvider
	Sender           evm.Address
	Recipient        evm.Address
	Value            evm.Word
	Static           bool
}

var (
	defaultInterpreter     *wvm
	defaultInterpreterErr  error
	defaultInterpreterOnce sync.Once
)

// Execute runs the given code with the given input and gas limit using a
// shared interpreter in its default configuration.
func Execute(code evm.Code, input evm.Data, gas evm.Gas, ctx CallContext) (evm.Result, error) {
	defaultInterpreterOnce.Do(func() {
		defaultInterpreter, defaultInterpreterErr = NewInterpreter(Config{})
	})
	if defaultInterpreterErr != nil {
		return evm.Result{}, defaultInterpreterErr
	}

	if ctx.State == nil {
		ctx.State = state.New()
	}
	if ctx.Revision == evm.R09_Berlin && !ctx.ExplicitRevision {
		ctx.Revision = evm.DefaultRevision
	}
	return defaultInterpreter.Run(evm.Parameters{
		BlockParameters:       ctx.BlockParameters,
		TransactionParameters: ctx.TransactionParameters,
		State:                 ctx.State,
		Kind:                  evm.Call,
		Static:                ctx.Static,
		Gas:                   gas,
		Recipient:             ctx.Recipient,
		Sender:                ctx.Sender,
		Input:                 input,
		Value:                 ctx.Value,
		Code:                  code,
	})
}
