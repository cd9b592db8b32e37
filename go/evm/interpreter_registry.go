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
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
)

// InterpreterFactory creates an Interpreter from an implementation specific
// configuration. A nil configuration selects the implementation's defaults.
type InterpreterFactory func(config any) (Interpreter, error)

// registry maps case-insensitive names to factories.
type registry[F any] struct {
	mutex   sync.RWMutex
	entries map[string]F
}

func (r *registry[F]) lookup(name string) (F, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	res, found := r.entries[strings.ToLower(name)]
	return res, found
}

func (r *registry[F]) register(name string, factory F) error {
	key := strings.ToLower(name)
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, found := r.entries[key]; found {
		return fmt.Errorf("invalid initialization: multiple factories registered for `%s`", key)
	}
	if r.entries == nil {
		r.entries = map[string]F{}
	}
	r.entries[key] = factory
	return nil
}

func (r *registry[F]) all() map[string]F {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return maps.Clone(r.entries)
}

var interpreters registry[InterpreterFactory]

// NewInterpreter creates an instance of the interpreter registered under the
// given name, passing at most one configuration to its factory.
func NewInterpreter(name string, config ...any) (Interpreter, error) {
	if len(config) > 1 {
		return nil, fmt.Errorf("invalid configuration: too many arguments")
	}
	factory, found := interpreters.lookup(name)
	if !found {
		return nil, fmt.Errorf("interpreter not found: %s", name)
	}
	var cfg any
	if len(config) == 1 {
		cfg = config[0]
	}
	return factory(cfg)
}

// GetInterpreterFactory returns the factory registered under the given name
// or nil if there is none.
func GetInterpreterFactory(name string) InterpreterFactory {
	factory, _ := interpreters.lookup(name)
	return factory
}

// GetAllRegisteredInterpreters returns a copy of the registry.
func GetAllRegisteredInterpreters() map[string]InterpreterFactory {
	res := interpreters.all()
	if res == nil {
		res = map[string]InterpreterFactory{}
	}
	return res
}

func GetRegisteredInterpreterNames() []string {
	names := maps.Keys(interpreters.all())
	sort.Strings(names)
	return names
}

// RegisterInterpreterFactory makes an implementation available under the
// given, case-insensitive name. Implementations register themselves from the
// init code of their package, so importing a package makes it available.
func RegisterInterpreterFactory(name string, factory InterpreterFactory) error {
	if factory == nil {
		return fmt.Errorf("invalid initialization: cannot register nil-factory using `%s`", strings.ToLower(name))
	}
	return interpreters.register(name, factory)
}

// MustRegisterInterpreterFactory is RegisterInterpreterFactory panicking on
// failure, for the use in init functions.
func MustRegisterInterpreterFactory(name string, factory InterpreterFactory) {
	if err := RegisterInterpreterFactory(name, factory); err != nil {
		panic(err)
	}
}
