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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Address is the 20-byte identifier of an account.
type Address [20]byte

// Hash is a 32-byte digest, used for code hashes and log topics.
type Hash [32]byte

// Code is the byte code of a contract.
type Code []byte

func (a Address) String() string {
	return hexutil.Encode(a[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return hexutil.Bytes(a[:]).MarshalText()
}

func (a *Address) UnmarshalText(data []byte) error {
	return hexutil.UnmarshalFixedText("Address", data, a[:])
}

func (h Hash) String() string {
	return hexutil.Encode(h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return hexutil.Bytes(h[:]).MarshalText()
}

func (h *Hash) UnmarshalText(data []byte) error {
	return hexutil.UnmarshalFixedText("Hash", data, h[:])
}

var callKindNames = map[CallKind]string{
	Call:         "call",
	StaticCall:   "static_call",
	DelegateCall: "delegate_call",
	CallCode:     "call_code",
}

func (k CallKind) String() string {
	if name, found := callKindNames[k]; found {
		return name
	}
	return fmt.Sprintf("CallKind(%d)", int(k))
}

func (k CallKind) MarshalJSON() ([]byte, error) {
	name, found := callKindNames[k]
	if !found {
		return nil, fmt.Errorf("invalid call kind: %d", int(k))
	}
	return json.Marshal(name)
}

func (k *CallKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for kind, cur := range callKindNames {
		if strings.EqualFold(cur, name) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("invalid call kind: %q", name)
}
