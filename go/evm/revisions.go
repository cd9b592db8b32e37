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
)

func (r Revision) String() string {
	switch r {
	case R09_Berlin:
		return "Berlin"
	case R10_London:
		return "London"
	case R12_Shanghai:
		return "Shanghai"
	default:
		return fmt.Sprintf("Revision(%d)", r)
	}
}

// ParseRevision resolves a revision name (case-insensitive).
func ParseRevision(name string) (Revision, error) {
	for i := 0; i < numRevisions; i++ {
		if strings.EqualFold(Revision(i).String(), name) {
			return Revision(i), nil
		}
	}
	return 0, fmt.Errorf("unknown revision: %s", name)
}

// GetAllKnownRevisions returns all revisions supported by this package in
// ascending order.
func GetAllKnownRevisions() []Revision {
	res := make([]Revision, 0, numRevisions)
	for i := 0; i < numRevisions; i++ {
		res = append(res, Revision(i))
	}
	return res
}

func (r Revision) MarshalJSON() ([]byte, error) {
	if r < 0 || int(r) >= numRevisions {
		return nil, &json.UnsupportedValueError{Str: r.String()}
	}
	return json.Marshal(r.String())
}

func (r *Revision) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	revision, err := ParseRevision(s)
	if err != nil {
		return err
	}
	*r = revision
	return nil
}
