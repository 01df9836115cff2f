// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package obs

import "fmt"

// Status is the outcome class of a single invocation.
type Status int

const (
	Ok     Status = iota // < executed successfully
	Revert               // < rejected by the contract
	Error                // < failed for any other reason
)

func (s Status) String() string {
	switch s {
	case Ok:
		return "ok"
	case Revert:
		return "revert"
	case Error:
		return "error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(data []byte) error {
	for _, cur := range []Status{Ok, Revert, Error} {
		if cur.String() == string(data) {
			*s = cur
			return nil
		}
	}
	return fmt.Errorf("unknown status: %s", data)
}
