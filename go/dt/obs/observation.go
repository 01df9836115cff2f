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

import (
	"encoding/json"
	"reflect"

	geth "github.com/ethereum/go-ethereum/common"
)

// Names of the fields considered by the comparison of observations.
const (
	FieldStatus     = "status"
	FieldReturn     = "return"
	FieldLogsDigest = "logsDigest"
	FieldStorage    = "storage"
)

// Observation is the normalized result of executing one call against one
// contract variant.
type Observation struct {
	Status     Status  `json:"status"`
	Return     any     `json:"return"`
	LogsDigest string  `json:"logsDigest,omitempty"`
	Storage    Storage `json:"storage"`
	Error      string  `json:"error,omitempty"`

	// Diagnostics of state-mutating calls, ignored by comparisons.
	TxHash  *geth.Hash `json:"txHash,omitempty"`
	Block   *uint64    `json:"block,omitempty"`
	GasUsed *uint64    `json:"gasUsed,omitempty"`
}

// Failed creates an observation of an execution that failed for reasons
// other than a contract-level rejection.
func Failed(err error) Observation {
	return Observation{Status: Error, Error: err.Error()}
}

// Compare reports whether the two observations are equivalent and the names
// of all fields that differ. Only status, return value, log digest, and
// storage snapshot are compared.
func Compare(a, b Observation) (bool, []string) {
	diff := a.Diff(&b)
	return len(diff) == 0, diff
}

func (a *Observation) Eq(b *Observation) bool {
	return len(a.Diff(b)) == 0
}

// Diff lists the names of the differing compared fields in a fixed order.
func (a *Observation) Diff(b *Observation) (res []string) {
	if a.Status != b.Status {
		res = append(res, FieldStatus)
	}
	if !returnEqual(a.Return, b.Return) {
		res = append(res, FieldReturn)
	}
	if a.LogsDigest != b.LogsDigest {
		res = append(res, FieldLogsDigest)
	}
	if !a.Storage.Eq(b.Storage) {
		res = append(res, FieldStorage)
	}
	return
}

func returnEqual(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	// Values of equal JSON form are structurally equal.
	aJson, errA := json.Marshal(a)
	bJson, errB := json.Marshal(b)
	return errA == nil && errB == nil && string(aJson) == string(bJson)
}
