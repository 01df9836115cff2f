// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package rep

import (
	"time"

	"github.com/Fantom-foundation/difftest/go/dt/common"
	geth "github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// Deployment describes where and how the variants of a run were deployed.
type Deployment struct {
	RunID                 uuid.UUID    `json:"runId"`
	Endpoint              string       `json:"endpoint"`
	ChainID               uint64       `json:"chainId"`
	Sender                geth.Address `json:"sender"`
	OriginalAddress       geth.Address `json:"originalAddress"`
	TransformedAddress    geth.Address `json:"transformedAddress"`
	OriginalDeployTx      geth.Hash    `json:"originalDeployTx"`
	TransformedDeployTx   geth.Hash    `json:"transformedDeployTx"`
	Seed                  uint64       `json:"seed"`
	CallsPerCallable      int          `json:"callsPerCallable"`
	BoundaryRatioTarget   float64      `json:"boundaryRatioTarget"`
	StructuredRatioTarget float64      `json:"structuredRatioTarget"`
	StorageIndices        []string     `json:"storageIndices"`
	CreatedAt             string       `json:"createdAt"`
}

// NewDeployment starts a deployment record of a new run.
func NewDeployment(endpoint string, chainID uint64, config SummaryConfig, createdAt time.Time) *Deployment {
	indices := make([]string, 0, len(config.StorageIndices))
	for _, index := range config.StorageIndices {
		indices = append(indices, index.String())
	}
	return &Deployment{
		RunID:                 uuid.New(),
		Endpoint:              endpoint,
		ChainID:               chainID,
		Seed:                  config.Seed,
		CallsPerCallable:      config.CallsPerCallable,
		BoundaryRatioTarget:   config.BoundaryRatio,
		StructuredRatioTarget: config.StructuredRatio,
		StorageIndices:        indices,
		CreatedAt:             formatTimestamp(createdAt),
	}
}

// ParseStorageIndex parses a decimal or 0x-prefixed hexadecimal slot index.
func ParseStorageIndex(s string) (common.U256, error) {
	return common.ParseU256(s)
}
