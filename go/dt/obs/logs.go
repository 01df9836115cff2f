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
	"encoding/hex"
	"encoding/json"
	"slices"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	geth "github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// NoLogsDigest is the digest used for executions that can not emit logs.
const NoLogsDigest = "0x0"

// Logs is the ordered list of events emitted by one execution.
type Logs struct {
	Entries []LogEntry
}

type LogEntry struct {
	Address geth.Address
	Topics  []geth.Hash
	Data    []byte
}

func NewLogs() *Logs {
	return &Logs{}
}

// NewLogsFromReceipt collects the events of a receipt in receipt order.
func NewLogsFromReceipt(receipt *types.Receipt) *Logs {
	res := NewLogs()
	for _, log := range receipt.Logs {
		res.AddLog(log.Address, log.Data, log.Topics...)
	}
	return res
}

func (l *Logs) AddLog(address geth.Address, data []byte, topics ...geth.Hash) {
	l.Entries = append(l.Entries, LogEntry{
		address,
		slices.Clone(topics),
		slices.Clone(data),
	})
}

type normalizedEvent struct {
	Address string   `json:"address"`
	Topics  []string `json:"topics"`
	Data    string   `json:"data"`
}

// Digest hashes the canonical JSON serialization of the events. Digests are
// equal iff the events are equal in content and order.
func (l *Logs) Digest() (string, error) {
	events := make([]normalizedEvent, 0, len(l.Entries))
	for _, entry := range l.Entries {
		topics := make([]string, 0, len(entry.Topics))
		for _, topic := range entry.Topics {
			topics = append(topics, topic.Hex())
		}
		events = append(events, normalizedEvent{
			Address: entry.Address.Hex(),
			Topics:  topics,
			Data:    hexutil.Encode(entry.Data),
		})
	}
	serialized, err := json.Marshal(events)
	if err != nil {
		return "", err
	}
	canonical, err := jsoncanonicalizer.Transform(serialized)
	if err != nil {
		return "", err
	}
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(canonical)
	return "0x" + hex.EncodeToString(hasher.Sum(nil)), nil
}
