// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Fantom-foundation/difftest/go/dt/rep"
	_ "modernc.org/sqlite"
)

const (
	invocationsFile = "invocations.jsonl"
	summaryFile     = "summary.json"
	deploymentFile  = "deployed.json"
)

// outputs are the files written by a run.
type outputs struct {
	dir    string
	sink   rep.MultiSink
	sqlite *rep.SQLiteSink
	db     *sql.DB
}

func openOutputs(dir, sqlitePath string) (*outputs, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(filepath.Join(dir, invocationsFile))
	if err != nil {
		return nil, err
	}
	res := &outputs{dir: dir, sink: rep.MultiSink{rep.NewJSONLSink(file)}}
	if sqlitePath == "" {
		return res, nil
	}

	db, err := sql.Open("sqlite", sqlitePath)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to open %s: %w", sqlitePath, err), res.Close())
	}
	res.db = db
	sqlite, err := rep.NewSQLiteSink(db)
	if err != nil {
		return nil, errors.Join(err, res.Close())
	}
	res.sqlite = sqlite
	res.sink = append(res.sink, sqlite)
	return res, nil
}

func (o *outputs) path(name string) string {
	return filepath.Join(o.dir, name)
}

func (o *outputs) writeDeployment(deployment *rep.Deployment) error {
	return writeJSON(o.path(deploymentFile), deployment)
}

func (o *outputs) writeSummary(summary rep.RunSummary) error {
	if err := writeJSON(o.path(summaryFile), summary); err != nil {
		return err
	}
	if o.sqlite != nil {
		return o.sqlite.WriteSummary(summary)
	}
	return nil
}

func (o *outputs) Close() error {
	err := o.sink.Close()
	if o.db != nil {
		err = errors.Join(err, o.db.Close())
	}
	return err
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
