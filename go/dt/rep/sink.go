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
	"bufio"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Sink consumes records in attempt order.
type Sink interface {
	Write(Record) error
	Close() error
}

// JSONLSink writes one JSON object per record and line.
type JSONLSink struct {
	writer *bufio.Writer
	closer io.Closer
}

// NewJSONLSink creates a sink writing to the given writer. If the writer is
// an io.Closer, it is closed with the sink.
func NewJSONLSink(w io.Writer) *JSONLSink {
	res := &JSONLSink{writer: bufio.NewWriter(w)}
	if closer, ok := w.(io.Closer); ok {
		res.closer = closer
	}
	return res
}

func (s *JSONLSink) Write(record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	return s.writer.WriteByte('\n')
}

func (s *JSONLSink) Close() error {
	err := s.writer.Flush()
	if s.closer != nil {
		err = errors.Join(err, s.closer.Close())
	}
	return err
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS invocations (
    seq        INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp  TEXT NOT NULL,
    signature  TEXT NOT NULL,
    selector   TEXT NOT NULL,
    label      TEXT,
    skipped    INTEGER NOT NULL,
    reason     TEXT,
    mismatch   INTEGER NOT NULL,
    differing  TEXT,
    record     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_invocations_signature ON invocations(signature);
CREATE TABLE IF NOT EXISTS summaries (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    summary    TEXT NOT NULL
);
`

// SQLiteSink stores records in an SQL database using the SQLite dialect.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink creates the result tables if missing. The database is not
// closed by the sink.
func NewSQLiteSink(db *sql.DB) (*SQLiteSink, error) {
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("result schema: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

func (s *SQLiteSink) Write(record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	var (
		timestamp string
		label     sql.NullString
		reason    sql.NullString
		differing sql.NullString
		mismatch  bool
	)
	switch r := record.(type) {
	case *InvocationRecord:
		timestamp = r.Timestamp
		label = sql.NullString{String: r.Label.String(), Valid: true}
		mismatch = r.Mismatch
		fields, err := json.Marshal(r.DifferingFields)
		if err != nil {
			return err
		}
		differing = sql.NullString{String: string(fields), Valid: true}
	case *SkipRecord:
		timestamp = r.Timestamp
		reason = sql.NullString{String: r.Reason, Valid: true}
	}
	_, err = s.db.Exec(
		`INSERT INTO invocations (timestamp, signature, selector, label, skipped, reason, mismatch, differing, record)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		timestamp, record.GetSignature(), record.GetSelector().String(), label,
		record.IsSkipped(), reason, mismatch, differing, string(data),
	)
	return err
}

func (s *SQLiteSink) WriteSummary(summary RunSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO summaries (summary) VALUES (?)`, string(data))
	return err
}

// CountMismatches returns the number of mismatching invocations of a
// callable.
func (s *SQLiteSink) CountMismatches(signature string) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM invocations WHERE signature = ? AND mismatch = 1`, signature,
	).Scan(&count)
	return count, err
}

func (s *SQLiteSink) Close() error {
	return nil
}

// MultiSink forwards records to all contained sinks.
type MultiSink []Sink

func (m MultiSink) Write(record Record) error {
	var errs []error
	for _, sink := range m {
		errs = append(errs, sink.Write(record))
	}
	return errors.Join(errs...)
}

func (m MultiSink) Close() error {
	var errs []error
	for _, sink := range m {
		errs = append(errs, sink.Close())
	}
	return errors.Join(errs...)
}
