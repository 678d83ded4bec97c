// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package metastore

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Failure is one table whose DDL extraction did not return a text result.
// Raw keeps the full result payload for the audit trail.
type Failure struct {
	Table string          `json:"table"`
	Raw   json.RawMessage `json:"raw_result"`
}

// SplitTable returns the database and table parts of the qualified name.
func (f Failure) SplitTable() (db, table string, err error) {
	parts := strings.SplitN(f.Table, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed table reference %q in failure log", f.Table)
	}
	return parts[0], parts[1], nil
}

// FailLog is the line-delimited JSON log of failed extractions. The crawl
// appends to it; the retry pass loads it whole and rewrites it whole. It
// is not safe for two concurrent retry passes over the same path.
type FailLog struct {
	path string
}

// NewFailLog returns a failure log at path. The file is created lazily on
// first append.
func NewFailLog(path string) *FailLog { return &FailLog{path: path} }

// Path returns the on-disk location of the log.
func (l *FailLog) Path() string { return l.path }

// Remove deletes a pre-existing log from an earlier run.
func (l *FailLog) Remove() error {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Append writes one failure as a JSON line.
func (l *FailLog) Append(f Failure) error {
	fp, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer fp.Close()
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	if _, err := fp.Write(append(b, '\n')); err != nil {
		return err
	}
	return nil
}

// Load reads every failure in the log. A missing file is an empty log.
func (l *FailLog) Load() ([]Failure, error) {
	fp, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer fp.Close()

	var failures []Failure
	sc := bufio.NewScanner(fp)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var f Failure
		if err := json.Unmarshal([]byte(line), &f); err != nil {
			return nil, fmt.Errorf("malformed failure log line: %w", err)
		}
		failures = append(failures, f)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return failures, nil
}

// Count returns the number of failures currently in the log.
func (l *FailLog) Count() (int, error) {
	failures, err := l.Load()
	if err != nil {
		return 0, err
	}
	return len(failures), nil
}

// Rewrite replaces the whole log with the given failures.
func (l *FailLog) Rewrite(failures []Failure) error {
	fp, err := os.Create(l.path)
	if err != nil {
		return err
	}
	defer fp.Close()
	w := bufio.NewWriter(fp)
	for _, f := range failures {
		b, err := json.Marshal(f)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return w.Flush()
}
