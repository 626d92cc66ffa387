// Package sink appends transcription result records to a CSV table,
// reconciling column sets across runs. The schema only grows: columns
// present in earlier runs are never dropped or reordered, and columns
// introduced by later runs are appended to the header.
package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/skillsenselab/batchscribe/util"
)

// Record is one result row, keyed by column name.
type Record map[string]string

// Well-known columns, in their canonical order. Columns outside this set
// sort lexicographically after them.
var canonicalColumns = []string{"filename", "provider", "text", "status", "transcription_time"}

// Fields returns the union of column names across records: canonical
// columns first, in canonical order, then the rest lexicographically.
func Fields(records []Record) []string {
	seen := make(map[string]bool)
	for _, r := range records {
		for k := range r {
			seen[k] = true
		}
	}

	var out []string
	for _, c := range canonicalColumns {
		if seen[c] {
			out = append(out, c)
			delete(seen, c)
		}
	}

	rest := util.Keys(seen)
	sort.Strings(rest)

	return append(out, rest...)
}

// Append writes records to the CSV table at path. If the file is absent or
// empty a fresh header is written first. If the file already has rows, its
// header is reused; columns in the batch that the header lacks grow the
// header, which rewrites the file once with prior rows padded. Otherwise
// rows are appended with no new header line.
func Append(path string, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	existing, err := readHeader(path)
	if err != nil {
		return err
	}
	if existing == nil {
		return Write(path, Fields(records), records)
	}

	grown := mergeHeader(existing, Fields(records))
	if len(grown) > len(existing) {
		_, prior, err := Read(path)
		if err != nil {
			return err
		}
		return Write(path, grown, append(prior, records...))
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("sink: open table: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, r := range records {
		if err := w.Write(project(r, existing)); err != nil {
			return fmt.Errorf("sink: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("sink: flush rows: %w", err)
	}
	return nil
}

// Write replaces the table at path with the given header and records.
// The file is written to a temporary sibling and renamed into place so a
// failure mid-write never corrupts an existing table.
func Write(path string, header []string, records []Record) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("sink: create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("sink: create temp table: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("sink: write header: %w", err)
	}
	for _, r := range records {
		if err := w.Write(project(r, header)); err != nil {
			tmp.Close()
			return fmt.Errorf("sink: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("sink: flush rows: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("sink: close temp table: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("sink: replace table: %w", err)
	}
	return nil
}

// Read loads the table at path, returning its header and one Record per
// row. Short rows leave their trailing columns unset.
func Read(path string) ([]string, []Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("sink: open table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("sink: read header: %w", err)
	}

	var records []Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("sink: read row: %w", err)
		}
		rec := make(Record, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		records = append(records, rec)
	}
	return header, records, nil
}

// readHeader returns the existing header, or nil when the file is absent
// or empty.
func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sink: open table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sink: read header: %w", err)
	}
	return header, nil
}

// mergeHeader appends to existing any batch columns it lacks, preserving
// existing column order.
func mergeHeader(existing, batch []string) []string {
	known := make(map[string]bool, len(existing))
	for _, c := range existing {
		known[c] = true
	}
	merged := existing
	for _, c := range batch {
		if !known[c] {
			merged = append(merged, c)
		}
	}
	return merged
}

// project renders a record as a row in header order. Missing columns render
// empty; record fields outside the header are dropped.
func project(r Record, header []string) []string {
	row := make([]string, len(header))
	for i, col := range header {
		row[i] = r[col]
	}
	return row
}
