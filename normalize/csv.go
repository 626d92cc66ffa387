package normalize

import (
	"fmt"
	"strings"

	"github.com/skillsenselab/batchscribe/sink"
	"github.com/skillsenselab/batchscribe/validation"
)

// ProcessCSV normalizes one column of a results table and writes the
// table to outputPath with a `<column>_normalized` column appended.
// Every other column passes through untouched.
func (n *Normalizer) ProcessCSV(inputPath, outputPath, column string) error {
	if err := validation.Required("column", column); err != nil {
		return err
	}
	header, records, err := sink.Read(inputPath)
	if err != nil {
		return err
	}

	if !contains(header, column) {
		return fmt.Errorf("normalize: column %q not found in %s, available columns: %s",
			column, inputPath, strings.Join(header, ", "))
	}

	normalized := column + "_normalized"
	outHeader := header
	if !contains(header, normalized) {
		outHeader = append(append([]string{}, header...), normalized)
	}

	for _, rec := range records {
		rec[normalized] = n.Normalize(rec[column])
	}

	return sink.Write(outputPath, outHeader, records)
}

func contains(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}
