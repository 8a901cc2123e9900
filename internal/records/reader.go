// Package records handles CSV input and output for the record pipeline.
package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rbaxabr/role-taxonomy-ensemble/internal/model"
)

// Load reads input records from a CSV file with a header row containing
// username, role_title, job_title and vendor_role columns. Field values are
// trimmed; missing columns read as empty.
func Load(path string) ([]model.Record, error) {
	f, err := os.Open(path) // #nosec G304 -- operator-supplied input path
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Read(f)
}

// Read parses records from CSV data.
func Read(r io.Reader) ([]model.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("input is empty: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := index["username"]; !ok {
		return nil, fmt.Errorf("input header has no username column")
	}

	var out []model.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record %d: %w", len(out)+1, err)
		}

		out = append(out, model.Record{
			Username:   column(row, index, "username"),
			RoleTitle:  column(row, index, "role_title"),
			JobTitle:   column(row, index, "job_title"),
			VendorRole: column(row, index, "vendor_role"),
		})
	}

	return out, nil
}

func column(row []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
