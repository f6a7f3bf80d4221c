/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: csv.go
Description: CSV ingestion and cleaning for the MedBayes preprocessing collaborator.
Loads a header-rowed CSV into a training table, drops duplicate rows and rows with
missing cells. The core estimation and inference packages never import this package;
it exists so the CLI is usable end-to-end on raw exported datasets.
*/

package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/kleascm/medbayes/pkg/estimation"
	"github.com/kleascm/medbayes/pkg/model"
)

// missingMarkers are cell values treated as missing observations
var missingMarkers = map[string]bool{
	"":    true,
	"NA":  true,
	"N/A": true,
	"?":   true,
}

// LoadCSV reads a CSV file with a header row into a training table
func LoadCSV(path string) (*estimation.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open training data: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, &model.DataError{Reason: "CSV file has no header row"}
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.TrimSpace(name)
	}
	table, err := estimation.NewTable(header)
	if err != nil {
		return nil, err
	}
	for _, record := range records[1:] {
		row := make([]string, len(record))
		for i, cell := range record {
			row[i] = strings.TrimSpace(cell)
		}
		if err := table.Append(row); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// Clean returns a new table with duplicate rows and rows containing missing
// cells removed. Row order is otherwise preserved
func Clean(table *estimation.Table) (*estimation.Table, error) {
	out, err := estimation.NewTable(table.Columns())
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, table.Len())
	for r := 0; r < table.Len(); r++ {
		row := table.Row(r)
		missing := false
		for _, cell := range row {
			if missingMarkers[cell] {
				missing = true
				break
			}
		}
		if missing {
			continue
		}
		key := strings.Join(row, "\x1f")
		if seen[key] {
			continue
		}
		seen[key] = true
		if err := out.Append(row); err != nil {
			return nil, err
		}
	}
	return out, nil
}
