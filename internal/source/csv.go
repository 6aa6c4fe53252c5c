package source

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ReadCSV reads a CSV record source. The first line supplies the field
// names and the positional-index map; every following line becomes one row.
func ReadCSV(r io.Reader) (*RecordSet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0 // all records must match the header width

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("url file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	idxToName := make(map[int]string, len(header))
	for i, name := range header {
		idxToName[i] = name
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", len(rows)+2, err)
		}
		row := make(Row, len(header))
		for i, value := range record {
			row[header[i]] = value
		}
		rows = append(rows, row)
	}

	return &RecordSet{Rows: rows, IdxToName: idxToName}, nil
}
