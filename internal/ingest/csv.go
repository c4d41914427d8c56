package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

type csvReader struct{}

func (csvReader) CanRead(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

func (csvReader) Read(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	return readCSV(f, delim, opt.MaxRows)
}

func readCSV(src io.Reader, delim rune, maxRows int) (*Table, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	tbl := &Table{Header: header}
	total := 0
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", total+1, err)
		}
		total++
		if maxRows > 0 && len(tbl.Rows) >= maxRows {
			continue
		}
		tbl.Rows = append(tbl.Rows, rec)
	}
	if len(tbl.Rows) < total {
		tbl.Warnings = append(tbl.Warnings, fmt.Sprintf("read only %d/%d rows due to max rows", len(tbl.Rows), total))
	}
	return tbl, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
