package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// LoadError reports that one file could not be read or parsed. It is
// scoped to that file; the runner records it and moves on.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadFile opens path through src and parses it with Load.
func LoadFile(src FileSource, path, delimiter string) (RawTable, error) {
	f, err := src.Open(path)
	if err != nil {
		return RawTable{}, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	t, err := Load(f, delimiter)
	if err != nil {
		return RawTable{}, &LoadError{Path: path, Err: err}
	}
	return t, nil
}

// Load parses delimited text into a RawTable. The first line is the
// header; every value is kept as a string. Rows shorter than the header
// are right-padded with empty strings and surplus trailing fields are
// dropped, tolerating minor malformation instead of failing the file.
//
// Single-character delimiters go through encoding/csv so quoted fields
// survive; longer delimiters split plain lines.
func Load(r io.Reader, delimiter string) (RawTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return RawTable{}, err
	}
	if !utf8.Valid(data) {
		return RawTable{}, fmt.Errorf("file is not valid UTF-8 text")
	}

	var records [][]string
	if utf8.RuneCountInString(delimiter) == 1 {
		records, err = parseCSV(data, []rune(delimiter)[0])
		if err != nil {
			return RawTable{}, fmt.Errorf("parse: %w", err)
		}
	} else {
		records = parseLines(data, delimiter)
	}

	if len(records) == 0 {
		return RawTable{}, fmt.Errorf("file is empty, no header line")
	}

	header := records[0]
	table := RawTable{Columns: header}
	for _, row := range records[1:] {
		if isEmptyRow(row) {
			continue
		}
		table.Rows = append(table.Rows, fitRow(row, len(header)))
	}
	return table, nil
}

func parseCSV(data []byte, comma rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

func parseLines(data []byte, delimiter string) [][]string {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")

	records := make([][]string, 0, len(lines))
	for _, line := range lines {
		records = append(records, strings.Split(line, delimiter))
	}
	return records
}

// fitRow pads a short row with empty strings and trims a long one to
// the header width.
func fitRow(row []string, width int) []string {
	fitted := make([]string, width)
	copy(fitted, row)
	return fitted
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
