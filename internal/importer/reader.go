package importer

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"certprep/internal/domain"
)

// ColumnQuestion is the only mandatory CSV column. Everything else is
// optional with documented defaults.
const ColumnQuestion = "Question"

// Reader streams question rows out of a CSV file. The first record is
// the header; every later record becomes a Row indexed by it.
type Reader struct {
	cr      *csv.Reader
	header  map[string]int
	line    int
	ordinal int
}

// NewReader reads and validates the header. A file without a
// "Question" column is rejected up front with a parse error.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	// Rows legitimately vary in width: option and blank columns are
	// optional per row.
	cr.FieldsPerRecord = -1

	headerRecord, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.NewParseError("CSV file is empty", err)
		}
		return nil, domain.NewParseError("failed to read CSV header", err)
	}

	header := make(map[string]int, len(headerRecord))
	for i, name := range headerRecord {
		header[strings.TrimSpace(name)] = i
	}
	if _, ok := header[ColumnQuestion]; !ok {
		return nil, domain.NewParseError("CSV header is missing the mandatory Question column", nil)
	}

	return &Reader{cr: cr, header: header, line: 1}, nil
}

// Header exposes the column index for callers that need to inspect
// which optional columns are present.
func (r *Reader) Header() map[string]int {
	return r.header
}

// Next returns the next data row. io.EOF signals a clean end of file;
// any other error is a parse failure for that record and the caller
// may keep reading.
func (r *Reader) Next() (Row, error) {
	record, err := r.cr.Read()
	r.line++
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Row{}, io.EOF
		}
		return Row{Line: r.line}, domain.NewParseError("malformed CSV record", err)
	}
	r.ordinal++
	return NewRow(r.header, record, r.line, r.ordinal), nil
}
