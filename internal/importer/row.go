package importer

import (
	"regexp"
	"strconv"
	"strings"
)

// Row is a header-indexed view of one CSV record. Missing columns and
// empty cells read the same way, so the builder never has to care
// which optional columns a particular file carries.
type Row struct {
	header map[string]int
	record []string

	// Line is the 1-based line number in the source file, used for
	// error reporting.
	Line int

	// Ordinal is the 1-based position among data rows, used as the
	// question order index.
	Ordinal int
}

// NewRow wraps a record with its header index.
func NewRow(header map[string]int, record []string, line, ordinal int) Row {
	return Row{header: header, record: record, Line: line, Ordinal: ordinal}
}

// Get returns the trimmed cell value for a column, or "" when the
// column is absent or the cell empty.
func (r Row) Get(column string) string {
	idx, ok := r.header[column]
	if !ok || idx >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[idx])
}

// GetInt parses a column as an integer, falling back to def for
// absent, empty or unparsable values.
func (r Row) GetInt(column string, def int) int {
	raw := r.Get(column)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// GetBool interprets a column as a loose boolean token. Anything
// outside the accepted set, including an absent column, is false.
func (r Row) GetBool(column string) bool {
	return LooseTrue(r.Get(column))
}

// LooseTrue reports whether a raw cell spells an affirmative value.
func LooseTrue(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "t", "y":
		return true
	}
	return false
}

var digitRuns = regexp.MustCompile(`\d+`)

// ParseIndexList extracts 1-based indices from a comma/space-tolerant
// list such as "1,3" or "1 3". Cells with no digits yield nil.
func ParseIndexList(raw string) []int {
	var indices []int
	for _, m := range digitRuns.FindAllString(raw, -1) {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		indices = append(indices, n)
	}
	return indices
}
