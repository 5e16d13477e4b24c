package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRow(cells map[string]string) Row {
	header := make(map[string]int)
	record := make([]string, 0, len(cells))
	for name, value := range cells {
		header[name] = len(record)
		record = append(record, value)
	}
	return NewRow(header, record, 2, 1)
}

func TestRow_Get(t *testing.T) {
	row := testRow(map[string]string{"Question": "  What is Go?  ", "Domain": ""})

	assert.Equal(t, "What is Go?", row.Get("Question"))
	assert.Empty(t, row.Get("Domain"))
	assert.Empty(t, row.Get("Missing Column"))
}

func TestRow_GetTruncatedRecord(t *testing.T) {
	// Ragged CSV rows can be shorter than the header.
	header := map[string]int{"Question": 0, "Points": 5}
	row := NewRow(header, []string{"Q"}, 2, 1)

	assert.Equal(t, "Q", row.Get("Question"))
	assert.Empty(t, row.Get("Points"))
}

func TestRow_GetInt(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      int
		expected int
	}{
		{"valid", "3", 1, 3},
		{"empty uses default", "", 1, 1},
		{"garbage uses default", "three", 1, 1},
		{"negative parses", "-2", 1, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := testRow(map[string]string{"Points": tt.value})
			assert.Equal(t, tt.expected, row.GetInt("Points", tt.def))
		})
	}
}

func TestLooseTrue(t *testing.T) {
	for _, affirmative := range []string{"1", "true", "TRUE", "yes", "t", "y", " Y "} {
		assert.True(t, LooseTrue(affirmative), affirmative)
	}
	for _, negative := range []string{"", "0", "false", "no", "2", "maybe"} {
		assert.False(t, LooseTrue(negative), negative)
	}
}

func TestParseIndexList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []int
	}{
		{"comma separated", "1,3", []int{1, 3}},
		{"space separated", "1 3", []int{1, 3}},
		{"mixed separators", "1, 3 ,5", []int{1, 3, 5}},
		{"single", "2", []int{2}},
		{"empty", "", nil},
		{"no digits", "abc", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseIndexList(tt.input))
		})
	}
}
