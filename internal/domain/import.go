package domain

// RowOutcome is the terminal state of one CSV row in an import batch.
type RowOutcome string

const (
	RowImported RowOutcome = "imported"
	RowSkipped  RowOutcome = "skipped"
	RowErrored  RowOutcome = "errored"
)

// RowResult records what happened to a single row so callers can choose
// commit semantics for the batch. Type and MediaCount are set on
// imported rows only.
type RowResult struct {
	Line       int
	Outcome    RowOutcome
	QuestionID string
	Type       QuestionType
	MediaCount int
	Err        error
}

// ImportResult aggregates one import batch. RowErrors holds at most the
// configured cap of human-readable messages; Rows always holds every row.
type ImportResult struct {
	TotalRows     int
	Imported      int
	Skipped       int
	Errored       int
	PerTypeCounts map[QuestionType]int
	MediaResolved int

	RowErrors []string
	Rows      []RowResult
}

// NewImportResult creates an empty result.
func NewImportResult() *ImportResult {
	return &ImportResult{
		PerTypeCounts: make(map[QuestionType]int),
	}
}

// Record appends a row result and updates the counters.
func (r *ImportResult) Record(row RowResult, maxErrors int) {
	r.TotalRows++
	r.Rows = append(r.Rows, row)
	switch row.Outcome {
	case RowImported:
		r.Imported++
		if row.Type != "" {
			r.PerTypeCounts[row.Type]++
		}
		r.MediaResolved += row.MediaCount
	case RowSkipped:
		r.Skipped++
	case RowErrored:
		r.Errored++
		if row.Err != nil && len(r.RowErrors) < maxErrors {
			r.RowErrors = append(r.RowErrors, row.Err.Error())
		}
	}
}

// DistinctTypes returns the canonical types present in this batch, in the
// canonical order.
func (r *ImportResult) DistinctTypes() []string {
	var types []string
	for _, qtype := range AllQuestionTypes() {
		if r.PerTypeCounts[qtype] > 0 {
			types = append(types, string(qtype))
		}
	}
	return types
}
