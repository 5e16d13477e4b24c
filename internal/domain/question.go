package domain

import (
	"strings"
	"time"
)

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Difficulty levels stored on a question.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// NormalizeDifficulty maps a raw difficulty string to a known level,
// defaulting to medium for absent or unrecognized values.
func NormalizeDifficulty(raw string) string {
	switch d := normalizeToken(raw); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d
	default:
		return DifficultyMedium
	}
}

// Question is one imported exam question with its type-specific payload.
// RawText is the question text exactly as it appeared in the source row and
// is the duplicate-detection key within a container; Text and Explanation
// hold the preprocessed, ready-to-render markup.
type Question struct {
	ID          string
	ContainerID string
	RawText     string
	Text        string
	Explanation string
	Domain      string
	Type        QuestionType
	Difficulty  string
	Points      int
	OrderIndex  int
	MediaCount  int

	Options []*Option
	Blanks  *BlanksSpec
	Code    *CodeSpec

	CorrectAttempts int
	TotalAttempts   int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Option belongs to exactly one choice-based question.
type Option struct {
	ID          string
	QuestionID  string
	Text        string
	Explanation string
	IsCorrect   bool
	Order       int

	SelectedCount int
}

// BlanksSpec is the ordered expected-answer list for a fill-in-blanks
// question.
type BlanksSpec struct {
	Answers       []string `json:"blanks"`
	CaseSensitive bool     `json:"case_sensitive"`
}

// CodeSpec is the grading payload for a code-completion question.
type CodeSpec struct {
	Language         string `json:"language"`
	StarterCode      string `json:"starter_code,omitempty"`
	ExpectedSolution string `json:"expected_solution"`
}

// NewQuestion creates a question shell with the documented defaults applied.
func NewQuestion(containerID, rawText string, qtype QuestionType) *Question {
	now := time.Now()
	return &Question{
		ContainerID: containerID,
		RawText:     rawText,
		Domain:      "General",
		Type:        qtype,
		Difficulty:  DifficultyMedium,
		Points:      1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate enforces the type-specific structural invariants. A question
// that fails validation must not be persisted.
func (q *Question) Validate() error {
	if q.RawText == "" {
		return NewStructuralError("question text is required")
	}
	if !q.Type.Valid() {
		return NewUnsupportedTypeError(q.Type)
	}
	if q.Points <= 0 {
		return NewStructuralError("points must be positive")
	}

	switch q.Type {
	case MultipleChoice:
		if len(q.Options) < 2 {
			return NewStructuralError("multiple-choice questions need at least 2 options")
		}
		if n := q.correctOptionCount(); n != 1 {
			return NewStructuralError("multiple-choice questions must have exactly one correct option")
		}
	case MultipleSelect:
		if len(q.Options) < 2 {
			return NewStructuralError("multiple-select questions need at least 2 options")
		}
		if q.correctOptionCount() < 1 {
			return NewStructuralError("multiple-select questions must have at least one correct option")
		}
	case TrueFalse:
		if len(q.Options) != 2 {
			return NewStructuralError("true-false questions must have exactly two options")
		}
		if n := q.correctOptionCount(); n != 1 {
			return NewStructuralError("true-false questions must have exactly one correct option")
		}
	case FillInBlanks:
		if q.Blanks == nil || len(q.Blanks.Answers) == 0 {
			return NewStructuralError("fill-in-blanks questions require at least one blank answer")
		}
	case CodeCompletion:
		if q.Code == nil || q.Code.ExpectedSolution == "" {
			return NewStructuralError("code-completion questions require an expected solution")
		}
	}
	return nil
}

func (q *Question) correctOptionCount() int {
	count := 0
	for _, opt := range q.Options {
		if opt.IsCorrect {
			count++
		}
	}
	return count
}

// CorrectOptionIDs returns the IDs of the options flagged correct.
func (q *Question) CorrectOptionIDs() []string {
	var ids []string
	for _, opt := range q.Options {
		if opt.IsCorrect {
			ids = append(ids, opt.ID)
		}
	}
	return ids
}

// SuccessRate is the percentage of attempts answered correctly, rounded to
// one decimal place. Zero when the question has never been attempted.
func (q *Question) SuccessRate() float64 {
	if q.TotalAttempts == 0 {
		return 0
	}
	return round1(float64(q.CorrectAttempts) / float64(q.TotalAttempts) * 100)
}

func round1(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}
