package domain

import (
	"regexp"
	"strings"
)

// Submission carries the modality-appropriate answer payload for one
// question: selected option IDs for choice-based types, Blanks for
// fill-in-blanks, Text for code-completion.
type Submission struct {
	OptionIDs []string
	Blanks    []string
	Text      string
}

type evaluateFunc func(q *Question, sub Submission) bool

// evaluators dispatches correctness checks by canonical type. Scoring is
// all-or-nothing per question; there is no partial credit.
var evaluators = map[QuestionType]evaluateFunc{
	MultipleChoice: evaluateChoice,
	MultipleSelect: evaluateChoice,
	TrueFalse:      evaluateChoice,
	FillInBlanks:   evaluateBlanks,
	CodeCompletion: evaluateCode,
}

// EvaluateAnswer reports whether the submission answers the question
// correctly. An unknown question type is a hard error; it cannot occur for
// questions that passed import-time canonicalization.
func EvaluateAnswer(q *Question, sub Submission) (bool, error) {
	eval, ok := evaluators[q.Type]
	if !ok {
		return false, NewUnsupportedTypeError(q.Type)
	}
	return eval(q, sub), nil
}

// evaluateChoice requires the submitted option-id set to equal the correct
// set exactly, independent of order. This covers single-choice and
// true-false as the one-element case.
func evaluateChoice(q *Question, sub Submission) bool {
	correct := q.CorrectOptionIDs()
	if len(sub.OptionIDs) != len(correct) || len(correct) == 0 {
		return false
	}
	correctSet := make(map[string]struct{}, len(correct))
	for _, id := range correct {
		correctSet[id] = struct{}{}
	}
	seen := make(map[string]struct{}, len(sub.OptionIDs))
	for _, id := range sub.OptionIDs {
		if _, ok := correctSet[id]; !ok {
			return false
		}
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}

func evaluateBlanks(q *Question, sub Submission) bool {
	if q.Blanks == nil {
		return false
	}
	expected := q.Blanks.Answers
	if len(sub.Blanks) != len(expected) {
		return false
	}
	for i, answer := range sub.Blanks {
		got := strings.TrimSpace(answer)
		want := strings.TrimSpace(expected[i])
		if !q.Blanks.CaseSensitive {
			got = strings.ToLower(got)
			want = strings.ToLower(want)
		}
		if got != want {
			return false
		}
	}
	return true
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// evaluateCode is a normalized exact-match comparison, not semantic code
// execution: whitespace runs collapse to single spaces and the comparison
// is case-insensitive.
func evaluateCode(q *Question, sub Submission) bool {
	if q.Code == nil || sub.Text == "" {
		return false
	}
	return normalizeCode(sub.Text) == normalizeCode(q.Code.ExpectedSolution)
}

func normalizeCode(code string) string {
	collapsed := whitespaceRun.ReplaceAllString(strings.TrimSpace(code), " ")
	return strings.ToLower(collapsed)
}
