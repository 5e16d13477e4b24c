package domain

import "strings"

// QuestionType is the canonical, closed set of question types. Every raw
// type string from an import source normalizes to exactly one of these.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	MultipleSelect QuestionType = "multiple-select"
	TrueFalse      QuestionType = "true-false"
	FillInBlanks   QuestionType = "fill-in-blanks"
	CodeCompletion QuestionType = "code-completion"
)

// AllQuestionTypes lists the canonical types in a stable order.
func AllQuestionTypes() []QuestionType {
	return []QuestionType{MultipleChoice, MultipleSelect, TrueFalse, FillInBlanks, CodeCompletion}
}

// typeAliases is the single alias table for normalization. Keys are
// lowercased, trimmed raw values as they appear in question banks.
var typeAliases = map[string]QuestionType{
	"multiple-choice": MultipleChoice,
	"multiple_choice": MultipleChoice,
	"multiplechoice":  MultipleChoice,
	"mcq":             MultipleChoice,
	"choice":          MultipleChoice,
	"single-choice":   MultipleChoice,
	"single_choice":   MultipleChoice,

	"multiple-select": MultipleSelect,
	"multiple_select": MultipleSelect,
	"multipleselect":  MultipleSelect,
	"multi-select":    MultipleSelect,
	"multi_select":    MultipleSelect,
	"multiselect":     MultipleSelect,
	"msq":             MultipleSelect,
	"checkbox":        MultipleSelect,

	"true-false": TrueFalse,
	"true_false": TrueFalse,
	"truefalse":  TrueFalse,
	"tf":         TrueFalse,
	"t/f":        TrueFalse,
	"boolean":    TrueFalse,
	"yes-no":     TrueFalse,
	"yes_no":     TrueFalse,

	"fill-in-blanks":     FillInBlanks,
	"fill_in_blanks":     FillInBlanks,
	"fill-in-the-blanks": FillInBlanks,
	"fill-blank":         FillInBlanks,
	"fill_blank":         FillInBlanks,
	"blanks":             FillInBlanks,
	"blank":              FillInBlanks,
	"text-input":         FillInBlanks,
	"text_input":         FillInBlanks,
	"text":               FillInBlanks,

	"code-completion": CodeCompletion,
	"code_completion": CodeCompletion,
	"codecompletion":  CodeCompletion,
	"code":            CodeCompletion,
	"coding":          CodeCompletion,
	"programming":     CodeCompletion,
}

// NormalizeQuestionType maps a raw type string to its canonical type.
// The boolean reports whether the input was recognized: an empty string is
// the documented default and counts as recognized, while any other unmapped
// value falls back to MultipleChoice with ok=false so callers can log a
// normalization warning. Total and pure.
func NormalizeQuestionType(raw string) (QuestionType, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if cleaned == "" {
		return MultipleChoice, true
	}
	if qtype, ok := typeAliases[cleaned]; ok {
		return qtype, true
	}
	return MultipleChoice, false
}

// IsChoiceBased reports whether the type answers through option selection.
func (t QuestionType) IsChoiceBased() bool {
	return t == MultipleChoice || t == MultipleSelect || t == TrueFalse
}

// Valid reports whether t is one of the canonical types.
func (t QuestionType) Valid() bool {
	switch t {
	case MultipleChoice, MultipleSelect, TrueFalse, FillInBlanks, CodeCompletion:
		return true
	}
	return false
}
