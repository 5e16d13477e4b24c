package importer

import (
	"context"
	"fmt"
	"strings"

	"certprep/internal/config"
	"certprep/internal/domain"
	"certprep/internal/logger"
	"certprep/internal/textproc"

	"go.uber.org/zap"
)

// Column names beyond the mandatory Question column.
const (
	ColumnQuestionType     = "Question Type"
	ColumnDomain           = "Domain"
	ColumnExplanation      = "Overall Explanation"
	ColumnCorrectAnswers   = "Correct Answers"
	ColumnCaseSensitive    = "Case Sensitive"
	ColumnLanguage         = "Language"
	ColumnStarterCode      = "Starter Code"
	ColumnExpectedSolution = "Expected Solution"
	ColumnDifficulty       = "Difficulty"
	ColumnPoints           = "Points"
)

const defaultCodeLanguage = "python"

// Builder turns one CSV row into a validated Question with its
// type-specific children. Text fields are preprocessed on the way in,
// so the stored question is ready to render.
type Builder struct {
	pre        *textproc.Preprocessor
	maxOptions int
	maxBlanks  int
}

// NewBuilder creates a Builder bound to a preprocessor and the
// configured column limits.
func NewBuilder(pre *textproc.Preprocessor, cfg config.ImportConfig) *Builder {
	return &Builder{
		pre:        pre,
		maxOptions: cfg.MaxOptionColumns,
		maxBlanks:  cfg.MaxBlankColumns,
	}
}

// buildFunc fills the type-specific payload of a question shell.
type buildFunc func(b *Builder, ctx context.Context, row Row, q *domain.Question, folder string) error

var buildStrategies = map[domain.QuestionType]buildFunc{
	domain.MultipleChoice: (*Builder).buildChoice,
	domain.MultipleSelect: (*Builder).buildChoice,
	domain.TrueFalse:      (*Builder).buildTrueFalse,
	domain.FillInBlanks:   (*Builder).buildBlanks,
	domain.CodeCompletion: (*Builder).buildCode,
}

// Build constructs a Question from a row. The returned question is
// fully validated; any structural failure is reported as a row-level
// error naming the violated rule.
func (b *Builder) Build(ctx context.Context, row Row, qtype domain.QuestionType, folder string) (*domain.Question, error) {
	rawText := row.Get(ColumnQuestion)
	if rawText == "" {
		return nil, domain.NewStructuralError("question text is required")
	}

	q := domain.NewQuestion("", rawText, qtype)
	q.OrderIndex = row.Ordinal
	if d := row.Get(ColumnDomain); d != "" {
		q.Domain = d
	}
	q.Difficulty = domain.NormalizeDifficulty(row.Get(ColumnDifficulty))
	if points := row.GetInt(ColumnPoints, 1); points > 0 {
		q.Points = points
	}

	var resolved int
	q.Text, resolved = b.pre.Process(ctx, rawText, folder)
	q.MediaCount += resolved
	q.Explanation, resolved = b.pre.Process(ctx, row.Get(ColumnExplanation), folder)
	q.MediaCount += resolved

	strategy, ok := buildStrategies[qtype]
	if !ok {
		return nil, domain.NewUnsupportedTypeError(qtype)
	}
	if err := strategy(b, ctx, row, q, folder); err != nil {
		return nil, err
	}

	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// buildChoice reads up to maxOptions Answer Option columns and flags
// correctness from the index list. A multiple-choice row that marks
// several indices correct is reclassified as multiple-select with a
// logged warning rather than rejected.
func (b *Builder) buildChoice(ctx context.Context, row Row, q *domain.Question, folder string) error {
	correct := ParseIndexList(row.Get(ColumnCorrectAnswers))
	if len(correct) == 0 {
		correct = []int{1}
	}
	correctSet := make(map[int]struct{}, len(correct))
	for _, idx := range correct {
		correctSet[idx] = struct{}{}
	}

	for i := 1; i <= b.maxOptions; i++ {
		text := row.Get(fmt.Sprintf("Answer Option %d", i))
		if text == "" {
			continue
		}
		_, isCorrect := correctSet[i]

		processedText, resolved := b.pre.Process(ctx, text, folder)
		q.MediaCount += resolved
		explanation, resolved := b.pre.Process(ctx, row.Get(fmt.Sprintf("Explanation %d", i)), folder)
		q.MediaCount += resolved

		q.Options = append(q.Options, &domain.Option{
			Text:        processedText,
			Explanation: explanation,
			IsCorrect:   isCorrect,
			Order:       i,
		})
	}

	if len(q.Options) < 2 {
		return domain.NewStructuralError(
			fmt.Sprintf("%s questions need at least 2 non-empty options, got %d", q.Type, len(q.Options)))
	}

	if q.Type == domain.MultipleChoice && len(correctSet) > 1 {
		logger.Get().Warn("Multiple correct answers on a multiple-choice row, treating as multiple-select",
			zap.Int("line", row.Line),
			zap.Ints("correct_indices", correct))
		q.Type = domain.MultipleSelect
	}
	return nil
}

// buildTrueFalse ignores option columns and synthesizes the two fixed
// options with complementary correctness.
func (b *Builder) buildTrueFalse(ctx context.Context, row Row, q *domain.Question, folder string) error {
	raw := row.Get(ColumnCorrectAnswers)
	trueIsCorrect := raw == "" || LooseTrue(raw)

	q.Options = []*domain.Option{
		{Text: "True", IsCorrect: trueIsCorrect, Order: 1},
		{Text: "False", IsCorrect: !trueIsCorrect, Order: 2},
	}
	return nil
}

func (b *Builder) buildBlanks(ctx context.Context, row Row, q *domain.Question, folder string) error {
	spec := &domain.BlanksSpec{
		CaseSensitive: row.GetBool(ColumnCaseSensitive),
	}
	for i := 1; i <= b.maxBlanks; i++ {
		if answer := row.Get(fmt.Sprintf("Blank %d", i)); answer != "" {
			spec.Answers = append(spec.Answers, answer)
		}
	}
	if len(spec.Answers) == 0 {
		return domain.NewStructuralError("fill-in-blanks questions require at least one blank answer")
	}
	q.Blanks = spec
	return nil
}

func (b *Builder) buildCode(ctx context.Context, row Row, q *domain.Question, folder string) error {
	solution := row.Get(ColumnExpectedSolution)
	if solution == "" {
		return domain.NewStructuralError("code-completion questions require an expected solution")
	}
	language := strings.ToLower(row.Get(ColumnLanguage))
	if language == "" {
		language = defaultCodeLanguage
	}
	q.Code = &domain.CodeSpec{
		Language:         language,
		StarterCode:      row.Get(ColumnStarterCode),
		ExpectedSolution: solution,
	}
	return nil
}
