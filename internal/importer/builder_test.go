package importer

import (
	"context"
	"testing"
	"time"

	"certprep/internal/adapter"
	"certprep/internal/config"
	"certprep/internal/domain"
	"certprep/internal/logger"
	"certprep/internal/media"
	"certprep/internal/textproc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Env: "test", Level: "debug"}); err != nil {
		panic(err)
	}
	defer logger.Sync()
	m.Run()
}

type stubStorage struct{}

func (stubStorage) ResolveURL(ctx context.Context, folder, token string) (string, error) {
	return "https://acct.blob.core.windows.net/q/" + folder + "/" + token, nil
}

func newBuilder() *Builder {
	resolver := media.NewResolver(stubStorage{}, adapter.NewMemoryCacheAdapter(), time.Hour, "")
	return NewBuilder(textproc.NewPreprocessor(resolver), config.ImportConfig{
		MaxOptionColumns: 6,
		MaxBlankColumns:  5,
		MaxRowErrors:     20,
	})
}

func TestBuilder_BuildMultipleChoice(t *testing.T) {
	ctx := context.Background()
	b := newBuilder()

	t.Run("Success", func(t *testing.T) {
		row := testRow(map[string]string{
			"Question":        "Which service runs containers?",
			"Domain":          "Compute",
			"Difficulty":      "Hard",
			"Points":          "3",
			"Correct Answers": "2",
			"Answer Option 1": "Blob Storage",
			"Answer Option 2": "Container Instances",
			"Explanation 2":   "Runs containers without orchestration.",
			"Answer Option 3": "Key Vault",
		})

		q, err := b.Build(ctx, row, domain.MultipleChoice, "az-900")
		require.NoError(t, err)
		assert.Equal(t, domain.MultipleChoice, q.Type)
		assert.Equal(t, "Compute", q.Domain)
		assert.Equal(t, domain.DifficultyHard, q.Difficulty)
		assert.Equal(t, 3, q.Points)
		require.Len(t, q.Options, 3)
		assert.False(t, q.Options[0].IsCorrect)
		assert.True(t, q.Options[1].IsCorrect)
		assert.Equal(t, "Runs containers without orchestration.", q.Options[1].Explanation)
		assert.False(t, q.Options[2].IsCorrect)
	})

	t.Run("DefaultsToFirstOptionCorrect", func(t *testing.T) {
		row := testRow(map[string]string{
			"Question":        "Pick one",
			"Answer Option 1": "A",
			"Answer Option 2": "B",
		})

		q, err := b.Build(ctx, row, domain.MultipleChoice, "")
		require.NoError(t, err)
		assert.True(t, q.Options[0].IsCorrect)
		assert.False(t, q.Options[1].IsCorrect)
	})

	t.Run("GapInOptionColumns", func(t *testing.T) {
		row := testRow(map[string]string{
			"Question":        "Pick one",
			"Answer Option 1": "A",
			"Answer Option 4": "D",
			"Correct Answers": "4",
		})

		q, err := b.Build(ctx, row, domain.MultipleChoice, "")
		require.NoError(t, err)
		require.Len(t, q.Options, 2)
		assert.Equal(t, 4, q.Options[1].Order)
		assert.True(t, q.Options[1].IsCorrect)
	})

	t.Run("SingleOptionRejected", func(t *testing.T) {
		row := testRow(map[string]string{
			"Question":        "Pick one",
			"Answer Option 1": "Only choice",
		})

		q, err := b.Build(ctx, row, domain.MultipleChoice, "")
		assert.Nil(t, q)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeStructuralValidation, domainErr.Code)
	})

	t.Run("MultipleCorrectBecomesMultipleSelect", func(t *testing.T) {
		row := testRow(map[string]string{
			"Question":        "Pick some",
			"Correct Answers": "1, 3",
			"Answer Option 1": "A",
			"Answer Option 2": "B",
			"Answer Option 3": "C",
		})

		q, err := b.Build(ctx, row, domain.MultipleChoice, "")
		require.NoError(t, err)
		assert.Equal(t, domain.MultipleSelect, q.Type)
		assert.True(t, q.Options[0].IsCorrect)
		assert.False(t, q.Options[1].IsCorrect)
		assert.True(t, q.Options[2].IsCorrect)
	})

	t.Run("InvalidDifficultyAndPointsDefaulted", func(t *testing.T) {
		row := testRow(map[string]string{
			"Question":        "Pick one",
			"Difficulty":      "brutal",
			"Points":          "-5",
			"Answer Option 1": "A",
			"Answer Option 2": "B",
		})

		q, err := b.Build(ctx, row, domain.MultipleChoice, "")
		require.NoError(t, err)
		assert.Equal(t, domain.DifficultyMedium, q.Difficulty)
		assert.Equal(t, 1, q.Points)
	})
}

func TestBuilder_BuildTrueFalse(t *testing.T) {
	ctx := context.Background()
	b := newBuilder()

	tests := []struct {
		name          string
		correctCell   string
		trueIsCorrect bool
	}{
		{"index 1", "1", true},
		{"index 2", "2", false},
		{"word true", "true", true},
		{"word yes", "yes", true},
		{"word false", "false", false},
		{"empty defaults to true", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := testRow(map[string]string{
				"Question":        "Go compiles to native code.",
				"Correct Answers": tt.correctCell,
				"Answer Option 1": "ignored",
			})

			q, err := b.Build(ctx, row, domain.TrueFalse, "")
			require.NoError(t, err)
			require.Len(t, q.Options, 2)
			assert.Equal(t, "True", q.Options[0].Text)
			assert.Equal(t, "False", q.Options[1].Text)
			assert.Equal(t, tt.trueIsCorrect, q.Options[0].IsCorrect)
			assert.Equal(t, !tt.trueIsCorrect, q.Options[1].IsCorrect)
		})
	}
}

func TestBuilder_BuildFillInBlanks(t *testing.T) {
	ctx := context.Background()
	b := newBuilder()

	t.Run("Success", func(t *testing.T) {
		row := testRow(map[string]string{
			"Question":       "The capital of ___ is ___.",
			"Blank 1":        "France",
			"Blank 2":        "Paris",
			"Case Sensitive": "yes",
		})

		q, err := b.Build(ctx, row, domain.FillInBlanks, "")
		require.NoError(t, err)
		require.NotNil(t, q.Blanks)
		assert.Equal(t, []string{"France", "Paris"}, q.Blanks.Answers)
		assert.True(t, q.Blanks.CaseSensitive)
	})

	t.Run("CaseSensitivityDefaultsToFalse", func(t *testing.T) {
		row := testRow(map[string]string{
			"Question": "Fill it",
			"Blank 1":  "answer",
		})

		q, err := b.Build(ctx, row, domain.FillInBlanks, "")
		require.NoError(t, err)
		assert.False(t, q.Blanks.CaseSensitive)
	})

	t.Run("NoBlanksRejected", func(t *testing.T) {
		row := testRow(map[string]string{"Question": "Fill it"})

		_, err := b.Build(ctx, row, domain.FillInBlanks, "")
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeStructuralValidation, domainErr.Code)
	})
}

func TestBuilder_BuildCodeCompletion(t *testing.T) {
	ctx := context.Background()
	b := newBuilder()

	t.Run("Success", func(t *testing.T) {
		row := testRow(map[string]string{
			"Question":          "Complete the function",
			"Language":          "Go",
			"Starter Code":      "func add(a, b int) int {",
			"Expected Solution": "return a + b",
		})

		q, err := b.Build(ctx, row, domain.CodeCompletion, "")
		require.NoError(t, err)
		require.NotNil(t, q.Code)
		assert.Equal(t, "go", q.Code.Language)
		assert.Equal(t, "func add(a, b int) int {", q.Code.StarterCode)
		assert.Equal(t, "return a + b", q.Code.ExpectedSolution)
	})

	t.Run("LanguageDefaultsToPython", func(t *testing.T) {
		row := testRow(map[string]string{
			"Question":          "Complete it",
			"Expected Solution": "pass",
		})

		q, err := b.Build(ctx, row, domain.CodeCompletion, "")
		require.NoError(t, err)
		assert.Equal(t, "python", q.Code.Language)
	})

	t.Run("MissingSolutionRejected", func(t *testing.T) {
		row := testRow(map[string]string{"Question": "Complete it"})

		_, err := b.Build(ctx, row, domain.CodeCompletion, "")
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeStructuralValidation, domainErr.Code)
	})
}

func TestBuilder_MediaStatistics(t *testing.T) {
	ctx := context.Background()
	b := newBuilder()

	row := testRow(map[string]string{
		"Question":            "See 74f7b4a1b01300dc94f2de0e704e2258 for the topology.",
		"Overall Explanation": "Also [IMAGE: legend.png]",
		"Answer Option 1":     "Left subnet 94f2de0e704e225874f7b4a1b01300dc",
		"Answer Option 2":     "Right subnet",
	})

	q, err := b.Build(ctx, row, domain.MultipleChoice, "az-900")
	require.NoError(t, err)
	assert.Equal(t, 3, q.MediaCount)
	assert.Contains(t, q.Text, `<figure class="question-media">`)
	assert.Contains(t, q.Explanation, "legend.png")
	assert.Contains(t, q.Options[0].Text, `<figure class="question-media">`)
	// Raw text is kept verbatim for duplicate detection.
	assert.Equal(t, "See 74f7b4a1b01300dc94f2de0e704e2258 for the topology.", q.RawText)
}
