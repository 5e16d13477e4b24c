package repository

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"certprep/internal/domain"
	"certprep/internal/repository/models"
	"certprep/internal/util"

	"github.com/jmoiron/sqlx"
)

const questionColumns = `
	id "id",
	container_id "container_id",
	raw_text "raw_text",
	raw_text_hash "raw_text_hash",
	question_text "question_text",
	explanation "explanation",
	domain "domain",
	question_type "question_type",
	difficulty "difficulty",
	points "points",
	order_index "order_index",
	media_count "media_count",
	blanks_data "blanks_data",
	code_language "code_language",
	starter_code "starter_code",
	expected_solution "expected_solution",
	correct_attempts "correct_attempts",
	total_attempts "total_attempts",
	created_at "created_at",
	updated_at "updated_at"`

const optionColumns = `
	id "id",
	question_id "question_id",
	option_text "option_text",
	explanation "explanation",
	is_correct "is_correct",
	option_order "option_order",
	selected_count "selected_count"`

// QuestionDatabaseAdapter implements domain.QuestionRepository using
// sqlx against Oracle. All statements go through GetExecutor so they
// join an ambient transaction when one is on the context.
type QuestionDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuestionRepository creates a new instance of QuestionDatabaseAdapter.
func NewQuestionRepository(db *sqlx.DB) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db}
}

// hashRawText derives the duplicate-detection key from the raw question
// text. The hash, not the CLOB, carries the unique constraint.
func hashRawText(rawText string) string {
	sum := sha256.Sum256([]byte(rawText))
	return hex.EncodeToString(sum[:])
}

// ExistsByText implements domain.QuestionRepository.
func (a *QuestionDatabaseAdapter) ExistsByText(ctx context.Context, containerID, rawText string) (bool, error) {
	executor := GetExecutor(ctx, a.db)

	var count int
	query := `SELECT COUNT(*) FROM questions WHERE container_id = :1 AND raw_text_hash = :2`
	if err := executor.GetContext(ctx, &count, query, containerID, hashRawText(rawText)); err != nil {
		return false, fmt.Errorf("failed to check question existence: %w", err)
	}
	return count > 0, nil
}

// Save implements domain.QuestionRepository. The question and its
// options are inserted together; generated IDs are written back onto
// the domain entity.
func (a *QuestionDatabaseAdapter) Save(ctx context.Context, question *domain.Question) error {
	executor := GetExecutor(ctx, a.db)

	model, err := toModelQuestion(question)
	if err != nil {
		return err
	}
	model.ID = util.NewULID()
	model.CreatedAt = time.Now()
	model.UpdatedAt = model.CreatedAt

	query := `INSERT INTO questions (
		id, container_id, raw_text, raw_text_hash, question_text, explanation,
		domain, question_type, difficulty, points, order_index, media_count,
		blanks_data, code_language, starter_code, expected_solution,
		correct_attempts, total_attempts, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11, :12, :13, :14, :15, :16, :17, :18, :19, :20
	)`

	_, err = executor.ExecContext(ctx, query,
		model.ID,
		model.ContainerID,
		model.RawText,
		model.RawTextHash,
		model.Text,
		model.Explanation,
		model.Domain,
		model.Type,
		model.Difficulty,
		model.Points,
		model.OrderIndex,
		model.MediaCount,
		model.BlanksData,
		model.CodeLanguage,
		model.StarterCode,
		model.ExpectedSolution,
		model.CorrectAttempts,
		model.TotalAttempts,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save question: %w", err)
	}
	question.ID = model.ID

	optionQuery := `INSERT INTO answer_options (
		id, question_id, option_text, explanation, is_correct, option_order, selected_count
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7
	)`
	for _, opt := range question.Options {
		opt.ID = util.NewULID()
		opt.QuestionID = model.ID

		isCorrect := 0
		if opt.IsCorrect {
			isCorrect = 1
		}
		_, err := executor.ExecContext(ctx, optionQuery,
			opt.ID, model.ID, opt.Text, opt.Explanation, isCorrect, opt.Order, 0)
		if err != nil {
			return fmt.Errorf("failed to save answer option: %w", err)
		}
	}
	return nil
}

// GetByID implements domain.QuestionRepository.
func (a *QuestionDatabaseAdapter) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	executor := GetExecutor(ctx, a.db)

	var model models.Question
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = :1`
	if err := executor.GetContext(ctx, &model, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question %s: %w", id, err)
	}

	var optionModels []models.AnswerOption
	optionQuery := `SELECT ` + optionColumns + ` FROM answer_options WHERE question_id = :1 ORDER BY option_order`
	if err := executor.SelectContext(ctx, &optionModels, optionQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get answer options for question %s: %w", id, err)
	}

	return toDomainQuestion(&model, optionModels)
}

// GetByContainer implements domain.QuestionRepository.
func (a *QuestionDatabaseAdapter) GetByContainer(ctx context.Context, containerID string) ([]*domain.Question, error) {
	executor := GetExecutor(ctx, a.db)

	var questionModels []models.Question
	query := `SELECT ` + questionColumns + ` FROM questions WHERE container_id = :1 ORDER BY order_index`
	if err := executor.SelectContext(ctx, &questionModels, query, containerID); err != nil {
		return nil, fmt.Errorf("failed to get questions for container %s: %w", containerID, err)
	}

	var optionModels []models.AnswerOption
	optionQuery := `SELECT o.id "id",
		o.question_id "question_id",
		o.option_text "option_text",
		o.explanation "explanation",
		o.is_correct "is_correct",
		o.option_order "option_order",
		o.selected_count "selected_count"
	FROM answer_options o
	JOIN questions q ON q.id = o.question_id
	WHERE q.container_id = :1
	ORDER BY o.question_id, o.option_order`
	if err := executor.SelectContext(ctx, &optionModels, optionQuery, containerID); err != nil {
		return nil, fmt.Errorf("failed to get answer options for container %s: %w", containerID, err)
	}

	optionsByQuestion := make(map[string][]models.AnswerOption)
	for _, opt := range optionModels {
		optionsByQuestion[opt.QuestionID] = append(optionsByQuestion[opt.QuestionID], opt)
	}

	questions := make([]*domain.Question, 0, len(questionModels))
	for i := range questionModels {
		question, err := toDomainQuestion(&questionModels[i], optionsByQuestion[questionModels[i].ID])
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, nil
}

// RecordOutcome implements domain.QuestionRepository.
func (a *QuestionDatabaseAdapter) RecordOutcome(ctx context.Context, questionID string, correct bool) error {
	executor := GetExecutor(ctx, a.db)

	correctDelta := 0
	if correct {
		correctDelta = 1
	}
	query := `UPDATE questions
	SET total_attempts = total_attempts + 1,
		correct_attempts = correct_attempts + :1,
		updated_at = :2
	WHERE id = :3`
	if _, err := executor.ExecContext(ctx, query, correctDelta, time.Now(), questionID); err != nil {
		return fmt.Errorf("failed to record outcome for question %s: %w", questionID, err)
	}
	return nil
}

func toModelQuestion(q *domain.Question) (*models.Question, error) {
	model := &models.Question{
		ContainerID:     q.ContainerID,
		RawText:         q.RawText,
		RawTextHash:     hashRawText(q.RawText),
		Text:            q.Text,
		Explanation:     q.Explanation,
		Domain:          q.Domain,
		Type:            string(q.Type),
		Difficulty:      q.Difficulty,
		Points:          q.Points,
		OrderIndex:      q.OrderIndex,
		MediaCount:      q.MediaCount,
		CorrectAttempts: q.CorrectAttempts,
		TotalAttempts:   q.TotalAttempts,
	}

	if q.Blanks != nil {
		jsonData, err := json.Marshal(q.Blanks)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal blanks data: %w", err)
		}
		model.BlanksData = util.StringToNullString(string(jsonData))
	}
	if q.Code != nil {
		model.CodeLanguage = util.StringToNullString(q.Code.Language)
		model.StarterCode = util.StringToNullString(q.Code.StarterCode)
		model.ExpectedSolution = util.StringToNullString(q.Code.ExpectedSolution)
	}
	return model, nil
}

func toDomainQuestion(model *models.Question, optionModels []models.AnswerOption) (*domain.Question, error) {
	question := &domain.Question{
		ID:              model.ID,
		ContainerID:     model.ContainerID,
		RawText:         model.RawText,
		Text:            model.Text,
		Explanation:     model.Explanation,
		Domain:          model.Domain,
		Type:            domain.QuestionType(model.Type),
		Difficulty:      model.Difficulty,
		Points:          model.Points,
		OrderIndex:      model.OrderIndex,
		MediaCount:      model.MediaCount,
		CorrectAttempts: model.CorrectAttempts,
		TotalAttempts:   model.TotalAttempts,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}

	if model.BlanksData.Valid && model.BlanksData.String != "" {
		var blanks domain.BlanksSpec
		if err := json.Unmarshal([]byte(model.BlanksData.String), &blanks); err != nil {
			return nil, fmt.Errorf("failed to unmarshal blanks data for question %s: %w", model.ID, err)
		}
		question.Blanks = &blanks
	}
	if model.ExpectedSolution.Valid {
		question.Code = &domain.CodeSpec{
			Language:         model.CodeLanguage.String,
			StarterCode:      model.StarterCode.String,
			ExpectedSolution: model.ExpectedSolution.String,
		}
	}

	for _, opt := range optionModels {
		question.Options = append(question.Options, &domain.Option{
			ID:            opt.ID,
			QuestionID:    opt.QuestionID,
			Text:          opt.Text,
			Explanation:   opt.Explanation,
			IsCorrect:     opt.IsCorrect == 1,
			Order:         opt.OptionOrder,
			SelectedCount: opt.SelectedCount,
		})
	}
	return question, nil
}
