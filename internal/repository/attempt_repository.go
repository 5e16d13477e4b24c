package repository

import (
	"context"
	"database/sql"
	"fmt"

	"certprep/internal/domain"
	"certprep/internal/repository/models"
	"certprep/internal/util"

	"github.com/jmoiron/sqlx"
)

const attemptColumns = `
	id "id",
	user_id "user_id",
	container_id "container_id",
	started_at "started_at",
	ended_at "ended_at",
	completed "completed",
	total_questions "total_questions",
	correct_count "correct_count",
	total_points "total_points",
	earned_points "earned_points",
	score_percentage "score_percentage",
	by_type "by_type",
	by_difficulty "by_difficulty",
	by_domain "by_domain"`

// AttemptDatabaseAdapter implements domain.AttemptRepository using sqlx
// against Oracle.
type AttemptDatabaseAdapter struct {
	db *sqlx.DB
}

// NewAttemptRepository creates a new instance of AttemptDatabaseAdapter.
func NewAttemptRepository(db *sqlx.DB) domain.AttemptRepository {
	return &AttemptDatabaseAdapter{db: db}
}

// Save implements domain.AttemptRepository. It inserts the open attempt
// row and writes the generated ID back onto the entity.
func (a *AttemptDatabaseAdapter) Save(ctx context.Context, attempt *domain.Attempt) error {
	executor := GetExecutor(ctx, a.db)

	attempt.ID = util.NewULID()
	query := `INSERT INTO test_attempts (
		id, user_id, container_id, started_at, ended_at, completed,
		total_questions, correct_count, total_points, earned_points, score_percentage,
		by_type, by_difficulty, by_domain
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11, :12, :13, :14
	)`
	_, err := executor.ExecContext(ctx, query,
		attempt.ID,
		attempt.UserID,
		attempt.ContainerID,
		attempt.StartedAt,
		util.TimeToNullTime(attempt.EndedAt),
		0,
		0, 0, 0, 0, 0.0,
		models.FloatMap{}, models.FloatMap{}, models.FloatMap{},
	)
	if err != nil {
		return fmt.Errorf("failed to save attempt: %w", err)
	}
	return nil
}

// GetByID implements domain.AttemptRepository. The attempt is returned
// with its answer records.
func (a *AttemptDatabaseAdapter) GetByID(ctx context.Context, id string) (*domain.Attempt, error) {
	executor := GetExecutor(ctx, a.db)

	var model models.Attempt
	query := `SELECT ` + attemptColumns + ` FROM test_attempts WHERE id = :1`
	if err := executor.GetContext(ctx, &model, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attempt %s: %w", id, err)
	}

	var answerModels []models.UserAnswer
	answerQuery := `SELECT
		id "id",
		attempt_id "attempt_id",
		question_id "question_id",
		option_ids "option_ids",
		text_answer "text_answer",
		blank_answers "blank_answers",
		is_correct "is_correct",
		answered_at "answered_at"
	FROM user_answers WHERE attempt_id = :1 ORDER BY answered_at`
	if err := executor.SelectContext(ctx, &answerModels, answerQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get answers for attempt %s: %w", id, err)
	}

	return toDomainAttempt(&model, answerModels), nil
}

// SaveAnswers implements domain.AttemptRepository. It persists the
// sealed attempt's answer records and final scorecard.
func (a *AttemptDatabaseAdapter) SaveAnswers(ctx context.Context, attempt *domain.Attempt) error {
	executor := GetExecutor(ctx, a.db)

	answerQuery := `INSERT INTO user_answers (
		id, attempt_id, question_id, option_ids, text_answer, blank_answers, is_correct, answered_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8
	)`
	for _, answer := range attempt.Answers {
		answer.ID = util.NewULID()
		answer.AttemptID = attempt.ID

		isCorrect := 0
		if answer.IsCorrect {
			isCorrect = 1
		}
		_, err := executor.ExecContext(ctx, answerQuery,
			answer.ID,
			attempt.ID,
			answer.QuestionID,
			models.StringSlice(answer.OptionIDs),
			util.StringToNullString(answer.TextAnswer),
			models.StringSlice(answer.BlankAnswers),
			isCorrect,
			answer.AnsweredAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save answer record: %w", err)
		}
	}

	completed := 0
	if attempt.Completed {
		completed = 1
	}
	query := `UPDATE test_attempts
	SET ended_at = :1,
		completed = :2,
		total_questions = :3,
		correct_count = :4,
		total_points = :5,
		earned_points = :6,
		score_percentage = :7,
		by_type = :8,
		by_difficulty = :9,
		by_domain = :10
	WHERE id = :11`
	_, err := executor.ExecContext(ctx, query,
		util.TimeToNullTime(attempt.EndedAt),
		completed,
		attempt.Score.TotalQuestions,
		attempt.Score.CorrectCount,
		attempt.Score.TotalPoints,
		attempt.Score.EarnedPoints,
		attempt.Score.ScorePercentage,
		models.FloatMap(attempt.Score.ByType),
		models.FloatMap(attempt.Score.ByDifficulty),
		models.FloatMap(attempt.Score.ByDomain),
		attempt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to seal attempt %s: %w", attempt.ID, err)
	}
	return nil
}

func toDomainAttempt(model *models.Attempt, answerModels []models.UserAnswer) *domain.Attempt {
	attempt := &domain.Attempt{
		ID:          model.ID,
		UserID:      model.UserID,
		ContainerID: model.ContainerID,
		StartedAt:   model.StartedAt,
		Completed:   model.Completed == 1,
		Score: domain.Scorecard{
			TotalQuestions:  model.TotalQuestions,
			CorrectCount:    model.CorrectCount,
			TotalPoints:     model.TotalPoints,
			EarnedPoints:    model.EarnedPoints,
			ScorePercentage: model.ScorePercentage,
			ByType:          model.ByType,
			ByDifficulty:    model.ByDifficulty,
			ByDomain:        model.ByDomain,
		},
	}
	if model.EndedAt.Valid {
		attempt.EndedAt = model.EndedAt.Time
	}

	for i := range answerModels {
		answer := &answerModels[i]
		attempt.Answers = append(attempt.Answers, &domain.AnswerRecord{
			ID:           answer.ID,
			AttemptID:    answer.AttemptID,
			QuestionID:   answer.QuestionID,
			OptionIDs:    answer.OptionIDs,
			TextAnswer:   answer.TextAnswer.String,
			BlankAnswers: answer.BlankAnswers,
			IsCorrect:    answer.IsCorrect == 1,
			AnsweredAt:   answer.AnsweredAt,
		})
	}
	return attempt
}
