package models

import (
	"database/sql"
	"time"
)

// Attempt is the test_attempts table row. The scorecard is flattened
// into scalar columns plus three JSON breakdown columns.
type Attempt struct {
	ID          string `db:"id"`
	UserID      string `db:"user_id"`
	ContainerID string `db:"container_id"`

	StartedAt time.Time    `db:"started_at"`
	EndedAt   sql.NullTime `db:"ended_at"`
	Completed int          `db:"completed"`

	TotalQuestions  int     `db:"total_questions"`
	CorrectCount    int     `db:"correct_count"`
	TotalPoints     int     `db:"total_points"`
	EarnedPoints    int     `db:"earned_points"`
	ScorePercentage float64 `db:"score_percentage"`

	ByType       FloatMap `db:"by_type"`
	ByDifficulty FloatMap `db:"by_difficulty"`
	ByDomain     FloatMap `db:"by_domain"`
}

// UserAnswer is the user_answers table row.
type UserAnswer struct {
	ID         string `db:"id"`
	AttemptID  string `db:"attempt_id"`
	QuestionID string `db:"question_id"`

	OptionIDs    StringSlice    `db:"option_ids"`
	TextAnswer   sql.NullString `db:"text_answer"`
	BlankAnswers StringSlice    `db:"blank_answers"`

	IsCorrect  int       `db:"is_correct"`
	AnsweredAt time.Time `db:"answered_at"`
}
