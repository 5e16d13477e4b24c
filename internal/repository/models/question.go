package models

import (
	"database/sql"
	"time"
)

// Question is the questions table row. RawTextHash is the SHA-256 of
// the raw question text; the unique constraint on
// (container_id, raw_text_hash) is what makes duplicate detection safe
// under concurrent imports.
type Question struct {
	ID          string `db:"id"`
	ContainerID string `db:"container_id"`
	RawText     string `db:"raw_text"`
	RawTextHash string `db:"raw_text_hash"`
	Text        string `db:"question_text"`
	Explanation string `db:"explanation"`
	Domain      string `db:"domain"`
	Type        string `db:"question_type"`
	Difficulty  string `db:"difficulty"`
	Points      int    `db:"points"`
	OrderIndex  int    `db:"order_index"`
	MediaCount  int    `db:"media_count"`

	BlanksData       sql.NullString `db:"blanks_data"`
	CodeLanguage     sql.NullString `db:"code_language"`
	StarterCode      sql.NullString `db:"starter_code"`
	ExpectedSolution sql.NullString `db:"expected_solution"`

	CorrectAttempts int `db:"correct_attempts"`
	TotalAttempts   int `db:"total_attempts"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// AnswerOption is the answer_options table row.
type AnswerOption struct {
	ID            string `db:"id"`
	QuestionID    string `db:"question_id"`
	Text          string `db:"option_text"`
	Explanation   string `db:"explanation"`
	IsCorrect     int    `db:"is_correct"`
	OptionOrder   int    `db:"option_order"`
	SelectedCount int    `db:"selected_count"`
}
