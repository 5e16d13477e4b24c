package models

import (
	"database/sql"
	"time"
)

// Container is the containers table row.
type Container struct {
	ID             string      `db:"id"`
	Title          string      `db:"title"`
	StorageFolder  string      `db:"storage_folder"`
	PassingScore   float64     `db:"passing_score"`
	TotalQuestions int         `db:"total_questions"`
	QuestionTypes  StringSlice `db:"question_types"`

	LastImportedAt sql.NullTime `db:"last_imported_at"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}
