package domain

import (
	"context"
	"io"
)

// ImportService drives one CSV import batch against a container.
type ImportService interface {
	// ImportCSV processes every row of r, isolating per-row failures, and
	// returns the batch statistics. Only batch-level failures (unreadable
	// header, persistence of the batch transaction) are returned as errors.
	ImportCSV(ctx context.Context, r io.Reader, containerID string) (*ImportResult, error)
}

// AttemptService owns the attempt lifecycle: start, submit, read results.
type AttemptService interface {
	// StartAttempt opens a new attempt for a learner on a container.
	StartAttempt(ctx context.Context, userID, containerID string) (*Attempt, error)

	// SubmitAttempt evaluates the submitted answers, seals the attempt and
	// returns it with its scorecard. Re-submission of a sealed attempt is
	// rejected.
	SubmitAttempt(ctx context.Context, attemptID string, answers map[string]Submission) (*Attempt, error)

	// GetAttempt returns an attempt with its answer records.
	GetAttempt(ctx context.Context, attemptID string) (*Attempt, error)
}

// QuestionRepository defines the persistence operations the import and
// attempt pipelines need for questions.
type QuestionRepository interface {
	// ExistsByText reports whether the container already holds a question
	// with this exact raw text. The duplicate key is the raw,
	// pre-preprocessing text.
	ExistsByText(ctx context.Context, containerID, rawText string) (bool, error)

	// Save persists a question together with its options.
	Save(ctx context.Context, question *Question) error

	// GetByID returns a question with its options.
	GetByID(ctx context.Context, id string) (*Question, error)

	// GetByContainer returns all of a container's questions ordered by
	// their order index.
	GetByContainer(ctx context.Context, containerID string) ([]*Question, error)

	// RecordOutcome bumps the per-question performance counters after an
	// attempt is sealed.
	RecordOutcome(ctx context.Context, questionID string, correct bool) error
}

// ContainerRepository defines the persistence operations for containers.
type ContainerRepository interface {
	GetByID(ctx context.Context, id string) (*Container, error)

	// UpdateAggregates writes the post-import aggregates: total question
	// count, distinct question types and last import time.
	UpdateAggregates(ctx context.Context, containerID string, totalQuestions int, questionTypes []string) error
}

// AttemptRepository defines the persistence operations for attempts.
type AttemptRepository interface {
	Save(ctx context.Context, attempt *Attempt) error
	GetByID(ctx context.Context, id string) (*Attempt, error)

	// SaveAnswers persists the answer records of a sealed attempt and the
	// attempt's final scorecard.
	SaveAnswers(ctx context.Context, attempt *Attempt) error
}

// TransactionManager runs a function inside one database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
