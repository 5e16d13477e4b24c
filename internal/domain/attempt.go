package domain

import "time"

// Attempt is one learner's single pass through a container's questions.
// It is created open, accumulates answer records, and is sealed exactly
// once at submission; a sealed attempt's score never changes.
type Attempt struct {
	ID          string
	UserID      string
	ContainerID string

	StartedAt time.Time
	EndedAt   time.Time
	Completed bool

	Score   Scorecard
	Answers []*AnswerRecord
}

// AnswerRecord is one answered question inside an attempt, carrying the
// modality-appropriate payload and the derived correctness.
type AnswerRecord struct {
	ID         string
	AttemptID  string
	QuestionID string

	OptionIDs    []string
	TextAnswer   string
	BlankAnswers []string

	IsCorrect  bool
	AnsweredAt time.Time
}

// NewAttempt creates an open attempt.
func NewAttempt(userID, containerID string) *Attempt {
	return &Attempt{
		UserID:      userID,
		ContainerID: containerID,
		StartedAt:   time.Now(),
	}
}

// Seal marks the attempt completed and fixes its scorecard. Sealing twice
// is rejected.
func (a *Attempt) Seal(score Scorecard) error {
	if a.Completed {
		return NewAttemptSealedError(a.ID)
	}
	a.Completed = true
	a.EndedAt = time.Now()
	a.Score = score
	return nil
}

// Duration is the wall time between start and seal, zero while open.
func (a *Attempt) Duration() time.Duration {
	if !a.Completed {
		return 0
	}
	return a.EndedAt.Sub(a.StartedAt)
}
