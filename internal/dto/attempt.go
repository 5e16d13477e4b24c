package dto

import (
	"time"

	"certprep/internal/domain"
)

// StartAttemptRequest represents the request body for opening an attempt
type StartAttemptRequest struct {
	ContainerID string `json:"container_id"`
}

// StartAttemptResponse represents a freshly opened attempt
type StartAttemptResponse struct {
	AttemptID   string    `json:"attempt_id"`
	ContainerID string    `json:"container_id"`
	StartedAt   time.Time `json:"started_at"`
}

// AnswerSubmission carries the payload for one answered question. The
// fields are modality specific: option IDs for choice questions, blank
// answers for fill-in-the-blanks, text for code completion.
type AnswerSubmission struct {
	OptionIDs    []string `json:"option_ids,omitempty"`
	BlankAnswers []string `json:"blank_answers,omitempty"`
	TextAnswer   string   `json:"text_answer,omitempty"`
}

// SubmitAttemptRequest represents the request body for sealing an attempt,
// keyed by question ID
type SubmitAttemptRequest struct {
	Answers map[string]AnswerSubmission `json:"answers"`
}

// ToSubmissions maps the request payloads to their domain shape.
func (r *SubmitAttemptRequest) ToSubmissions() map[string]domain.Submission {
	subs := make(map[string]domain.Submission, len(r.Answers))
	for questionID, ans := range r.Answers {
		subs[questionID] = domain.Submission{
			OptionIDs: ans.OptionIDs,
			Blanks:    ans.BlankAnswers,
			Text:      ans.TextAnswer,
		}
	}
	return subs
}

// AnswerRecordResponse represents one evaluated answer in the API response
type AnswerRecordResponse struct {
	QuestionID string    `json:"question_id"`
	IsCorrect  bool      `json:"is_correct"`
	AnsweredAt time.Time `json:"answered_at"`
}

// ScorecardResponse represents the aggregate score of a sealed attempt
// @Description Attempt scorecard with per-bucket breakdowns
type ScorecardResponse struct {
	TotalQuestions  int                `json:"total_questions"`
	CorrectCount    int                `json:"correct_count"`
	TotalPoints     int                `json:"total_points"`
	EarnedPoints    int                `json:"earned_points"`
	ScorePercentage float64            `json:"score_percentage"`
	Grade           string             `json:"grade"`
	Passed          bool               `json:"passed"`
	ByType          map[string]float64 `json:"by_type"`
	ByDifficulty    map[string]float64 `json:"by_difficulty"`
	ByDomain        map[string]float64 `json:"by_domain"`
}

// AttemptResultResponse represents a sealed attempt with its scorecard
type AttemptResultResponse struct {
	AttemptID       string                 `json:"attempt_id"`
	ContainerID     string                 `json:"container_id"`
	StartedAt       time.Time              `json:"started_at"`
	EndedAt         time.Time              `json:"ended_at"`
	DurationSeconds float64                `json:"duration_seconds"`
	Score           ScorecardResponse      `json:"score"`
	Answers         []AnswerRecordResponse `json:"answers"`
}

// NewAttemptResultResponse maps a sealed attempt to its API shape. The
// passing score comes from the container the attempt ran against.
func NewAttemptResultResponse(attempt *domain.Attempt, passingScore float64) AttemptResultResponse {
	answers := make([]AnswerRecordResponse, 0, len(attempt.Answers))
	for _, record := range attempt.Answers {
		answers = append(answers, AnswerRecordResponse{
			QuestionID: record.QuestionID,
			IsCorrect:  record.IsCorrect,
			AnsweredAt: record.AnsweredAt,
		})
	}
	return AttemptResultResponse{
		AttemptID:       attempt.ID,
		ContainerID:     attempt.ContainerID,
		StartedAt:       attempt.StartedAt,
		EndedAt:         attempt.EndedAt,
		DurationSeconds: attempt.Duration().Seconds(),
		Score: ScorecardResponse{
			TotalQuestions:  attempt.Score.TotalQuestions,
			CorrectCount:    attempt.Score.CorrectCount,
			TotalPoints:     attempt.Score.TotalPoints,
			EarnedPoints:    attempt.Score.EarnedPoints,
			ScorePercentage: attempt.Score.ScorePercentage,
			Grade:           attempt.Score.Grade(),
			Passed:          attempt.Score.Passed(passingScore),
			ByType:          attempt.Score.ByType,
			ByDifficulty:    attempt.Score.ByDifficulty,
			ByDomain:        attempt.Score.ByDomain,
		},
		Answers: answers,
	}
}
