package service

import (
	"context"
	"time"

	"certprep/internal/domain"
	"certprep/internal/logger"

	"go.uber.org/zap"
)

// attemptService implements domain.AttemptService.
type attemptService struct {
	attemptRepo   domain.AttemptRepository
	questionRepo  domain.QuestionRepository
	containerRepo domain.ContainerRepository
	txManager     domain.TransactionManager
}

// NewAttemptService creates a new instance of attemptService.
func NewAttemptService(
	attemptRepo domain.AttemptRepository,
	questionRepo domain.QuestionRepository,
	containerRepo domain.ContainerRepository,
	txManager domain.TransactionManager,
) domain.AttemptService {
	return &attemptService{
		attemptRepo:   attemptRepo,
		questionRepo:  questionRepo,
		containerRepo: containerRepo,
		txManager:     txManager,
	}
}

// StartAttempt implements domain.AttemptService.
func (s *attemptService) StartAttempt(ctx context.Context, userID, containerID string) (*domain.Attempt, error) {
	container, err := s.containerRepo.GetByID(ctx, containerID)
	if err != nil {
		return nil, err
	}
	if container == nil {
		return nil, domain.NewContainerNotFoundError(containerID)
	}
	if container.TotalQuestions == 0 {
		return nil, domain.NewInvalidInputError("container has no questions to attempt")
	}

	attempt := domain.NewAttempt(userID, containerID)
	if err := s.attemptRepo.Save(ctx, attempt); err != nil {
		return nil, domain.NewPersistenceError("failed to save attempt", err)
	}

	logger.Get().Info("Attempt started",
		zap.String("attempt_id", attempt.ID),
		zap.String("container_id", containerID),
		zap.String("user_id", userID))

	return attempt, nil
}

// SubmitAttempt implements domain.AttemptService. Every submitted answer
// is evaluated against its question, the attempt is scored and sealed,
// and per-question performance counters are updated, all in one
// transaction.
func (s *attemptService) SubmitAttempt(ctx context.Context, attemptID string, answers map[string]domain.Submission) (*domain.Attempt, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, domain.NewAttemptNotFoundError(attemptID)
	}
	if attempt.Completed {
		return nil, domain.NewAttemptSealedError(attemptID)
	}

	questions, err := s.questionRepo.GetByContainer(ctx, attempt.ContainerID)
	if err != nil {
		return nil, err
	}

	breakdowns := make([]domain.AnswerBreakdown, 0, len(questions))
	records := make([]*domain.AnswerRecord, 0, len(answers))
	outcomes := make(map[string]bool, len(answers))

	for _, q := range questions {
		sub, answered := answers[q.ID]
		correct := false
		if answered {
			correct, err = domain.EvaluateAnswer(q, sub)
			if err != nil {
				return nil, err
			}
			records = append(records, &domain.AnswerRecord{
				AttemptID:    attemptID,
				QuestionID:   q.ID,
				OptionIDs:    sub.OptionIDs,
				TextAnswer:   sub.Text,
				BlankAnswers: sub.Blanks,
				IsCorrect:    correct,
				AnsweredAt:   time.Now(),
			})
			outcomes[q.ID] = correct
		}

		// Unanswered questions still count against the score.
		breakdowns = append(breakdowns, domain.AnswerBreakdown{
			Correct:    correct,
			Points:     q.Points,
			Type:       q.Type,
			Difficulty: q.Difficulty,
			Domain:     q.Domain,
		})
	}

	score := domain.ScoreAttempt(breakdowns)
	attempt.Answers = records
	if err := attempt.Seal(score); err != nil {
		return nil, err
	}

	txErr := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.attemptRepo.SaveAnswers(txCtx, attempt); err != nil {
			return err
		}
		for questionID, correct := range outcomes {
			if err := s.questionRepo.RecordOutcome(txCtx, questionID, correct); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, domain.NewPersistenceError("failed to save attempt results", txErr)
	}

	logger.Get().Info("Attempt submitted",
		zap.String("attempt_id", attemptID),
		zap.Float64("score_percentage", score.ScorePercentage),
		zap.Int("answered", len(records)),
		zap.Int("total_questions", len(questions)))

	return attempt, nil
}

// GetAttempt implements domain.AttemptService.
func (s *attemptService) GetAttempt(ctx context.Context, attemptID string) (*domain.Attempt, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, domain.NewAttemptNotFoundError(attemptID)
	}
	return attempt, nil
}
