package service

import (
	"context"
	"errors"
	"testing"

	"certprep/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func containerQuestions() []*domain.Question {
	return []*domain.Question{
		{
			ID:         "Q1",
			Type:       domain.MultipleChoice,
			Points:     1,
			Difficulty: domain.DifficultyEasy,
			Domain:     "Compute",
			Options: []*domain.Option{
				{ID: "Q1O1", IsCorrect: false, Order: 1},
				{ID: "Q1O2", IsCorrect: true, Order: 2},
			},
		},
		{
			ID:         "Q2",
			Type:       domain.FillInBlanks,
			Points:     3,
			Difficulty: domain.DifficultyHard,
			Domain:     "Networking",
			Blanks:     &domain.BlanksSpec{Answers: []string{"Paris"}},
		},
	}
}

func TestAttemptService_StartAttempt(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		attemptRepo := new(MockAttemptRepository)
		containerRepo := new(MockContainerRepository)
		svc := NewAttemptService(attemptRepo, new(MockQuestionRepository), containerRepo, new(MockTransactionManager))

		container := testContainer()
		container.TotalQuestions = 2
		containerRepo.On("GetByID", ctx, "CONT1").Return(container, nil)
		attemptRepo.On("Save", ctx, mock.Anything).Return(nil)

		attempt, err := svc.StartAttempt(ctx, "USER1", "CONT1")
		require.NoError(t, err)
		assert.Equal(t, "USER1", attempt.UserID)
		assert.Equal(t, "CONT1", attempt.ContainerID)
		assert.False(t, attempt.Completed)
		assert.False(t, attempt.StartedAt.IsZero())
	})

	t.Run("ContainerNotFound", func(t *testing.T) {
		containerRepo := new(MockContainerRepository)
		svc := NewAttemptService(new(MockAttemptRepository), new(MockQuestionRepository), containerRepo, new(MockTransactionManager))

		containerRepo.On("GetByID", ctx, "MISSING").Return(nil, nil)

		_, err := svc.StartAttempt(ctx, "USER1", "MISSING")
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeContainerNotFound, domainErr.Code)
	})

	t.Run("EmptyContainerRejected", func(t *testing.T) {
		containerRepo := new(MockContainerRepository)
		svc := NewAttemptService(new(MockAttemptRepository), new(MockQuestionRepository), containerRepo, new(MockTransactionManager))

		containerRepo.On("GetByID", ctx, "CONT1").Return(testContainer(), nil)

		_, err := svc.StartAttempt(ctx, "USER1", "CONT1")
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeInvalidInput, domainErr.Code)
	})
}

func TestAttemptService_SubmitAttempt(t *testing.T) {
	ctx := context.Background()

	openAttempt := func() *domain.Attempt {
		a := domain.NewAttempt("USER1", "CONT1")
		a.ID = "ATT1"
		return a
	}

	t.Run("ScoresAndSeals", func(t *testing.T) {
		attemptRepo := new(MockAttemptRepository)
		questionRepo := new(MockQuestionRepository)
		txManager := new(MockTransactionManager)
		svc := NewAttemptService(attemptRepo, questionRepo, new(MockContainerRepository), txManager)

		attemptRepo.On("GetByID", ctx, "ATT1").Return(openAttempt(), nil)
		questionRepo.On("GetByContainer", ctx, "CONT1").Return(containerQuestions(), nil)
		txManager.On("WithTransaction", ctx, mock.Anything).Return(nil)
		attemptRepo.On("SaveAnswers", ctx, mock.Anything).Return(nil)
		questionRepo.On("RecordOutcome", ctx, "Q1", false).Return(nil)
		questionRepo.On("RecordOutcome", ctx, "Q2", true).Return(nil)

		// Wrong choice on the 1-point question, right blank on the
		// 3-point one: 3 of 4 points.
		attempt, err := svc.SubmitAttempt(ctx, "ATT1", map[string]domain.Submission{
			"Q1": {OptionIDs: []string{"Q1O1"}},
			"Q2": {Blanks: []string{"paris"}},
		})
		require.NoError(t, err)
		assert.True(t, attempt.Completed)
		assert.Equal(t, 75.0, attempt.Score.ScorePercentage)
		assert.Equal(t, 1, attempt.Score.CorrectCount)
		assert.Equal(t, 2, attempt.Score.TotalQuestions)
		require.Len(t, attempt.Answers, 2)
		attemptRepo.AssertExpectations(t)
		questionRepo.AssertExpectations(t)
	})

	t.Run("UnansweredQuestionsCountAgainstScore", func(t *testing.T) {
		attemptRepo := new(MockAttemptRepository)
		questionRepo := new(MockQuestionRepository)
		txManager := new(MockTransactionManager)
		svc := NewAttemptService(attemptRepo, questionRepo, new(MockContainerRepository), txManager)

		attemptRepo.On("GetByID", ctx, "ATT1").Return(openAttempt(), nil)
		questionRepo.On("GetByContainer", ctx, "CONT1").Return(containerQuestions(), nil)
		txManager.On("WithTransaction", ctx, mock.Anything).Return(nil)
		attemptRepo.On("SaveAnswers", ctx, mock.Anything).Return(nil)
		questionRepo.On("RecordOutcome", ctx, "Q1", true).Return(nil)

		attempt, err := svc.SubmitAttempt(ctx, "ATT1", map[string]domain.Submission{
			"Q1": {OptionIDs: []string{"Q1O2"}},
		})
		require.NoError(t, err)
		assert.Equal(t, 25.0, attempt.Score.ScorePercentage)
		assert.Equal(t, 2, attempt.Score.TotalQuestions)
		require.Len(t, attempt.Answers, 1)
		// No outcome recorded for the unanswered question.
		questionRepo.AssertNotCalled(t, "RecordOutcome", mock.Anything, "Q2", mock.Anything)
	})

	t.Run("SealedAttemptRejected", func(t *testing.T) {
		attemptRepo := new(MockAttemptRepository)
		svc := NewAttemptService(attemptRepo, new(MockQuestionRepository), new(MockContainerRepository), new(MockTransactionManager))

		sealed := openAttempt()
		require.NoError(t, sealed.Seal(domain.Scorecard{}))
		attemptRepo.On("GetByID", ctx, "ATT1").Return(sealed, nil)

		_, err := svc.SubmitAttempt(ctx, "ATT1", nil)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeAttemptSealed, domainErr.Code)
	})

	t.Run("AttemptNotFound", func(t *testing.T) {
		attemptRepo := new(MockAttemptRepository)
		svc := NewAttemptService(attemptRepo, new(MockQuestionRepository), new(MockContainerRepository), new(MockTransactionManager))

		attemptRepo.On("GetByID", ctx, "MISSING").Return(nil, nil)

		_, err := svc.SubmitAttempt(ctx, "MISSING", nil)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeAttemptNotFound, domainErr.Code)
	})

	t.Run("TransactionFailureSurfaced", func(t *testing.T) {
		attemptRepo := new(MockAttemptRepository)
		questionRepo := new(MockQuestionRepository)
		txManager := new(MockTransactionManager)
		svc := NewAttemptService(attemptRepo, questionRepo, new(MockContainerRepository), txManager)

		attemptRepo.On("GetByID", ctx, "ATT1").Return(openAttempt(), nil)
		questionRepo.On("GetByContainer", ctx, "CONT1").Return(containerQuestions(), nil)
		txManager.On("WithTransaction", ctx, mock.Anything).Return(errors.New("commit failed"))

		_, err := svc.SubmitAttempt(ctx, "ATT1", map[string]domain.Submission{
			"Q1": {OptionIDs: []string{"Q1O2"}},
		})
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodePersistence, domainErr.Code)
	})
}

func TestAttemptService_GetAttempt(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		attemptRepo := new(MockAttemptRepository)
		svc := NewAttemptService(attemptRepo, new(MockQuestionRepository), new(MockContainerRepository), new(MockTransactionManager))

		stored := domain.NewAttempt("USER1", "CONT1")
		stored.ID = "ATT1"
		attemptRepo.On("GetByID", ctx, "ATT1").Return(stored, nil)

		attempt, err := svc.GetAttempt(ctx, "ATT1")
		require.NoError(t, err)
		assert.Equal(t, "ATT1", attempt.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		attemptRepo := new(MockAttemptRepository)
		svc := NewAttemptService(attemptRepo, new(MockQuestionRepository), new(MockContainerRepository), new(MockTransactionManager))

		attemptRepo.On("GetByID", ctx, "MISSING").Return(nil, nil)

		_, err := svc.GetAttempt(ctx, "MISSING")
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeAttemptNotFound, domainErr.Code)
	})
}
