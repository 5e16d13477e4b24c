package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"certprep/internal/domain"
	"certprep/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// ContainerDatabaseAdapter implements domain.ContainerRepository using
// sqlx against Oracle.
type ContainerDatabaseAdapter struct {
	db *sqlx.DB
}

// NewContainerRepository creates a new instance of ContainerDatabaseAdapter.
func NewContainerRepository(db *sqlx.DB) domain.ContainerRepository {
	return &ContainerDatabaseAdapter{db: db}
}

// GetByID implements domain.ContainerRepository.
func (a *ContainerDatabaseAdapter) GetByID(ctx context.Context, id string) (*domain.Container, error) {
	executor := GetExecutor(ctx, a.db)

	var model models.Container
	query := `SELECT
		id "id",
		title "title",
		storage_folder "storage_folder",
		passing_score "passing_score",
		total_questions "total_questions",
		question_types "question_types",
		last_imported_at "last_imported_at",
		created_at "created_at",
		updated_at "updated_at"
	FROM containers WHERE id = :1`
	if err := executor.GetContext(ctx, &model, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get container %s: %w", id, err)
	}

	container := &domain.Container{
		ID:             model.ID,
		Title:          model.Title,
		StorageFolder:  model.StorageFolder,
		PassingScore:   model.PassingScore,
		TotalQuestions: model.TotalQuestions,
		QuestionTypes:  model.QuestionTypes,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
	if model.LastImportedAt.Valid {
		container.LastImportedAt = model.LastImportedAt.Time
	}
	return container, nil
}

// UpdateAggregates implements domain.ContainerRepository.
func (a *ContainerDatabaseAdapter) UpdateAggregates(ctx context.Context, containerID string, totalQuestions int, questionTypes []string) error {
	executor := GetExecutor(ctx, a.db)

	now := time.Now()
	query := `UPDATE containers
	SET total_questions = :1,
		question_types = :2,
		last_imported_at = :3,
		updated_at = :4
	WHERE id = :5`
	if _, err := executor.ExecContext(ctx, query,
		totalQuestions, models.StringSlice(questionTypes), now, now, containerID); err != nil {
		return fmt.Errorf("failed to update container aggregates for %s: %w", containerID, err)
	}
	return nil
}
