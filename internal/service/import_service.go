package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"certprep/internal/domain"
	"certprep/internal/importer"
	"certprep/internal/logger"
	"certprep/internal/media"

	"go.uber.org/zap"
)

// importService implements domain.ImportService. One call processes one
// CSV batch against one container inside a single transaction; row
// failures are isolated so a bad row never sinks the batch.
type importService struct {
	questionRepo  domain.QuestionRepository
	containerRepo domain.ContainerRepository
	txManager     domain.TransactionManager
	builder       *importer.Builder
	resolver      *media.Resolver
	maxRowErrors  int
}

// NewImportService creates a new instance of importService.
func NewImportService(
	questionRepo domain.QuestionRepository,
	containerRepo domain.ContainerRepository,
	txManager domain.TransactionManager,
	builder *importer.Builder,
	resolver *media.Resolver,
	maxRowErrors int,
) domain.ImportService {
	return &importService{
		questionRepo:  questionRepo,
		containerRepo: containerRepo,
		txManager:     txManager,
		builder:       builder,
		resolver:      resolver,
		maxRowErrors:  maxRowErrors,
	}
}

// ImportCSV implements domain.ImportService.
func (s *importService) ImportCSV(ctx context.Context, r io.Reader, containerID string) (*domain.ImportResult, error) {
	container, err := s.containerRepo.GetByID(ctx, containerID)
	if err != nil {
		return nil, err
	}
	if container == nil {
		return nil, domain.NewContainerNotFoundError(containerID)
	}

	reader, err := importer.NewReader(r)
	if err != nil {
		return nil, err
	}

	// Previously cached media URLs may point at blobs this import
	// replaces, so drop them before resolving anything.
	if err := s.resolver.ClearCache(ctx); err != nil {
		logger.Get().Warn("Failed to clear media URL cache before import", zap.Error(err))
	}

	logger.Get().Info("Starting question import",
		zap.String("container_id", containerID),
		zap.String("folder", container.StorageFolder))

	result := domain.NewImportResult()

	txErr := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for {
			// Cooperative cancellation between rows: stop reading but
			// commit what has already been persisted.
			if txCtx.Err() != nil {
				logger.Get().Warn("Import cancelled between rows",
					zap.String("container_id", containerID),
					zap.Int("rows_processed", result.TotalRows))
				break
			}

			row, err := reader.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				result.Record(domain.RowResult{Line: row.Line, Outcome: domain.RowErrored, Err: err}, s.maxRowErrors)
				continue
			}

			result.Record(s.importRow(txCtx, row, container), s.maxRowErrors)
		}

		if result.Imported > 0 {
			total := container.TotalQuestions + result.Imported
			types := mergeTypes(container.QuestionTypes, result.DistinctTypes())
			if err := s.containerRepo.UpdateAggregates(txCtx, containerID, total, types); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, domain.NewPersistenceError("import batch failed", txErr)
	}

	logger.Get().Info("Question import finished",
		zap.String("container_id", containerID),
		zap.Int("total_rows", result.TotalRows),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("errored", result.Errored),
		zap.Int("media_resolved", result.MediaResolved))

	return result, nil
}

// importRow takes one row through the full pipeline: blank check, type
// normalization, duplicate check, build, persist.
func (s *importService) importRow(ctx context.Context, row importer.Row, container *domain.Container) domain.RowResult {
	rawText := row.Get(importer.ColumnQuestion)
	if rawText == "" {
		return domain.RowResult{Line: row.Line, Outcome: domain.RowErrored,
			Err: domain.NewParseError(fmt.Sprintf("row %d: missing mandatory Question cell", row.Line), nil)}
	}

	rawType := row.Get(importer.ColumnQuestionType)
	qtype, known := domain.NormalizeQuestionType(rawType)
	if !known {
		logger.Get().Warn("Unrecognized question type, defaulting to multiple-choice",
			zap.Int("line", row.Line),
			zap.String("raw_type", rawType))
	}

	exists, err := s.questionRepo.ExistsByText(ctx, container.ID, rawText)
	if err != nil {
		return domain.RowResult{Line: row.Line, Outcome: domain.RowErrored,
			Err: domain.NewPersistenceError("duplicate check failed", err)}
	}
	if exists {
		return domain.RowResult{Line: row.Line, Outcome: domain.RowSkipped}
	}

	question, err := s.builder.Build(ctx, row, qtype, container.StorageFolder)
	if err != nil {
		logger.Get().Warn("Row rejected",
			zap.Int("line", row.Line),
			zap.Error(err))
		return domain.RowResult{Line: row.Line, Outcome: domain.RowErrored, Err: err}
	}
	question.ContainerID = container.ID

	if err := s.questionRepo.Save(ctx, question); err != nil {
		return domain.RowResult{Line: row.Line, Outcome: domain.RowErrored,
			Err: domain.NewPersistenceError("failed to save question", err)}
	}

	return domain.RowResult{Line: row.Line, Outcome: domain.RowImported, QuestionID: question.ID,
		Type: question.Type, MediaCount: question.MediaCount}
}

// mergeTypes unions the container's existing question types with the
// ones this batch added, keeping the canonical order.
func mergeTypes(existing, added []string) []string {
	present := make(map[string]struct{}, len(existing)+len(added))
	for _, t := range existing {
		present[t] = struct{}{}
	}
	for _, t := range added {
		present[t] = struct{}{}
	}

	var merged []string
	for _, qtype := range domain.AllQuestionTypes() {
		if _, ok := present[string(qtype)]; ok {
			merged = append(merged, string(qtype))
		}
	}
	return merged
}
