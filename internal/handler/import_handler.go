package handler

import (
	"certprep/internal/domain"
	"certprep/internal/dto"
	"certprep/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ImportHandler handles question import HTTP requests
type ImportHandler struct {
	service domain.ImportService
}

// NewImportHandler creates a new ImportHandler instance
func NewImportHandler(service domain.ImportService) *ImportHandler {
	return &ImportHandler{
		service: service,
	}
}

// ImportQuestions godoc
// @Summary Import questions from a CSV file
// @Description Parses an uploaded CSV export and imports its rows as questions into the container
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Container ID"
// @Param file formData file true "CSV file"
// @Success 200 {object} dto.ImportResultResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/containers/{id}/questions/import [post]
func (h *ImportHandler) ImportQuestions(c *fiber.Ctx) error {
	containerID := c.Params("id")
	if containerID == "" {
		return domain.NewInvalidInputError("container id is required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return domain.NewInvalidInputError("multipart field 'file' is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return domain.NewInvalidInputError("uploaded file could not be opened")
	}
	defer file.Close()

	result, err := h.service.ImportCSV(c.Context(), file, containerID)
	if err != nil {
		return err
	}

	logger.Get().Info("Import request completed",
		zap.String("container_id", containerID),
		zap.String("filename", fileHeader.Filename),
		zap.Int("imported", result.Imported),
		zap.Int("errored", result.Errored),
	)

	return c.JSON(dto.NewImportResultResponse(containerID, result))
}
