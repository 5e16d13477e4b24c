package handler

import (
	"certprep/internal/domain"
	"certprep/internal/dto"
	"certprep/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// AttemptHandler handles test attempt HTTP requests
type AttemptHandler struct {
	service       domain.AttemptService
	containerRepo domain.ContainerRepository
}

// NewAttemptHandler creates a new AttemptHandler instance
func NewAttemptHandler(service domain.AttemptService, containerRepo domain.ContainerRepository) *AttemptHandler {
	return &AttemptHandler{
		service:       service,
		containerRepo: containerRepo,
	}
}

// StartAttempt godoc
// @Summary Start a test attempt
// @Description Opens a new attempt on a question container
// @Tags attempts
// @Accept json
// @Produce json
// @Param request body dto.StartAttemptRequest true "Container to attempt"
// @Success 201 {object} dto.StartAttemptResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /attempts [post]
func (h *AttemptHandler) StartAttempt(c *fiber.Ctx) error {
	var req dto.StartAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body could not be parsed")
	}
	if req.ContainerID == "" {
		return domain.NewInvalidInputError("container_id is required")
	}

	userID, _ := c.Locals(middleware.UserIDKey).(string)

	attempt, err := h.service.StartAttempt(c.Context(), userID, req.ContainerID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.StartAttemptResponse{
		AttemptID:   attempt.ID,
		ContainerID: attempt.ContainerID,
		StartedAt:   attempt.StartedAt,
	})
}

// SubmitAttempt godoc
// @Summary Submit a test attempt
// @Description Evaluates the submitted answers, seals the attempt and returns the scorecard
// @Tags attempts
// @Accept json
// @Produce json
// @Param id path string true "Attempt ID"
// @Param request body dto.SubmitAttemptRequest true "Answers keyed by question ID"
// @Success 200 {object} dto.AttemptResultResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /attempts/{id}/submit [post]
func (h *AttemptHandler) SubmitAttempt(c *fiber.Ctx) error {
	attemptID := c.Params("id")
	if attemptID == "" {
		return domain.NewInvalidInputError("attempt id is required")
	}

	var req dto.SubmitAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body could not be parsed")
	}

	attempt, err := h.service.SubmitAttempt(c.Context(), attemptID, req.ToSubmissions())
	if err != nil {
		return err
	}

	return c.JSON(dto.NewAttemptResultResponse(attempt, h.passingScore(c, attempt.ContainerID)))
}

// GetAttemptResult godoc
// @Summary Get an attempt result
// @Description Returns a sealed attempt with its scorecard and answer records
// @Tags attempts
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} dto.AttemptResultResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /attempts/{id}/result [get]
func (h *AttemptHandler) GetAttemptResult(c *fiber.Ctx) error {
	attemptID := c.Params("id")
	if attemptID == "" {
		return domain.NewInvalidInputError("attempt id is required")
	}

	attempt, err := h.service.GetAttempt(c.Context(), attemptID)
	if err != nil {
		return err
	}

	return c.JSON(dto.NewAttemptResultResponse(attempt, h.passingScore(c, attempt.ContainerID)))
}

// passingScore looks up the container's passing threshold, defaulting to
// 70 when the container cannot be loaded.
func (h *AttemptHandler) passingScore(c *fiber.Ctx, containerID string) float64 {
	container, err := h.containerRepo.GetByID(c.Context(), containerID)
	if err != nil || container == nil {
		return 70
	}
	return container.PassingScore
}
