package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"certprep/internal/domain"
	"certprep/internal/dto"
	"certprep/internal/handler"
	"certprep/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockImportService
type MockImportService struct {
	ImportCSVFunc func(ctx context.Context, r io.Reader, containerID string) (*domain.ImportResult, error)
}

func (m *MockImportService) ImportCSV(ctx context.Context, r io.Reader, containerID string) (*domain.ImportResult, error) {
	if m.ImportCSVFunc != nil {
		return m.ImportCSVFunc(ctx, r, containerID)
	}
	panic("MockImportService.ImportCSVFunc not implemented")
}

func newImportApp(svc domain.ImportService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	h := handler.NewImportHandler(svc)
	app.Post("/api/admin/containers/:id/questions/import", h.ImportQuestions)
	return app
}

func buildUpload(t *testing.T, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "questions.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestImportQuestions(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &MockImportService{
			ImportCSVFunc: func(ctx context.Context, r io.Reader, containerID string) (*domain.ImportResult, error) {
				assert.Equal(t, "CONT1", containerID)
				raw, readErr := io.ReadAll(r)
				require.NoError(t, readErr)
				assert.Contains(t, string(raw), "Question")

				result := domain.NewImportResult()
				result.TotalRows = 3
				result.Imported = 2
				result.Skipped = 1
				result.PerTypeCounts[domain.MultipleChoice] = 2
				result.MediaResolved = 1
				return result, nil
			},
		}
		app := newImportApp(svc)

		body, contentType := buildUpload(t, "Question,Question Type\nWhat is 2+2?,mcq\n")
		req := httptest.NewRequest("POST", "/api/admin/containers/CONT1/questions/import", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var got dto.ImportResultResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "CONT1", got.ContainerID)
		assert.Equal(t, 3, got.TotalRows)
		assert.Equal(t, 2, got.Imported)
		assert.Equal(t, 1, got.Skipped)
		assert.Equal(t, 2, got.PerTypeCounts["multiple-choice"])
		assert.Equal(t, 1, got.MediaResolved)
	})

	t.Run("MissingFile", func(t *testing.T) {
		app := newImportApp(&MockImportService{})

		req := httptest.NewRequest("POST", "/api/admin/containers/CONT1/questions/import", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("ContainerNotFound", func(t *testing.T) {
		svc := &MockImportService{
			ImportCSVFunc: func(ctx context.Context, r io.Reader, containerID string) (*domain.ImportResult, error) {
				return nil, domain.NewContainerNotFoundError(containerID)
			},
		}
		app := newImportApp(svc)

		body, contentType := buildUpload(t, "Question\nWhat is 2+2?\n")
		req := httptest.NewRequest("POST", "/api/admin/containers/MISSING/questions/import", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("MalformedHeaderRejected", func(t *testing.T) {
		svc := &MockImportService{
			ImportCSVFunc: func(ctx context.Context, r io.Reader, containerID string) (*domain.ImportResult, error) {
				return nil, domain.NewParseError("header is missing mandatory column Question", nil)
			},
		}
		app := newImportApp(svc)

		body, contentType := buildUpload(t, "Title\nNot a question export\n")
		req := httptest.NewRequest("POST", "/api/admin/containers/CONT1/questions/import", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		raw, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(raw), string(domain.CodeParse))
	})
}
