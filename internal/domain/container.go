package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Container is the collection a question belongs to (a practice-test
// package). Deleting a container cascades to its questions.
type Container struct {
	ID            string
	Title         string
	StorageFolder string
	PassingScore  float64

	TotalQuestions int
	QuestionTypes  []string
	LastImportedAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewContainer creates a container with the default passing score.
func NewContainer(title, storageFolder string) *Container {
	now := time.Now()
	return &Container{
		Title:         title,
		StorageFolder: storageFolder,
		PassingScore:  70,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

var storageFolderPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9\-]*[a-z0-9])?$`)

// ValidateStorageFolder checks the folder name against blob container
// naming rules: 3-63 characters, lowercase alphanumerics and hyphens, no
// leading, trailing or consecutive hyphens. An empty folder is valid and
// means media resolution falls back to local paths.
func (c *Container) ValidateStorageFolder() error {
	folder := c.StorageFolder
	if folder == "" {
		return nil
	}
	if len(folder) < 3 || len(folder) > 63 {
		return NewValidationError(fmt.Sprintf("storage folder %q must be 3-63 characters", folder))
	}
	if !storageFolderPattern.MatchString(folder) {
		return NewValidationError(fmt.Sprintf("storage folder %q may only contain lowercase letters, digits and hyphens", folder))
	}
	if strings.Contains(folder, "--") {
		return NewValidationError(fmt.Sprintf("storage folder %q must not contain consecutive hyphens", folder))
	}
	return nil
}

// Validate validates the container.
func (c *Container) Validate() error {
	if c.Title == "" {
		return NewValidationError("title is required")
	}
	if c.PassingScore < 0 || c.PassingScore > 100 {
		return NewValidationError("passing score must be between 0 and 100")
	}
	return c.ValidateStorageFolder()
}
