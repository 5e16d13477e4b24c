package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Import pipeline errors
	CodeParse                ErrorCode = "PARSE_ERROR"
	CodeStructuralValidation ErrorCode = "STRUCTURAL_VALIDATION_ERROR"
	CodeDuplicateQuestion    ErrorCode = "DUPLICATE_QUESTION"
	CodePersistence          ErrorCode = "PERSISTENCE_FAILURE"

	// Evaluation and attempt errors
	CodeUnsupportedType   ErrorCode = "UNSUPPORTED_QUESTION_TYPE"
	CodeQuestionNotFound  ErrorCode = "QUESTION_NOT_FOUND"
	CodeContainerNotFound ErrorCode = "CONTAINER_NOT_FOUND"
	CodeAttemptNotFound   ErrorCode = "ATTEMPT_NOT_FOUND"
	CodeAttemptSealed     ErrorCode = "ATTEMPT_SEALED"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewParseError(message string, err error) *DomainError {
	return NewError(CodeParse, message, err)
}

func NewStructuralError(message string) *DomainError {
	return NewError(CodeStructuralValidation, message, nil)
}

func NewPersistenceError(message string, err error) *DomainError {
	return NewError(CodePersistence, message, err)
}

func NewUnsupportedTypeError(qtype QuestionType) *DomainError {
	return NewError(CodeUnsupportedType, fmt.Sprintf("unsupported question type: %s", qtype), nil)
}

func NewQuestionNotFoundError(questionID string) *DomainError {
	return NewError(CodeQuestionNotFound, fmt.Sprintf("question not found: %s", questionID), nil)
}

func NewContainerNotFoundError(containerID string) *DomainError {
	return NewError(CodeContainerNotFound, fmt.Sprintf("container not found: %s", containerID), nil)
}

func NewAttemptNotFoundError(attemptID string) *DomainError {
	return NewError(CodeAttemptNotFound, fmt.Sprintf("attempt not found: %s", attemptID), nil)
}

func NewAttemptSealedError(attemptID string) *DomainError {
	return NewError(CodeAttemptSealed, fmt.Sprintf("attempt already submitted: %s", attemptID), nil)
}
