package handlers

import (
	"errors"
	"fmt"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
)

var ErrUnknownField = errors.New("the field can not be validated")

// ValidationFailedError is returned when a request was rejected because of the values it holds, as
// opposed to a failure talking to the Octopus server
type ValidationFailedError struct {
	Fields []models.FieldValidation
	Err    error
}

func (e *ValidationFailedError) Error() string {
	return "the step is not valid: " + e.Err.Error()
}

func (e *ValidationFailedError) Unwrap() error {
	return e.Err
}

func invalidField(field string, err error) *ValidationFailedError {
	return &ValidationFailedError{
		Fields: []models.FieldValidation{{
			Field:            field,
			ValidationResult: models.Error(err.Error()),
		}},
		Err: err,
	}
}

// TaskFailedError is returned when a deployment task completes without succeeding
type TaskFailedError struct {
	TaskId       string
	State        string
	ErrorMessage string
}

func (e *TaskFailedError) Error() string {
	if e.ErrorMessage == "" {
		return fmt.Sprintf("deployment task %s finished with the state %s", e.TaskId, e.State)
	}

	return fmt.Sprintf("deployment task %s finished with the state %s: %s", e.TaskId, e.State, e.ErrorMessage)
}
