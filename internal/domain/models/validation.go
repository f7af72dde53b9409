package models

type ValidationKind string

const (
	ValidationOk      ValidationKind = "Ok"
	ValidationWarning ValidationKind = "Warning"
	ValidationError   ValidationKind = "Error"
)

// ValidationResult mirrors the ok/warning/error feedback a build step field receives
type ValidationResult struct {
	Kind    ValidationKind
	Message string
}

func Ok() ValidationResult {
	return ValidationResult{Kind: ValidationOk}
}

func Warning(message string) ValidationResult {
	return ValidationResult{Kind: ValidationWarning, Message: message}
}

func Error(message string) ValidationResult {
	return ValidationResult{Kind: ValidationError, Message: message}
}

func (v ValidationResult) IsError() bool {
	return v.Kind == ValidationError
}

// ReleaseExistenceRequirement states whether a release being validated is expected to exist already
type ReleaseExistenceRequirement string

const (
	ReleaseMustExist    ReleaseExistenceRequirement = "MustExist"
	ReleaseMustNotExist ReleaseExistenceRequirement = "MustNotExist"
)

// FieldValidation is the result of validating one named field of a step
type FieldValidation struct {
	Field string
	ValidationResult
}
