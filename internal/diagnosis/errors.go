package diagnosis

import (
	"errors"
	"fmt"

	"github.com/jonathan/career-diagnosis/internal/llm"
	"github.com/jonathan/career-diagnosis/internal/parsing"
	"github.com/jonathan/career-diagnosis/internal/validation"
)

// ErrNotFound is returned when no record exists for an id
var ErrNotFound = errors.New("diagnosis not found")

// ErrForbidden is returned when a record belongs to another owner
var ErrForbidden = errors.New("diagnosis belongs to another owner")

// ErrProfilesUnavailable is returned by profile operations when the service
// was built without a profile store
var ErrProfilesUnavailable = errors.New("profile store not configured")

// Stage is the pipeline step that failed
type Stage string

// Pipeline stages
const (
	StageValidate Stage = "validate"
	StageGenerate Stage = "generate"
	StageExtract  Stage = "extract"
	StagePersist  Stage = "persist"
)

// Code is the stable error code reported to clients and logs
type Code string

// Error codes, one per failure cause
const (
	CodeValidationFailed Code = "validation_failed"
	CodeGenerationFailed Code = "generation_failed"
	CodeOutputTruncated  Code = "output_truncated"
	CodeOutputMalformed  Code = "output_malformed"
	CodeSchemaMismatch   Code = "schema_mismatch"
	CodePersistFailed    Code = "persist_failed"
)

// StageError wraps a terminal pipeline failure with its stage and code
type StageError struct {
	Stage Stage
	Code  Code
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("diagnosis %s failed (%s): %v", e.Stage, e.Code, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// extractionCode maps an extractor error to its code
func extractionCode(err error) Code {
	var truncErr *parsing.TruncatedOutputError
	var malformedErr *parsing.MalformedOutputError
	switch {
	case errors.As(err, &truncErr):
		return CodeOutputTruncated
	case errors.As(err, &malformedErr):
		return CodeOutputMalformed
	default:
		return CodeSchemaMismatch
	}
}

// ValidationFailure returns the validation error inside err, if any
func ValidationFailure(err error) (*validation.ValidationError, bool) {
	var vErr *validation.ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

// IsGenerationFailure reports whether err came from the upstream model call
func IsGenerationFailure(err error) bool {
	var genErr *llm.GenerationError
	return errors.As(err, &genErr)
}
