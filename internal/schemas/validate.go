// Package schemas provides JSON Schema validation for model output.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed diagnosis_result.schema.json
var diagnosisResultSchema string

// DiagnosisResultSchema returns the embedded JSON Schema for a diagnosis result
func DiagnosisResultSchema() string {
	return diagnosisResultSchema
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Fields returns the distinct failing field paths in report order
func (ve *ValidationError) Fields() []string {
	seen := make(map[string]bool, len(ve.Errors))
	fields := make([]string, 0, len(ve.Errors))
	for _, e := range ve.Errors {
		if !seen[e.Field] {
			seen[e.Field] = true
			fields = append(fields, e.Field)
		}
	}
	return fields
}

var (
	compileOnce    sync.Once
	compiledResult *gojsonschema.Schema
	compileErr     error
)

// ValidateDiagnosisResult validates JSON content against the embedded
// diagnosis result schema. The schema is compiled once.
func ValidateDiagnosisResult(jsonContent string) error {
	compileOnce.Do(func() {
		compiledResult, compileErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(diagnosisResultSchema))
	})
	if compileErr != nil {
		return &SchemaLoadError{
			Path:    "diagnosis_result.schema.json",
			Message: "failed to compile schema",
			Cause:   compileErr,
		}
	}

	result, err := compiledResult.Validate(gojsonschema.NewStringLoader(jsonContent))
	if err != nil {
		return &SchemaLoadError{
			Path:    "diagnosis_result.schema.json",
			Message: "failed to load document",
			Cause:   err,
		}
	}
	return toValidationError(result)
}

// toValidationError converts a result into a *ValidationError, or nil when valid.
// Missing required properties are reported at the property's own path.
func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   fieldPath(desc),
			Message: desc.Description(),
		})
	}
	return validationErr
}

func fieldPath(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if desc.Type() != "required" {
		if field == "" {
			return "(root)"
		}
		return field
	}

	property, _ := desc.Details()["property"].(string)
	if field == "" || field == "(root)" {
		return property
	}
	return field + "." + property
}
