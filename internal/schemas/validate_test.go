package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validResult = `{
	"careerType": "DXブリッジ人材型",
	"summary": "概要",
	"strengths": ["顧客折衝"],
	"recommendations": ["ITコンサルタント", {"jobTitle": "PM", "salaryRange": "500〜700万円", "fit": "調整力"}],
	"roadmap": {"shortTerm": "a", "midTerm": "b", "longTerm": "c"},
	"salaryProjection": {"current": 400, "longTerm": 700}
}`

func TestDiagnosisResultSchema_IsValidJSON(t *testing.T) {
	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(DiagnosisResultSchema()), &schema))
	assert.Equal(t, "object", schema["type"])
}

func TestValidateDiagnosisResult_Valid(t *testing.T) {
	assert.NoError(t, ValidateDiagnosisResult(validResult))
}

func TestValidateDiagnosisResult_MissingFields(t *testing.T) {
	err := ValidateDiagnosisResult(`{"careerType": "型", "strengths": [], "recommendations": [], "roadmap": {"shortTerm": "a"}}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")

	fields := validationErr.Fields()
	assert.Contains(t, fields, "summary")
	assert.Contains(t, fields, "roadmap.midTerm")
	assert.Contains(t, fields, "roadmap.longTerm")
}

func TestValidateDiagnosisResult_WrongTypes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "top level array", doc: `[1, 2]`},
		{name: "recommendation number", doc: `{"careerType":"a","summary":"b","strengths":[],"recommendations":[3],"roadmap":{"shortTerm":"","midTerm":"","longTerm":""}}`},
		{name: "recommendation object without title", doc: `{"careerType":"a","summary":"b","strengths":[],"recommendations":[{"fit":"x"}],"roadmap":{"shortTerm":"","midTerm":"","longTerm":""}}`},
		{name: "salary as string", doc: `{"careerType":"a","summary":"b","strengths":[],"recommendations":[],"roadmap":{"shortTerm":"","midTerm":"","longTerm":""},"salaryProjection":{"current":"400万"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDiagnosisResult(tt.doc)
			require.Error(t, err)
			_, ok := err.(*ValidationError)
			assert.True(t, ok)
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "summary", Message: "summary is required"},
			{Field: "roadmap.shortTerm", Message: "Invalid type"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "1. summary: summary is required")
	assert.Contains(t, msg, "2. roadmap.shortTerm: Invalid type")
}
