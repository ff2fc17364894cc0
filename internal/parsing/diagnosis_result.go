package parsing

import (
	"encoding/json"
	"errors"

	"github.com/jonathan/career-diagnosis/internal/schemas"
	"github.com/jonathan/career-diagnosis/internal/types"
)

// Extraction is a recovered result together with how it was found
type Extraction struct {
	Result     *types.DiagnosisResult
	Candidate  string
	Strategies []Strategy
}

// ExtractDiagnosisResult recovers a DiagnosisResult from raw model text.
// Returns *TruncatedOutputError, *MalformedOutputError or *SchemaMismatchError.
func ExtractDiagnosisResult(text string, truncated bool) (*types.DiagnosisResult, error) {
	ex, err := Extract(text, truncated)
	if err != nil {
		return nil, err
	}
	return ex.Result, nil
}

// Extract is ExtractDiagnosisResult that also reports the candidate and the
// strategies applied. The two error types carry the same details.
func Extract(text string, truncated bool) (*Extraction, error) {
	if truncated {
		return nil, &TruncatedOutputError{Length: len(text)}
	}

	candidate, strategies := ExtractCandidate(text)
	result, err := parseCandidate(candidate, strategies)
	if err != nil {
		return nil, err
	}
	return &Extraction{Result: result, Candidate: candidate, Strategies: strategies}, nil
}

func parseCandidate(candidate string, strategies []Strategy) (*types.DiagnosisResult, error) {
	var raw any
	if err := json.Unmarshal([]byte(candidate), &raw); err != nil {
		return nil, &MalformedOutputError{Candidate: candidate, Strategies: strategies, Cause: err}
	}

	mismatch := &SchemaMismatchError{Candidate: candidate, Strategies: strategies}
	if err := schemas.ValidateDiagnosisResult(candidate); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			mismatch.Fields = validationErr.Fields()
		}
		mismatch.Cause = err
		return nil, mismatch
	}

	var result types.DiagnosisResult
	if err := json.Unmarshal([]byte(candidate), &result); err != nil {
		mismatch.Cause = err
		return nil, mismatch
	}
	return &result, nil
}

// StrategyNames renders strategies for log fields. An empty list means the
// trimmed text was parsed as is.
func StrategyNames(strategies []Strategy) []string {
	names := make([]string, 0, len(strategies))
	for _, s := range strategies {
		names = append(names, string(s))
	}
	return names
}

// Diagnostics returns the candidate and strategies carried by a malformed or
// mismatched output error. ok is false for any other error.
func Diagnostics(err error) (candidate string, strategies []Strategy, ok bool) {
	var malformed *MalformedOutputError
	if errors.As(err, &malformed) {
		return malformed.Candidate, malformed.Strategies, true
	}
	var mismatch *SchemaMismatchError
	if errors.As(err, &mismatch) {
		return mismatch.Candidate, mismatch.Strategies, true
	}
	return "", nil, false
}
