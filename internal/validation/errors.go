// Package validation checks submitted answers against the question catalog.
package validation

import (
	"fmt"

	"github.com/jonathan/career-diagnosis/internal/types"
)

// Reason identifies which rule an answer violated
type Reason string

// Validation failure reasons
const (
	ReasonUnanswered      Reason = "unanswered"
	ReasonWrongType       Reason = "wrong_type"
	ReasonInvalidOption   Reason = "invalid_option"
	ReasonDuplicateOption Reason = "duplicate_option"
	ReasonEmptySelection  Reason = "empty_selection"
	ReasonInvalidLevel    Reason = "invalid_level"
	ReasonTooLong         Reason = "too_long"
)

// ValidationError names the first question whose answer is missing or
// malformed. Its message is shown to the user as is.
//
//nolint:revive // ValidationError is clearer than Error for callers outside the package
type ValidationError struct {
	QuestionID   string
	QuestionText string
	Kind         types.QuestionKind
	Reason       Reason
	Value        string // offending option, skill or level, if any
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonUnanswered:
		return fmt.Sprintf("質問「%s」が未回答です", e.QuestionText)
	case ReasonEmptySelection:
		if e.Kind == types.KindSkillLevel {
			return fmt.Sprintf("質問「%s」は1つ以上スキルを選択してください", e.QuestionText)
		}
		return fmt.Sprintf("質問「%s」は1つ以上選択してください", e.QuestionText)
	case ReasonWrongType:
		return fmt.Sprintf("質問「%s」の回答形式が正しくありません", e.QuestionText)
	case ReasonInvalidOption:
		return fmt.Sprintf("質問「%s」の回答「%s」は選択肢にありません", e.QuestionText, e.Value)
	case ReasonDuplicateOption:
		return fmt.Sprintf("質問「%s」の回答「%s」が重複しています", e.QuestionText, e.Value)
	case ReasonInvalidLevel:
		return fmt.Sprintf("質問「%s」の習熟度「%s」が正しくありません", e.QuestionText, e.Value)
	case ReasonTooLong:
		return fmt.Sprintf("質問「%s」の回答が長すぎます", e.QuestionText)
	default:
		return fmt.Sprintf("質問「%s」の回答が正しくありません", e.QuestionText)
	}
}
