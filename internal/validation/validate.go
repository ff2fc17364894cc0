package validation

import (
	"unicode/utf8"

	"github.com/jonathan/career-diagnosis/internal/types"
)

// ValidateAnswers checks answers against each question in catalog order and
// returns the first violation as a *ValidationError. Answers to ids outside
// the catalog are ignored.
func ValidateAnswers(questions []types.Question, answers types.AnswerSet) error {
	for _, q := range questions {
		if err := validateAnswer(q, answers.Get(q.ID)); err != nil {
			return err
		}
	}
	return nil
}

func validateAnswer(q types.Question, a types.Answer) *ValidationError {
	fail := func(reason Reason, value string) *ValidationError {
		return &ValidationError{
			QuestionID:   q.ID,
			QuestionText: q.Text,
			Kind:         q.Kind,
			Reason:       reason,
			Value:        value,
		}
	}

	if a.Shape() == types.ShapeInvalid {
		return fail(ReasonWrongType, "")
	}

	if a.IsBlank() {
		if !q.Required {
			return nil
		}
		if a.Shape() == types.ShapeNone || a.Shape() == types.ShapeText {
			return fail(ReasonUnanswered, "")
		}
		// An empty list or mapping for the wrong kind is still the wrong shape
		if (a.Shape() == types.ShapeChoices && q.Kind != types.KindMultiple) ||
			(a.Shape() == types.ShapeSkills && q.Kind != types.KindSkillLevel) {
			return fail(ReasonWrongType, "")
		}
		return fail(ReasonEmptySelection, "")
	}

	switch q.Kind {
	case types.KindSingle:
		if a.Shape() != types.ShapeText {
			return fail(ReasonWrongType, "")
		}
		if !q.HasOption(a.Text()) {
			return fail(ReasonInvalidOption, a.Text())
		}

	case types.KindMultiple:
		if a.Shape() != types.ShapeChoices {
			return fail(ReasonWrongType, "")
		}
		seen := make(map[string]bool, len(a.Choices()))
		for _, choice := range a.Choices() {
			if !q.HasOption(choice) {
				return fail(ReasonInvalidOption, choice)
			}
			if seen[choice] {
				return fail(ReasonDuplicateOption, choice)
			}
			seen[choice] = true
		}

	case types.KindText:
		if a.Shape() != types.ShapeText {
			return fail(ReasonWrongType, "")
		}
		if q.MaxLength > 0 && utf8.RuneCountInString(a.Text()) > q.MaxLength {
			return fail(ReasonTooLong, "")
		}

	case types.KindSkillLevel:
		if a.Shape() != types.ShapeSkills {
			return fail(ReasonWrongType, "")
		}
		seen := make(map[string]bool, len(a.Skills()))
		for _, r := range a.Skills() {
			if !q.HasOption(r.Skill) {
				return fail(ReasonInvalidOption, r.Skill)
			}
			if seen[r.Skill] {
				return fail(ReasonDuplicateOption, r.Skill)
			}
			seen[r.Skill] = true
			if !r.Level.IsValid() {
				return fail(ReasonInvalidLevel, string(r.Level))
			}
		}

	default:
		return fail(ReasonWrongType, "")
	}

	return nil
}
