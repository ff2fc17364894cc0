package prompts

import (
	"strings"

	"github.com/jonathan/career-diagnosis/internal/types"
)

// UnansweredPlaceholder is emitted for questions without a usable answer
const UnansweredPlaceholder = "（未回答）"

// ChoiceDelimiter joins the selections of a multiple-choice answer
const ChoiceDelimiter = "、"

// BuildDiagnosisPrompt renders the full instruction for one diagnosis. The
// output depends only on its arguments. facts may be nil; the profile section
// and the career-stage directive are included only when facts carry a value.
func BuildDiagnosisPrompt(questions []types.Question, answers types.AnswerSet, facts *types.ProfileFacts) string {
	t := MustDefault()

	directives := t.Directives
	if !facts.IsEmpty() {
		directives += "\n" + t.StageDirective
	}

	sections := []string{t.Role, directives}
	if !facts.IsEmpty() {
		sections = append(sections, Format(t.ProfileSection, map[string]string{
			"ProfileLines": profileLines(facts),
		}))
	}
	sections = append(sections,
		Format(t.AnswersSection, map[string]string{
			"Answers": SerializeAnswers(questions, answers),
		}),
		t.OutputFormat,
	)

	return strings.Join(sections, "\n\n")
}

// SerializeAnswers renders the Q&A block: one entry per question in catalog
// order, entries joined by newlines.
func SerializeAnswers(questions []types.Question, answers types.AnswerSet) string {
	lines := make([]string, 0, len(questions))
	for _, q := range questions {
		lines = append(lines, serializeAnswer(q, answers.Get(q.ID)))
	}
	return strings.Join(lines, "\n")
}

func serializeAnswer(q types.Question, a types.Answer) string {
	if a.IsBlank() {
		return q.Text + ": " + UnansweredPlaceholder
	}

	switch a.Shape() {
	case types.ShapeSkills:
		var b strings.Builder
		b.WriteString(q.Text)
		b.WriteString(":")
		for _, r := range a.Skills() {
			b.WriteString("\n  - ")
			b.WriteString(r.Skill)
			b.WriteString(": ")
			b.WriteString(string(r.Level))
		}
		return b.String()
	case types.ShapeChoices:
		return q.Text + ": " + strings.Join(a.Choices(), ChoiceDelimiter)
	case types.ShapeText:
		return q.Text + ": " + a.Text()
	default:
		// Malformed answers never pass validation
		return q.Text + ": " + UnansweredPlaceholder
	}
}

func profileLines(facts *types.ProfileFacts) string {
	var lines []string
	if facts.AgeBucket != "" {
		lines = append(lines, "- キャリアステージ: "+facts.AgeBucket)
	}
	if facts.GenderLabel != "" {
		lines = append(lines, "- 性別: "+facts.GenderLabel)
	}
	return strings.Join(lines, "\n")
}
