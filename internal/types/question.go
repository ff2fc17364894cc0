// Package types provides type definitions for structured data used throughout the career-diagnosis system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// QuestionKind identifies how a question is answered
type QuestionKind string

const (
	// KindSingle is a single choice from Options
	KindSingle QuestionKind = "single"
	// KindMultiple is one or more distinct choices from Options
	KindMultiple QuestionKind = "multiple"
	// KindText is free text
	KindText QuestionKind = "text"
	// KindSkillLevel maps skills from Options to a SkillLevel
	KindSkillLevel QuestionKind = "skillLevel"
)

// SkillLevel is the self-assessed proficiency for one skill
type SkillLevel string

// Skill levels offered for KindSkillLevel questions
const (
	SkillExperienced SkillLevel = "実務経験あり"
	SkillLearning    SkillLevel = "勉強中"
	SkillInterested  SkillLevel = "興味あり"
)

// SkillLevels lists the valid proficiency levels in display order.
var SkillLevels = []SkillLevel{SkillExperienced, SkillLearning, SkillInterested}

// IsValid reports whether l is one of SkillLevels
func (l SkillLevel) IsValid() bool {
	for _, v := range SkillLevels {
		if l == v {
			return true
		}
	}
	return false
}

// Question is one immutable entry of the questionnaire
type Question struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	Kind        QuestionKind `json:"kind"`
	Options     []string     `json:"options,omitempty"`
	Required    bool         `json:"required"`
	Placeholder string       `json:"placeholder,omitempty"`
	MaxLength   int          `json:"maxLength,omitempty"` // rune ceiling for text answers, 0 = unlimited
}

// HasOption reports whether option is one of the question's options
func (q Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}
