package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerSet_UnmarshalShapes(t *testing.T) {
	input := `{
		"job": "営業",
		"interests": ["IT", "マーケティング"],
		"skills": {"Excel": "実務経験あり", "Python": "勉強中", "SQL": "興味あり"},
		"free": "",
		"missing": null,
		"age": 31,
		"mixed": ["IT", 3],
		"nested": {"Go": {"level": "勉強中"}}
	}`

	var answers AnswerSet
	require.NoError(t, json.Unmarshal([]byte(input), &answers))

	assert.Equal(t, ShapeText, answers["job"].Shape())
	assert.Equal(t, "営業", answers["job"].Text())

	assert.Equal(t, ShapeChoices, answers["interests"].Shape())
	assert.Equal(t, []string{"IT", "マーケティング"}, answers["interests"].Choices())

	assert.Equal(t, ShapeSkills, answers["skills"].Shape())
	assert.Equal(t, []SkillRating{
		{Skill: "Excel", Level: SkillExperienced},
		{Skill: "Python", Level: SkillLearning},
		{Skill: "SQL", Level: SkillInterested},
	}, answers["skills"].Skills())

	assert.True(t, answers["free"].IsBlank())
	assert.Equal(t, ShapeNone, answers["missing"].Shape())
	assert.Equal(t, ShapeInvalid, answers["age"].Shape())
	assert.Equal(t, ShapeInvalid, answers["mixed"].Shape())
	assert.Equal(t, ShapeInvalid, answers["nested"].Shape())
}

func TestAnswer_SkillOrderSurvivesRoundTrip(t *testing.T) {
	// Keys deliberately out of lexical order
	input := `{"Zendesk":"勉強中","Excel":"実務経験あり","Python":"興味あり"}`

	var a Answer
	require.NoError(t, json.Unmarshal([]byte(input), &a))

	out, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
	assert.Equal(t, input, string(out))
}

func TestAnswer_MarshalByShape(t *testing.T) {
	tests := []struct {
		name     string
		answer   Answer
		expected string
	}{
		{name: "none", answer: Answer{}, expected: `null`},
		{name: "text", answer: TextAnswer("エンジニア"), expected: `"エンジニア"`},
		{name: "choices", answer: ChoicesAnswer("A", "B"), expected: `["A","B"]`},
		{name: "empty choices", answer: ChoicesAnswer(), expected: `[]`},
		{name: "skills", answer: SkillAnswer(SkillRating{Skill: "Go", Level: SkillLearning}), expected: `{"Go":"勉強中"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := json.Marshal(tt.answer)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(out))
		})
	}
}

func TestAnswer_InvalidShapeKeepsRawValue(t *testing.T) {
	var a Answer
	require.NoError(t, json.Unmarshal([]byte(`42`), &a))

	out, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Equal(t, `42`, string(out))
}

func TestAnswer_IsBlank(t *testing.T) {
	assert.True(t, Answer{}.IsBlank())
	assert.True(t, TextAnswer("   ").IsBlank())
	assert.True(t, ChoicesAnswer().IsBlank())
	assert.True(t, SkillAnswer().IsBlank())
	assert.False(t, TextAnswer("x").IsBlank())
	assert.False(t, Answer{shape: ShapeInvalid}.IsBlank())
}

func TestAnswerSet_GetOnNil(t *testing.T) {
	var s AnswerSet
	assert.Equal(t, ShapeNone, s.Get("anything").Shape())
}
