package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// AnswerShape is the JSON shape an answer arrived in. The question kind decides
// which shape is acceptable; the answer itself does not know its question.
type AnswerShape int

const (
	// ShapeNone is an absent or null answer
	ShapeNone AnswerShape = iota
	// ShapeText is a JSON string (single choice or free text)
	ShapeText
	// ShapeChoices is a JSON array of strings
	ShapeChoices
	// ShapeSkills is a JSON object of skill -> level strings
	ShapeSkills
	// ShapeInvalid is any other JSON value
	ShapeInvalid
)

func (s AnswerShape) String() string {
	switch s {
	case ShapeNone:
		return "none"
	case ShapeText:
		return "text"
	case ShapeChoices:
		return "choices"
	case ShapeSkills:
		return "skills"
	default:
		return "invalid"
	}
}

// SkillRating is one skill -> level entry of a skill-level answer
type SkillRating struct {
	Skill string     `json:"skill"`
	Level SkillLevel `json:"level"`
}

// Answer is a single submitted answer. Skill ratings keep the insertion order
// of the submitted JSON object.
type Answer struct {
	shape   AnswerShape
	text    string
	choices []string
	skills  []SkillRating
	raw     json.RawMessage
}

// TextAnswer builds a single-choice or free-text answer
func TextAnswer(text string) Answer {
	return Answer{shape: ShapeText, text: text}
}

// ChoicesAnswer builds a multiple-choice answer
func ChoicesAnswer(choices ...string) Answer {
	return Answer{shape: ShapeChoices, choices: choices}
}

// SkillAnswer builds a skill-level answer
func SkillAnswer(ratings ...SkillRating) Answer {
	return Answer{shape: ShapeSkills, skills: ratings}
}

// Shape returns the JSON shape of the answer
func (a Answer) Shape() AnswerShape { return a.shape }

// Text returns the string value for ShapeText answers
func (a Answer) Text() string { return a.text }

// Choices returns the selected options for ShapeChoices answers
func (a Answer) Choices() []string { return a.choices }

// Skills returns the ratings for ShapeSkills answers, in submission order
func (a Answer) Skills() []SkillRating { return a.skills }

// IsBlank reports whether the answer carries no usable value: absent, a
// whitespace-only string, an empty list or an empty mapping.
func (a Answer) IsBlank() bool {
	switch a.shape {
	case ShapeNone:
		return true
	case ShapeText:
		return strings.TrimSpace(a.text) == ""
	case ShapeChoices:
		return len(a.choices) == 0
	case ShapeSkills:
		return len(a.skills) == 0
	default:
		return false
	}
}

// UnmarshalJSON decodes any well-formed JSON value. Values that are not a
// string, a list of strings or an object of strings decode as ShapeInvalid so
// that validation can report the offending question.
func (a *Answer) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*a = Answer{}
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case 'n':
		if string(trimmed) == "null" {
			return nil
		}
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*a = TextAnswer(s)
		return nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		choices := make([]string, 0, len(items))
		for _, item := range items {
			var s string
			if err := json.Unmarshal(item, &s); err != nil {
				a.markInvalid(trimmed)
				return nil
			}
			choices = append(choices, s)
		}
		*a = ChoicesAnswer(choices...)
		return nil
	case '{':
		ratings, ok, err := decodeOrderedRatings(trimmed)
		if err != nil {
			return err
		}
		if !ok {
			a.markInvalid(trimmed)
			return nil
		}
		*a = SkillAnswer(ratings...)
		return nil
	}

	a.markInvalid(trimmed)
	return nil
}

func (a *Answer) markInvalid(data []byte) {
	a.shape = ShapeInvalid
	a.raw = append(json.RawMessage(nil), data...)
}

// decodeOrderedRatings walks a JSON object token by token so that key order
// survives. ok is false when a value is not a string.
func decodeOrderedRatings(data []byte) ([]SkillRating, bool, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, false, err
	}

	ratings := []SkillRating{}
	valid := true
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, false, err
		}
		key, _ := keyTok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false, err
		}
		var level string
		if err := json.Unmarshal(value, &level); err != nil {
			valid = false
			continue
		}
		ratings = append(ratings, SkillRating{Skill: key, Level: SkillLevel(level)})
	}
	if _, err := dec.Token(); err != nil {
		return nil, false, err
	}
	return ratings, valid, nil
}

// MarshalJSON encodes the answer in the shape it was submitted in
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.shape {
	case ShapeNone:
		return []byte("null"), nil
	case ShapeText:
		return json.Marshal(a.text)
	case ShapeChoices:
		if a.choices == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.choices)
	case ShapeSkills:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, r := range a.skills {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(r.Skill)
			if err != nil {
				return nil, err
			}
			value, err := json.Marshal(string(r.Level))
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(value)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case ShapeInvalid:
		if len(a.raw) == 0 {
			return []byte("null"), nil
		}
		return a.raw, nil
	default:
		return nil, fmt.Errorf("unknown answer shape %d", a.shape)
	}
}

// Clone returns a copy that shares no slices with a
func (a Answer) Clone() Answer {
	out := a
	if a.choices != nil {
		out.choices = append([]string{}, a.choices...)
	}
	if a.skills != nil {
		out.skills = append([]SkillRating{}, a.skills...)
	}
	if a.raw != nil {
		out.raw = append(json.RawMessage{}, a.raw...)
	}
	return out
}

// AnswerSet maps question IDs to answers. Optional questions may be absent.
type AnswerSet map[string]Answer

// Clone returns a deep copy of the set
func (s AnswerSet) Clone() AnswerSet {
	if s == nil {
		return nil
	}
	out := make(AnswerSet, len(s))
	for id, a := range s {
		out[id] = a.Clone()
	}
	return out
}

// Get returns the answer for a question; absent answers have ShapeNone
func (s AnswerSet) Get(questionID string) Answer {
	if s == nil {
		return Answer{}
	}
	return s[questionID]
}
