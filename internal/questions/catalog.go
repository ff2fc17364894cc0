// Package questions provides the fixed career-diagnosis questionnaire.
// The catalog is stored as JSON and embedded at compile time.
package questions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jonathan/career-diagnosis/internal/types"
)

//go:embed questions.json
var catalogJSON []byte

// Catalog is an ordered, immutable list of questions
type Catalog struct {
	questions []types.Question
	byID      map[string]int
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded questionnaire. Panics if the embedded file is
// invalid, which is a build defect.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(catalogJSON)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("failed to load embedded questions: %v", defaultErr))
	}
	return defaultCatalog
}

// Parse builds a catalog from a JSON array of questions
func Parse(data []byte) (*Catalog, error) {
	var qs []types.Question
	if err := json.Unmarshal(data, &qs); err != nil {
		return nil, fmt.Errorf("failed to parse questions: %w", err)
	}
	return New(qs)
}

// New builds a catalog from questions, checking ids are unique and each kind
// carries the options it needs.
func New(qs []types.Question) (*Catalog, error) {
	c := &Catalog{
		questions: make([]types.Question, len(qs)),
		byID:      make(map[string]int, len(qs)),
	}
	copy(c.questions, qs)

	for i, q := range c.questions {
		if q.ID == "" {
			return nil, fmt.Errorf("question %d has no id", i)
		}
		if _, dup := c.byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		switch q.Kind {
		case types.KindSingle, types.KindMultiple, types.KindSkillLevel:
			if len(q.Options) == 0 {
				return nil, fmt.Errorf("question %q of kind %s has no options", q.ID, q.Kind)
			}
		case types.KindText:
		default:
			return nil, fmt.Errorf("question %q has unknown kind %q", q.ID, q.Kind)
		}
		c.byID[q.ID] = i
	}
	return c, nil
}

// Questions returns a copy of the questions in catalog order
func (c *Catalog) Questions() []types.Question {
	out := make([]types.Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// Lookup returns the question with the given id
func (c *Catalog) Lookup(id string) (types.Question, bool) {
	i, ok := c.byID[id]
	if !ok {
		return types.Question{}, false
	}
	return c.questions[i], true
}

// Len returns the number of questions
func (c *Catalog) Len() int { return len(c.questions) }
