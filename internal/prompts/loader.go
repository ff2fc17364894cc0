// Package prompts builds the diagnosis instruction sent to the model. The
// fixed wording lives in diagnosis.json, embedded at compile time.
package prompts

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed diagnosis.json
var diagnosisJSON []byte

// Template holds the fixed sections of the diagnosis prompt
type Template struct {
	Role           string `json:"role"`
	Directives     string `json:"directives"`
	StageDirective string `json:"stage-directive"`
	ProfileSection string `json:"profile-section"`
	AnswersSection string `json:"answers-section"`
	OutputFormat   string `json:"output-format"`
}

var placeholderPattern = regexp.MustCompile(`\{\{\.([A-Za-z]+)\}\}`)

// ParseTemplate decodes a template file. Every section is required, and the
// profile and answers sections must carry their placeholders.
func ParseTemplate(data []byte) (*Template, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var t Template
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}

	var missing []string
	for key, val := range t.sections() {
		if strings.TrimSpace(val) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("prompt template missing sections: %s", strings.Join(missing, ", "))
	}

	if !hasPlaceholder(t.ProfileSection, "ProfileLines") {
		return nil, fmt.Errorf("profile-section must contain {{.ProfileLines}}")
	}
	if !hasPlaceholder(t.AnswersSection, "Answers") {
		return nil, fmt.Errorf("answers-section must contain {{.Answers}}")
	}

	return &t, nil
}

func (t *Template) sections() map[string]string {
	return map[string]string{
		"role":            t.Role,
		"directives":      t.Directives,
		"stage-directive": t.StageDirective,
		"profile-section": t.ProfileSection,
		"answers-section": t.AnswersSection,
		"output-format":   t.OutputFormat,
	}
}

var defaultTemplate = sync.OnceValues(func() (*Template, error) {
	return ParseTemplate(diagnosisJSON)
})

// Default returns the embedded template, parsed once
func Default() (*Template, error) {
	return defaultTemplate()
}

// MustDefault is Default for callers that cannot proceed without a prompt.
// The embedded file is covered by tests, so a panic here is a build defect.
func MustDefault() *Template {
	t, err := Default()
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return t
}

// Format replaces template placeholders in the form {{.Key}} with values from data.
// Substitution is a single pass over the template, so placeholders that appear
// inside substituted values are left as is.
func Format(template string, data map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		key := placeholderPattern.FindStringSubmatch(m)[1]
		if v, ok := data[key]; ok {
			return v
		}
		return m
	})
}

// Placeholders lists the distinct placeholder keys in template, sorted
func Placeholders(template string) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			keys = append(keys, m[1])
		}
	}
	sort.Strings(keys)
	return keys
}

func hasPlaceholder(template, key string) bool {
	for _, k := range Placeholders(template) {
		if k == key {
			return true
		}
	}
	return false
}
