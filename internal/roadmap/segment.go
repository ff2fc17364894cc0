// Package roadmap splits free-text roadmap phases into a heading and ordered
// steps for display. Segmentation is a best-effort heuristic over generated
// prose and is recomputed on every read; its output is never stored.
package roadmap

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/career-diagnosis/internal/types"
)

var (
	headingPattern = regexp.MustCompile(`【([^【】]*)】`)
	// "1. " at the start of the text or after whitespace (ASCII or ideographic)
	numberedPattern = regexp.MustCompile(`(?:^|[\s\x{3000}])[0-9]+\.[\s\x{3000}]+`)
)

// circledNumerals are the step markers ① through ⑩
const circledNumerals = "①②③④⑤⑥⑦⑧⑨⑩"

// Segment splits one roadmap phase. Rules are tried in a fixed order:
// circled numerals, then "N. " numbering, then the whole text as one step.
// Empty input yields an empty, non-nil step list.
func Segment(text string) types.RoadmapSegment {
	heading, rest := extractHeading(text)
	segment := types.RoadmapSegment{Heading: heading, Steps: []string{}}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return segment
	}

	switch {
	case strings.ContainsAny(rest, circledNumerals):
		segment.Steps = splitCircled(rest)
	case numberedPattern.MatchString(rest):
		segment.Steps = cleanPieces(numberedPattern.Split(rest, -1))
	default:
		segment.Steps = []string{rest}
	}
	return segment
}

// SegmentRoadmap segments all three phases
func SegmentRoadmap(r types.Roadmap) types.RoadmapView {
	return types.RoadmapView{
		ShortTerm: Segment(r.ShortTerm),
		MidTerm:   Segment(r.MidTerm),
		LongTerm:  Segment(r.LongTerm),
	}
}

// extractHeading takes the interior of the first 【…】 span and removes the
// span plus one trailing space from the text
func extractHeading(text string) (string, string) {
	loc := headingPattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", text
	}

	heading := strings.TrimSpace(text[loc[2]:loc[3]])
	end := loc[1]
	if r, size := utf8.DecodeRuneInString(text[end:]); r == ' ' || r == '　' {
		end += size
	}
	return heading, text[:loc[0]] + text[end:]
}

func splitCircled(text string) []string {
	pieces := strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(circledNumerals, r)
	})
	return cleanPieces(pieces)
}

func cleanPieces(pieces []string) []string {
	steps := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if p = strings.TrimSpace(p); p != "" {
			steps = append(steps, p)
		}
	}
	return steps
}
