package parsing

import (
	"strings"
	"unicode"
)

// Strategy names one step used to carve the JSON candidate out of raw text
type Strategy string

// Candidate extraction strategies, in the order they are tried
const (
	StrategyFencedClosed   Strategy = "fenced_closed"
	StrategyFencedUnclosed Strategy = "fenced_unclosed"
	StrategyBraceSliced    Strategy = "brace_sliced"
)

const fence = "```"

// ExtractCandidate returns the substring of text most likely to be the JSON
// object, plus the strategies that were applied to get there. An empty
// strategy list means the trimmed text was used as is.
func ExtractCandidate(text string) (string, []Strategy) {
	var applied []Strategy
	candidate := strings.TrimSpace(text)

	if interior, ok := fencedClosed(candidate); ok {
		candidate = interior
		applied = append(applied, StrategyFencedClosed)
	} else if interior, ok := fencedUnclosed(candidate); ok {
		candidate = interior
		applied = append(applied, StrategyFencedUnclosed)
	}

	if sliced, ok := braceSliced(candidate); ok {
		candidate = sliced
		applied = append(applied, StrategyBraceSliced)
	}

	return candidate, applied
}

// fencedClosed returns the interior of the first fenced block when a closing
// fence follows it
func fencedClosed(text string) (string, bool) {
	start, ok := fenceBodyStart(text)
	if !ok {
		return "", false
	}
	end := strings.Index(text[start:], fence)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(text[start : start+end]), true
}

// fencedUnclosed returns everything after an opening fence that is never
// closed, as happens when output is cut short
func fencedUnclosed(text string) (string, bool) {
	start, ok := fenceBodyStart(text)
	if !ok {
		return "", false
	}
	if strings.Contains(text[start:], fence) {
		return "", false
	}
	return strings.TrimSpace(text[start:]), true
}

// fenceBodyStart finds the first fence and skips its optional language tag
// (e.g. "json") and following whitespace
func fenceBodyStart(text string) (int, bool) {
	open := strings.Index(text, fence)
	if open < 0 {
		return 0, false
	}
	i := open + len(fence)
	for i < len(text) && isTagByte(text[i]) {
		i++
	}
	for i < len(text) && unicode.IsSpace(rune(text[i])) {
		i++
	}
	return i, true
}

func isTagByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '-' || b == '_'
}

// braceSliced cuts from the first '{' to the last '}' inclusive unless text
// is already delimited by braces on both ends
func braceSliced(text string) (string, bool) {
	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") {
		return "", false
	}
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first < 0 || last < first {
		return "", false
	}
	return text[first : last+1], true
}
