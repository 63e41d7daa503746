package rules

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrEmptyPattern is returned when compiling an empty pattern
var ErrEmptyPattern = errors.New("pattern cannot be empty")

// Span is a half-open byte range [Start, End) of a match within a line
type Span struct {
	Start int
	End   int
}

// Rule is a compiled filter pattern
type Rule struct {
	Pattern string
	Regex   *regexp.Regexp
}

// Compile parses pattern as a regular expression
func Compile(pattern string) (Rule, error) {
	if pattern == "" {
		return Rule{}, ErrEmptyPattern
	}
	regex, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
	}
	return Rule{Pattern: pattern, Regex: regex}, nil
}

// Match reports whether line matches. A zero Rule matches everything.
func (r Rule) Match(line string) bool {
	if r.Regex == nil {
		return true
	}
	return r.Regex.MatchString(line)
}

// AppendSpans appends the non-empty match ranges of line starting before
// limit to dst, left to right. A negative limit collects every match.
func (r Rule) AppendSpans(dst []Span, line string, limit int) []Span {
	if r.Regex == nil || limit == 0 {
		return dst
	}
	// match starts strictly increase, so at most limit of them precede limit
	n := -1
	if limit > 0 && limit < len(line) {
		n = limit
	}
	for _, loc := range r.Regex.FindAllStringIndex(line, n) {
		if limit > 0 && loc[0] >= limit {
			break
		}
		if loc[0] == loc[1] {
			continue
		}
		dst = append(dst, Span{Start: loc[0], End: loc[1]})
	}
	return dst
}
