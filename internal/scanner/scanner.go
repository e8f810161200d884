// Package scanner extracts work item references from document text.
package scanner

import (
	"regexp"
	"strconv"
)

// A reference is the marker "VSO" in any ASCII case, an optional run of
// separators (anything that is not an ASCII letter or digit, underscore
// included) and the id digits. No (?i): it folds U+017F into "S".
var referenceRegex = regexp.MustCompile(`[Vv][Ss][Oo][\W_]*([0-9]+)`)

// Scan returns the distinct ids referenced in text, in order of first
// occurrence.
func Scan(text string) []int {
	matches := referenceRegex.FindAllStringSubmatch(text, -1)
	ids := make([]int, 0, len(matches))
	seen := make(map[int]bool, len(matches))

	for _, match := range matches {
		id, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// Replace substitutes every reference in text with fn's result. fn receives
// the reference as written and its id.
func Replace(text string, fn func(ref string, id int) string) string {
	return referenceRegex.ReplaceAllStringFunc(text, func(ref string) string {
		match := referenceRegex.FindStringSubmatch(ref)
		id, err := strconv.Atoi(match[1])
		if err != nil {
			return ref
		}
		return fn(ref, id)
	})
}
