// Package guard verifies that protected vocabulary survives a rewrite.
package guard

import "strings"

// Check reports whether every locked term that appears in the original
// text (case-insensitively) also appears in the modified text. The
// second return value lists the terms that were lost.
func Check(original, modified string, terms []string) (bool, []string) {
	lowerOriginal := strings.ToLower(original)
	lowerModified := strings.ToLower(modified)

	var missing []string
	for _, term := range terms {
		t := strings.ToLower(strings.TrimSpace(term))
		if t == "" {
			continue
		}
		if !strings.Contains(lowerOriginal, t) {
			// Terms absent from the source impose no obligation.
			continue
		}
		if !strings.Contains(lowerModified, t) {
			missing = append(missing, term)
		}
	}
	return len(missing) == 0, missing
}
