package substep

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Templates reference placeholders as {{name}}. The vocabulary is
// fixed: the four core names plus whatever extras a definition
// declares. A template referencing anything else is a configuration
// error caught at construction, never a runtime result.
var placeholderRe = regexp.MustCompile(`\{\{([a-z0-9_]+)\}\}`)

var coreVocabulary = []string{
	"document_text",
	"locked_terms",
	"selected_issues",
	"user_notes",
}

func validateTemplate(tpl string, extras []string) error {
	allowed := make(map[string]bool, len(coreVocabulary)+2*len(extras))
	for _, name := range coreVocabulary {
		allowed[name] = true
	}
	for _, name := range extras {
		allowed[name] = true
		if strings.HasSuffix(name, "_count") {
			allowed[name+"_minus_one"] = true
		}
	}

	for _, m := range placeholderRe.FindAllStringSubmatch(tpl, -1) {
		if !allowed[m[1]] {
			return fmt.Errorf("template references unknown placeholder %q", m[1])
		}
	}
	return nil
}

func renderTemplate(tpl string, values map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(tpl, func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		if v, ok := values[name]; ok {
			return v
		}
		return ""
	})
}

// formatLockedTerms renders the protected vocabulary block, or the
// literal "None" when the caller supplied no terms.
func formatLockedTerms(terms []string) string {
	cleaned := make([]string, 0, len(terms))
	for _, t := range terms {
		if s := strings.TrimSpace(t); s != "" {
			cleaned = append(cleaned, "- "+s)
		}
	}
	if len(cleaned) == 0 {
		return "None"
	}
	return strings.Join(cleaned, "\n")
}

// formatIssueList renders a numbered issue list for rewrite prompts.
func formatIssueList(issues []Issue) string {
	if len(issues) == 0 {
		return "None"
	}
	var b strings.Builder
	for i, issue := range issues {
		fmt.Fprintf(&b, "%d. [%s/%s] %s", i+1, issue.Type, issue.Severity, issue.Description)
		if len(issue.Positions) > 0 {
			fmt.Fprintf(&b, " (at %s)", strings.Join(issue.Positions, ", "))
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatExtra renders an extra parameter for template injection.
func formatExtra(v interface{}) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 64)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case string:
		return n
	default:
		return fmt.Sprintf("%v", v)
	}
}

// truncateDocument caps prompt size for whole-document analysis.
func truncateDocument(text string, maxChars int) string {
	runes := []rune(text)
	if maxChars <= 0 || len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars]) + "..."
}
