package extractors

import (
	"regexp"
	"strconv"
	"strings"
)

// firstInt returns the first capture group of the first match of re as an int.
func firstInt(re *regexp.Regexp, text string) *int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

// firstGroup returns the first capture group of the first match of re.
func firstGroup(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// collapseSpace lowercases s and replaces runs of whitespace or hyphens with a
// single space.
func collapseSpace(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '-'
	}), " ")
}

// phrase is a keyword whose pattern tolerates any whitespace between words.
func phrase(words string) string {
	parts := strings.Fields(words)
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return strings.Join(parts, `\s+`)
}
