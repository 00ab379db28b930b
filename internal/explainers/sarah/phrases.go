package sarah

import "strings"

// ProhibitedPhrases must never appear in rendered output. Templates are
// written so they cannot produce them; Render logs a warning when an
// interpolated value does.
var ProhibitedPhrases = []string{
	"I recommend",
	"you should",
	"I suggest",
	"in my opinion",
	"based on my experience",
}

// FindProhibited returns the prohibited phrases found in text, matched
// case-insensitively, in list order.
func FindProhibited(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, p := range ProhibitedPhrases {
		if strings.Contains(lower, strings.ToLower(p)) {
			found = append(found, p)
		}
	}
	return found
}
