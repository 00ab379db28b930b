package extractors

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dejo1307/rockymcp/internal/facts"
)

// actionRule maps an explicitly dictated action phrase onto a required action.
type actionRule struct {
	re       *regexp.Regexp
	action   string
	priority string
}

var actionRules = []actionRule{
	{
		re:       regexp.MustCompile(`(?i)\bpower\s*flush(?:ed|ing)?\b`),
		action:   "Power flush heating system",
		priority: facts.PriorityMedium,
	},
	{
		re:       regexp.MustCompile(`(?i)\b(?:upgrad|upsiz)\w*\s+(?:the\s+)?gas\s+(?:pipe|supply|run)\b|\bgas\s+(?:pipe|supply|run)\s+(?:\w+\s+){0,2}(?:upgrad|upsiz)\w*`),
		action:   "Upgrade gas supply",
		priority: facts.PriorityHigh,
	},
	{
		re:       regexp.MustCompile(`(?i)\basbestos\s+(?:survey|test(?:ing)?|sample)\b`),
		action:   "Arrange asbestos survey",
		priority: facts.PriorityHigh,
	},
	{
		re:       regexp.MustCompile(`(?i)\b(?:move|moving|relocate|relocating)\s+(?:the\s+)?boiler\b`),
		action:   "Relocate boiler",
		priority: facts.PriorityMedium,
	},
	{
		re:       regexp.MustCompile(`(?i)\b(?:new|replace|replacement|replacing)\s+(?:the\s+)?flue\b`),
		action:   "Replace flue",
		priority: facts.PriorityMedium,
	},
	{
		re:       regexp.MustCompile(`(?i)\bcondensate\s+(?:pump|route|pipe|run)\b`),
		action:   "Install condensate route",
		priority: facts.PriorityLow,
	},
	{
		re:       regexp.MustCompile(`(?i)\b(?:fit|install|add)\w*\s+(?:a\s+)?(?:new\s+)?magnetic\s+filter\b`),
		action:   "Fit magnetic filter",
		priority: facts.PriorityLow,
	},
}

// RequiredActions records actions the engineer dictated. The reason quotes
// the matched words; nothing is derived from other facts.
type RequiredActions struct{}

func (RequiredActions) Name() string { return "requiredActions" }

func (RequiredActions) Extract(text string, into *facts.Data) {
	var actions []facts.RequiredAction
	for _, r := range actionRules {
		m := r.re.FindString(text)
		if m == "" {
			continue
		}
		actions = append(actions, facts.RequiredAction{
			Action:   r.action,
			Reason:   fmt.Sprintf("Mentioned in notes: %q", strings.Join(strings.Fields(m), " ")),
			Priority: r.priority,
		})
	}
	if len(actions) > 0 {
		into.RequiredActions = actions
	}
}
