package extractors

import (
	"regexp"

	"github.com/dejo1307/rockymcp/internal/facts"
)

// hazardKeywords are scanned in order; each produces at most one hazard.
var hazardKeywords = []string{
	"asbestos",
	"monkey muck",
	"lead",
	"unsafe",
	"dangerous",
	"condemned",
	"risk",
	"hazard",
	"warning",
	"caution",
}

var (
	highSeverityHazards = map[string]bool{"asbestos": true, "condemned": true, "dangerous": true}
	lowSeverityHazards  = map[string]bool{"warning": true, "caution": true}
)

var hazardRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(hazardKeywords))
	for i, kw := range hazardKeywords {
		res[i] = regexp.MustCompile(`(?i)\b` + phrase(kw) + `\b`)
	}
	return res
}()

// Hazards flags safety keywords. Location is never inferred from context;
// every hazard points back to the notes.
type Hazards struct{}

func (Hazards) Name() string { return "hazards" }

func (Hazards) Extract(text string, into *facts.Data) {
	var hazards []facts.Hazard
	for i, kw := range hazardKeywords {
		if !hazardRes[i].MatchString(text) {
			continue
		}
		hazards = append(hazards, facts.Hazard{
			Type:     kw,
			Location: facts.HazardLocationSeeNotes,
			Severity: HazardSeverity(kw),
		})
	}
	if len(hazards) > 0 {
		into.Hazards = hazards
	}
}

// HazardSeverity classifies a hazard keyword.
func HazardSeverity(keyword string) string {
	switch {
	case highSeverityHazards[keyword]:
		return facts.SeverityHigh
	case lowSeverityHazards[keyword]:
		return facts.SeverityLow
	default:
		return facts.SeverityMedium
	}
}
