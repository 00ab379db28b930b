package sarah

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dejo1307/rockymcp/internal/facts"
	"github.com/dejo1307/rockymcp/internal/renderers/notes"
)

// Templates interpolate Facts values only. They contain no literal digits, so
// every number in the output comes from the input record.

// customerPhrasing is the per-tone wording of the customer template.
type customerPhrasing struct {
	summary   string
	safety    string
	nextSteps string
	intro     string
}

var customerPhrasings = map[Tone]customerPhrasing{
	Professional: {"Survey summary", "Safety observations", "Next steps", ""},
	Friendly:     {"Your survey at a glance", "Keeping everyone safe", "What happens next", "Thanks for letting us survey your home. "},
	Technical:    {"Survey summary", "Recorded hazards", "Recorded actions", ""},
	Simple:       {"Summary", "Safety", "Next steps", ""},
	Urgent:       {"Please read: survey summary", "Please read: safety", "Please read: next steps", ""},
}

// title prefixes engineer and surveyor headers for the urgent tone.
func title(t Tone, base string) string {
	if t == Urgent {
		return "Urgent: " + base
	}
	return base
}

func customerSections(f *facts.Facts, t Tone) []facts.ExplanationSection {
	p, ok := customerPhrasings[t]
	if !ok {
		p = customerPhrasings[Professional]
	}
	d := f.Facts

	var summary strings.Builder
	summary.WriteString(p.intro)
	if pt := str(d.Property, func(p *facts.Property) *string { return p.Type }); pt != "" {
		fmt.Fprintf(&summary, "The survey recorded a %s property", pt)
		if n := intp(d.Property, func(p *facts.Property) *int { return p.Bedrooms }); n != "" {
			fmt.Fprintf(&summary, " with %s bedrooms", n)
		}
		summary.WriteString(". ")
	} else {
		summary.WriteString("The property type was not recorded. ")
	}
	if s := d.ExistingSystem; s != nil && val(s.SystemType) != "" {
		fmt.Fprintf(&summary, "The current heating system is a %s", val(s.SystemType))
		if mk := val(s.BoilerMake); mk != "" {
			fmt.Fprintf(&summary, " made by %s", mk)
		}
		if s.BoilerAge != nil {
			fmt.Fprintf(&summary, ", recorded as %s years old", strconv.Itoa(*s.BoilerAge))
		}
		summary.WriteString(".")
		if fuel := val(s.FuelType); fuel != "" {
			fmt.Fprintf(&summary, " It runs on %s.", fuel)
		}
	} else {
		summary.WriteString("The current heating system was not recorded.")
	}

	var safety string
	if len(d.Hazards) == 0 {
		safety = "No safety concerns were recorded in the survey notes."
	} else {
		safety = fmt.Sprintf("The survey notes mention: %s. Each item is recorded in the notes for the installation team.", strings.Join(hazardTypes(d.Hazards), ", "))
		if hasHighSeverity(d.Hazards) {
			safety += " Some of these are marked as high severity."
		}
	}

	var next []string
	if len(d.RequiredActions) > 0 {
		next = append(next, fmt.Sprintf("The survey notes list these jobs: %s.", strings.Join(actionNames(d.RequiredActions), "; ")))
	}
	if missing := missingLabels(f.MissingData, true); len(missing) > 0 {
		next = append(next, fmt.Sprintf("These details were not recorded and still need to be confirmed: %s.", strings.Join(missing, ", ")))
	}
	if len(next) == 0 {
		next = append(next, "No further jobs or open questions were recorded in the survey notes.")
	}

	return []facts.ExplanationSection{
		{Key: "summary", Title: p.summary, Body: strings.TrimSpace(summary.String())},
		{Key: "safety", Title: p.safety, Body: safety},
		{Key: "next_steps", Title: p.nextSteps, Body: strings.Join(next, " ")},
	}
}

func engineerSections(f *facts.Facts, t Tone) []facts.ExplanationSection {
	d := f.Facts
	s := d.ExistingSystem
	if s == nil {
		s = &facts.ExistingSystem{}
	}
	m := d.Measurements
	if m == nil {
		m = &facts.Measurements{}
	}

	system := strings.Join([]string{
		field("System type", val(s.SystemType)),
		field("Boiler make", val(s.BoilerMake)),
		field("Boiler age", withUnit(s.BoilerAge, " years")),
		field("Fuel", val(s.FuelType)),
		field("Boiler location", val(s.BoilerLocation)),
		field("Flue", val(s.FlueType)),
	}, ". ") + "."

	measurements := strings.Join([]string{
		field("Pipe size", val(m.PipeSize)),
		field("Radiators", withUnit(m.RadiatorCount, "")),
		field("Cylinder", withUnit(m.CylinderCapacity, " litres")),
		field("Main fuse", withUnit(m.MainFuseRating, "A")),
	}, ". ") + "."

	materials := "None recorded."
	if lines := notes.MaterialLines(d.Materials); len(lines) > 0 {
		materials = strings.Join(lines, ", ") + "."
	}

	hazards := "None recorded."
	if len(d.Hazards) > 0 {
		var parts []string
		for _, h := range d.Hazards {
			parts = append(parts, fmt.Sprintf("%s (%s severity, location: %s)", h.Type, h.Severity, h.Location))
		}
		hazards = strings.Join(parts, "; ") + "."
	}

	actions := "None recorded."
	if len(d.RequiredActions) > 0 {
		var parts []string
		for _, a := range d.RequiredActions {
			parts = append(parts, fmt.Sprintf("%s [%s]: %s", a.Action, a.Priority, a.Reason))
		}
		actions = strings.Join(parts, "; ") + "."
	}

	gaps := "All checked fields were recorded."
	if len(f.MissingData) > 0 {
		var parts []string
		for _, md := range f.MissingData {
			kind := "important"
			if md.Required {
				kind = "required"
			}
			parts = append(parts, fmt.Sprintf("%s.%s (%s)", md.Category, md.Field, kind))
		}
		gaps = "Not recorded: " + strings.Join(parts, ", ") + "."
	}

	return []facts.ExplanationSection{
		{Key: "system", Title: title(t, "Existing system"), Body: system},
		{Key: "measurements", Title: title(t, "Measurements"), Body: measurements},
		{Key: "materials", Title: title(t, "Materials"), Body: materials},
		{Key: "hazards", Title: title(t, "Hazards"), Body: hazards},
		{Key: "actions", Title: title(t, "Required actions"), Body: actions},
		{Key: "gaps", Title: title(t, "Data gaps"), Body: gaps},
	}
}

func surveyorSections(f *facts.Facts, t Tone) []facts.ExplanationSection {
	d := f.Facts
	c := f.Completeness

	overview := fmt.Sprintf("Property type: %s. System type: %s. Pipe size: %s.",
		orNotRecorded(str(d.Property, func(p *facts.Property) *string { return p.Type })),
		orNotRecorded(str(d.ExistingSystem, func(s *facts.ExistingSystem) *string { return s.SystemType })),
		orNotRecorded(str(d.Measurements, func(m *facts.Measurements) *string { return m.PipeSize })),
	)

	completeness := fmt.Sprintf("Customer information %d%%, property details %d%%, existing system %d%%, measurements %d%%. Overall %d%%.",
		c.CustomerInfo, c.PropertyDetails, c.ExistingSystem, c.Measurements, c.Overall)

	var gaps string
	required, important := missingLabels(f.MissingData, true), missingLabels(f.MissingData, false)
	switch {
	case len(required) == 0 && len(important) == 0:
		gaps = "No required or important fields are missing."
	default:
		var parts []string
		if len(required) > 0 {
			parts = append(parts, "Required and missing: "+strings.Join(required, ", ")+".")
		}
		if len(important) > 0 {
			parts = append(parts, "Important and missing: "+strings.Join(important, ", ")+".")
		}
		gaps = strings.Join(parts, " ")
	}

	hazards := "No hazards recorded."
	if len(d.Hazards) > 0 {
		var parts []string
		for _, h := range d.Hazards {
			parts = append(parts, fmt.Sprintf("%s (%s)", h.Type, h.Severity))
		}
		hazards = "Recorded hazards: " + strings.Join(parts, ", ") + "."
	}

	actions := "No actions recorded."
	if len(d.RequiredActions) > 0 {
		var parts []string
		for _, a := range d.RequiredActions {
			parts = append(parts, fmt.Sprintf("%s (%s priority)", a.Action, a.Priority))
		}
		actions = "Recorded actions: " + strings.Join(parts, ", ") + "."
	}

	return []facts.ExplanationSection{
		{Key: "overview", Title: title(t, "Overview"), Body: overview},
		{Key: "completeness", Title: title(t, "Completeness"), Body: completeness},
		{Key: "gaps", Title: title(t, "Gaps"), Body: gaps},
		{Key: "hazards", Title: title(t, "Hazards"), Body: hazards},
		{Key: "actions", Title: title(t, "Actions"), Body: actions},
	}
}

// fieldLabels are plain-language names for the missing-data fields.
var fieldLabels = map[string]string{
	"property.type":               "property type",
	"existingSystem.systemType":   "heating system type",
	"measurements.pipeSize":       "pipe size",
	"existingSystem.boilerAge":    "boiler age",
	"measurements.mainFuseRating": "main fuse rating",
}

func missingLabels(items []facts.MissingDataItem, required bool) []string {
	var out []string
	for _, m := range items {
		if m.Required != required {
			continue
		}
		key := m.Category + "." + m.Field
		if l, ok := fieldLabels[key]; ok {
			out = append(out, l)
		} else {
			out = append(out, key)
		}
	}
	return out
}

func hazardTypes(hs []facts.Hazard) []string {
	out := make([]string, 0, len(hs))
	for _, h := range hs {
		out = append(out, h.Type)
	}
	return out
}

func hasHighSeverity(hs []facts.Hazard) bool {
	for _, h := range hs {
		if h.Severity == facts.SeverityHigh {
			return true
		}
	}
	return false
}

func actionNames(as []facts.RequiredAction) []string {
	out := make([]string, 0, len(as))
	for _, a := range as {
		out = append(out, a.Action)
	}
	return out
}

func field(label, v string) string {
	return label + ": " + orNotRecorded(v)
}

func orNotRecorded(v string) string {
	if v == "" {
		return notes.NotRecorded
	}
	return v
}

func withUnit(n *int, unit string) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n) + unit
}

func val(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// str reads a string field from an optional group.
func str[G any](g *G, get func(*G) *string) string {
	if g == nil {
		return ""
	}
	return val(get(g))
}

// intp reads an int field from an optional group.
func intp[G any](g *G, get func(*G) *int) string {
	if g == nil {
		return ""
	}
	return withUnit(get(g), "")
}
