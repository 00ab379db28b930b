package markdown

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dejo1307/rockymcp/internal/depot"
	"github.com/dejo1307/rockymcp/internal/engine"
	"github.com/dejo1307/rockymcp/internal/facts"
	"github.com/dejo1307/rockymcp/internal/renderers"
)

// ArtifactName is the file name of the rendered report.
const ArtifactName = "survey.md"

// Renderer produces a markdown survey report within a token budget.
type Renderer struct {
	maxTokens int
}

// New creates a Renderer with the given token budget.
func New(maxTokens int) *Renderer {
	if maxTokens <= 0 {
		maxTokens = 8000
	}
	return &Renderer{maxTokens: maxTokens}
}

func (r *Renderer) Name() string {
	return "markdown"
}

// section holds a rendered section with its display name.
type section struct {
	name    string
	content string
}

// Render produces the survey.md artifact. Sections are ordered by priority;
// lower-priority sections are omitted first when the token budget is tight.
func (r *Renderer) Render(ctx context.Context, doc *renderers.Document) ([]facts.Artifact, error) {
	if doc == nil {
		doc = &renderers.Document{}
	}

	sections := []section{
		{"Warnings", renderWarnings(doc.Result)},
		{"Survey Notes", renderNotes(doc.Result)},
		{"Explanation", renderExplanation(doc.Explanation)},
		{"Depot Notes", renderDepot(doc.Depot)},
		{"Engineer Basics", renderBasics(doc.Result)},
		{"Meta", renderMeta(doc)},
	}

	header := "# Survey Report\n\n"
	maxChars := r.maxTokens * 4 // rough estimate: 1 token ~= 4 chars
	remaining := maxChars - len(header)

	var sb strings.Builder
	sb.WriteString(header)

	for i, sec := range sections {
		if sec.content == "" {
			continue
		}
		if len(sec.content) <= remaining {
			sb.WriteString(sec.content)
			remaining -= len(sec.content)
			continue
		}
		if remaining > 200 {
			// Partially include this section
			sb.WriteString(cut(sec.content, remaining-100))
			sb.WriteString(fmt.Sprintf("\n\n---\n*[Truncated in: %s]*\n", sec.name))
			break
		}
		var omitted []string
		for _, s := range sections[i:] {
			if s.content != "" {
				omitted = append(omitted, s.name)
			}
		}
		sb.WriteString(fmt.Sprintf("\n\n---\n*[Omitted: %s]*\n", strings.Join(omitted, ", ")))
		break
	}

	return []facts.Artifact{
		{
			Name:    ArtifactName,
			Content: []byte(sb.String()),
			Type:    "text/markdown",
		},
	}, nil
}

// cut returns s truncated to at most n bytes on a line boundary when one
// exists.
func cut(s string, n int) string {
	if n >= len(s) {
		return s
	}
	if n < 0 {
		n = 0
	}
	if i := strings.LastIndexByte(s[:n], '\n'); i > 0 {
		return s[:i+1]
	}
	return s[:n]
}

func renderWarnings(res *engine.Result) string {
	if res == nil || len(res.Warnings) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("## Warnings\n\n")
	for _, w := range res.Warnings {
		sb.WriteString("- " + w + "\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

func renderNotes(res *engine.Result) string {
	if res == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("## Survey Notes\n\n")
	for _, s := range res.AutomaticNotes.Sections {
		sb.WriteString("### " + s.Title + "\n\n")
		for _, l := range s.Lines {
			sb.WriteString("- " + l + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderExplanation(ex *facts.Explanation) string {
	if ex == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Explanation (%s, %s)\n\n", ex.Audience, ex.Tone))
	for _, s := range ex.Sections {
		sb.WriteString("### " + s.Title + "\n\n")
		sb.WriteString(s.Body + "\n\n")
	}
	if ex.Disclaimer != "" {
		sb.WriteString("_" + ex.Disclaimer + "_\n\n")
	}
	return sb.String()
}

func renderDepot(n *depot.DepotNotes) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("## Depot Notes\n\n")

	if n.Sections != nil && n.Sections.Len() > 0 {
		sb.WriteString("| Section | Content |\n")
		sb.WriteString("|---------|---------|\n")
		for p := n.Sections.Oldest(); p != nil; p = p.Next() {
			sb.WriteString(fmt.Sprintf("| `%s` | %s |\n", p.Key, cell(p.Value)))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("_No sections recorded._\n\n")
	}

	if n.Unmapped != nil && n.Unmapped.Len() > 0 {
		sb.WriteString("Unmapped:\n")
		for p := n.Unmapped.Oldest(); p != nil; p = p.Next() {
			sb.WriteString(fmt.Sprintf("- **%s**: %s\n", p.Key, cell(p.Value)))
		}
		sb.WriteString("\n")
	}

	if len(n.Materials) > 0 {
		sb.WriteString("Materials:\n")
		for _, m := range n.Materials {
			line := m.Name
			if m.Quantity != nil {
				line = fmt.Sprintf("%s x%d", line, *m.Quantity)
				if m.Unit != "" {
					line += " " + m.Unit
				}
			}
			if m.Notes != "" {
				line += " (" + m.Notes + ")"
			}
			sb.WriteString("- " + line + "\n")
		}
		sb.WriteString("\n")
	}

	if len(n.ChecklistItems) > 0 {
		sb.WriteString("Checklist:\n")
		for _, id := range n.ChecklistItems {
			sb.WriteString("- [x] `" + id + "`\n")
		}
		sb.WriteString("\n")
	}

	if len(n.MissingInfo) > 0 {
		sb.WriteString("Missing information:\n")
		for _, m := range n.MissingInfo {
			sb.WriteString(fmt.Sprintf("- `%s` (%s): %s\n", m.Section, m.Priority, m.Question))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderBasics(res *engine.Result) string {
	if res == nil {
		return ""
	}
	b := res.EngineerBasics
	rows := [][2]string{
		{"Customer", b.CustomerName},
		{"Phone", b.Phone},
		{"Email", b.Email},
		{"Postcode", b.Postcode},
		{"Property type", b.PropertyType},
		{"Bedrooms", b.Bedrooms},
		{"Bathrooms", b.Bathrooms},
		{"Year built", b.YearBuilt},
		{"Storeys", b.Storeys},
		{"System type", b.SystemType},
		{"Boiler make", b.BoilerMake},
		{"Boiler age", b.BoilerAge},
		{"Fuel", b.FuelType},
		{"Boiler location", b.BoilerLocation},
		{"Flue", b.FlueType},
		{"Pipe size", b.PipeSize},
		{"Radiators", b.RadiatorCount},
		{"Cylinder capacity", b.CylinderCapacity},
		{"Main fuse", b.MainFuseRating},
		{"Materials", strings.Join(b.Materials, ", ")},
		{"Hazards", strings.Join(b.Hazards, ", ")},
		{"Required actions", strings.Join(b.RequiredActions, ", ")},
	}

	var sb strings.Builder
	sb.WriteString("## Engineer Basics\n\n")
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	n := 0
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", row[0], cell(row[1])))
		n++
	}
	if n == 0 {
		return ""
	}
	sb.WriteString("\n")
	return sb.String()
}

func renderMeta(doc *renderers.Document) string {
	res := doc.Result
	if res == nil {
		return ""
	}
	f := res.Facts
	return fmt.Sprintf("---\n\n*Session %s processed at %s in %dms. Facts version %s, notes hash `%s`, overall completeness %d%%.*\n",
		f.SessionID, f.ProcessedAt.Format(time.RFC3339), res.ProcessingTimeMs,
		f.Version, shortHash(f.NaturalNotesHash), f.Completeness.Overall)
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// cell makes s safe for a single markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
