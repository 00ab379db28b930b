package depot

import (
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dejo1307/rockymcp/internal/extractors"
	"github.com/dejo1307/rockymcp/internal/facts"
	"github.com/dejo1307/rockymcp/internal/normalize"
)

// MaterialsSection is the schema key holding the free-text parts list.
const MaterialsSection = "materials_parts"

// DepotNotes is raw section content canonicalized into the section schema.
type DepotNotes struct {
	// Sections holds one value per resolved schema key, in schema order.
	Sections *orderedmap.OrderedMap[string, string] `json:"sections"`
	// Unmapped holds input keys that resolved to no schema section.
	Unmapped       *orderedmap.OrderedMap[string, string] `json:"unmapped,omitempty"`
	Materials      []facts.MaterialItem                   `json:"materials,omitempty"`
	ChecklistItems []string                               `json:"checklistItems,omitempty"`
	MissingInfo    []facts.MissingInfoItem                `json:"missingInfo,omitempty"`
}

// Text joins the section values in schema order.
func (n *DepotNotes) Text() string {
	if n == nil || n.Sections == nil {
		return ""
	}
	var b strings.Builder
	for pair := n.Sections.Oldest(); pair != nil; pair = pair.Next() {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(pair.Value)
	}
	return b.String()
}

// NormalizeSectionsFromModel maps raw key/value pairs onto the schema. Blank
// values are skipped. When several input keys resolve to the same section the
// last one in input order wins. Values pass through normalize.SanityCheck.
func (c *Config) NormalizeSectionsFromModel(raw *orderedmap.OrderedMap[string, string]) *DepotNotes {
	resolved := make(map[string]string)
	unmapped := orderedmap.New[string, string]()

	if raw != nil {
		for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
			value := strings.TrimSpace(normalize.SanityCheck(pair.Value))
			if value == "" {
				continue
			}
			key, ok := c.Resolve(pair.Key)
			if !ok {
				unmapped.Set(pair.Key, value)
				continue
			}
			resolved[key] = value
		}
	}

	notes := &DepotNotes{Sections: orderedmap.New[string, string]()}
	for _, sec := range c.Schema.Sections {
		if v, ok := resolved[sec.Key]; ok {
			notes.Sections.Set(sec.Key, v)
		}
	}
	if unmapped.Len() > 0 {
		notes.Unmapped = unmapped
	}
	return notes
}

// Process builds DepotNotes from raw sections and an optional transcript.
// Materials come from the materials_parts section, then from the transcript
// keyword scan; the checklist is matched over both texts; every required
// section left empty gets a MissingInfo question.
func (c *Config) Process(raw *orderedmap.OrderedMap[string, string], transcript string) *DepotNotes {
	notes := c.NormalizeSectionsFromModel(raw)

	if parts, ok := notes.Sections.Get(MaterialsSection); ok {
		notes.Materials = ParseMaterialsParts(parts)
	}

	transcript = normalize.SanityCheck(transcript)
	if strings.TrimSpace(transcript) != "" {
		var data facts.Data
		extractors.Materials{}.Extract(transcript, &data)
		notes.Materials = mergeMaterials(notes.Materials, data.Materials)
	}

	text := notes.Text()
	if transcript != "" {
		text += "\n" + transcript
	}
	notes.ChecklistItems = c.MatchChecklistItems(text, notes.Materials)
	notes.MissingInfo = c.missingInfo(notes)
	return notes
}

func (c *Config) missingInfo(notes *DepotNotes) []facts.MissingInfoItem {
	var out []facts.MissingInfoItem
	for _, sec := range c.Schema.Sections {
		if !sec.Required {
			continue
		}
		if _, ok := notes.Sections.Get(sec.Key); ok {
			continue
		}
		q := fmt.Sprintf("Nothing recorded for %s.", sec.Name)
		if sec.Description != "" {
			q += " Expected: " + sec.Description
		}
		out = append(out, facts.MissingInfoItem{
			Section:  sec.Key,
			Question: q,
			Priority: facts.PriorityHigh,
		})
	}
	return out
}

// mergeMaterials appends extra items whose name is not already listed.
// Names compare case-insensitively.
func mergeMaterials(base, extra []facts.MaterialItem) []facts.MaterialItem {
	seen := make(map[string]bool, len(base)+len(extra))
	for _, m := range base {
		seen[strings.ToLower(m.Name)] = true
	}
	for _, m := range extra {
		k := strings.ToLower(m.Name)
		if seen[k] {
			continue
		}
		seen[k] = true
		base = append(base, m)
	}
	return base
}
