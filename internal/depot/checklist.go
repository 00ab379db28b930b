package depot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dejo1307/rockymcp/internal/facts"
)

// ChecklistItem is one configured checklist entry.
type ChecklistItem struct {
	ID                  string   `json:"id"`
	Label               string   `json:"label"`
	Category            string   `json:"category"`
	AssociatedMaterials []string `json:"associated_materials"`
}

// Checklist is the checklist configuration, as stored in checklist_config.json.
type Checklist struct {
	Items           []ChecklistItem     `json:"checklist_items"`
	MaterialAliases map[string][]string `json:"material_aliases"`
}

func (c Checklist) validate() error {
	if len(c.Items) == 0 {
		return errors.New("checklist has no items")
	}
	seen := make(map[string]bool, len(c.Items))
	for i, it := range c.Items {
		if it.ID == "" {
			return fmt.Errorf("checklist item %d has no id", i)
		}
		if seen[it.ID] {
			return fmt.Errorf("duplicate checklist item %q", it.ID)
		}
		seen[it.ID] = true
	}
	return nil
}

// majorWords returns the lowercased words of label longer than three
// characters.
func majorWords(label string) []string {
	var out []string
	for _, w := range strings.Fields(nonAlnumRe.ReplaceAllString(strings.ToLower(label), " ")) {
		if len(w) > 3 {
			out = append(out, w)
		}
	}
	return out
}

// MatchChecklistItems returns the ids of checklist items matched by text or
// by already-extracted materials, in configuration order. An item matches when
// any of these hold:
//   - a major word of its label appears in the text
//   - an associated material, or one of its aliases, appears in the text
//   - an extracted material name contains an associated material
func (c *Config) MatchChecklistItems(text string, materials []facts.MaterialItem) []string {
	lower := strings.ToLower(text)

	names := make([]string, 0, len(materials))
	for _, m := range materials {
		names = append(names, strings.ToLower(m.Name))
	}

	var ids []string
	seen := make(map[string]bool)
	for _, item := range c.Checklist.Items {
		if seen[item.ID] {
			continue
		}
		if c.itemMatches(item, lower, names) {
			seen[item.ID] = true
			ids = append(ids, item.ID)
		}
	}
	return ids
}

func (c *Config) itemMatches(item ChecklistItem, lowerText string, materialNames []string) bool {
	for _, w := range majorWords(item.Label) {
		if strings.Contains(lowerText, w) {
			return true
		}
	}

	for _, assoc := range item.AssociatedMaterials {
		assoc = strings.ToLower(strings.TrimSpace(assoc))
		if assoc == "" {
			continue
		}
		if strings.Contains(lowerText, assoc) {
			return true
		}
		for _, alias := range c.Checklist.MaterialAliases[assoc] {
			alias = strings.ToLower(strings.TrimSpace(alias))
			if alias != "" && strings.Contains(lowerText, alias) {
				return true
			}
		}
		for _, name := range materialNames {
			if strings.Contains(name, assoc) {
				return true
			}
		}
	}
	return false
}
