package extractors

import (
	"regexp"
	"strconv"

	"github.com/dejo1307/rockymcp/internal/facts"
)

// materialKeyword is a material name and the pattern matching its mentions.
type materialKeyword struct {
	name      string
	mentionRe *regexp.Regexp
	qtyRe     *regexp.Regexp // "<N> <keyword>" or "<N>x <keyword>"
}

func newMaterialKeyword(name, pattern string) materialKeyword {
	return materialKeyword{
		name:      name,
		mentionRe: regexp.MustCompile(`(?i)\b` + pattern + `\b`),
		qtyRe:     regexp.MustCompile(`(?i)\b(\d+)\s*x?\s*` + pattern + `\b`),
	}
}

var materialKeywords = []materialKeyword{
	newMaterialKeyword("boiler", `boilers?`),
	newMaterialKeyword("radiator", `(?:radiators?|rads?)`),
	newMaterialKeyword("cylinder", `cylinders?`),
	newMaterialKeyword("magnetic filter", `magnetic\s+filters?`),
	newMaterialKeyword("inhibitor", `inhibitors?`),
}

// pipeRe matches a pipe mention carrying its size, e.g. "22mm copper pipes".
var pipeRe = regexp.MustCompile(`(?i)\b(\d+)mm\s+(?:(?:copper|plastic|pex|microbore)\s+)?pip(?:e|es|ework)\b`)

// Materials extracts parts and materials from a fixed keyword list.
type Materials struct{}

func (Materials) Name() string { return "materials" }

func (Materials) Extract(text string, into *facts.Data) {
	var items []facts.MaterialItem

	for _, kw := range materialKeywords {
		quantified := kw.qtyRe.FindAllStringSubmatch(text, -1)
		if len(quantified) > 0 {
			for _, m := range quantified {
				qty, err := strconv.Atoi(m[1])
				if err != nil {
					continue
				}
				items = append(items, facts.MaterialItem{Name: kw.name, Quantity: &qty})
			}
			continue
		}
		if kw.mentionRe.MatchString(text) {
			items = append(items, facts.MaterialItem{Name: kw.name})
		}
	}

	for _, m := range pipeRe.FindAllStringSubmatch(text, -1) {
		items = append(items, facts.MaterialItem{Name: m[1] + "mm pipe"})
	}

	items = dedupeMaterials(items)
	if len(items) > 0 {
		into.Materials = items
	}
}

// dedupeMaterials keeps the first item for each name.
func dedupeMaterials(items []facts.MaterialItem) []facts.MaterialItem {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, it := range items {
		if seen[it.Name] {
			continue
		}
		seen[it.Name] = true
		out = append(out, it)
	}
	return out
}
