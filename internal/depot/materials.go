package depot

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dejo1307/rockymcp/internal/facts"
	"github.com/dejo1307/rockymcp/internal/normalize"
)

var (
	bulletRe    = regexp.MustCompile(`^\s*(?:[-*•·]|\d+[.)])\s*`)
	separatorRe = regexp.MustCompile(`\s+[-–—]\s+`)
	// Explicit markers win over "qty" wording.
	leadingQtyRe  = regexp.MustCompile(`(?i)^(\d+)\s*x\s+`)
	trailingQtyRe = regexp.MustCompile(`(?i)\s+x\s*(\d+)$`)
	inlineQtyRe   = regexp.MustCompile(`(?i)\b(\d+)\s*x\b|\bx\s*(\d+)\b`)
	// Sizes such as "600 x 1000" or "832 x 2" are never read as quantities.
	dimensionRe = regexp.MustCompile(`(?i)\d+(?:\s*x\s*\d+)+`)
	qtyWordRe   = regexp.MustCompile(`(?i)\b(?:qty|quantity)\s*[:=]?\s*(\d+)(?:\s*(m|metres?|meters?|lengths?|packs?|boxes?|rolls?|bottles?)\b)?`)
)

// ParseMaterialsParts parses a materials_parts section written as one
// "Name - details" entry per line. Bullets are stripped and blank lines
// skipped. Quantity comes from an explicit "2x" or "x2" marker first, then
// from "qty 2".
func ParseMaterialsParts(text string) []facts.MaterialItem {
	var items []facts.MaterialItem
	for _, raw := range strings.Split(text, "\n") {
		line := bulletRe.ReplaceAllString(normalize.SanityCheck(raw), "")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		name, details := line, ""
		if loc := separatorRe.FindStringIndex(line); loc != nil {
			name, details = strings.TrimSpace(line[:loc[0]]), strings.TrimSpace(line[loc[1]:])
		}

		item := facts.MaterialItem{}
		switch {
		case leadingQtyRe.MatchString(name):
			m := leadingQtyRe.FindStringSubmatch(name)
			item.Quantity = atoi(m[1])
			name = strings.TrimSpace(name[len(m[0]):])
		case trailingQtyRe.MatchString(name):
			m := trailingQtyRe.FindStringSubmatch(name)
			item.Quantity = atoi(m[1])
			name = strings.TrimSpace(strings.TrimSuffix(name, m[0]))
		default:
			if m := inlineQtyRe.FindStringSubmatch(dimensionRe.ReplaceAllString(details, " ")); m != nil {
				item.Quantity = atoi(m[1] + m[2])
			} else if m := qtyWordRe.FindStringSubmatch(line); m != nil {
				item.Quantity = atoi(m[1])
				item.Unit = strings.ToLower(m[2])
			}
		}

		if name == "" {
			continue
		}
		item.Name = name
		item.Notes = details
		items = append(items, item)
	}
	return items
}

func atoi(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
