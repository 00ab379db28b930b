package extractors

import (
	"regexp"
	"strings"

	"github.com/dejo1307/rockymcp/internal/facts"
)

var (
	propertyTypeRe = regexp.MustCompile(`(?i)\b(semi[\s-]*detached|semi|end[\s-]+(?:of[\s-]+)?terraced?|mid[\s-]+terraced?|terraced?|detached|bungalow|flat|maisonette)\b`)
	bedroomsRe     = regexp.MustCompile(`(?i)\b(\d+)[\s-]*bed(?:room)?s?\b`)
	bathroomsRe    = regexp.MustCompile(`(?i)\b(\d+)[\s-]*bath(?:room)?s?\b`)
	yearBuiltRe    = regexp.MustCompile(`(?i)\bbuilt\s+(?:in\s+|around\s+|circa\s+|c\.?\s*)?((?:1[6-9]|20)\d{2})\b`)
	storeysRe      = regexp.MustCompile(`(?i)\b(\d+)[\s-]*(?:storeys?|story|stories|floors?)\b`)
)

// canonicalPropertyType maps the matched wording onto a fixed vocabulary.
func canonicalPropertyType(match string) string {
	m := collapseSpace(match)
	switch {
	case strings.HasPrefix(m, "semi"):
		return "semi-detached"
	case strings.HasPrefix(m, "end"):
		return "end-terrace"
	case strings.HasPrefix(m, "mid"), strings.HasPrefix(m, "terrace"):
		return "terraced"
	default:
		return m
	}
}

// Property extracts property type, bedrooms, bathrooms, year built and
// storeys.
type Property struct{}

func (Property) Name() string { return "property" }

func (Property) Extract(text string, into *facts.Data) {
	var p facts.Property
	found := false

	if m, ok := firstGroup(propertyTypeRe, text); ok {
		p.Type = facts.String(canonicalPropertyType(m))
		found = true
	}
	if n := firstInt(bedroomsRe, text); n != nil {
		p.Bedrooms = n
		found = true
	}
	if n := firstInt(bathroomsRe, text); n != nil {
		p.Bathrooms = n
		found = true
	}
	if n := firstInt(yearBuiltRe, text); n != nil {
		p.YearBuilt = n
		found = true
	}
	if n := firstInt(storeysRe, text); n != nil {
		p.Storeys = n
		found = true
	}

	if found {
		into.Property = &p
	}
}
