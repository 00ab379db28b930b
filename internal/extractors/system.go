package extractors

import (
	"regexp"

	"github.com/dejo1307/rockymcp/internal/facts"
)

var (
	systemTypeRe     = regexp.MustCompile(`(?i)\b(?:(combi|system|regular|back)\s+boiler|(combi)|(heat\s+pump|storage\s+heaters?))\b`)
	boilerAgeRe      = regexp.MustCompile(`(?i)\b(\d+)\s*(?:years?|yrs?)\s+old\b`)
	fuelTypeRe       = regexp.MustCompile(`(?i)\b(mains\s+gas|natural\s+gas|lpg|oil|gas|electric)\b`)
	boilerLocationRe = regexp.MustCompile(`(?i)\bboiler\s+(?:is\s+)?(?:(?:located|sited|situated|fitted)\s+)?in\s+the\s+(kitchen|utility(?:\s+room)?|loft|garage|airing\s+cupboard|cupboard|bathroom|bedroom|basement|cellar|hallway|landing)\b`)
	flueTypeRe       = regexp.MustCompile(`(?i)\b(balanced|open|fanned|horizontal|vertical|room[\s-]+sealed)\s+flue\b`)
)

// boilerMakes are matched case-insensitively; the earliest mention wins.
var boilerMakes = []struct {
	canonical string
	re        *regexp.Regexp
}{
	{"Worcester Bosch", regexp.MustCompile(`(?i)\bworcester(?:\s+bosch)?\b`)},
	{"Vaillant", regexp.MustCompile(`(?i)\bvaillant\b`)},
	{"Baxi", regexp.MustCompile(`(?i)\bbaxi\b`)},
	{"Ideal", regexp.MustCompile(`(?i)\bideal\s+(?:boiler|logic|vogue|independent|classic|combi|mexico)\b`)},
	{"Glow-worm", regexp.MustCompile(`(?i)\bglow[\s-]?worm\b`)},
	{"Viessmann", regexp.MustCompile(`(?i)\bviessmann\b`)},
	{"Potterton", regexp.MustCompile(`(?i)\bpotterton\b`)},
	{"Alpha", regexp.MustCompile(`(?i)\balpha\b`)},
	{"Ariston", regexp.MustCompile(`(?i)\bariston\b`)},
	{"Intergas", regexp.MustCompile(`(?i)\bintergas\b`)},
	{"Ferroli", regexp.MustCompile(`(?i)\bferroli\b`)},
	{"Keston", regexp.MustCompile(`(?i)\bkeston\b`)},
	{"Ravenheat", regexp.MustCompile(`(?i)\bravenheat\b`)},
}

func firstBoilerMake(text string) (string, bool) {
	best, bestAt := "", -1
	for _, bm := range boilerMakes {
		loc := bm.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if bestAt == -1 || loc[0] < bestAt {
			best, bestAt = bm.canonical, loc[0]
		}
	}
	return best, bestAt >= 0
}

func canonicalFuel(match string) string {
	switch m := collapseSpace(match); m {
	case "mains gas", "natural gas":
		return "gas"
	case "lpg":
		return "LPG"
	default:
		return m
	}
}

// ExistingSystem extracts the installed system: type, boiler make and age,
// fuel, boiler location and flue type.
type ExistingSystem struct{}

func (ExistingSystem) Name() string { return "existingSystem" }

func (ExistingSystem) Extract(text string, into *facts.Data) {
	var s facts.ExistingSystem
	found := false

	if m := systemTypeRe.FindStringSubmatch(text); m != nil {
		switch {
		case m[1] != "" && collapseSpace(m[1]) == "back":
			s.SystemType = facts.String("back boiler")
		case m[1] != "":
			s.SystemType = facts.String(collapseSpace(m[1]))
		case m[2] != "":
			s.SystemType = facts.String("combi")
		default:
			s.SystemType = facts.String(collapseSpace(m[3]))
		}
		found = true
	}
	if bm, ok := firstBoilerMake(text); ok {
		s.BoilerMake = facts.String(bm)
		found = true
	}
	if n := firstInt(boilerAgeRe, text); n != nil {
		s.BoilerAge = n
		found = true
	}
	if m, ok := firstGroup(fuelTypeRe, text); ok {
		s.FuelType = facts.String(canonicalFuel(m))
		found = true
	}
	if m, ok := firstGroup(boilerLocationRe, text); ok {
		s.BoilerLocation = facts.String(collapseSpace(m))
		found = true
	}
	if m, ok := firstGroup(flueTypeRe, text); ok {
		s.FlueType = facts.String(collapseSpace(m))
		found = true
	}

	if found {
		into.ExistingSystem = &s
	}
}
