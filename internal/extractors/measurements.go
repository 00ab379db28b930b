package extractors

import (
	"regexp"

	"github.com/dejo1307/rockymcp/internal/facts"
)

// Measurement patterns. Each takes the first match in the text only; later
// mentions are ignored rather than reconciled.
var (
	pipeSizeRe         = regexp.MustCompile(`\b(\d+mm)\b`)
	radiatorCountRe    = regexp.MustCompile(`(?i)\b(\d+)\s*(?:radiators?|rads?)\b`)
	cylinderCapacityRe = regexp.MustCompile(`(?i)\b(\d+)\s*(?:litres?|liters?|l)\s+(?:cylinder|tank)s?\b`)
	mainFuseRe         = regexp.MustCompile(`(?i)\b(\d+)\s*(?:amps?|a)\s+(?:main\s+)?(?:fuse|supply)\b`)
)

// Measurements extracts pipe size, radiator count, cylinder capacity and main
// fuse rating.
type Measurements struct{}

func (Measurements) Name() string { return "measurements" }

func (Measurements) Extract(text string, into *facts.Data) {
	var m facts.Measurements
	found := false

	if size, ok := firstGroup(pipeSizeRe, text); ok {
		m.PipeSize = &size
		found = true
	}
	if n := firstInt(radiatorCountRe, text); n != nil {
		m.RadiatorCount = n
		found = true
	}
	if n := firstInt(cylinderCapacityRe, text); n != nil {
		m.CylinderCapacity = n
		found = true
	}
	if n := firstInt(mainFuseRe, text); n != nil {
		m.MainFuseRating = n
		found = true
	}

	if found {
		into.Measurements = &m
	}
}
