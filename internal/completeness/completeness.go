// Package completeness scores extracted facts against the fixed field groups
// and flags survey-blocking gaps.
package completeness

import (
	"math"
	"strings"

	"github.com/dejo1307/rockymcp/internal/facts"
)

// Group sizes, one per scored category.
const (
	customerFields       = 4
	propertyFields       = 5
	existingSystemFields = 6
	measurementFields    = 4
)

// Result is the evaluator output.
type Result struct {
	Completeness facts.Completeness
	MissingData  []facts.MissingDataItem
}

// Evaluate scores data and lists the missing required and important fields.
// A nil data is treated as empty.
func Evaluate(data *facts.Data) Result {
	if data == nil {
		data = &facts.Data{}
	}

	c := facts.Completeness{
		CustomerInfo:    score(countCustomer(data.Customer), customerFields),
		PropertyDetails: score(countProperty(data.Property), propertyFields),
		ExistingSystem:  score(countExistingSystem(data.ExistingSystem), existingSystemFields),
		Measurements:    score(countMeasurements(data.Measurements), measurementFields),
	}
	c.Overall = int(math.Round(float64(c.CustomerInfo+c.PropertyDetails+c.ExistingSystem+c.Measurements) / 4))

	return Result{Completeness: c, MissingData: missing(data)}
}

func score(present, total int) int {
	return int(math.Round(100 * float64(present) / float64(total)))
}

// checkedField is one entry of the fixed missing-data list.
type checkedField struct {
	category string
	field    string
	required bool
	present  func(*facts.Data) bool
}

// checkedFields is ordered: required first, then important.
var checkedFields = []checkedField{
	{"property", "type", true, func(d *facts.Data) bool {
		return d.Property != nil && hasString(d.Property.Type)
	}},
	{"existingSystem", "systemType", true, func(d *facts.Data) bool {
		return d.ExistingSystem != nil && hasString(d.ExistingSystem.SystemType)
	}},
	{"measurements", "pipeSize", true, func(d *facts.Data) bool {
		return d.Measurements != nil && hasString(d.Measurements.PipeSize)
	}},
	{"existingSystem", "boilerAge", false, func(d *facts.Data) bool {
		return d.ExistingSystem != nil && d.ExistingSystem.BoilerAge != nil
	}},
	{"measurements", "mainFuseRating", false, func(d *facts.Data) bool {
		return d.Measurements != nil && d.Measurements.MainFuseRating != nil
	}},
}

func missing(data *facts.Data) []facts.MissingDataItem {
	out := []facts.MissingDataItem{}
	for _, f := range checkedFields {
		if f.present(data) {
			continue
		}
		out = append(out, facts.MissingDataItem{
			Category: f.category,
			Field:    f.field,
			Required: f.required,
		})
	}
	return out
}

// hasString is the presence predicate for string fields: set and not blank.
func hasString(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func hasInt(n *int) bool { return n != nil }

func count(present ...bool) int {
	n := 0
	for _, p := range present {
		if p {
			n++
		}
	}
	return n
}

func countCustomer(c *facts.Customer) int {
	if c == nil {
		return 0
	}
	return count(hasString(c.Name), hasString(c.Phone), hasString(c.Email), hasString(c.Postcode))
}

func countProperty(p *facts.Property) int {
	if p == nil {
		return 0
	}
	return count(hasString(p.Type), hasInt(p.Bedrooms), hasInt(p.Bathrooms), hasInt(p.YearBuilt), hasInt(p.Storeys))
}

func countExistingSystem(s *facts.ExistingSystem) int {
	if s == nil {
		return 0
	}
	return count(
		hasString(s.SystemType),
		hasString(s.BoilerMake),
		hasInt(s.BoilerAge),
		hasString(s.FuelType),
		hasString(s.BoilerLocation),
		hasString(s.FlueType),
	)
}

func countMeasurements(m *facts.Measurements) int {
	if m == nil {
		return 0
	}
	return count(hasString(m.PipeSize), hasInt(m.RadiatorCount), hasInt(m.CylinderCapacity), hasInt(m.MainFuseRating))
}
