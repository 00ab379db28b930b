// Package notes derives the Automatic Notes and Engineer Basics views from a
// Facts record. Both are pure template fills: every value comes verbatim from
// Facts and absent fields read "Not recorded".
package notes

import (
	"fmt"
	"strconv"

	"github.com/dejo1307/rockymcp/internal/facts"
)

// NotRecorded is written for every absent field.
const NotRecorded = "Not recorded"

// Section titles, in output order.
const (
	SectionCustomer        = "Customer"
	SectionProperty        = "Property"
	SectionExistingSystem  = "Existing System"
	SectionMeasurements    = "Measurements"
	SectionMaterials       = "Materials"
	SectionHazards         = "Hazards"
	SectionRequiredActions = "Required Actions"
	SectionCompleteness    = "Completeness"
)

// AutomaticNotes fills the fixed section templates from f.
func AutomaticNotes(f *facts.Facts) facts.AutomaticNotes {
	d := f.Facts
	var (
		c = d.Customer
		p = d.Property
		s = d.ExistingSystem
		m = d.Measurements
	)
	if c == nil {
		c = &facts.Customer{}
	}
	if p == nil {
		p = &facts.Property{}
	}
	if s == nil {
		s = &facts.ExistingSystem{}
	}
	if m == nil {
		m = &facts.Measurements{}
	}

	sections := []facts.NoteSection{
		{Title: SectionCustomer, Lines: []string{
			line("Name", str(c.Name)),
			line("Phone", str(c.Phone)),
			line("Email", str(c.Email)),
			line("Postcode", str(c.Postcode)),
		}},
		{Title: SectionProperty, Lines: []string{
			line("Type", str(p.Type)),
			line("Bedrooms", num(p.Bedrooms, "")),
			line("Bathrooms", num(p.Bathrooms, "")),
			line("Year built", num(p.YearBuilt, "")),
			line("Storeys", num(p.Storeys, "")),
		}},
		{Title: SectionExistingSystem, Lines: []string{
			line("System type", str(s.SystemType)),
			line("Boiler make", str(s.BoilerMake)),
			line("Boiler age", num(s.BoilerAge, " years")),
			line("Fuel type", str(s.FuelType)),
			line("Boiler location", str(s.BoilerLocation)),
			line("Flue type", str(s.FlueType)),
		}},
		{Title: SectionMeasurements, Lines: []string{
			line("Pipe size", str(m.PipeSize)),
			line("Radiators", num(m.RadiatorCount, "")),
			line("Cylinder capacity", num(m.CylinderCapacity, " litres")),
			line("Main fuse", num(m.MainFuseRating, "A")),
		}},
		{Title: SectionMaterials, Lines: orNotRecorded(MaterialLines(d.Materials))},
		{Title: SectionHazards, Lines: orNotRecorded(hazardLines(d.Hazards))},
		{Title: SectionRequiredActions, Lines: orNotRecorded(actionLines(d.RequiredActions))},
		{Title: SectionCompleteness, Lines: completenessLines(f)},
	}

	return facts.AutomaticNotes{
		SessionID:         f.SessionID,
		RockyFactsVersion: f.Version,
		GeneratedAt:       f.ProcessedAt,
		Sections:          sections,
	}
}

// EngineerBasics projects f onto flat strings. Absent fields stay empty.
func EngineerBasics(f *facts.Facts) facts.EngineerBasics {
	d := f.Facts
	b := facts.EngineerBasics{
		SessionID:         f.SessionID,
		RockyFactsVersion: f.Version,
	}
	if c := d.Customer; c != nil {
		b.CustomerName = value(c.Name)
		b.Phone = value(c.Phone)
		b.Email = value(c.Email)
		b.Postcode = value(c.Postcode)
	}
	if p := d.Property; p != nil {
		b.PropertyType = value(p.Type)
		b.Bedrooms = intValue(p.Bedrooms)
		b.Bathrooms = intValue(p.Bathrooms)
		b.YearBuilt = intValue(p.YearBuilt)
		b.Storeys = intValue(p.Storeys)
	}
	if s := d.ExistingSystem; s != nil {
		b.SystemType = value(s.SystemType)
		b.BoilerMake = value(s.BoilerMake)
		b.BoilerAge = intValue(s.BoilerAge)
		b.FuelType = value(s.FuelType)
		b.BoilerLocation = value(s.BoilerLocation)
		b.FlueType = value(s.FlueType)
	}
	if m := d.Measurements; m != nil {
		b.PipeSize = value(m.PipeSize)
		b.RadiatorCount = intValue(m.RadiatorCount)
		b.CylinderCapacity = intValue(m.CylinderCapacity)
		b.MainFuseRating = intValue(m.MainFuseRating)
	}
	b.Materials = MaterialLines(d.Materials)
	for _, h := range d.Hazards {
		b.Hazards = append(b.Hazards, fmt.Sprintf("%s (%s)", h.Type, h.Severity))
	}
	for _, a := range d.RequiredActions {
		b.RequiredActions = append(b.RequiredActions, fmt.Sprintf("%s (%s)", a.Action, a.Priority))
	}
	return b
}

// MaterialLines flattens materials to "name (qty)", or "name" when no
// quantity was given.
func MaterialLines(items []facts.MaterialItem) []string {
	var out []string
	for _, it := range items {
		s := it.Name
		if it.Quantity != nil {
			s = fmt.Sprintf("%s (%d)", s, *it.Quantity)
		}
		out = append(out, s)
	}
	return out
}

func hazardLines(hs []facts.Hazard) []string {
	var out []string
	for _, h := range hs {
		out = append(out, fmt.Sprintf("%s: %s severity, location: %s", h.Type, h.Severity, h.Location))
	}
	return out
}

func actionLines(as []facts.RequiredAction) []string {
	var out []string
	for _, a := range as {
		out = append(out, fmt.Sprintf("%s [%s priority]: %s", a.Action, a.Priority, a.Reason))
	}
	return out
}

func completenessLines(f *facts.Facts) []string {
	c := f.Completeness
	lines := []string{
		fmt.Sprintf("Customer info: %d%%", c.CustomerInfo),
		fmt.Sprintf("Property details: %d%%", c.PropertyDetails),
		fmt.Sprintf("Existing system: %d%%", c.ExistingSystem),
		fmt.Sprintf("Measurements: %d%%", c.Measurements),
		fmt.Sprintf("Overall: %d%%", c.Overall),
	}
	for _, m := range f.MissingData {
		kind := "important"
		if m.Required {
			kind = "required"
		}
		lines = append(lines, fmt.Sprintf("Missing (%s): %s.%s", kind, m.Category, m.Field))
	}
	return lines
}

func line(label, v string) string {
	return label + ": " + v
}

func orNotRecorded(lines []string) []string {
	if len(lines) == 0 {
		return []string{NotRecorded}
	}
	return lines
}

func str(s *string) string {
	if v := value(s); v != "" {
		return v
	}
	return NotRecorded
}

func num(n *int, unit string) string {
	if n == nil {
		return NotRecorded
	}
	return strconv.Itoa(*n) + unit
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intValue(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
