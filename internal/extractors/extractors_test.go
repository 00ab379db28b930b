package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dejo1307/rockymcp/internal/facts"
	"github.com/dejo1307/rockymcp/internal/normalize"
)

// --- helpers ---

func run(e Extractor, text string) facts.Data {
	var d facts.Data
	e.Extract(normalize.Normalize(text), &d)
	return d
}

func materialNames(items []facts.MaterialItem) []string {
	var names []string
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names
}

// --- measurements ---

func TestMeasurements_FirstPipeSizeWins(t *testing.T) {
	d := run(Measurements{}, "The system has 15mm and 22mm copper pipes.")
	require.NotNil(t, d.Measurements)
	require.NotNil(t, d.Measurements.PipeSize)
	assert.Equal(t, "15mm", *d.Measurements.PipeSize)
}

func TestMeasurements_AllFields(t *testing.T) {
	d := run(Measurements{}, "22 mm primaries, 9 radiators, 120 litre cylinder, 100 amp main fuse. Later 4 rads upstairs.")
	require.NotNil(t, d.Measurements)
	m := d.Measurements
	assert.Equal(t, "22mm", *m.PipeSize)
	assert.Equal(t, 9, *m.RadiatorCount)
	assert.Equal(t, 120, *m.CylinderCapacity)
	assert.Equal(t, 100, *m.MainFuseRating)
}

func TestMeasurements_Variants(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		check func(t *testing.T, m *facts.Measurements)
	}{
		{"rads abbreviation", "8 rads in total", func(t *testing.T, m *facts.Measurements) {
			assert.Equal(t, 8, *m.RadiatorCount)
		}},
		{"litre symbol", "210L cylinder in airing cupboard", func(t *testing.T, m *facts.Measurements) {
			assert.Equal(t, 210, *m.CylinderCapacity)
		}},
		{"tank wording", "old 90 liter tank in loft", func(t *testing.T, m *facts.Measurements) {
			assert.Equal(t, 90, *m.CylinderCapacity)
		}},
		{"amp supply", "80A supply", func(t *testing.T, m *facts.Measurements) {
			assert.Equal(t, 80, *m.MainFuseRating)
		}},
		{"amps fuse", "60 amps fuse", func(t *testing.T, m *facts.Measurements) {
			assert.Equal(t, 60, *m.MainFuseRating)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := run(Measurements{}, tt.text)
			require.NotNil(t, d.Measurements)
			tt.check(t, d.Measurements)
		})
	}
}

func TestMeasurements_NoMatchLeavesGroupNil(t *testing.T) {
	d := run(Measurements{}, "Customer was friendly, dog in the garden.")
	assert.Nil(t, d.Measurements)
}

// --- materials ---

func TestMaterials_QuantifiedAndUnquantified(t *testing.T) {
	d := run(Materials{}, "Need 2x boiler brackets? No, 1 x boiler, 6 radiators, inhibitor and a magnetic filter.")
	require.NotEmpty(t, d.Materials)

	byName := map[string]facts.MaterialItem{}
	for _, it := range d.Materials {
		byName[it.Name] = it
	}

	boiler := byName["boiler"]
	require.NotNil(t, boiler.Quantity)
	assert.Equal(t, 2, *boiler.Quantity, "first quantified mention wins")

	rad := byName["radiator"]
	require.NotNil(t, rad.Quantity)
	assert.Equal(t, 6, *rad.Quantity)

	assert.Nil(t, byName["inhibitor"].Quantity)
	assert.Contains(t, byName, "magnetic filter")
	assert.NotContains(t, byName, "cylinder")
}

func TestMaterials_DedupedByName(t *testing.T) {
	d := run(Materials{}, "boiler in kitchen, boiler flue outside, another boiler mention")
	assert.Equal(t, []string{"boiler"}, materialNames(d.Materials))
}

func TestMaterials_PipeWithSize(t *testing.T) {
	d := run(Materials{}, "The system has 15mm and 22mm copper pipes. 15 mm pipework to rads.")
	names := materialNames(d.Materials)
	assert.Contains(t, names, "22mm pipe")
	assert.Contains(t, names, "15mm pipe")
	assert.Equal(t, 1, countOf(names, "15mm pipe"))
}

func TestMaterials_KeywordOrder(t *testing.T) {
	d := run(Materials{}, "inhibitor, cylinder, radiator, boiler")
	assert.Equal(t, []string{"boiler", "radiator", "cylinder", "inhibitor"}, materialNames(d.Materials))
}

func countOf(ss []string, s string) int {
	n := 0
	for _, v := range ss {
		if v == s {
			n++
		}
	}
	return n
}

// --- hazards ---

func TestHazards_Severity(t *testing.T) {
	d := run(Hazards{}, "Warning: asbestos suspected in boiler cupboard. System condemned.")

	got := map[string]facts.Hazard{}
	for _, h := range d.Hazards {
		got[h.Type] = h
	}

	require.Contains(t, got, "asbestos")
	assert.Equal(t, facts.SeverityHigh, got["asbestos"].Severity)
	assert.Equal(t, facts.SeverityHigh, got["condemned"].Severity)
	assert.Equal(t, facts.SeverityLow, got["warning"].Severity)
	for _, h := range d.Hazards {
		assert.Equal(t, facts.HazardLocationSeeNotes, h.Location, "location must never be inferred")
	}
}

func TestHazards_MonkeyMuckFromTranscriptionError(t *testing.T) {
	d := run(Hazards{}, "I found monkey mock on the old pipes")
	require.Len(t, d.Hazards, 1)
	assert.Equal(t, "monkey muck", d.Hazards[0].Type)
	assert.Equal(t, facts.SeverityMedium, d.Hazards[0].Severity)
}

func TestHazards_WordBoundaries(t *testing.T) {
	d := run(Hazards{}, "The engineer leads the job; no risky work.")
	assert.Empty(t, d.Hazards)
}

func TestHazardSeverity(t *testing.T) {
	tests := map[string]string{
		"asbestos":    facts.SeverityHigh,
		"condemned":   facts.SeverityHigh,
		"dangerous":   facts.SeverityHigh,
		"warning":     facts.SeverityLow,
		"caution":     facts.SeverityLow,
		"lead":        facts.SeverityMedium,
		"monkey muck": facts.SeverityMedium,
		"risk":        facts.SeverityMedium,
	}
	for kw, want := range tests {
		if got := HazardSeverity(kw); got != want {
			t.Errorf("HazardSeverity(%q) = %q, want %q", kw, got, want)
		}
	}
}

// --- customer / property / existing system ---

func TestCustomer(t *testing.T) {
	d := run(Customer{}, "Customer is Mrs Patel, phone 07700 900123, email Jo.Patel@Example.co.uk, postcode LS6 2AB.")
	require.NotNil(t, d.Customer)
	assert.Equal(t, "Mrs Patel", *d.Customer.Name)
	assert.Equal(t, "07700 900123", *d.Customer.Phone)
	assert.Equal(t, "jo.patel@example.co.uk", *d.Customer.Email)
	assert.Equal(t, "LS6 2AB", *d.Customer.Postcode)
}

func TestCustomer_NothingFound(t *testing.T) {
	d := run(Customer{}, "15mm pipe to 6 rads")
	assert.Nil(t, d.Customer)
}

func TestProperty(t *testing.T) {
	tests := []struct {
		text     string
		wantType string
	}{
		{"3 bed semi", "semi-detached"},
		{"semi-detached house", "semi-detached"},
		{"end of terrace", "end-terrace"},
		{"mid terrace", "terraced"},
		{"Victorian terraced house", "terraced"},
		{"detached property", "detached"},
		{"ground floor flat", "flat"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			d := run(Property{}, tt.text)
			require.NotNil(t, d.Property)
			require.NotNil(t, d.Property.Type)
			assert.Equal(t, tt.wantType, *d.Property.Type)
		})
	}
}

func TestProperty_Counts(t *testing.T) {
	d := run(Property{}, "Detached, 4 bedroom, 2 bathrooms, built in 1965, 2 storey.")
	require.NotNil(t, d.Property)
	assert.Equal(t, 4, *d.Property.Bedrooms)
	assert.Equal(t, 2, *d.Property.Bathrooms)
	assert.Equal(t, 1965, *d.Property.YearBuilt)
	assert.Equal(t, 2, *d.Property.Storeys)
}

func TestExistingSystem(t *testing.T) {
	d := run(ExistingSystem{}, "Existing Worcester combination boiler, 15 years old, mains gas. Boiler is in the kitchen with a horizontal flue.")
	require.NotNil(t, d.ExistingSystem)
	s := d.ExistingSystem
	assert.Equal(t, "combi", *s.SystemType)
	assert.Equal(t, "Worcester Bosch", *s.BoilerMake)
	assert.Equal(t, 15, *s.BoilerAge)
	assert.Equal(t, "gas", *s.FuelType)
	assert.Equal(t, "kitchen", *s.BoilerLocation)
	assert.Equal(t, "horizontal", *s.FlueType)
}

func TestExistingSystem_Types(t *testing.T) {
	tests := map[string]string{
		"conventional boiler with tank": "regular",
		"system boiler and cylinder":    "system",
		"old back boiler behind fire":   "back boiler",
		"air source heat pump quote":    "heat pump",
		"customer has a combi":          "combi",
	}
	for text, want := range tests {
		t.Run(text, func(t *testing.T) {
			d := run(ExistingSystem{}, text)
			require.NotNil(t, d.ExistingSystem)
			require.NotNil(t, d.ExistingSystem.SystemType)
			assert.Equal(t, want, *d.ExistingSystem.SystemType)
		})
	}
}

func TestExistingSystem_EarliestMakeWins(t *testing.T) {
	d := run(ExistingSystem{}, "Old Baxi, quoting a Vaillant replacement")
	require.NotNil(t, d.ExistingSystem)
	assert.Equal(t, "Baxi", *d.ExistingSystem.BoilerMake)
}

func TestExistingSystem_IdealNeedsContext(t *testing.T) {
	d := run(ExistingSystem{}, "ideal spot for the cylinder")
	assert.Nil(t, d.ExistingSystem)

	d = run(ExistingSystem{}, "Ideal Logic installed")
	require.NotNil(t, d.ExistingSystem)
	assert.Equal(t, "Ideal", *d.ExistingSystem.BoilerMake)
}

// --- required actions ---

func TestRequiredActions(t *testing.T) {
	d := run(RequiredActions{}, "System needs a power flush. Gas pipe will need upgrading to 22mm. Customer wants to move the boiler to the loft.")
	var actions []string
	for _, a := range d.RequiredActions {
		actions = append(actions, a.Action)
	}
	assert.Equal(t, []string{"Power flush heating system", "Upgrade gas supply", "Relocate boiler"}, actions)
	assert.Equal(t, `Mentioned in notes: "power flush"`, d.RequiredActions[0].Reason)
	assert.Equal(t, facts.PriorityHigh, d.RequiredActions[1].Priority)
}

func TestRequiredActions_NoneMentioned(t *testing.T) {
	d := run(RequiredActions{}, "asbestos suspected")
	assert.Empty(t, d.RequiredActions)
}

// --- registry ---

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"customer", "property", "existingSystem", "measurements", "materials", "hazards", "requiredActions"}, r.Names())
	assert.NotNil(t, r.Get("hazards"))
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistryRun_EmptyText(t *testing.T) {
	d := Default().Run("")
	assert.Equal(t, facts.Data{}, d)
}
