package depot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dejo1307/rockymcp/internal/facts"
)

func sections(pairs ...string) *orderedmap.OrderedMap[string, string] {
	m := orderedmap.New[string, string]()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

func keys(m *orderedmap.OrderedMap[string, string]) []string {
	var out []string
	for p := m.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Flue & Ventilation", "flue_ventilation"},
		{"  Materials / Parts  ", "materials_parts"},
		{"__gas--supply__", "gas_supply"},
		{"Radiators & Pipework (upstairs)", "radiators_pipework_upstairs"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.in))
		})
	}
}

func TestResolve(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"boiler", "existing_system", true},
		{"Existing System", "existing_system", true},
		{"Flue", "flue_ventilation", true},
		{"Parts List", "materials_parts", true},
		{"office_notes", "office_notes", true},
		{"unknown_section", "", false},
		{"boilr", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := cfg.Resolve(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveAliasMissingFromSchema(t *testing.T) {
	cfg := NewConfig(Schema{Sections: []Section{{Key: "controls", Order: 1}}}, Checklist{})

	_, ok := cfg.Resolve("boiler")
	assert.False(t, ok)

	got, ok := cfg.Resolve("thermostat")
	assert.True(t, ok)
	assert.Equal(t, "controls", got)
}

func TestNormalizeSectionsFromModel(t *testing.T) {
	cfg := DefaultConfig()

	raw := sections(
		"Hazards", "Loft hatch is narrow",
		"Boiler", "Old back boiler",
		"Customer", "Mrs Jones, wants a combi",
		"Existing System", "Baxi combie, 15 mm feed",
		"Notes for Bob", "Call before arriving",
		"Office Notes", "   ",
	)

	notes := cfg.NormalizeSectionsFromModel(raw)

	assert.Equal(t, []string{"customer_summary", "existing_system", "hazards_access"}, keys(notes.Sections))

	v, _ := notes.Sections.Get("existing_system")
	assert.Equal(t, "Baxi combi, 15mm feed", v, "last value wins and is sanity checked")

	require.NotNil(t, notes.Unmapped)
	got, ok := notes.Unmapped.Get("Notes for Bob")
	assert.True(t, ok)
	assert.Equal(t, "Call before arriving", got)
	assert.Equal(t, 1, notes.Unmapped.Len())
}

func TestNormalizeSectionsFromModelNil(t *testing.T) {
	notes := DefaultConfig().NormalizeSectionsFromModel(nil)
	require.NotNil(t, notes.Sections)
	assert.Equal(t, 0, notes.Sections.Len())
	assert.Nil(t, notes.Unmapped)
}

func TestDepotNotesJSONKeepsSchemaOrder(t *testing.T) {
	cfg := DefaultConfig()
	notes := cfg.NormalizeSectionsFromModel(sections(
		"office", "Permit needed",
		"customer", "Mr Patel",
	))

	data, err := json.Marshal(notes)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sections":{"customer_summary":"Mr Patel","office_notes":"Permit needed"}}`, string(data))
	assert.Contains(t, string(data), `{"customer_summary":"Mr Patel","office_notes":"Permit needed"}`)
}

func TestMatchChecklistItemsNoDuplicates(t *testing.T) {
	cfg := DefaultConfig()

	ids := cfg.MatchChecklistItems("Install boiler and new boiler controls", []facts.MaterialItem{{Name: "boiler"}})

	count := 0
	for _, id := range ids {
		if id == "boiler_replacement" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Contains(t, ids, "controls_upgrade")
}

func TestMatchChecklistItemsRules(t *testing.T) {
	cfg := NewConfig(
		Schema{Sections: []Section{{Key: "materials_parts", Order: 1}}},
		Checklist{
			Items: []ChecklistItem{
				{ID: "filter", Label: "Fit filter", AssociatedMaterials: []string{"magnetic filter"}},
				{ID: "flush", Label: "Flush", AssociatedMaterials: []string{"inhibitor"}},
				{ID: "rads", Label: "Add rad", AssociatedMaterials: []string{"radiator"}},
			},
			MaterialAliases: map[string][]string{"inhibitor": {"x100"}},
		},
	)

	tests := []struct {
		name      string
		text      string
		materials []facts.MaterialItem
		want      []string
	}{
		{name: "label word", text: "We will fit a new FILTER", want: []string{"filter"}},
		{name: "short label words ignored", text: "add rad", want: nil},
		{name: "associated material in text", text: "dose with inhibitor", want: []string{"flush"}},
		{name: "alias in text", text: "add X100 after filling", want: []string{"flush"}},
		{name: "material name contains associated", text: "", materials: []facts.MaterialItem{{Name: "Double radiator 600x1000"}}, want: []string{"rads"}},
		{name: "config order", text: "inhibitor and a filter", want: []string{"filter", "flush"}},
		{name: "nothing", text: "survey complete", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.MatchChecklistItems(tt.text, tt.materials)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("MatchChecklistItems mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseMaterialsParts(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []facts.MaterialItem
	}{
		{
			name: "leading marker",
			in:   "2x Magnetic filter - 22mm",
			want: []facts.MaterialItem{{Name: "Magnetic filter", Quantity: facts.Int(2), Notes: "22mm"}},
		},
		{
			name: "trailing marker",
			in:   "- Radiator x3 - double panel",
			want: []facts.MaterialItem{{Name: "Radiator", Quantity: facts.Int(3), Notes: "double panel"}},
		},
		{
			name: "inline marker in details",
			in:   "Flue kit - horizontal, 1x extension",
			want: []facts.MaterialItem{{Name: "Flue kit", Quantity: facts.Int(1), Notes: "horizontal, 1x extension"}},
		},
		{
			name: "dimensions are not quantities",
			in:   "Radiator - 600 x 1000 double panel",
			want: []facts.MaterialItem{{Name: "Radiator", Notes: "600 x 1000 double panel"}},
		},
		{
			name: "model number next to a marker",
			in:   "Boiler - Vaillant 832 x 2",
			want: []facts.MaterialItem{{Name: "Boiler", Notes: "Vaillant 832 x 2"}},
		},
		{
			name: "three part dimensions",
			in:   "Cylinder - 1200x450x450mm",
			want: []facts.MaterialItem{{Name: "Cylinder", Notes: "1200x450x450mm"}},
		},
		{
			name: "qty wording with unit",
			in:   "Copper pipe - qty 10 m",
			want: []facts.MaterialItem{{Name: "Copper pipe", Quantity: facts.Int(10), Unit: "m", Notes: "qty 10 m"}},
		},
		{
			name: "no quantity",
			in:   "* Inhibitor",
			want: []facts.MaterialItem{{Name: "Inhibitor"}},
		},
		{
			name: "sanity checked and numbered bullets",
			in:   "1. 15 mm pipe - mag filter tails\n\n2) Combie boiler",
			want: []facts.MaterialItem{
				{Name: "15mm pipe", Notes: "magnetic filter tails"},
				{Name: "Combi boiler"},
			},
		},
		{
			name: "blank",
			in:   " \n\t\n",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMaterialsParts(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseMaterialsParts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProcess(t *testing.T) {
	cfg := DefaultConfig()

	raw := sections(
		"Customer", "Mrs Smith",
		"Boiler", "Ideal combi in kitchen",
		"Materials", "2x Magnetic filter - under boiler\nFlue kit - horizontal",
	)
	notes := cfg.Process(raw, "Fit a magnetic filter and add inhibitor.")

	var names []string
	for _, m := range notes.Materials {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Magnetic filter", "Flue kit", "inhibitor"}, names)

	assert.Contains(t, notes.ChecklistItems, "magnetic_filter")
	assert.Contains(t, notes.ChecklistItems, "flue_kit")
	assert.Contains(t, notes.ChecklistItems, "power_flush")
	assert.Contains(t, notes.ChecklistItems, "boiler_replacement")

	var missing []string
	for _, m := range notes.MissingInfo {
		missing = append(missing, m.Section)
		assert.Equal(t, facts.PriorityHigh, m.Priority)
		assert.NotEmpty(t, m.Question)
	}
	assert.Equal(t, []string{"proposed_location", "flue_ventilation", "gas_supply", "hazards_access"}, missing)
}

func TestProcessIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	raw := sections("gas", "22 mm run from meter", "hazards", "monkey mock on pipes")

	a, err := json.Marshal(cfg.Process(raw, "new thermostat"))
	require.NoError(t, err)
	b, err := json.Marshal(cfg.Process(raw, "new thermostat"))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Contains(t, string(a), "monkey muck")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Len(t, cfg.Schema.Sections, 15)
	assert.Equal(t, "customer_summary", cfg.Schema.Sections[0].Key)
	assert.Equal(t, "office_notes", cfg.Schema.Sections[14].Key)
	assert.NotEmpty(t, cfg.Checklist.Items)

	assert.True(t, cfg.Provenance.UsedFallback)
	assert.Equal(t, SourceEmbedded, cfg.Provenance.Schema.Source)
	assert.Equal(t, SourceEmbedded, cfg.Provenance.Checklist.Source)
	assert.Empty(t, cfg.Provenance.Warnings)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

const testSchema = `{"sections":[
	{"key":"survey","name":"Survey","description":"","order":2,"required":true},
	{"key":"intro","name":"Intro","description":"","order":1,"required":false}
]}`

const testChecklist = `{"checklist_items":[{"id":"only","label":"Only item","category":"x","associated_materials":[]}],"material_aliases":{}}`

func TestLoadConfigOverride(t *testing.T) {
	override := t.TempDir()
	writeFile(t, override, SchemaFile, testSchema)
	writeFile(t, override, ChecklistFile, testChecklist)

	cfg := LoadConfig(LoadOptions{OverrideDir: override})

	assert.Equal(t, []string{"intro", "survey"}, cfg.Schema.Keys())
	assert.Equal(t, SourceOverride, cfg.Provenance.Schema.Source)
	assert.Equal(t, filepath.Join(override, SchemaFile), cfg.Provenance.Schema.Path)
	assert.Equal(t, SourceOverride, cfg.Provenance.Checklist.Source)
	assert.False(t, cfg.Provenance.UsedFallback)
	assert.Empty(t, cfg.Provenance.Warnings)
}

func TestLoadConfigFallsBackPerFile(t *testing.T) {
	override := t.TempDir()
	install := t.TempDir()
	writeFile(t, override, SchemaFile, `{"sections": [`)
	writeFile(t, install, SchemaFile, testSchema)

	cfg := LoadConfig(LoadOptions{OverrideDir: override, InstallDir: install})

	assert.Equal(t, SourceInstall, cfg.Provenance.Schema.Source)
	assert.Equal(t, []string{"intro", "survey"}, cfg.Schema.Keys())

	assert.Equal(t, SourceEmbedded, cfg.Provenance.Checklist.Source)
	assert.True(t, cfg.Provenance.UsedFallback)
	assert.NotEmpty(t, cfg.Checklist.Items)

	require.NotEmpty(t, cfg.Provenance.Warnings)
	assert.Contains(t, cfg.Provenance.Warnings[0], filepath.Join(override, SchemaFile))
}

func TestLoadConfigInvalidFilesUseEmbedded(t *testing.T) {
	tests := []struct {
		name   string
		schema string
	}{
		{"empty sections", `{"sections":[]}`},
		{"duplicate keys", `{"sections":[{"key":"a","order":1},{"key":"a","order":2}]}`},
		{"unnormalized key", `{"sections":[{"key":"Flue & Ventilation","order":1}]}`},
		{"not json", `sections: []`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, SchemaFile, tt.schema)

			cfg := LoadConfig(LoadOptions{OverrideDir: dir})

			assert.Equal(t, SourceEmbedded, cfg.Provenance.Schema.Source)
			assert.Len(t, cfg.Schema.Sections, 15)
			assert.True(t, cfg.Provenance.UsedFallback)
		})
	}
}
