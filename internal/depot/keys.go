package depot

import (
	"regexp"
	"strings"
)

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeKey lowercases and trims raw, collapses every run of
// non-alphanumeric characters to one underscore and strips leading and
// trailing underscores. "Flue & Ventilation" becomes "flue_ventilation".
func NormalizeKey(raw string) string {
	k := strings.ToLower(strings.TrimSpace(raw))
	k = nonAlnumRe.ReplaceAllString(k, "_")
	return strings.Trim(k, "_")
}

// sectionAliases maps normalized alternative names onto schema keys. Lookups
// are exact; there is no fuzzy matching beyond this table.
var sectionAliases = map[string]string{
	"customer":             "customer_summary",
	"customer_details":     "customer_summary",
	"customer_info":        "customer_summary",
	"property":             "property_details",
	"property_info":        "property_details",
	"house":                "property_details",
	"boiler":               "existing_system",
	"current_boiler":       "existing_system",
	"existing_boiler":      "existing_system",
	"current_system":       "existing_system",
	"heating_system":       "existing_system",
	"new_boiler_location":  "proposed_location",
	"boiler_position":      "proposed_location",
	"location":             "proposed_location",
	"flue":                 "flue_ventilation",
	"ventilation":          "flue_ventilation",
	"flue_and_ventilation": "flue_ventilation",
	"gas":                  "gas_supply",
	"gas_pipe":             "gas_supply",
	"gas_meter":            "gas_supply",
	"electrics":            "electrical",
	"electrical_supply":    "electrical",
	"fuse_board":           "electrical",
	"water":                "water_system",
	"water_pressure":       "water_system",
	"mains_water":          "water_system",
	"radiators":            "radiators_pipework",
	"pipework":             "radiators_pipework",
	"cylinder":             "cylinder_hot_water",
	"hot_water":            "cylinder_hot_water",
	"thermostat":           "controls",
	"heating_controls":     "controls",
	"materials":            "materials_parts",
	"parts":                "materials_parts",
	"parts_list":           "materials_parts",
	"materials_and_parts":  "materials_parts",
	"hazards":              "hazards_access",
	"access":               "hazards_access",
	"safety":               "hazards_access",
	"installation":         "installation_notes",
	"install_notes":        "installation_notes",
	"engineer_notes":       "installation_notes",
	"office":               "office_notes",
	"admin_notes":          "office_notes",
}

// ResolveCanonicalSectionName resolves input against the schema keys first,
// then the alias table. Aliases pointing at keys missing from schema do not
// resolve.
func ResolveCanonicalSectionName(schema Schema, aliases map[string]string, input string) (string, bool) {
	key := NormalizeKey(input)
	if key == "" {
		return "", false
	}
	if _, ok := schema.Section(key); ok {
		return key, true
	}
	if target, ok := aliases[key]; ok {
		if _, ok := schema.Section(target); ok {
			return target, true
		}
	}
	return "", false
}
