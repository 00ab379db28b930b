package completeness

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dejo1307/rockymcp/internal/facts"
)

func fullData() *facts.Data {
	return &facts.Data{
		Customer: &facts.Customer{
			Name:     facts.String("Mrs Patel"),
			Phone:    facts.String("07700 900123"),
			Email:    facts.String("jo@example.com"),
			Postcode: facts.String("LS6 2AB"),
		},
		Property: &facts.Property{
			Type:      facts.String("semi-detached"),
			Bedrooms:  facts.Int(3),
			Bathrooms: facts.Int(1),
			YearBuilt: facts.Int(1930),
			Storeys:   facts.Int(2),
		},
		ExistingSystem: &facts.ExistingSystem{
			SystemType:     facts.String("combi"),
			BoilerMake:     facts.String("Baxi"),
			BoilerAge:      facts.Int(12),
			FuelType:       facts.String("gas"),
			BoilerLocation: facts.String("kitchen"),
			FlueType:       facts.String("horizontal"),
		},
		Measurements: &facts.Measurements{
			PipeSize:         facts.String("15mm"),
			RadiatorCount:    facts.Int(8),
			CylinderCapacity: facts.Int(120),
			MainFuseRating:   facts.Int(100),
		},
	}
}

func TestEvaluate_Empty(t *testing.T) {
	r := Evaluate(&facts.Data{})
	assert.Equal(t, facts.Completeness{}, r.Completeness)
	assert.Equal(t, 0, r.Completeness.Overall)
	require.Len(t, r.MissingData, 5)
}

func TestEvaluate_Nil(t *testing.T) {
	r := Evaluate(nil)
	assert.Equal(t, 0, r.Completeness.Overall)
	assert.Len(t, r.MissingData, 5)
}

func TestEvaluate_Full(t *testing.T) {
	r := Evaluate(fullData())
	assert.Equal(t, facts.Completeness{
		CustomerInfo:    100,
		PropertyDetails: 100,
		ExistingSystem:  100,
		Measurements:    100,
		Overall:         100,
	}, r.Completeness)
	assert.NotNil(t, r.MissingData)
	assert.Empty(t, r.MissingData)
}

func TestEvaluate_PartialRounding(t *testing.T) {
	d := &facts.Data{
		// 1/6 = 16.67 -> 17
		ExistingSystem: &facts.ExistingSystem{SystemType: facts.String("combi")},
		// 1/4 = 25
		Measurements: &facts.Measurements{PipeSize: facts.String("15mm")},
		// 2/5 = 40
		Property: &facts.Property{Type: facts.String("flat"), Bedrooms: facts.Int(2)},
	}
	r := Evaluate(d)
	assert.Equal(t, 0, r.Completeness.CustomerInfo)
	assert.Equal(t, 40, r.Completeness.PropertyDetails)
	assert.Equal(t, 17, r.Completeness.ExistingSystem)
	assert.Equal(t, 25, r.Completeness.Measurements)
	// (0+40+17+25)/4 = 20.5 -> 21
	assert.Equal(t, 21, r.Completeness.Overall)
}

func TestEvaluate_BlankStringIsAbsent(t *testing.T) {
	d := &facts.Data{
		Property:     &facts.Property{Type: facts.String("  ")},
		Measurements: &facts.Measurements{PipeSize: facts.String("")},
	}
	r := Evaluate(d)
	assert.Equal(t, 0, r.Completeness.PropertyDetails)
	assert.Equal(t, 0, r.Completeness.Measurements)

	var fields []string
	for _, m := range r.MissingData {
		fields = append(fields, m.Category+"."+m.Field)
	}
	assert.Contains(t, fields, "property.type")
	assert.Contains(t, fields, "measurements.pipeSize")
}

func TestEvaluate_MissingDataOrder(t *testing.T) {
	r := Evaluate(&facts.Data{})
	assert.Equal(t, []facts.MissingDataItem{
		{Category: "property", Field: "type", Required: true},
		{Category: "existingSystem", Field: "systemType", Required: true},
		{Category: "measurements", Field: "pipeSize", Required: true},
		{Category: "existingSystem", Field: "boilerAge", Required: false},
		{Category: "measurements", Field: "mainFuseRating", Required: false},
	}, r.MissingData)
}

func TestEvaluate_OnlyImportantMissing(t *testing.T) {
	d := fullData()
	d.ExistingSystem.BoilerAge = nil
	r := Evaluate(d)
	require.Len(t, r.MissingData, 1)
	assert.Equal(t, facts.MissingDataItem{Category: "existingSystem", Field: "boilerAge"}, r.MissingData[0])
	assert.Equal(t, 83, r.Completeness.ExistingSystem)
}

// --- survey slots ---

func TestAnswer_ThreeWayState(t *testing.T) {
	var answers map[string]Answer
	err := json.Unmarshal([]byte(`{"boilerAge": null, "pipeSize": "15mm", "fuse": "", "blank": "   ", "radiators": 8, "hasLoft": false}`), &answers)
	require.NoError(t, err)

	tests := map[string]AnswerState{
		"boilerAge": Declined,
		"pipeSize":  Answered,
		"fuse":      Missing,
		"blank":     Missing,
		"radiators": Answered,
		"hasLoft":   Answered,
		"absent":    Missing,
	}
	for key, want := range tests {
		assert.Equal(t, want, answers[key].State, key)
	}
	assert.JSONEq(t, `"15mm"`, string(answers["pipeSize"].Value))
}

func TestAnswer_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(map[string]Answer{
		"a": {State: Answered, Value: json.RawMessage(`8`)},
		"b": {State: Declined},
		"c": {},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 8, "b": null, "c": null}`, string(b))
}

func TestSlotCompleteness(t *testing.T) {
	slots := []Slot{
		{Key: "propertyType", Required: true},
		{Key: "boilerAge", Required: true},
		{Key: "pipeSize", Required: true},
		{Key: "notes"},
	}
	var answers map[string]Answer
	require.NoError(t, json.Unmarshal([]byte(`{"propertyType": "flat", "boilerAge": null, "pipeSize": ""}`), &answers))

	r := SlotCompleteness(slots, answers)
	assert.Equal(t, 4, r.Total)
	assert.Equal(t, 2, r.Answered)
	assert.Equal(t, 1, r.Declined)
	assert.Equal(t, 50, r.Percent)
	assert.Equal(t, []string{"pipeSize", "notes"}, r.Unanswered)
	assert.Equal(t, []string{"pipeSize"}, r.MissingRequired)
}

func TestSlotCompleteness_NoSlots(t *testing.T) {
	r := SlotCompleteness(nil, nil)
	assert.Equal(t, SlotReport{}, r)
}
