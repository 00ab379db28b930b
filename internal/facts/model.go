package facts

import "time"

// Version identifies the extraction schema. Every derivative artifact carries
// the Version of the Facts it was produced from.
const Version = "1.0.0"

// Facts is the canonical Rocky output for one transcript. It is produced once
// and never mutated; re-running extraction yields a new record.
type Facts struct {
	Version          string            `json:"version"`
	SessionID        string            `json:"sessionId"`
	ProcessedAt      time.Time         `json:"processedAt"`
	NaturalNotesHash string            `json:"naturalNotesHash"` // hex SHA-256 of the raw, unnormalized text
	Facts            Data              `json:"facts"`
	Completeness     Completeness      `json:"completeness"`
	MissingData      []MissingDataItem `json:"missingData"`
}

// Data holds the extracted groups. Each group is independently optional.
type Data struct {
	Customer        *Customer        `json:"customer,omitempty"`
	Property        *Property        `json:"property,omitempty"`
	ExistingSystem  *ExistingSystem  `json:"existingSystem,omitempty"`
	Measurements    *Measurements    `json:"measurements,omitempty"`
	Materials       []MaterialItem   `json:"materials,omitempty"`
	Hazards         []Hazard         `json:"hazards,omitempty"`
	RequiredActions []RequiredAction `json:"requiredActions,omitempty"`
}

// Customer contact details mentioned in the notes.
type Customer struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
	Postcode *string `json:"postcode,omitempty"`
}

// Property describes the building being surveyed.
type Property struct {
	Type      *string `json:"type,omitempty"`
	Bedrooms  *int    `json:"bedrooms,omitempty"`
	Bathrooms *int    `json:"bathrooms,omitempty"`
	YearBuilt *int    `json:"yearBuilt,omitempty"`
	Storeys   *int    `json:"storeys,omitempty"`
}

// ExistingSystem describes the heating system currently installed.
type ExistingSystem struct {
	SystemType     *string `json:"systemType,omitempty"`
	BoilerMake     *string `json:"boilerMake,omitempty"`
	BoilerAge      *int    `json:"boilerAge,omitempty"` // years
	FuelType       *string `json:"fuelType,omitempty"`
	BoilerLocation *string `json:"boilerLocation,omitempty"`
	FlueType       *string `json:"flueType,omitempty"`
}

// Measurements holds the first recorded value of each measurement.
type Measurements struct {
	PipeSize         *string `json:"pipeSize,omitempty"`         // e.g. "15mm"
	RadiatorCount    *int    `json:"radiatorCount,omitempty"`
	CylinderCapacity *int    `json:"cylinderCapacity,omitempty"` // litres
	MainFuseRating   *int    `json:"mainFuseRating,omitempty"`   // amps
}

// MaterialItem is a part or material mentioned in the notes.
type MaterialItem struct {
	Name     string `json:"name"`
	Quantity *int   `json:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Severity levels for hazards.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Priority levels for required actions and missing information.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// HazardLocationSeeNotes is the only location the hazard extractor assigns.
const HazardLocationSeeNotes = "See notes"

// Hazard is a safety concern found in the notes.
type Hazard struct {
	Type     string `json:"type"`
	Location string `json:"location"`
	Severity string `json:"severity"`
}

// RequiredAction is an action explicitly mentioned in the notes.
type RequiredAction struct {
	Action   string `json:"action"`
	Reason   string `json:"reason"`
	Priority string `json:"priority"`
}

// Completeness holds 0-100 scores per field group.
type Completeness struct {
	CustomerInfo    int `json:"customerInfo"`
	PropertyDetails int `json:"propertyDetails"`
	ExistingSystem  int `json:"existingSystem"`
	Measurements    int `json:"measurements"`
	Overall         int `json:"overall"`
}

// MissingDataItem flags a field absent from Facts.
type MissingDataItem struct {
	Category string `json:"category"`
	Field    string `json:"field"`
	Required bool   `json:"required"`
}

// AutomaticNotes is a formatted view of a Facts record.
type AutomaticNotes struct {
	SessionID         string        `json:"sessionId"`
	RockyFactsVersion string        `json:"rockyFactsVersion"`
	GeneratedAt       time.Time     `json:"generatedAt"`
	Sections          []NoteSection `json:"sections"`
}

// NoteSection is one titled block of AutomaticNotes.
type NoteSection struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

// EngineerBasics is a flat key-value projection of a Facts record.
// Absent fields are omitted.
type EngineerBasics struct {
	SessionID         string   `json:"sessionId"`
	RockyFactsVersion string   `json:"rockyFactsVersion"`
	CustomerName      string   `json:"customerName,omitempty"`
	Phone             string   `json:"phone,omitempty"`
	Email             string   `json:"email,omitempty"`
	Postcode          string   `json:"postcode,omitempty"`
	PropertyType      string   `json:"propertyType,omitempty"`
	Bedrooms          string   `json:"bedrooms,omitempty"`
	Bathrooms         string   `json:"bathrooms,omitempty"`
	YearBuilt         string   `json:"yearBuilt,omitempty"`
	Storeys           string   `json:"storeys,omitempty"`
	SystemType        string   `json:"systemType,omitempty"`
	BoilerMake        string   `json:"boilerMake,omitempty"`
	BoilerAge         string   `json:"boilerAge,omitempty"`
	FuelType          string   `json:"fuelType,omitempty"`
	BoilerLocation    string   `json:"boilerLocation,omitempty"`
	FlueType          string   `json:"flueType,omitempty"`
	PipeSize          string   `json:"pipeSize,omitempty"`
	RadiatorCount     string   `json:"radiatorCount,omitempty"`
	CylinderCapacity  string   `json:"cylinderCapacity,omitempty"`
	MainFuseRating    string   `json:"mainFuseRating,omitempty"`
	Materials         []string `json:"materials,omitempty"`
	Hazards           []string `json:"hazards,omitempty"`
	RequiredActions   []string `json:"requiredActions,omitempty"`
}

// Explanation is Sarah's audience-specific rendering of a Facts record.
type Explanation struct {
	Audience          string               `json:"audience"`
	Tone              string               `json:"tone"`
	GeneratedAt       time.Time            `json:"generatedAt"`
	RockyFactsVersion string               `json:"rockyFactsVersion"`
	Sections          []ExplanationSection `json:"sections"`
	Disclaimer        string               `json:"disclaimer"`
}

// ExplanationSection is one named prose block.
type ExplanationSection struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// MissingInfoItem is a question raised for an absent Depot section.
type MissingInfoItem struct {
	Section  string `json:"section"`
	Question string `json:"question"`
	Priority string `json:"priority"`
}

// Artifact is a rendered output document.
type Artifact struct {
	Name    string `json:"name"`    // e.g. "survey.md"
	Content []byte `json:"-"`       // Raw content
	Type    string `json:"type"`    // MIME type hint
}

// String returns a pointer to s. Used by extractors and tests.
func String(s string) *string { return &s }

// Int returns a pointer to n.
func Int(n int) *int { return &n }
