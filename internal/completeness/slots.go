package completeness

import (
	"bytes"
	"encoding/json"
	"strings"
)

// AnswerState distinguishes a real answer, an explicit "don't know" and no
// answer at all.
type AnswerState int

const (
	// Missing means the key was absent, or the value was an empty or blank string.
	Missing AnswerState = iota
	// Declined means the value was an explicit null: a valid "don't know".
	Declined
	// Answered means a non-blank value was given.
	Answered
)

func (s AnswerState) String() string {
	switch s {
	case Answered:
		return "answered"
	case Declined:
		return "declined"
	default:
		return "missing"
	}
}

// Answer is one survey-slot answer decoded from JSON. The zero value is Missing,
// so a key absent from a decoded map reads as Missing.
type Answer struct {
	State AnswerState
	Value json.RawMessage
}

// UnmarshalJSON records whether the value was null, blank, or a real answer.
func (a *Answer) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if bytes.Equal(trimmed, []byte("null")) {
		*a = Answer{State: Declined}
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil && strings.TrimSpace(s) == "" {
		*a = Answer{State: Missing}
		return nil
	}

	a.State = Answered
	a.Value = append(a.Value[:0], trimmed...)
	return nil
}

// MarshalJSON writes declined and missing answers as null.
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.State != Answered || len(a.Value) == 0 {
		return []byte("null"), nil
	}
	return a.Value, nil
}

// IsAnswered reports whether the slot counts towards completeness. A declined
// answer counts; a missing one does not.
func (a Answer) IsAnswered() bool {
	return a.State == Answered || a.State == Declined
}

// Slot is one question on the survey form.
type Slot struct {
	Key      string `json:"key"`
	Label    string `json:"label,omitempty"`
	Required bool   `json:"required"`
}

// SlotReport summarises a set of answers against the survey slots.
type SlotReport struct {
	Total      int      `json:"total"`
	Answered   int      `json:"answered"`
	Declined   int      `json:"declined"`
	Percent    int      `json:"percent"`
	Unanswered []string `json:"unanswered,omitempty"`
	// MissingRequired lists required slot keys with no answer, in slot order.
	MissingRequired []string `json:"missingRequired,omitempty"`
}

// SlotCompleteness counts answered and declined slots as complete. Slot order
// is preserved in the unanswered lists.
func SlotCompleteness(slots []Slot, answers map[string]Answer) SlotReport {
	r := SlotReport{Total: len(slots)}
	for _, slot := range slots {
		a := answers[slot.Key]
		switch a.State {
		case Answered:
			r.Answered++
			continue
		case Declined:
			r.Answered++
			r.Declined++
			continue
		}
		r.Unanswered = append(r.Unanswered, slot.Key)
		if slot.Required {
			r.MissingRequired = append(r.MissingRequired, slot.Key)
		}
	}
	if r.Total > 0 {
		r.Percent = score(r.Answered, r.Total)
	}
	return r
}
