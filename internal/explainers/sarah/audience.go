package sarah

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownAudience is returned for an audience outside the fixed set.
	ErrUnknownAudience = errors.New("unknown audience")
	// ErrUnknownTone is returned for a tone outside the fixed set.
	ErrUnknownTone = errors.New("unknown tone")
	// ErrNilFacts is returned when no Facts record is supplied.
	ErrNilFacts = errors.New("facts record is required")
)

// InputError reports a request value that cannot be rendered.
type InputError struct {
	Field string
	Value string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

// Unwrap returns the sentinel for errors.Is.
func (e *InputError) Unwrap() error {
	return e.Err
}

// Audience selects which template renders an explanation.
type Audience int

const (
	Customer Audience = iota + 1
	Engineer
	Surveyor
	Manager
	Admin
)

var audienceNames = map[Audience]string{
	Customer: "customer",
	Engineer: "engineer",
	Surveyor: "surveyor",
	Manager:  "manager",
	Admin:    "admin",
}

func (a Audience) String() string {
	if s, ok := audienceNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Audience(%d)", int(a))
}

// Audiences lists every audience in declaration order.
func Audiences() []Audience {
	return []Audience{Customer, Engineer, Surveyor, Manager, Admin}
}

// ParseAudience maps an exact lower-case name onto an Audience.
func ParseAudience(s string) (Audience, error) {
	for a, n := range audienceNames {
		if n == s {
			return a, nil
		}
	}
	return 0, &InputError{Field: "audience", Value: s, Err: ErrUnknownAudience}
}

// DefaultTone is the tone used when a request names none.
func (a Audience) DefaultTone() Tone {
	switch a {
	case Customer:
		return Friendly
	case Engineer:
		return Technical
	case Admin:
		return Simple
	default:
		return Professional
	}
}

// Tone changes headers and phrasing only; it never changes which facts are
// surfaced.
type Tone int

const (
	Professional Tone = iota + 1
	Friendly
	Technical
	Simple
	Urgent
)

var toneNames = map[Tone]string{
	Professional: "professional",
	Friendly:     "friendly",
	Technical:    "technical",
	Simple:       "simple",
	Urgent:       "urgent",
}

func (t Tone) String() string {
	if s, ok := toneNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Tone(%d)", int(t))
}

// ParseTone maps an exact lower-case name onto a Tone. An empty string
// returns 0, meaning the audience default applies.
func ParseTone(s string) (Tone, error) {
	if s == "" {
		return 0, nil
	}
	for t, n := range toneNames {
		if n == s {
			return t, nil
		}
	}
	return 0, &InputError{Field: "tone", Value: s, Err: ErrUnknownTone}
}
